package coloring

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/colorgraph/pkg/errors"
	"github.com/matzehuels/colorgraph/pkg/graph"
)

func cycle(n int) *graph.Graph[int] {
	g := graph.NewColored[int]()
	for i := 0; i < n; i++ {
		g.AddWithNeighbors(i, (i+1)%n)
	}
	return g
}

func complete(n int) *graph.Graph[int] {
	g := graph.NewColored[int]()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			g.AddWithNeighbors(i, j)
		}
	}
	return g
}

func randomGraph(seed uint64, nodes int) *graph.Graph[int] {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	g := graph.NewColored[int]()
	for i := 0; i < nodes; i++ {
		g.Add(i)
		for k := rng.IntN(4); k > 0; k-- {
			if j := rng.IntN(nodes); j != i {
				g.AddWithNeighbors(i, j)
			}
		}
	}
	return g
}

func colors(g *graph.Graph[int]) []int {
	var out []int
	for _, n := range g.Nodes() {
		out = append(out, n.Color)
	}
	return out
}

func TestRegistry(t *testing.T) {
	all := All[int]()
	require.Len(t, all, 3)

	names := []string{"Fast", "Recursive Largest First", "Recursive Smallest First"}
	for i, c := range all {
		assert.Equal(t, names[i], c.Name())
		assert.Equal(t, IDs()[i], c.ID())
		assert.NotEmpty(t, c.Description())
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name    string
		wantID  string
		wantErr bool
	}{
		{"fast", IDFast, false},
		{"RLF", IDRLF, false},
		{"Recursive Smallest First", IDRSF, false},
		{"dsatur", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Lookup[int](tt.name)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errors.ErrCodeInvalidColorer))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, c.ID())
		})
	}
}

func TestColoringIsValid(t *testing.T) {
	graphs := map[string]*graph.Graph[int]{
		"cycle5":    cycle(5),
		"cycle6":    cycle(6),
		"complete6": complete(6),
		"random":    randomGraph(3, 60),
		"random2":   randomGraph(42, 200),
	}
	for _, c := range All[int]() {
		for name, g := range graphs {
			t.Run(c.ID()+"/"+name, func(t *testing.T) {
				g := g.Clone()
				c.Color(g)
				assert.True(t, Valid(g), "invalid coloring:\n%s", g)
				for _, n := range g.Nodes() {
					assert.GreaterOrEqual(t, n.Color, 0)
				}
			})
		}
	}
}

func TestEmptyGraph(t *testing.T) {
	for _, c := range All[int]() {
		g := graph.NewColored[int]()
		c.Color(g)
		assert.Zero(t, CountColors(g), c.ID())
	}
}

func TestEdgelessGraphUsesOneColor(t *testing.T) {
	for _, c := range All[int]() {
		g := graph.NewColored[int]()
		for i := 0; i < 8; i++ {
			g.Add(i)
		}
		c.Color(g)
		assert.Equal(t, []int{0, 0, 0, 0, 0, 0, 0, 0}, colors(g), c.ID())
	}
}

func TestCompleteGraphUsesDistinctColors(t *testing.T) {
	for _, c := range All[int]() {
		g := complete(7)
		c.Color(g)
		assert.Equal(t, 7, CountColors(g), c.ID())
	}
}

func TestFiveCycle(t *testing.T) {
	g := cycle(5)
	Fast[int]{}.Color(g)
	assert.LessOrEqual(t, CountColors(g), 3)
	assert.Equal(t, []int{0, 1, 0, 1, 2}, colors(g))

	for _, c := range []Colorer[int]{RLF[int]{}, RSF[int]{}} {
		g := cycle(5)
		c.Color(g)
		assert.Equal(t, 3, CountColors(g), c.ID())
	}

	g = cycle(6)
	RLF[int]{}.Color(g)
	assert.Equal(t, 2, CountColors(g))

	// RSF defers 2 and 5 behind the isolated picks and needs a third color.
	g = cycle(6)
	RSF[int]{}.Color(g)
	assert.Equal(t, []int{0, 1, 2, 0, 1, 2}, colors(g))
}

func TestRLFPicksLargestRelativeDegree(t *testing.T) {
	// 0 is isolated; 1-2 is an edge. RLF starts with 1 (first node with
	// degree 1 against the working set), RSF starts with 0.
	g := graph.NewColored[int]()
	g.Add(0)
	g.AddWithNeighbors(1, 2)

	RLF[int]{}.Color(g)
	assert.Equal(t, []int{0, 0, 1}, colors(g))

	RSF[int]{}.Reset(g)
	RSF[int]{}.Color(g)
	assert.Equal(t, []int{0, 0, 1}, colors(g))
}

func TestDisconnectedComponentsRestartColors(t *testing.T) {
	g := graph.NewColored[int]()
	g.AddWithNeighbors(0, 1)
	g.AddWithNeighbors(10, 11)

	for _, c := range All[int]() {
		c.Reset(g)
		c.Color(g)
		assert.True(t, Valid(g), c.ID())
		assert.Equal(t, 2, CountColors(g), c.ID())
	}
}

func TestResetIsIdempotent(t *testing.T) {
	for _, c := range All[int]() {
		g := randomGraph(9, 30)
		c.Color(g)
		c.Reset(g)
		c.Reset(g)
		for _, n := range g.Nodes() {
			assert.Equal(t, graph.Uncolored, n.Color)
		}
	}
}

func TestRun(t *testing.T) {
	g := cycle(4)
	res := Run[int](context.Background(), RLF[int]{}, g)

	assert.Equal(t, IDRLF, res.Colorer)
	assert.Equal(t, 4, res.Nodes)
	assert.Equal(t, 2, res.Colors)
	assert.True(t, Valid(g))
}

func TestDeterministic(t *testing.T) {
	for _, c := range All[int]() {
		a, b := randomGraph(5, 80), randomGraph(5, 80)
		c.Color(a)
		c.Color(b)
		assert.Equal(t, colors(a), colors(b), c.ID())
	}
}
