package generate

import (
	"math/rand/v2"
	"testing"

	"github.com/matzehuels/colorgraph/pkg/errors"
	"github.com/matzehuels/colorgraph/pkg/graph"
)

func TestRandom(t *testing.T) {
	tests := []struct {
		name   string
		nodes  int
		lo, hi int
	}{
		{"defaults", DefaultNodes, DefaultMinNeighbors, DefaultMaxNeighbors},
		{"dense", 30, 5, 10},
		{"edgeless", 8, 0, 0},
		{"empty", 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := graph.NewColored[int]()
			g.Add(999)
			rng := rand.New(rand.NewPCG(1, 2))
			if err := Random(g, tt.nodes, tt.lo, tt.hi, rng); err != nil {
				t.Fatalf("Random() error = %v", err)
			}
			if g.Len() != tt.nodes {
				t.Errorf("Len() = %d, want %d", g.Len(), tt.nodes)
			}
			if g.Contains(999) {
				t.Error("Random() should clear the graph first")
			}
			if err := g.Validate(); err != nil {
				t.Errorf("Validate() = %v", err)
			}
			for _, n := range g.Nodes() {
				if n.HasNeighbor(n.Value()) {
					t.Errorf("node %d has a self-loop", n.Value())
				}
				if n.Degree() < tt.lo {
					t.Errorf("node %d degree %d < %d", n.Value(), n.Degree(), tt.lo)
				}
			}
			if tt.hi == 0 && g.EdgeCount() != 0 {
				t.Errorf("EdgeCount() = %d, want 0", g.EdgeCount())
			}
		})
	}
}

func TestRandomIsReproducible(t *testing.T) {
	a, b := graph.New[int](), graph.New[int]()
	_ = Random(a, 40, 1, 4, rand.New(rand.NewPCG(9, 9)))
	_ = Random(b, 40, 1, 4, rand.New(rand.NewPCG(9, 9)))
	if a.String() != b.String() {
		t.Error("same seed produced different graphs")
	}
}

func TestRandomRejectsBadRange(t *testing.T) {
	err := Random(graph.New[int](), 5, 3, 1, nil)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Random() error = %v, want %v", err, errors.ErrCodeInvalidInput)
	}
}

func TestShapes(t *testing.T) {
	g := graph.New[int]()

	Cycle(g, 5)
	if g.Len() != 5 || g.EdgeCount() != 5 {
		t.Errorf("Cycle(5): %d nodes, %d edges", g.Len(), g.EdgeCount())
	}

	Path(g, 4)
	if g.Len() != 4 || g.EdgeCount() != 3 {
		t.Errorf("Path(4): %d nodes, %d edges", g.Len(), g.EdgeCount())
	}

	Complete(g, 6)
	if g.Len() != 6 || g.EdgeCount() != 15 {
		t.Errorf("Complete(6): %d nodes, %d edges", g.Len(), g.EdgeCount())
	}

	Cycle(g, 2)
	if g.EdgeCount() != 1 {
		t.Errorf("Cycle(2): %d edges, want 1", g.EdgeCount())
	}
}

func TestNextInt(t *testing.T) {
	g := graph.New[int]()
	next := NextInt(g)
	if got := next(); got != 0 {
		t.Errorf("next() on empty graph = %d, want 0", got)
	}
	g.Add(4)
	g.Add(2)
	if got := next(); got != 5 {
		t.Errorf("next() = %d, want 5", got)
	}
}
