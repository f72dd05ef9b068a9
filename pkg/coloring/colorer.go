package coloring

import (
	"cmp"
	"context"
	"strings"
	"time"

	"github.com/matzehuels/colorgraph/pkg/errors"
	"github.com/matzehuels/colorgraph/pkg/graph"
	"github.com/matzehuels/colorgraph/pkg/observability"
)

// Colorer colors a graph in place.
type Colorer[T cmp.Ordered] interface {
	// ID is the short identifier used on the command line and in the API.
	ID() string
	// Name is the human-readable strategy name.
	Name() string
	// Description explains the strategy in one sentence.
	Description() string
	// Color assigns a color to every node of g.
	Color(g *graph.Graph[T])
	// Reset sets every node of g back to graph.Uncolored.
	Reset(g *graph.Graph[T])
}

// Strategy ids.
const (
	IDFast = "fast"
	IDRLF  = "rlf"
	IDRSF  = "rsf"
)

// All returns every colorer in registry order: Fast, RLF, RSF.
func All[T cmp.Ordered]() []Colorer[T] {
	return []Colorer[T]{Fast[T]{}, RLF[T]{}, RSF[T]{}}
}

// IDs returns the ids of all colorers in registry order.
func IDs() []string {
	return []string{IDFast, IDRLF, IDRSF}
}

// Lookup returns the colorer whose id or name matches name, ignoring case.
func Lookup[T cmp.Ordered](name string) (Colorer[T], error) {
	for _, c := range All[T]() {
		if strings.EqualFold(name, c.ID()) || strings.EqualFold(name, c.Name()) {
			return c, nil
		}
	}
	return nil, errors.New(errors.ErrCodeInvalidColorer,
		"unknown colorer %q (available: %s)", name, strings.Join(IDs(), ", "))
}

// Result summarizes one coloring run.
type Result struct {
	Colorer  string
	Nodes    int
	Colors   int
	Duration time.Duration
}

// Run resets g, colors it with c, and reports the outcome to the registered
// observability hooks.
func Run[T cmp.Ordered](ctx context.Context, c Colorer[T], g *graph.Graph[T]) Result {
	hooks := observability.Coloring()
	hooks.OnColorStart(ctx, c.ID(), g.Len())

	start := time.Now()
	c.Reset(g)
	c.Color(g)
	res := Result{
		Colorer:  c.ID(),
		Nodes:    g.Len(),
		Colors:   CountColors(g),
		Duration: time.Since(start),
	}

	hooks.OnColorComplete(ctx, c.ID(), res.Nodes, res.Colors, res.Duration)
	return res
}

// CountColors returns the number of distinct color classes in g, ignoring
// uncolored nodes.
func CountColors[T cmp.Ordered](g *graph.Graph[T]) int {
	seen := make(map[int]struct{})
	for _, n := range g.Nodes() {
		if n.IsColored() {
			seen[n.Color] = struct{}{}
		}
	}
	return len(seen)
}

// Valid reports whether every node is colored and no two distinct neighbors
// share a color.
func Valid[T cmp.Ordered](g *graph.Graph[T]) bool {
	for _, n := range g.Nodes() {
		if !n.IsColored() {
			return false
		}
		for _, v := range n.Neighbors() {
			if v == n.Value() {
				continue
			}
			if nb, ok := g.Node(v); ok && nb.Color == n.Color {
				return false
			}
		}
	}
	return true
}

func reset[T cmp.Ordered](g *graph.Graph[T]) {
	g.ResetColors()
}
