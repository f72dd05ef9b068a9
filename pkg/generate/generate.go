// Package generate builds graphs for demos, benchmarks and tests.
//
// [Random] reproduces the interactive "generate" action: it clears the graph
// and adds nodes 1..n, linking each to a random-sized random subset of the
// others. Because every link is symmetric, a node usually ends up with more
// neighbors than it picked itself.
package generate

import (
	"math/rand/v2"

	"github.com/matzehuels/colorgraph/pkg/errors"
	"github.com/matzehuels/colorgraph/pkg/graph"
)

// Defaults used by the CLI and the configuration layer.
const (
	DefaultNodes        = 10
	DefaultMinNeighbors = 0
	DefaultMaxNeighbors = 2
)

// Random clears g and fills it with nodes 1..nodes. Node i picks k other
// nodes uniformly, with k uniform in [lo, hi].
func Random(g *graph.Graph[int], nodes, lo, hi int, rng *rand.Rand) error {
	if err := errors.ValidateNeighborRange(nodes, lo, hi); err != nil {
		return err
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	g.Clear()
	others := make([]int, 0, nodes)
	for i := 1; i <= nodes; i++ {
		others = others[:0]
		for j := 1; j <= nodes; j++ {
			if j != i {
				others = append(others, j)
			}
		}
		rng.Shuffle(len(others), func(a, b int) { others[a], others[b] = others[b], others[a] })
		k := lo + rng.IntN(hi-lo+1)
		g.AddWithNeighbors(i, others[:k]...)
	}
	return nil
}

// Cycle clears g and builds the cycle 0-1-...-(n-1)-0. For n < 3 it builds a
// path.
func Cycle(g *graph.Graph[int], n int) {
	Path(g, n)
	if n >= 3 {
		g.AddWithNeighbors(n-1, 0)
	}
}

// Path clears g and builds the path 0-1-...-(n-1).
func Path(g *graph.Graph[int], n int) {
	g.Clear()
	for i := 0; i < n; i++ {
		g.Add(i)
		if i > 0 {
			g.AddWithNeighbors(i-1, i)
		}
	}
}

// Complete clears g and links every pair of the nodes 0..n-1.
func Complete(g *graph.Graph[int], n int) {
	g.Clear()
	for i := 0; i < n; i++ {
		g.Add(i)
		for j := 0; j < i; j++ {
			g.AddWithNeighbors(i, j)
		}
	}
}

// NextInt returns an item producer that mints the successor of the greatest
// value in g, or 0 for an empty graph.
func NextInt(g *graph.Graph[int]) func() int {
	return func() int {
		last, ok := g.Last()
		if !ok {
			return 0
		}
		return last + 1
	}
}
