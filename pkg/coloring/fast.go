package coloring

import (
	"cmp"

	"github.com/matzehuels/colorgraph/pkg/graph"
)

// Fast is the greedy colorer. For each color value, starting at 0, it sweeps
// the uncolored nodes in order and paints every node that has no neighbor
// holding that color yet.
type Fast[T cmp.Ordered] struct{}

func (Fast[T]) ID() string   { return IDFast }
func (Fast[T]) Name() string { return "Fast" }
func (Fast[T]) Description() string {
	return "Selects a color and, starting from the first node it finds, paints all the nodes it can with that color."
}

func (Fast[T]) Reset(g *graph.Graph[T]) { reset(g) }

func (Fast[T]) Color(g *graph.Graph[T]) {
	nodes := g.Nodes()
	colored := 0
	for _, n := range nodes {
		if n.IsColored() {
			colored++
		}
	}

	// A node skipped by a sweep has a neighbor holding color; another sweep
	// at the same color would assign nothing.
	for color := 0; colored < len(nodes); color++ {
		for _, n := range nodes {
			if n.IsColored() || hasNeighborColored(g, n, color) {
				continue
			}
			n.Color = color
			colored++
		}
	}
}

func hasNeighborColored[T cmp.Ordered](g *graph.Graph[T], n *graph.Node[T], color int) bool {
	for _, v := range n.Neighbors() {
		if nb, ok := g.Node(v); ok && nb.Color == color {
			return true
		}
	}
	return false
}
