package coloring

import (
	"cmp"

	"github.com/matzehuels/colorgraph/pkg/graph"
)

// RLF is the Recursive Largest First colorer.
type RLF[T cmp.Ordered] struct{}

func (RLF[T]) ID() string   { return IDRLF }
func (RLF[T]) Name() string { return "Recursive Largest First" }
func (RLF[T]) Description() string {
	return "Selects a color and finds an uncolored node with the biggest degree, paints its neighbors of neighbors. Continues with a neighbor which has the biggest degree."
}

func (RLF[T]) Reset(g *graph.Graph[T]) { reset(g) }

func (RLF[T]) Color(g *graph.Graph[T]) {
	recursiveFirst(g, func(d, best int) bool { return d > best })
}

// RSF is the Recursive Smallest First colorer. It is RLF with every maximum
// degree selection replaced by a minimum.
type RSF[T cmp.Ordered] struct{}

func (RSF[T]) ID() string   { return IDRSF }
func (RSF[T]) Name() string { return "Recursive Smallest First" }
func (RSF[T]) Description() string {
	return "Selects a color and finds an uncolored node with the smallest degree, paints its neighbors of neighbors. Continues with a neighbor which has the smallest degree."
}

func (RSF[T]) Reset(g *graph.Graph[T]) { reset(g) }

func (RSF[T]) Color(g *graph.Graph[T]) {
	recursiveFirst(g, func(d, best int) bool { return d < best })
}

// nodeSet is a set of nodes iterated in ascending value order.
type nodeSet[T cmp.Ordered] struct {
	members map[T]*graph.Node[T]
	order   []*graph.Node[T] // superset of members, sorted
}

func newNodeSet[T cmp.Ordered](order []*graph.Node[T]) *nodeSet[T] {
	return &nodeSet[T]{members: make(map[T]*graph.Node[T]), order: order}
}

func (s *nodeSet[T]) add(n *graph.Node[T])    { s.members[n.Value()] = n }
func (s *nodeSet[T]) remove(n *graph.Node[T]) { delete(s.members, n.Value()) }
func (s *nodeSet[T]) len() int                { return len(s.members) }

func (s *nodeSet[T]) has(v T) bool {
	_, ok := s.members[v]
	return ok
}

// degree is 1 if n has at least one neighbor in s, 0 otherwise.
func (s *nodeSet[T]) degree(n *graph.Node[T]) int {
	for _, v := range n.Neighbors() {
		if s.has(v) {
			return 1
		}
	}
	return 0
}

// pick returns the member of s whose degree against ref is preferred by
// better. The first member in order is the initial candidate and is replaced
// only when better reports a strict improvement.
func (s *nodeSet[T]) pick(ref *nodeSet[T], better func(d, best int) bool) *graph.Node[T] {
	var (
		node *graph.Node[T]
		best int
	)
	for _, n := range s.order {
		if !s.has(n.Value()) {
			continue
		}
		d := ref.degree(n)
		if node == nil || better(d, best) {
			node, best = n, d
		}
	}
	return node
}

// recursiveFirst runs the shared RLF/RSF procedure over the colored set C,
// the working set V' and the deferred neighbor set U.
func recursiveFirst[T cmp.Ordered](g *graph.Graph[T], better func(d, best int) bool) {
	nodes := g.Nodes()
	colored := newNodeSet(nodes)
	working := newNodeSet(nodes)
	for _, n := range nodes {
		working.add(n)
	}
	deferred := newNodeSet(nodes)
	color := 0

	for colored.len() != len(nodes) {
		if working.len() == 0 {
			// next component: restart the color sequence
			for _, n := range nodes {
				if !colored.has(n.Value()) {
					working.add(n)
				}
			}
			color = 0
		}

		n := working.pick(working, better)
		for {
			n.Color = color
			working.remove(n)
			colored.add(n)

			for _, v := range n.Neighbors() {
				if nb, ok := working.members[v]; ok {
					working.remove(nb)
					deferred.add(nb)
				}
			}

			if working.len() == 0 {
				break
			}
			n = working.pick(deferred, better)
		}

		working, deferred = deferred, newNodeSet(nodes)
		color++
	}
}
