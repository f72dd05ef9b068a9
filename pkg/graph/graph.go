package graph

import (
	"cmp"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAsymmetricEdge is returned by [Graph.Validate] when a node lists a
	// neighbor that does not list it back.
	ErrAsymmetricEdge = errors.New("asymmetric edge")

	// ErrDanglingNeighbor is returned by [Graph.Validate] when a neighbor key
	// has no node in the graph.
	ErrDanglingNeighbor = errors.New("neighbor not in graph")

	// ErrIndexMismatch is returned by [Graph.Validate] when the sorted index
	// and the node arena disagree.
	ErrIndexMismatch = errors.New("node index out of sync")
)

// Graph is an undirected graph keyed by T.
//
// The zero value is not usable; create graphs with [New] or [NewColored].
type Graph[T cmp.Ordered] struct {
	kind  Kind
	nodes map[T]*Node[T]
	order []T
}

// New returns an empty graph of simple nodes.
func New[T cmp.Ordered]() *Graph[T] {
	return &Graph[T]{kind: KindSimple, nodes: make(map[T]*Node[T])}
}

// NewColored returns an empty graph of colored nodes.
func NewColored[T cmp.Ordered]() *Graph[T] {
	return &Graph[T]{kind: KindColored, nodes: make(map[T]*Node[T])}
}

// Kind returns the variant of nodes this graph produces.
func (g *Graph[T]) Kind() Kind { return g.kind }

// Add returns the node for item, creating it without neighbors if absent.
func (g *Graph[T]) Add(item T) *Node[T] {
	if n, ok := g.nodes[item]; ok {
		return n
	}
	n := newNode(item, g.kind)
	g.nodes[item] = n
	g.order = insertSorted(g.order, item)
	return n
}

// AddWithNeighbors ensures nodes exist for item and every neighbor, and links
// item symmetrically to each neighbor. Passing item among its own neighbors
// creates a self-loop.
func (g *Graph[T]) AddWithNeighbors(item T, neighbors ...T) *Node[T] {
	n := g.Add(item)
	for _, v := range neighbors {
		nb := g.Add(v)
		nb.link(item)
		n.link(v)
	}
	return n
}

// Remove deletes the node for item and strips it from every neighbor set.
func (g *Graph[T]) Remove(item T) {
	n, ok := g.nodes[item]
	if !ok {
		return
	}
	for _, v := range n.neighbors {
		if v == item {
			continue
		}
		if nb, ok := g.nodes[v]; ok {
			nb.unlink(item)
		}
	}
	delete(g.nodes, item)
	g.order, _ = removeSorted(g.order, item)
}

// Disconnect removes the edge between a and b. It does nothing unless both
// nodes exist and are connected, so only complete edges are ever removed.
func (g *Graph[T]) Disconnect(a, b T) {
	na, ok := g.nodes[a]
	if !ok || !na.HasNeighbor(b) {
		return
	}
	nb, ok := g.nodes[b]
	if !ok {
		return
	}
	na.unlink(b)
	nb.unlink(a)
}

// Connected reports whether a and b are neighbors.
func (g *Graph[T]) Connected(a, b T) bool {
	n, ok := g.nodes[a]
	return ok && n.HasNeighbor(b)
}

// Clear removes every node.
func (g *Graph[T]) Clear() {
	clear(g.nodes)
	g.order = g.order[:0]
}

// Clone returns an isomorphic, independent copy of g. Node values are
// duplicated through [Cloner] when T implements it; colors are not copied.
// Adjacency is rebuilt positionally, so the i-th node of the clone is linked
// to the clones of the i-th node's neighbors.
func (g *Graph[T]) Clone() *Graph[T] {
	c := &Graph[T]{kind: g.kind, nodes: make(map[T]*Node[T], len(g.nodes))}

	index := make(map[T]int, len(g.order))
	copies := make([]*Node[T], len(g.order))
	for i, v := range g.order {
		index[v] = i
		copies[i] = g.nodes[v].clone()
	}
	for i, v := range g.order {
		for _, nv := range g.nodes[v].neighbors {
			copies[i].link(copies[index[nv]].value)
		}
	}
	for _, n := range copies {
		c.nodes[n.value] = n
		c.order = insertSorted(c.order, n.value)
	}
	return c
}

// Node returns the node for item.
func (g *Graph[T]) Node(item T) (*Node[T], bool) {
	n, ok := g.nodes[item]
	return n, ok
}

// Contains reports whether item has a node.
func (g *Graph[T]) Contains(item T) bool {
	_, ok := g.nodes[item]
	return ok
}

// Nodes returns all nodes in ascending value order.
func (g *Graph[T]) Nodes() []*Node[T] {
	out := make([]*Node[T], len(g.order))
	for i, v := range g.order {
		out[i] = g.nodes[v]
	}
	return out
}

// Values returns all node values in ascending order.
func (g *Graph[T]) Values() []T {
	return append([]T(nil), g.order...)
}

// Last returns the greatest value in the graph.
func (g *Graph[T]) Last() (T, bool) {
	if len(g.order) == 0 {
		var zero T
		return zero, false
	}
	return g.order[len(g.order)-1], true
}

// Neighbors returns the neighbor keys of item, or nil if item is absent.
func (g *Graph[T]) Neighbors(item T) []T {
	if n, ok := g.nodes[item]; ok {
		return n.Neighbors()
	}
	return nil
}

// Degree returns the number of neighbors of item, or 0 if absent.
func (g *Graph[T]) Degree(item T) int {
	if n, ok := g.nodes[item]; ok {
		return n.Degree()
	}
	return 0
}

// Len returns the number of nodes.
func (g *Graph[T]) Len() int { return len(g.order) }

// EdgeCount returns the number of undirected edges. A self-loop counts as one.
func (g *Graph[T]) EdgeCount() int {
	var total, loops int
	for v, n := range g.nodes {
		total += len(n.neighbors)
		if n.HasNeighbor(v) {
			loops++
		}
	}
	return (total-loops)/2 + loops
}

// Edges returns every edge once as an ordered pair (a <= b), sorted.
func (g *Graph[T]) Edges() [][2]T {
	var out [][2]T
	for _, v := range g.order {
		for _, nv := range g.nodes[v].neighbors {
			if v <= nv {
				out = append(out, [2]T{v, nv})
			}
		}
	}
	return out
}

// ResetColors sets every node's color to Uncolored.
func (g *Graph[T]) ResetColors() {
	for _, n := range g.nodes {
		n.Color = Uncolored
	}
}

// Validate checks the structural invariants of g.
func (g *Graph[T]) Validate() error {
	if len(g.order) != len(g.nodes) {
		return fmt.Errorf("%w: %d indexed, %d stored", ErrIndexMismatch, len(g.order), len(g.nodes))
	}
	for _, v := range g.order {
		n, ok := g.nodes[v]
		if !ok || n.value != v {
			return fmt.Errorf("%w: %v", ErrIndexMismatch, v)
		}
		for _, nv := range n.neighbors {
			nb, ok := g.nodes[nv]
			if !ok {
				return fmt.Errorf("%w: %v -> %v", ErrDanglingNeighbor, v, nv)
			}
			if !nb.HasNeighbor(v) {
				return fmt.Errorf("%w: %v -> %v", ErrAsymmetricEdge, v, nv)
			}
		}
	}
	return nil
}

// String renders one line per node followed by its neighbors in
// parentheses, as "1 (color=0) (2 (color=1), 3 (color=1))" for colored graphs.
func (g *Graph[T]) String() string {
	var b strings.Builder
	for _, n := range g.Nodes() {
		nbs := make([]string, len(n.neighbors))
		for i, v := range n.neighbors {
			if nb, ok := g.nodes[v]; ok {
				nbs[i] = nb.String()
			} else {
				nbs[i] = fmt.Sprint(v)
			}
		}
		fmt.Fprintf(&b, "%s (%s)\n", n, strings.Join(nbs, ", "))
	}
	return b.String()
}
