package graph

import (
	"cmp"
	"fmt"
	"slices"
)

// Uncolored is the color of a node that no colorer has assigned yet.
const Uncolored = -1

// Kind distinguishes the node variants a graph produces.
type Kind int

const (
	// KindSimple nodes carry no color information.
	KindSimple Kind = iota
	// KindColored nodes carry a color class.
	KindColored
)

// String returns "simple" or "colored".
func (k Kind) String() string {
	switch k {
	case KindColored:
		return "colored"
	default:
		return "simple"
	}
}

// Cloner is implemented by item types whose values must be duplicated when a
// graph is cloned.
type Cloner[T any] interface {
	Clone() T
}

// Node is a vertex of a [Graph].
//
// Identity and ordering derive from the value only. The neighbor set holds
// keys into the owning graph, sorted ascending.
type Node[T cmp.Ordered] struct {
	value     T
	neighbors []T
	kind      Kind

	// Color is the assigned color class, or Uncolored. It is only meaningful
	// for KindColored nodes.
	Color int
}

func newNode[T cmp.Ordered](value T, kind Kind) *Node[T] {
	return &Node[T]{value: value, kind: kind, Color: Uncolored}
}

// Value returns the node's identity.
func (n *Node[T]) Value() T { return n.value }

// Kind returns the node variant.
func (n *Node[T]) Kind() Kind { return n.kind }

// Neighbors returns a copy of the neighbor keys in ascending order.
func (n *Node[T]) Neighbors() []T { return slices.Clone(n.neighbors) }

// HasNeighbor reports whether v is in the neighbor set.
func (n *Node[T]) HasNeighbor(v T) bool {
	_, ok := slices.BinarySearch(n.neighbors, v)
	return ok
}

// Degree returns the size of the neighbor set. A self-loop counts once.
func (n *Node[T]) Degree() int { return len(n.neighbors) }

// IsColored reports whether a colorer has assigned the node a color.
func (n *Node[T]) IsColored() bool { return n.Color >= 0 }

// Compare orders nodes by value.
func (n *Node[T]) Compare(o *Node[T]) int { return cmp.Compare(n.value, o.value) }

// clone duplicates the value when it implements Cloner. Neighbors and color
// are not copied.
func (n *Node[T]) clone() *Node[T] {
	v := n.value
	if c, ok := any(v).(Cloner[T]); ok {
		v = c.Clone()
	}
	return newNode(v, n.kind)
}

func (n *Node[T]) link(v T) {
	n.neighbors = insertSorted(n.neighbors, v)
}

func (n *Node[T]) unlink(v T) bool {
	var ok bool
	n.neighbors, ok = removeSorted(n.neighbors, v)
	return ok
}

func (n *Node[T]) String() string {
	if n.kind == KindColored {
		return fmt.Sprintf("%v (color=%d)", n.value, n.Color)
	}
	return fmt.Sprint(n.value)
}

func insertSorted[T cmp.Ordered](s []T, v T) []T {
	i, ok := slices.BinarySearch(s, v)
	if ok {
		return s
	}
	return slices.Insert(s, i, v)
}

func removeSorted[T cmp.Ordered](s []T, v T) ([]T, bool) {
	i, ok := slices.BinarySearch(s, v)
	if !ok {
		return s, false
	}
	return slices.Delete(s, i, i+1), true
}
