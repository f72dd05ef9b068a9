package render

import (
	"cmp"
	"fmt"
)

// NodeView is one node as it should be drawn.
type NodeView[T cmp.Ordered] struct {
	Value T       `json:"value"`
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	// Class is the node's color class, or graph.Uncolored.
	Class int `json:"class"`
	// Color is the resolved fill color as "#rrggbb".
	Color    string `json:"color"`
	Pinned   bool   `json:"pinned,omitempty"`
	Selected bool   `json:"selected,omitempty"`
}

// EdgeView is one undirected edge, From < To.
type EdgeView[T cmp.Ordered] struct {
	From T `json:"from"`
	To   T `json:"to"`
}

// View is a point-in-time copy of everything a display draws.
type View[T cmp.Ordered] struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Radius float64 `json:"radius"`

	Nodes []NodeView[T] `json:"nodes"`
	Edges []EdgeView[T] `json:"edges"`

	// Selected is meaningful only when HasSelection is set.
	Selected     T    `json:"selected"`
	HasSelection bool `json:"has_selection"`

	// Colors is the number of distinct color classes in use.
	Colors int `json:"colors"`
}

// Node returns the view of item.
func (v View[T]) Node(item T) (NodeView[T], bool) {
	for _, n := range v.Nodes {
		if n.Value == item {
			return n, true
		}
	}
	return NodeView[T]{}, false
}

// Clone returns a deep copy of v.
func (v View[T]) Clone() View[T] {
	out := v
	out.Nodes = append([]NodeView[T](nil), v.Nodes...)
	out.Edges = append([]EdgeView[T](nil), v.Edges...)
	return out
}

// String summarizes the view in one line.
func (v View[T]) String() string {
	return fmt.Sprintf("%d nodes, %d edges, %d colors", len(v.Nodes), len(v.Edges), v.Colors)
}
