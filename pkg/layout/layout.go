package layout

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/matzehuels/colorgraph/pkg/graph"
	"github.com/matzehuels/colorgraph/pkg/vector"
)

var (
	// ErrOrphanLayout is returned by [GraphLayout.Validate] when a layout
	// record has no node in the wrapped graph.
	ErrOrphanLayout = errors.New("layout node not in graph")

	// ErrLayoutEdge is returned by [GraphLayout.Validate] when layout
	// adjacency is asymmetric or has an edge the graph lacks.
	ErrLayoutEdge = errors.New("layout edge not mirrored")
)

// NodeLayout is the spatial state of one graph node.
type NodeLayout[T cmp.Ordered] struct {
	Node     *graph.Node[T]
	Position vector.Vec
	Accel    vector.Vec
	// ApplyAccel is false while the node is held in place by the user.
	ApplyAccel bool

	neighbors []T
}

func newNodeLayout[T cmp.Ordered](n *graph.Node[T], pos vector.Vec) *NodeLayout[T] {
	return &NodeLayout[T]{Node: n, Position: pos, ApplyAccel: true}
}

// Value returns the wrapped node's value.
func (n *NodeLayout[T]) Value() T { return n.Node.Value() }

// Neighbors returns the layout neighbor keys in ascending order.
func (n *NodeLayout[T]) Neighbors() []T { return slices.Clone(n.neighbors) }

func (n *NodeLayout[T]) hasNeighbor(v T) bool {
	_, ok := slices.BinarySearch(n.neighbors, v)
	return ok
}

func (n *NodeLayout[T]) link(v T) {
	if i, ok := slices.BinarySearch(n.neighbors, v); !ok {
		n.neighbors = slices.Insert(n.neighbors, i, v)
	}
}

func (n *NodeLayout[T]) unlink(v T) {
	if i, ok := slices.BinarySearch(n.neighbors, v); ok {
		n.neighbors = slices.Delete(n.neighbors, i, i+1)
	}
}

// GraphLayout positions the nodes of a graph.
type GraphLayout[T cmp.Ordered] struct {
	graph  *graph.Graph[T]
	opts   Options
	seeder Seeder
	rng    *rand.Rand

	nodes map[T]*NodeLayout[T]
	order []T

	width, height float64
	sizeChanged   bool
	lastCount     int
	halfWidth     float64
	halfHeight    float64
	preferred     float64
}

// New returns a layout over g with no layout records. Call Reset to seed one
// record per existing graph node.
func New[T cmp.Ordered](g *graph.Graph[T], opts ...Option) *GraphLayout[T] {
	s := settings{seeder: UniformSeeder{}}
	for _, o := range opts {
		o(&s)
	}
	s.opts.SetDefaults()
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	l := &GraphLayout[T]{
		graph:  g,
		opts:   s.opts,
		seeder: s.seeder,
		rng:    s.rng,
		nodes:  make(map[T]*NodeLayout[T]),
		width:  s.width,
		height: s.height,
	}
	l.calculateSizeParameters()
	return l
}

// Graph returns the wrapped graph.
func (l *GraphLayout[T]) Graph() *graph.Graph[T] { return l.graph }

// Options returns the simulation tunables.
func (l *GraphLayout[T]) Options() Options { return l.opts }

// SetOptions replaces the simulation tunables. Zero fields take defaults.
func (l *GraphLayout[T]) SetOptions(o Options) {
	o.SetDefaults()
	l.opts = o
	l.sizeChanged = true
}

// SetSize changes the canvas size. The preferred distance follows on the
// next Update.
func (l *GraphLayout[T]) SetSize(width, height float64) {
	if width != l.width || height != l.height {
		l.width, l.height = width, height
		l.sizeChanged = true
	}
}

// Size returns the canvas size.
func (l *GraphLayout[T]) Size() (width, height float64) { return l.width, l.height }

// PreferredDistance returns the current spring rest length.
func (l *GraphLayout[T]) PreferredDistance() float64 {
	l.refresh()
	return l.preferred
}

// Len returns the number of layout records.
func (l *GraphLayout[T]) Len() int { return len(l.order) }

// Node returns the layout record for item.
func (l *GraphLayout[T]) Node(item T) (*NodeLayout[T], bool) {
	n, ok := l.nodes[item]
	return n, ok
}

// Nodes returns all layout records in ascending value order.
func (l *GraphLayout[T]) Nodes() []*NodeLayout[T] {
	out := make([]*NodeLayout[T], len(l.order))
	for i, v := range l.order {
		out[i] = l.nodes[v]
	}
	return out
}

func (l *GraphLayout[T]) refresh() {
	if l.sizeChanged || l.lastCount != len(l.order) {
		l.calculateSizeParameters()
	}
}

func (l *GraphLayout[T]) calculateSizeParameters() {
	l.halfWidth = l.width * 0.5
	l.halfHeight = l.height * 0.5
	l.preferred = math.Max(math.Min(l.width, l.height)/3-l.opts.MinDistance, 0)*
		math.Pow(1-1.0/50, float64(len(l.order))) + l.opts.MinDistance
	l.sizeChanged = false
	l.lastCount = len(l.order)
}

// Update advances the simulation by dt seconds and reports whether any node
// changed position. Nodes are visited in ascending value order and see the
// positions already updated in this step.
func (l *GraphLayout[T]) Update(dt float64) bool {
	hw, hh := l.Bounds()

	var (
		o       = l.opts
		pd      = l.preferred
		updated bool
	)

	for _, v := range l.order {
		n := l.nodes[v]
		original := n.Position

		if n.ApplyAccel {
			n.Position = n.Position.Clamp(hw, hh)

			accel := l.attraction(n.Position, vector.Zero, 0, false).Scale(o.CenterForce)

			var edges vector.Vec
			for _, k := range n.neighbors {
				edges = edges.Add(l.attraction(n.Position, l.nodes[k].Position, pd, true))
			}
			accel = accel.Add(edges.Scale(o.EdgeForce))

			var others vector.Vec
			for _, k := range l.order {
				if k == v || n.hasNeighbor(k) {
					continue
				}
				other := l.nodes[k]
				if n.Position.Sub(other.Position).Len() < pd {
					others = others.Add(l.attraction(n.Position, other.Position, pd, true))
				}
			}
			accel = accel.Add(others.Scale(o.NodeForce))

			n.Accel = n.Accel.Add(accel.Scale(o.ForceModifier * dt))

			degen := n.Accel.Scale(o.Degeneration * dt)
			if n.Accel.Len() > degen.Len() {
				n.Accel = n.Accel.Sub(degen)
			} else {
				n.Accel = vector.Zero
			}

			if n.Accel.Len() > o.AccelStopThreshold {
				n.Position = n.Position.Add(n.Accel.Scale(dt))
			} else {
				n.Accel = vector.Zero
			}
		}

		if n.Position.X < -hw || n.Position.X > hw {
			n.Accel.X = 0
		}
		if n.Position.Y < -hh || n.Position.Y > hh {
			n.Accel.Y = 0
		}
		n.Position = n.Position.Clamp(hw, hh)

		if n.Position != original {
			updated = true
		}
	}
	return updated
}

// attraction is the spring force on p1 towards p2 with rest length pd. With
// fixZero, coincident points get a small random impulse instead of zero.
func (l *GraphLayout[T]) attraction(p1, p2 vector.Vec, pd float64, fixZero bool) vector.Vec {
	d := p2.Sub(p1)
	if fixZero && d.IsZero() {
		return vector.New(l.rng.Float64(), l.rng.Float64()).Scale(l.rng.Float64() * 10)
	}
	return d.Normalize().Scale(d.Len() - pd)
}

// CreateNode adds item to the graph and creates its layout record at (x, y).
// It returns nil if item already has a layout record.
func (l *GraphLayout[T]) CreateNode(item T, x, y float64) *NodeLayout[T] {
	if _, ok := l.nodes[item]; ok {
		return nil
	}
	n := newNodeLayout(l.graph.Add(item), vector.New(x, y))
	l.insert(n)
	return n
}

// RemoveNode removes item from the graph and drops its layout record. It
// returns the removed record, or nil if item had none.
func (l *GraphLayout[T]) RemoveNode(item T) *NodeLayout[T] {
	l.graph.Remove(item)

	n, ok := l.nodes[item]
	if !ok {
		return nil
	}
	for _, k := range n.neighbors {
		if nb, ok := l.nodes[k]; ok {
			nb.unlink(item)
		}
	}
	delete(l.nodes, item)
	if i, ok := slices.BinarySearch(l.order, item); ok {
		l.order = slices.Delete(l.order, i, i+1)
	}
	return n
}

// ConnectNodes links a and b in the graph and the layout. It returns false,
// and changes nothing, if a == b or either item has no layout record.
func (l *GraphLayout[T]) ConnectNodes(a, b T) (*NodeLayout[T], *NodeLayout[T], bool) {
	if a == b {
		return nil, nil, false
	}
	la, okA := l.nodes[a]
	lb, okB := l.nodes[b]
	if !okA || !okB {
		return nil, nil, false
	}
	l.graph.AddWithNeighbors(a, b)
	la.link(b)
	lb.link(a)
	return la, lb, true
}

// DisconnectNodes removes the edge between a and b from the graph and the
// layout. It returns false, and changes nothing, if a == b or either item has
// no layout record.
func (l *GraphLayout[T]) DisconnectNodes(a, b T) (*NodeLayout[T], *NodeLayout[T], bool) {
	if a == b {
		return nil, nil, false
	}
	la, okA := l.nodes[a]
	lb, okB := l.nodes[b]
	if !okA || !okB {
		return nil, nil, false
	}
	l.graph.Disconnect(a, b)
	la.unlink(b)
	lb.unlink(a)
	return la, lb, true
}

// Reset discards all layout state, places every graph node with the seeder,
// and rebuilds layout adjacency from the graph. Self-loops are not mirrored.
func (l *GraphLayout[T]) Reset() {
	clear(l.nodes)
	l.order = l.order[:0]

	nodes := l.graph.Nodes()
	for i, gn := range nodes {
		pos := l.seeder.Seed(i, len(nodes), l.width, l.height, l.rng)
		l.insert(newNodeLayout(gn, pos))
	}
	for _, gn := range nodes {
		n := l.nodes[gn.Value()]
		for _, k := range gn.Neighbors() {
			if k != gn.Value() {
				n.link(k)
			}
		}
	}
}

// Drag pins item at pos and suspends its physics until Release.
func (l *GraphLayout[T]) Drag(item T, pos vector.Vec) bool {
	n, ok := l.nodes[item]
	if !ok {
		return false
	}
	n.ApplyAccel = false
	n.Position = pos
	return true
}

// Release resumes physics for item from rest.
func (l *GraphLayout[T]) Release(item T) bool {
	n, ok := l.nodes[item]
	if !ok {
		return false
	}
	n.ApplyAccel = true
	n.Accel = vector.Zero
	return true
}

// Bounds returns the half extents of the canvas. Update keeps every node
// within [-halfWidth, halfWidth] x [-halfHeight, halfHeight].
func (l *GraphLayout[T]) Bounds() (halfWidth, halfHeight float64) {
	l.refresh()
	return l.halfWidth, l.halfHeight
}

// Validate checks that every layout record has a graph node and that layout
// adjacency is symmetric and contained in the graph's.
func (l *GraphLayout[T]) Validate() error {
	for _, v := range l.order {
		n := l.nodes[v]
		if !l.graph.Contains(v) {
			return fmt.Errorf("%w: %v", ErrOrphanLayout, v)
		}
		for _, k := range n.neighbors {
			nb, ok := l.nodes[k]
			if !ok || !nb.hasNeighbor(v) || !l.graph.Connected(v, k) {
				return fmt.Errorf("%w: %v -> %v", ErrLayoutEdge, v, k)
			}
		}
	}
	return nil
}

func (l *GraphLayout[T]) insert(n *NodeLayout[T]) {
	v := n.Value()
	l.nodes[v] = n
	if i, ok := slices.BinarySearch(l.order, v); !ok {
		l.order = slices.Insert(l.order, i, v)
	}
}
