package render

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/colorgraph/pkg/coloring"
	"github.com/matzehuels/colorgraph/pkg/graph"
	"github.com/matzehuels/colorgraph/pkg/layout"
	"github.com/matzehuels/colorgraph/pkg/observability"
	"github.com/matzehuels/colorgraph/pkg/palette"
	"github.com/matzehuels/colorgraph/pkg/scheduler"
	"github.com/matzehuels/colorgraph/pkg/vector"
)

// Defaults for a new Renderer.
const (
	DefaultNodeRadius = 15.0
	DefaultWidth      = 800.0
	DefaultHeight     = 600.0
)

// simpleColor fills nodes of graphs that carry no colors.
const simpleColor = "#008000"

type settings struct {
	resolve palette.Resolver
	frame   func(dt float64)
	radius  float64
	fps     int
	width   float64
	height  float64
	sched   *scheduler.Scheduler
	logger  *log.Logger
}

// Option configures a Renderer.
type Option func(*settings)

// WithColorResolver sets the palette used to fill colored nodes. The default
// is palette.Hue.
func WithColorResolver(r palette.Resolver) Option {
	return func(s *settings) {
		if r != nil {
			s.resolve = r
		}
	}
}

// WithFrameCallback sets a function called with the dt of every physics step.
func WithFrameCallback(fn func(dt float64)) Option {
	return func(s *settings) { s.frame = fn }
}

// WithNodeRadius sets the drawn node radius. The layout keeps nodes at least
// four radii apart.
func WithNodeRadius(r float64) Option {
	return func(s *settings) {
		if r > 0 {
			s.radius = r
		}
	}
}

// WithFPS sets the scheduler's target tick rate.
func WithFPS(fps int) Option {
	return func(s *settings) { s.fps = fps }
}

// WithCanvasSize sets the initial canvas size.
func WithCanvasSize(width, height float64) Option {
	return func(s *settings) {
		s.width, s.height = width, height
	}
}

// WithScheduler drives the renderer from an existing scheduler instead of a
// new one. The renderer installs its physics step on it.
func WithScheduler(sched *scheduler.Scheduler) Option {
	return func(s *settings) { s.sched = sched }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// Renderer turns user intents into scheduled tasks over a graph layout and
// publishes the result as a [View].
type Renderer[T cmp.Ordered] struct {
	layout  *layout.GraphLayout[T]
	produce func() T
	sched   *scheduler.Scheduler
	radius  float64
	logger  *log.Logger

	// Owned by whichever context is running a task; tasks never overlap.
	resolve       palette.Resolver
	width, height float64
	selected      T
	hasSelection  bool
	moving        bool
	steps         int

	resting atomic.Bool

	mu   sync.RWMutex
	view View[T]

	changes handlerList
}

// New returns a renderer over l. produce supplies the value of each node
// created with CreateNode.
func New[T cmp.Ordered](l *layout.GraphLayout[T], produce func() T, opts ...Option) *Renderer[T] {
	s := settings{
		resolve: palette.Hue,
		radius:  DefaultNodeRadius,
		width:   DefaultWidth,
		height:  DefaultHeight,
		logger:  log.Default(),
	}
	for _, o := range opts {
		o(&s)
	}

	r := &Renderer[T]{
		layout:  l,
		produce: produce,
		radius:  s.radius,
		logger:  s.logger,
		resolve: s.resolve,
	}

	lo := l.Options()
	lo.MinDistance = 4 * r.radius
	l.SetOptions(lo)
	r.resize(s.width, s.height)

	if s.sched == nil {
		s.sched = scheduler.New(
			scheduler.WithFPS(s.fps),
			scheduler.WithLogger(s.logger),
			scheduler.WithStep(r.step),
			scheduler.WithFrameCallback(s.frame),
		)
	} else {
		s.sched.SetStep(r.step)
		s.sched.SetFPS(s.fps)
		if s.frame != nil {
			s.sched.SetFrameCallback(s.frame)
		}
	}
	r.sched = s.sched

	r.publish()
	return r
}

// =============================================================================
// Lifecycle
// =============================================================================

// Run drives the scheduler until ctx is done.
func (r *Renderer[T]) Run(ctx context.Context) error {
	return r.sched.Run(ctx)
}

// Scheduler returns the scheduler driving the renderer.
func (r *Renderer[T]) Scheduler() *scheduler.Scheduler { return r.sched }

// Layout returns the wrapped layout. It must only be touched from tasks.
func (r *Renderer[T]) Layout() *layout.GraphLayout[T] { return r.layout }

// SetSimulationEnabled turns physics on or off.
func (r *Renderer[T]) SetSimulationEnabled(v bool) {
	r.sched.SetSimulationEnabled(v)
	if !v {
		r.resting.Store(false)
	}
}

// SimulationEnabled reports whether physics is on.
func (r *Renderer[T]) SimulationEnabled() bool { return r.sched.SimulationEnabled() }

// Resting reports whether the most recent physics step moved nothing.
func (r *Renderer[T]) Resting() bool { return r.resting.Load() }

// Sync waits until every intent issued before it has been applied.
func (r *Renderer[T]) Sync(ctx context.Context) error {
	return r.sched.Barrier(ctx)
}

// =============================================================================
// Intents
// =============================================================================

// CreateNode adds a node with the next produced value at canvas point (x, y).
func (r *Renderer[T]) CreateNode(x, y float64) {
	r.simulation("create node", func(ctx context.Context) {
		item := r.produce()
		n := r.layout.CreateNode(item, x-r.width/2, y-r.height/2)
		if n == nil {
			return
		}
		r.logger.Debug("node created", "value", item)
		r.changed(ctx)
	})
}

// RemoveNode removes item and its edges.
func (r *Renderer[T]) RemoveNode(item T) {
	r.simulation("remove node", func(ctx context.Context) {
		if r.layout.RemoveNode(item) == nil {
			return
		}
		if r.hasSelection && r.selected == item {
			r.clearSelection()
		}
		r.logger.Debug("node removed", "value", item)
		r.changed(ctx)
	})
}

// ConnectNodes adds the edge a-b. Requests with a == b are ignored.
func (r *Renderer[T]) ConnectNodes(a, b T) {
	if a == b {
		return
	}
	r.simulation("connect nodes", func(ctx context.Context) {
		if _, _, ok := r.layout.ConnectNodes(a, b); ok {
			r.changed(ctx)
		}
	})
}

// DisconnectNodes removes the edge a-b. Requests with a == b are ignored.
func (r *Renderer[T]) DisconnectNodes(a, b T) {
	if a == b {
		return
	}
	r.simulation("disconnect nodes", func(ctx context.Context) {
		if _, _, ok := r.layout.DisconnectNodes(a, b); ok {
			r.changed(ctx)
		}
	})
}

// SelectNode marks item as selected. Unknown items clear the selection.
func (r *Renderer[T]) SelectNode(item T) {
	r.render("select node", func(context.Context) {
		if _, ok := r.layout.Node(item); ok {
			r.selected, r.hasSelection = item, true
		} else {
			r.clearSelection()
		}
		r.publish()
	})
}

// ClearSelection unselects the selected node, if any.
func (r *Renderer[T]) ClearSelection() {
	r.render("clear selection", func(context.Context) {
		r.clearSelection()
		r.publish()
	})
}

// Drag pins item at canvas point (x, y) until Release.
func (r *Renderer[T]) Drag(item T, x, y float64) {
	r.render("drag node", func(context.Context) {
		if !r.layout.Drag(item, vector.New(x-r.width/2, y-r.height/2)) {
			return
		}
		r.resting.Store(false)
		r.publish()
	})
}

// Release hands item back to the simulation.
func (r *Renderer[T]) Release(item T) {
	r.render("release node", func(context.Context) {
		if r.layout.Release(item) {
			r.resting.Store(false)
			r.publish()
		}
	})
}

// ResolveColors republishes node colors after the graph was colored outside
// the renderer.
func (r *Renderer[T]) ResolveColors() {
	r.render("resolve colors", func(context.Context) {
		r.publish()
		r.changes.invoke()
	})
}

// SetColorResolver switches the palette and republishes node colors.
func (r *Renderer[T]) SetColorResolver(resolve palette.Resolver) {
	if resolve == nil {
		return
	}
	r.render("set palette", func(context.Context) {
		r.resolve = resolve
		r.publish()
		r.changes.invoke()
	})
}

// Recolor resets the graph's colors and colors it with c.
func (r *Renderer[T]) Recolor(c coloring.Colorer[T]) {
	if c == nil {
		return
	}
	r.simulation("recolor", func(ctx context.Context) {
		res := coloring.Run(ctx, c, r.layout.Graph())
		r.logger.Debug("graph colored", "colorer", res.Colorer, "nodes", res.Nodes,
			"colors", res.Colors, "duration", res.Duration)
		r.changed(ctx)
	})
}

// Reset reseeds every node position and rebuilds the layout from the graph.
func (r *Renderer[T]) Reset() {
	r.simulation("reset", func(ctx context.Context) {
		r.reset(ctx)
	})
}

// Rebuild runs fn on the graph and then resets the layout, in one task. It is
// how whole-graph edits such as clearing or generating reach the display.
func (r *Renderer[T]) Rebuild(name string, fn func(g *graph.Graph[T])) {
	r.simulation(name, func(ctx context.Context) {
		fn(r.layout.Graph())
		r.reset(ctx)
	})
}

// Resize sets the canvas size. The layout area is the canvas shrunk by one
// node radius on every side.
func (r *Renderer[T]) Resize(width, height float64) {
	r.simulation("resize", func(ctx context.Context) {
		r.resize(width, height)
		scheduler.Present(ctx, func(context.Context) { r.publish() })
	})
}

// OnChange registers fn to run after node counts, edge counts or colors
// change. Handlers run on the loop goroutine in registration order.
func (r *Renderer[T]) OnChange(name string, fn func()) {
	r.changes.add(name, fn)
}

// RemoveChangeHandler removes every handler registered under name and
// returns how many were removed.
func (r *Renderer[T]) RemoveChangeHandler(name string) int {
	return r.changes.remove(name)
}

// =============================================================================
// Published state
// =============================================================================

// Snapshot returns a copy of the latest published view. It is safe to call
// from any goroutine.
func (r *Renderer[T]) Snapshot() View[T] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.view.Clone()
}

// NodesSize returns the number of published nodes.
func (r *Renderer[T]) NodesSize() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.view.Nodes)
}

// EdgesSize returns the number of published edges.
func (r *Renderer[T]) EdgesSize() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.view.Edges)
}

// ColorCount returns the number of distinct color classes published.
func (r *Renderer[T]) ColorCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.view.Colors
}

// =============================================================================
// Internals
// =============================================================================

func (r *Renderer[T]) simulation(name string, fn func(ctx context.Context)) {
	r.sched.Enqueue(scheduler.Simulation(name, fn))
}

func (r *Renderer[T]) render(name string, fn func(ctx context.Context)) {
	r.sched.Enqueue(scheduler.Render(name, fn))
}

// changed publishes the view and notifies handlers from the presentation
// context. It is called from simulation bodies after a structural change.
func (r *Renderer[T]) changed(ctx context.Context) {
	r.resting.Store(false)
	scheduler.Present(ctx, func(context.Context) {
		r.publish()
		r.changes.invoke()
	})
}

func (r *Renderer[T]) reset(ctx context.Context) {
	r.layout.Reset()
	if r.hasSelection {
		if _, ok := r.layout.Node(r.selected); !ok {
			r.clearSelection()
		}
	}
	r.moving, r.steps = false, 0
	observability.Layout().OnReset(ctx, r.layout.Len())
	r.logger.Debug("layout reset", "nodes", r.layout.Len())
	r.changed(ctx)
}

func (r *Renderer[T]) resize(width, height float64) {
	r.width, r.height = width, height
	r.layout.SetSize(math.Max(width-2*r.radius, 0), math.Max(height-2*r.radius, 0))
}

func (r *Renderer[T]) clearSelection() {
	var zero T
	r.selected, r.hasSelection = zero, false
}

// step is the physics step run on the simulation worker each tick.
func (r *Renderer[T]) step(ctx context.Context, dt float64) {
	if r.layout.Update(dt) {
		r.moving = true
		r.steps++
		r.resting.Store(false)
		scheduler.Present(ctx, func(context.Context) { r.publish() })
		return
	}
	if r.moving {
		r.moving = false
		observability.Layout().OnSettled(ctx, r.layout.Len(), r.steps)
		r.logger.Debug("layout settled", "nodes", r.layout.Len(), "steps", r.steps)
		r.steps = 0
	}
	r.resting.Store(true)
}

// publish rebuilds the view from the layout. Callers must hold the
// presentation context with the simulation worker idle.
func (r *Renderer[T]) publish() {
	nodes := r.layout.Nodes()
	v := View[T]{
		Width:        r.width,
		Height:       r.height,
		Radius:       r.radius,
		Nodes:        make([]NodeView[T], 0, len(nodes)),
		Selected:     r.selected,
		HasSelection: r.hasSelection,
	}

	cx, cy := r.width/2, r.height/2
	classes := make(map[int]struct{})
	for _, n := range nodes {
		val := n.Value()
		nv := NodeView[T]{
			Value:    val,
			Label:    fmt.Sprint(val),
			X:        n.Position.X + cx,
			Y:        n.Position.Y + cy,
			Class:    n.Node.Color,
			Color:    simpleColor,
			Pinned:   !n.ApplyAccel,
			Selected: r.hasSelection && r.selected == val,
		}
		if n.Node.Kind() == graph.KindColored {
			nv.Color = r.resolve(n.Node.Color).Hex()
			if n.Node.IsColored() {
				classes[n.Node.Color] = struct{}{}
			}
		}
		v.Nodes = append(v.Nodes, nv)

		for _, k := range n.Neighbors() {
			if val < k {
				v.Edges = append(v.Edges, EdgeView[T]{From: val, To: k})
			}
		}
	}
	v.Colors = len(classes)

	r.mu.Lock()
	r.view = v
	r.mu.Unlock()
}
