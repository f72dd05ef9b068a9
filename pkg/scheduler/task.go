package scheduler

import "context"

// Kind says which execution context runs a task body.
type Kind int

const (
	// KindRender tasks run on the loop goroutine.
	KindRender Kind = iota
	// KindSimulation tasks run on the simulation worker.
	KindSimulation
)

// String returns "render" or "simulation".
func (k Kind) String() string {
	if k == KindSimulation {
		return "simulation"
	}
	return "render"
}

// Task is one unit of queued work.
type Task struct {
	Kind Kind
	// Name identifies the task in logs and hooks.
	Name string
	Run  func(ctx context.Context)
}

// Render returns a render task.
func Render(name string, fn func(ctx context.Context)) Task {
	return Task{Kind: KindRender, Name: name, Run: fn}
}

// Simulation returns a simulation task.
func Simulation(name string, fn func(ctx context.Context)) Task {
	return Task{Kind: KindSimulation, Name: name, Run: fn}
}

type ctxKey int

const (
	schedulerKey ctxKey = iota
	contextKindKey
)

func withExec(ctx context.Context, s *Scheduler, k Kind) context.Context {
	ctx = context.WithValue(ctx, schedulerKey, s)
	return context.WithValue(ctx, contextKindKey, k)
}

func execFromContext(ctx context.Context) (*Scheduler, Kind, bool) {
	s, ok := ctx.Value(schedulerKey).(*Scheduler)
	if !ok {
		return nil, 0, false
	}
	k, _ := ctx.Value(contextKindKey).(Kind)
	return s, k, true
}

// Present runs fn in the presentation context and waits for it. Called from
// a simulation body it hands fn to the loop goroutine, which is blocked on
// that body; anywhere else fn runs inline.
func Present(ctx context.Context, fn func(ctx context.Context)) {
	s, k, ok := execFromContext(ctx)
	if !ok || k != KindSimulation {
		fn(ctx)
		return
	}
	c := call{fn: fn, done: make(chan struct{})}
	s.calls <- c
	<-c.done
}

// Simulate runs fn on the simulation worker and waits for it. Called from a
// render task it dispatches fn to the worker; anywhere else fn runs inline.
func Simulate(ctx context.Context, fn func(ctx context.Context)) {
	s, k, ok := execFromContext(ctx)
	if !ok || k != KindRender {
		fn(ctx)
		return
	}
	s.dispatch(ctx, fn)
}
