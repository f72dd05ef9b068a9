package scheduler

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/colorgraph/pkg/errors"
	"github.com/matzehuels/colorgraph/pkg/observability"
)

// DefaultFPS is the default tick rate.
const DefaultFPS = 120

// StepFunc advances the simulation by dt seconds. It runs on the simulation
// worker.
type StepFunc func(ctx context.Context, dt float64)

// Stats counts loop activity since the scheduler was created.
type Stats struct {
	Ticks     uint64
	Tasks     uint64
	Steps     uint64
	Discarded uint64
	// LastDelta is the dt of the most recent physics step, in seconds.
	LastDelta float64
}

type job struct {
	fn   func(ctx context.Context)
	done chan struct{}
}

type call struct {
	fn   func(ctx context.Context)
	done chan struct{}
}

// Scheduler is a task queue drained by a fixed-rate loop.
// The zero value is not usable; create schedulers with New.
type Scheduler struct {
	logger *log.Logger

	fps     atomic.Int64
	enabled atomic.Bool
	prime   atomic.Bool
	running atomic.Bool

	mu    sync.Mutex
	queue []Task
	step  StepFunc
	frame func(dt float64)
	stats Stats

	jobs  chan job
	calls chan call

	// loop-owned
	lastStep time.Time
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithFPS sets the target tick rate. Non-positive values keep the default.
func WithFPS(fps int) Option {
	return func(s *Scheduler) {
		if fps > 0 {
			s.fps.Store(int64(fps))
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStep sets the physics step run each tick while the simulation is
// enabled.
func WithStep(fn StepFunc) Option {
	return func(s *Scheduler) { s.step = fn }
}

// WithFrameCallback sets a function called with each step's dt, for
// telemetry. It runs on the loop goroutine.
func WithFrameCallback(fn func(dt float64)) Option {
	return func(s *Scheduler) { s.frame = fn }
}

// New returns a stopped scheduler.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		logger: log.Default(),
		jobs:   make(chan job),
		calls:  make(chan call),
	}
	s.fps.Store(DefaultFPS)
	for _, o := range opts {
		o(s)
	}
	return s
}

// Enqueue appends t to the queue. It never blocks.
func (s *Scheduler) Enqueue(t Task) {
	if t.Run == nil {
		return
	}
	s.mu.Lock()
	s.queue = append(s.queue, t)
	s.mu.Unlock()
}

// Do enqueues t and waits until it has run or ctx is done.
func (s *Scheduler) Do(ctx context.Context, t Task) error {
	done := make(chan struct{})
	run := t.Run
	t.Run = func(ctx context.Context) {
		defer close(done)
		run(ctx)
	}
	s.Enqueue(t)
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Barrier waits until every task enqueued before it has run.
func (s *Scheduler) Barrier(ctx context.Context) error {
	return s.Do(ctx, Render("barrier", func(context.Context) {}))
}

// Pending returns the number of queued tasks.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// SetFPS changes the target tick rate. Non-positive values are ignored.
func (s *Scheduler) SetFPS(fps int) {
	if fps > 0 {
		s.fps.Store(int64(fps))
	}
}

// FPS returns the target tick rate.
func (s *Scheduler) FPS() int { return int(s.fps.Load()) }

// SetStep replaces the physics step.
func (s *Scheduler) SetStep(fn StepFunc) {
	s.mu.Lock()
	s.step = fn
	s.mu.Unlock()
}

// SetFrameCallback replaces the frame callback.
func (s *Scheduler) SetFrameCallback(fn func(dt float64)) {
	s.mu.Lock()
	s.frame = fn
	s.mu.Unlock()
}

// SetSimulationEnabled turns physics steps on or off. The first tick after
// enabling only starts the clock, so the first step never sees the time spent
// disabled.
func (s *Scheduler) SetSimulationEnabled(v bool) {
	if s.enabled.Swap(v) != v && v {
		s.prime.Store(true)
	}
}

// SimulationEnabled reports whether physics steps run.
func (s *Scheduler) SimulationEnabled() bool { return s.enabled.Load() }

// Running reports whether Run is active.
func (s *Scheduler) Running() bool { return s.running.Load() }

// Stats returns a snapshot of the loop counters.
func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Run starts the simulation worker and the loop, and blocks until ctx is
// done. Tasks still queued at that point are discarded.
func (s *Scheduler) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return errors.New(errors.ErrCodeInternal, "scheduler already running")
	}
	defer s.running.Store(false)

	if s.enabled.Load() {
		s.prime.Store(true)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.work(ctx)
		return nil
	})
	g.Go(func() error {
		defer s.discard()
		s.loop(ctx)
		return nil
	})
	return g.Wait()
}

func (s *Scheduler) work(ctx context.Context) {
	simCtx := withExec(ctx, s, KindSimulation)
	for {
		select {
		case j := <-s.jobs:
			j.fn(simCtx)
			close(j.done)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Scheduler) loop(ctx context.Context) {
	renderCtx := withExec(ctx, s, KindRender)
	for {
		start := time.Now()

		tasks := s.drain(renderCtx)
		stepped := s.simulate(renderCtx)

		elapsed := time.Since(start)
		s.mu.Lock()
		s.stats.Ticks++
		s.mu.Unlock()
		observability.Scheduler().OnTick(ctx, tasks, stepped, elapsed)

		if ctx.Err() != nil {
			return
		}

		budget := time.Second / time.Duration(s.fps.Load())
		if elapsed >= budget {
			runtime.Gosched()
			continue
		}
		t := time.NewTimer(budget - elapsed)
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
		}
	}
}

// drain runs queued tasks until the queue is empty, including tasks enqueued
// by the tasks themselves.
func (s *Scheduler) drain(ctx context.Context) int {
	n := 0
	for ctx.Err() == nil {
		t, ok := s.next()
		if !ok {
			break
		}
		start := time.Now()
		if t.Kind == KindSimulation {
			s.dispatch(ctx, t.Run)
		} else {
			t.Run(ctx)
		}
		d := time.Since(start)
		n++

		s.mu.Lock()
		s.stats.Tasks++
		s.mu.Unlock()
		s.logger.Debug("task done", "kind", t.Kind, "name", t.Name, "duration", d)
		observability.Scheduler().OnTaskComplete(ctx, t.Kind.String(), t.Name, d)
	}
	return n
}

func (s *Scheduler) simulate(ctx context.Context) bool {
	if !s.enabled.Load() || ctx.Err() != nil {
		return false
	}
	now := time.Now()
	if s.prime.CompareAndSwap(true, false) || s.lastStep.IsZero() {
		s.lastStep = now
		return false
	}
	dt := now.Sub(s.lastStep).Seconds()
	s.lastStep = now

	s.mu.Lock()
	step, frame := s.step, s.frame
	s.stats.Steps++
	s.stats.LastDelta = dt
	s.mu.Unlock()

	if frame != nil {
		frame(dt)
	}
	if step != nil {
		s.dispatch(ctx, func(ctx context.Context) { step(ctx, dt) })
	}
	return true
}

// dispatch runs fn on the simulation worker and blocks until it returns,
// serving Present calls from fn in the meantime. Once the worker has taken
// the job it always finishes it, so the wait does not watch ctx.
func (s *Scheduler) dispatch(ctx context.Context, fn func(ctx context.Context)) {
	j := job{fn: fn, done: make(chan struct{})}
	select {
	case s.jobs <- j:
	case <-ctx.Done():
		return
	}
	for {
		select {
		case <-j.done:
			return
		case c := <-s.calls:
			c.fn(ctx)
			close(c.done)
		}
	}
}

func (s *Scheduler) next() (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return Task{}, false
	}
	t := s.queue[0]
	s.queue[0] = Task{}
	s.queue = s.queue[1:]
	return t, true
}

func (s *Scheduler) discard() {
	s.mu.Lock()
	n := len(s.queue)
	s.queue = nil
	s.stats.Discarded += uint64(n)
	s.mu.Unlock()
	if n > 0 {
		s.logger.Debug("discarded queued tasks", "count", n)
	}
}
