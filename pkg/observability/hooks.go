// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about scheduler ticks, task execution, coloring runs and
// layout resets.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, never by libraries, so the engine packages
// stay free of observability frameworks and import cycles.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetSchedulerHooks(&mySchedulerHooks{})
//	    observability.SetColoringHooks(&myColoringHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Coloring().OnColorStart(ctx, "rlf", g.Len())
//	// ... color ...
//	observability.Coloring().OnColorComplete(ctx, "rlf", nodes, colors, duration)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Scheduler Hooks
// =============================================================================

// SchedulerHooks receives events from the task loop.
type SchedulerHooks interface {
	// OnTaskComplete records one drained task. kind is "render" or "simulation".
	OnTaskComplete(ctx context.Context, kind, name string, duration time.Duration)

	// OnTick records one loop iteration: how many tasks were drained and
	// whether a physics step ran.
	OnTick(ctx context.Context, tasks int, stepped bool, duration time.Duration)
}

// =============================================================================
// Coloring Hooks
// =============================================================================

// ColoringHooks receives events from coloring runs.
type ColoringHooks interface {
	OnColorStart(ctx context.Context, colorer string, nodes int)
	OnColorComplete(ctx context.Context, colorer string, nodes, colors int, duration time.Duration)
}

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from the layout engine.
type LayoutHooks interface {
	// OnReset records a full reseed of the layout.
	OnReset(ctx context.Context, nodes int)

	// OnSettled records the first step after which no node moved.
	OnSettled(ctx context.Context, nodes int, steps int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSchedulerHooks is a no-op implementation of SchedulerHooks.
type NoopSchedulerHooks struct{}

func (NoopSchedulerHooks) OnTaskComplete(context.Context, string, string, time.Duration) {}
func (NoopSchedulerHooks) OnTick(context.Context, int, bool, time.Duration)             {}

// NoopColoringHooks is a no-op implementation of ColoringHooks.
type NoopColoringHooks struct{}

func (NoopColoringHooks) OnColorStart(context.Context, string, int)                          {}
func (NoopColoringHooks) OnColorComplete(context.Context, string, int, int, time.Duration) {}

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnReset(context.Context, int)        {}
func (NoopLayoutHooks) OnSettled(context.Context, int, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	schedulerHooks SchedulerHooks = NoopSchedulerHooks{}
	coloringHooks  ColoringHooks  = NoopColoringHooks{}
	layoutHooks    LayoutHooks    = NoopLayoutHooks{}
	hooksMu        sync.RWMutex
)

// SetSchedulerHooks registers custom scheduler hooks.
// This should be called once at application startup before any loop runs.
func SetSchedulerHooks(h SchedulerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		schedulerHooks = h
	}
}

// SetColoringHooks registers custom coloring hooks.
func SetColoringHooks(h ColoringHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		coloringHooks = h
	}
}

// SetLayoutHooks registers custom layout hooks.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// Scheduler returns the registered scheduler hooks.
func Scheduler() SchedulerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return schedulerHooks
}

// Coloring returns the registered coloring hooks.
func Coloring() ColoringHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return coloringHooks
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	schedulerHooks = NoopSchedulerHooks{}
	coloringHooks = NoopColoringHooks{}
	layoutHooks = NoopLayoutHooks{}
}
