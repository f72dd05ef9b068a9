// Package cli implements the colorgraph command-line interface.
//
// The commands generate random graphs, color them with the registered
// colorers, drive the force layout through a renderer, export positioned
// drawings, and serve a live renderer over HTTP. The CLI is built using cobra
// and logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - color: Color a random graph with one or all colorers
//   - bench: Time every colorer over repeated runs
//   - simulate: Run the layout simulation headless or in a terminal UI
//   - render: Settle a layout and export it as DOT, SVG, PDF or PNG
//   - serve: Expose a live renderer over HTTP with an event stream
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. In verbose mode
// the scheduler, coloring and layout observability hooks log through the same
// logger. Loggers are passed through context.Context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/colorgraph/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Layout settled (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// ctxKey is the type for context keys used in this package.
type ctxKey int

// loggerKey is the context key for storing a logger.
const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Observability Hooks
// =============================================================================

// logHooks forwards observability events to a logger at debug level.
type logHooks struct {
	logger *log.Logger
}

// registerLogHooks installs logging hooks for every observability category.
func registerLogHooks(l *log.Logger) {
	h := logHooks{logger: l.WithPrefix("hooks")}
	observability.SetSchedulerHooks(h)
	observability.SetColoringHooks(h)
	observability.SetLayoutHooks(h)
}

func (h logHooks) OnTaskComplete(_ context.Context, kind, name string, d time.Duration) {
	h.logger.Debug("task done", "kind", kind, "name", name, "duration", d)
}

// OnTick skips idle ticks.
func (h logHooks) OnTick(_ context.Context, tasks int, stepped bool, d time.Duration) {
	if tasks == 0 {
		return
	}
	h.logger.Debug("tick", "tasks", tasks, "stepped", stepped, "duration", d)
}

func (h logHooks) OnColorStart(_ context.Context, colorer string, nodes int) {
	h.logger.Debug("coloring", "colorer", colorer, "nodes", nodes)
}

func (h logHooks) OnColorComplete(_ context.Context, colorer string, nodes, colors int, d time.Duration) {
	h.logger.Debug("colored", "colorer", colorer, "nodes", nodes, "colors", colors, "duration", d)
}

func (h logHooks) OnReset(_ context.Context, nodes int) {
	h.logger.Debug("layout reset", "nodes", nodes)
}

func (h logHooks) OnSettled(_ context.Context, nodes, steps int) {
	h.logger.Debug("layout settled", "nodes", nodes, "steps", steps)
}
