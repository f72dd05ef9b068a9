package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	s := NoopSchedulerHooks{}
	s.OnTaskComplete(ctx, "simulation", "create-node", time.Millisecond)
	s.OnTick(ctx, 3, true, time.Millisecond)

	c := NoopColoringHooks{}
	c.OnColorStart(ctx, "rlf", 10)
	c.OnColorComplete(ctx, "rlf", 10, 3, time.Millisecond)

	l := NoopLayoutHooks{}
	l.OnReset(ctx, 10)
	l.OnSettled(ctx, 10, 250)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Scheduler().(NoopSchedulerHooks); !ok {
		t.Error("Scheduler() should return NoopSchedulerHooks by default")
	}
	if _, ok := Coloring().(NoopColoringHooks); !ok {
		t.Error("Coloring() should return NoopColoringHooks by default")
	}
	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Layout() should return NoopLayoutHooks by default")
	}

	customScheduler := &testSchedulerHooks{}
	SetSchedulerHooks(customScheduler)
	if Scheduler() != customScheduler {
		t.Error("SetSchedulerHooks should set custom hooks")
	}

	customColoring := &testColoringHooks{}
	SetColoringHooks(customColoring)
	if Coloring() != customColoring {
		t.Error("SetColoringHooks should set custom hooks")
	}

	customLayout := &testLayoutHooks{}
	SetLayoutHooks(customLayout)
	if Layout() != customLayout {
		t.Error("SetLayoutHooks should set custom hooks")
	}

	Reset()
	if _, ok := Scheduler().(NoopSchedulerHooks); !ok {
		t.Error("Reset() should restore NoopSchedulerHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testColoringHooks{}
	SetColoringHooks(custom)

	// Setting nil should be ignored
	SetColoringHooks(nil)

	if Coloring() != custom {
		t.Error("SetColoringHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testSchedulerHooks struct{ NoopSchedulerHooks }
type testColoringHooks struct{ NoopColoringHooks }
type testLayoutHooks struct{ NoopLayoutHooks }
