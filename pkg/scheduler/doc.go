// Package scheduler serializes structural mutations and physics steps on a
// fixed-rate loop.
//
// # Model
//
// A [Scheduler] owns one unbounded FIFO of [Task] values and one perpetual
// loop. Each tick the loop:
//
//  1. drains every queued task, in enqueue order, running each to completion
//  2. if the simulation is enabled, runs one physics step with the wall-clock
//     delta since the previous step
//  3. sleeps for the rest of the tick budget (1s / FPS), or yields when the
//     tick overran it
//
// # Execution contexts
//
// The loop goroutine is the presentation context: render tasks run on it
// directly. Simulation task bodies and physics steps are dispatched to a
// single dedicated worker goroutine, and the loop blocks until the body
// returns. No two simulation bodies, and no simulation body and a later
// render task, ever run concurrently.
//
// A simulation body can hand work back to the presentation context with
// [Present]; a render task can borrow the worker with [Simulate]. Both block
// until the handed-off function returns:
//
//	s.Enqueue(scheduler.Simulation("create-node", func(ctx context.Context) {
//	    n := layout.CreateNode(item, x, y)
//	    scheduler.Present(ctx, func(ctx context.Context) {
//	        view.add(n)
//	    })
//	}))
//
// # Stopping
//
// Cancel the context passed to [Scheduler.Run]. In-flight tasks finish;
// tasks still queued are discarded.
package scheduler
