// Package render drives a graph layout from a scheduler and publishes what a
// display needs to draw it.
//
// # Overview
//
// A [Renderer] owns a [layout.GraphLayout] and a [scheduler.Scheduler]. User
// intents such as creating a node or connecting two nodes are never applied
// directly: each one is enqueued as a task. Simulation tasks mutate the layout
// on the scheduler's worker and then hand a presentation step back to the
// loop, which refreshes the published [View] and notifies change handlers.
//
//	g := graph.NewColored[int]()
//	lay := layout.New(g)
//	r := render.New(lay, generate.NextInt(g), render.WithFPS(60))
//	r.SetSimulationEnabled(true)
//	go r.Run(ctx)
//
//	r.CreateNode(400, 300)
//	r.Recolor(coloring.RLF[int]{})
//	view := r.Snapshot()
//
// # Coordinates
//
// Intent and view coordinates are canvas coordinates: (0, 0) is the top-left
// corner of a canvas of the size passed to [Renderer.Resize]. The layout works
// in coordinates centered on the canvas, shrunk by the node radius on every
// side so circles stay fully visible.
//
// # Change Notifications
//
// Handlers registered with [Renderer.OnChange] run on the loop goroutine after
// any task that changed node or edge counts or node colors. Handlers must not
// block; they typically read [Renderer.Snapshot] or the size accessors.
//
// # Export
//
// The [nodelink] subpackage turns a [View] into Graphviz DOT with pinned
// positions and renders it to SVG.
//
// [nodelink]: github.com/matzehuels/colorgraph/pkg/render/nodelink
package render
