// Package layout arranges a graph on a 2D canvas with a spring simulation.
//
// A [GraphLayout] wraps a [graph.Graph] and keeps one [NodeLayout] per node:
// a position, an accumulated acceleration and a flag that pauses the physics
// for a node while it is being dragged. Every edge acts as a spring whose rest
// length is the preferred distance; unconnected nodes that come closer than
// that distance push each other apart; every node is pulled towards the
// canvas center.
//
// The canvas is centered on the origin and spans [-w/2, w/2] x [-h/2, h/2].
//
// # Simulation
//
// [GraphLayout.Update] advances the simulation by one step and reports whether
// any node moved. The preferred distance shrinks as nodes are added:
//
//	pd = max(min(w, h)/3 - minDistance, 0) * (1 - 1/50)^n + minDistance
//
// It is recomputed lazily, at the start of the first step after the canvas
// size or the node count changed.
//
// # Structural changes
//
// [GraphLayout.CreateNode], [GraphLayout.RemoveNode], [GraphLayout.ConnectNodes]
// and [GraphLayout.DisconnectNodes] mutate the wrapped graph first and then
// mirror the change in the layout. Requests that would be no-ops (self-pairs,
// unknown items) leave both untouched.
//
// A GraphLayout is not safe for concurrent use; drive it from scheduler tasks.
package layout
