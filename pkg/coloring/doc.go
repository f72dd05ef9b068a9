// Package coloring assigns color classes to the nodes of a colored graph.
//
// Three strategies implement [Colorer]:
//
//   - [Fast]: greedy sweep, one color value at a time
//   - [RLF]: Recursive Largest First
//   - [RSF]: Recursive Smallest First
//
// All of them run in place, never fail, and leave every node with a
// non-negative color that differs from the colors of its neighbors (graphs with
// self-loops cannot be properly colored and are colored best-effort).
//
// # Registry
//
// [All] lists the strategies in a fixed order for iteration, and [Lookup]
// resolves a strategy by id ("fast", "rlf", "rsf") or display name:
//
//	c, err := coloring.Lookup[int]("rlf")
//	if err != nil {
//	    return err
//	}
//	res := coloring.Run(ctx, c, g) // reset, color, emit hooks
//	fmt.Println(res.Colors)
//
// Coloring is synchronous. When the graph is shared with a running layout,
// enqueue the recolor as a task instead of calling it directly.
package coloring
