// Package nodelink exports a rendered graph view as a Graphviz diagram.
//
// # Usage
//
// Take a snapshot from a renderer and convert it to DOT, then render to SVG:
//
//	view := r.Snapshot()
//	dot := nodelink.ToDOT(view, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Or pick the format by name, as the CLI and HTTP server do:
//
//	out, err := nodelink.Export(ctx, view, "png", nodelink.Options{Scale: 2})
//
// # Layout
//
// The diagram reproduces the force-directed layout rather than computing a
// new one. Every node carries a pinned pos attribute in canvas points and the
// SVG is produced by the neato engine, which keeps pinned nodes in place.
// Nodes are filled with the colors resolved by the renderer's palette.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
