// Package pkg provides the core libraries for colorgraph, an interactive
// graph coloring playground.
//
// # Overview
//
// colorgraph generates undirected graphs, colors them with greedy heuristics
// and lays them out with a force-directed simulation. The pkg directory is
// organized into three areas:
//
//  1. Graph and coloring ([graph], [coloring], [generate])
//  2. Simulation ([vector], [layout], [scheduler], [render])
//  3. Infrastructure ([config], [cache], [errors], [observability], [palette], [buildinfo])
//
// # Architecture
//
// Every change to a drawn graph flows through one loop:
//
//	user intent (CLI, TUI, HTTP)
//	         ↓
//	    [render] Renderer (enqueue a task)
//	         ↓
//	    [scheduler] (drain tasks, then step the physics once per frame)
//	         ↓
//	    [layout] (forces on the [graph], positions as [vector] values)
//	         ↓
//	    render.View snapshot → [render/nodelink] DOT/SVG/PDF/PNG
//
// Tasks and physics steps never run concurrently, so the graph, its colors
// and the layout are only touched from the scheduler goroutine.
//
// # Quick Start
//
// Color a random graph:
//
//	g := graph.NewColored[int]()
//	rng := rand.New(rand.NewPCG(1, 1))
//	_ = generate.Random(g, 50, 1, 4, rng)
//	res := coloring.Run(ctx, coloring.RLF[int]{}, g)
//	fmt.Println(res.Colors, coloring.Valid(g))
//
// Drive a live simulation:
//
//	lay := layout.New(g, layout.WithSeed(1))
//	r := render.New(lay, generate.NextInt(g), render.WithFPS(60))
//	r.Reset()
//	r.Recolor(coloring.Fast[int]{})
//	r.SetSimulationEnabled(true)
//	go r.Run(ctx)
//
// # Testing
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/coloring/...  # Specific package
//	go test -run Example        # Examples only
//
// [graph]: https://pkg.go.dev/github.com/matzehuels/colorgraph/pkg/graph
// [coloring]: https://pkg.go.dev/github.com/matzehuels/colorgraph/pkg/coloring
// [generate]: https://pkg.go.dev/github.com/matzehuels/colorgraph/pkg/generate
// [vector]: https://pkg.go.dev/github.com/matzehuels/colorgraph/pkg/vector
// [layout]: https://pkg.go.dev/github.com/matzehuels/colorgraph/pkg/layout
// [scheduler]: https://pkg.go.dev/github.com/matzehuels/colorgraph/pkg/scheduler
// [render]: https://pkg.go.dev/github.com/matzehuels/colorgraph/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/colorgraph/pkg/render/nodelink
// [config]: https://pkg.go.dev/github.com/matzehuels/colorgraph/pkg/config
// [cache]: https://pkg.go.dev/github.com/matzehuels/colorgraph/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/colorgraph/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/colorgraph/pkg/observability
// [palette]: https://pkg.go.dev/github.com/matzehuels/colorgraph/pkg/palette
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/colorgraph/pkg/buildinfo
package pkg
