package render_test

import (
	"fmt"

	"github.com/matzehuels/colorgraph/pkg/coloring"
	"github.com/matzehuels/colorgraph/pkg/generate"
	"github.com/matzehuels/colorgraph/pkg/graph"
	"github.com/matzehuels/colorgraph/pkg/layout"
	"github.com/matzehuels/colorgraph/pkg/render"
)

func ExampleRenderer_Snapshot() {
	g := graph.NewColored[int]()
	generate.Cycle(g, 5)
	coloring.Fast[int]{}.Color(g)

	lay := layout.New(g)
	lay.Reset()

	r := render.New(lay, generate.NextInt(g))
	fmt.Println(r.Snapshot())
	// Output: 5 nodes, 5 edges, 3 colors
}
