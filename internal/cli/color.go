package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/colorgraph/pkg/coloring"
	"github.com/matzehuels/colorgraph/pkg/config"
	"github.com/matzehuels/colorgraph/pkg/errors"
	"github.com/matzehuels/colorgraph/pkg/graph"
	"github.com/matzehuels/colorgraph/pkg/palette"
)

// colorerAll selects every registered colorer.
const colorerAll = "all"

// colorCommand creates the color command.
func (c *CLI) colorCommand() *cobra.Command {
	var (
		gf      graphFlags
		colorer string
		dump    bool
	)

	cmd := &cobra.Command{
		Use:   "color",
		Short: "Color a random graph",
		Long: `Generate a random graph and color it with one or all colorers.

Each node picks a random number of other nodes within --neighbors as its
neighbors, so degrees are usually higher than the range suggests. Every
coloring is checked for validity before it is reported.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gc, err := gf.resolve(cmd, c.config().Generate)
			if err != nil {
				return err
			}
			colorers, err := selectColorers(colorer)
			if err != nil {
				return err
			}
			return c.runColor(cmd.Context(), gc, colorers, dump)
		},
	}

	gf.bind(cmd)
	cmd.Flags().StringVar(&colorer, "colorer", colorerAll, "colorer: "+strings.Join(coloring.IDs(), ", ")+" or all")
	cmd.Flags().BoolVar(&dump, "dump", false, "print every node with its color and neighbors")

	return cmd
}

// runColor generates the graph once and colors it with each colorer in turn.
func (c *CLI) runColor(ctx context.Context, gc config.GenerateConfig, colorers []coloring.Colorer[int], dump bool) error {
	logger := loggerFromContext(ctx)

	g, err := newGraph(gc)
	if err != nil {
		return err
	}
	logger.Debug("generated graph", "nodes", g.Len(), "edges", g.EdgeCount(), "seed", gc.Seed)

	printInfo("Random graph")
	printStats(g.Len(), g.EdgeCount(), 0)
	printDetail("seed %d", gc.Seed)
	printNewline()

	for _, col := range colorers {
		if err := ctx.Err(); err != nil {
			return err
		}
		res := coloring.Run(ctx, col, g)
		if !coloring.Valid(g) {
			return errors.New(errors.ErrCodeInternal, "%s produced an invalid coloring", col.Name())
		}
		printSuccess("%s: %s", col.Name(), StyleNumber.Render(fmt.Sprintf("%d colors", res.Colors)))
		printDetail("%s", res.Duration)
		if shown, err := paletteDistinct(c.config().Render.Palette, res.Colors); err == nil && shown < res.Colors {
			printWarning("Palette %q draws only %d of %d colors distinctly", c.config().Render.Palette, shown, res.Colors)
		}
		if dump {
			printGraph(g)
		}
	}

	printNewline()
	printNextStep("Compare timings", appName+" bench --nodes "+fmt.Sprint(gc.Nodes))
	return nil
}

// selectColorers resolves the --colorer flag.
func selectColorers(name string) ([]coloring.Colorer[int], error) {
	if name == "" || strings.EqualFold(name, colorerAll) {
		return coloring.All[int](), nil
	}
	col, err := coloring.Lookup[int](name)
	if err != nil {
		return nil, err
	}
	return []coloring.Colorer[int]{col}, nil
}

// paletteDistinct returns how many of the classes 0..colors-1 the named
// palette draws in different colors.
func paletteDistinct(name string, colors int) (int, error) {
	resolve, err := palette.Lookup(name)
	if err != nil {
		return 0, err
	}
	classes := make([]int, colors)
	for i := range classes {
		classes[i] = i
	}
	return palette.Distinct(resolve, classes), nil
}

// printGraph prints one line per node: value, color class and neighbors.
func printGraph(g *graph.Graph[int]) {
	for _, n := range g.Nodes() {
		fmt.Fprintf(stdout, "    %s %s %s\n",
			StyleValue.Render(fmt.Sprintf("%4d", n.Value())),
			StyleNumber.Render(fmt.Sprintf("c%-3d", n.Color)),
			StyleDim.Render(fmt.Sprint(n.Neighbors())))
	}
}
