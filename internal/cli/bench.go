package cli

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/colorgraph/pkg/coloring"
	"github.com/matzehuels/colorgraph/pkg/config"
	"github.com/matzehuels/colorgraph/pkg/errors"
	"github.com/matzehuels/colorgraph/pkg/graph"
)

const defaultBenchRuns = 10

// benchResult aggregates repeated runs of one colorer.
type benchResult struct {
	Colorer string
	Runs    int
	Colors  int
	Min     time.Duration
	Mean    time.Duration
	Max     time.Duration
}

// benchCommand creates the bench command.
func (c *CLI) benchCommand() *cobra.Command {
	var (
		gf   graphFlags
		runs int
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time every colorer on the same random graph",
		Long: `Generate one random graph and color it --runs times with every colorer,
resetting the colors before each run. Reports the color count and the
min/mean/max duration per colorer.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if runs <= 0 {
				return errors.New(errors.ErrCodeInvalidInput, "runs must be positive, got %d", runs)
			}
			gc, err := gf.resolve(cmd, c.config().Generate)
			if err != nil {
				return err
			}
			return c.runBench(cmd.Context(), gc, runs)
		},
	}

	gf.bind(cmd)
	cmd.Flags().IntVarP(&runs, "runs", "r", defaultBenchRuns, "runs per colorer")

	return cmd
}

func (c *CLI) runBench(ctx context.Context, gc config.GenerateConfig, runs int) error {
	g, err := newGraph(gc)
	if err != nil {
		return err
	}

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinnerWithContext(ctx, "Benchmarking...")
	spinner.Start()

	var results []benchResult
	for _, col := range coloring.All[int]() {
		spinner.SetMessage(fmt.Sprintf("Benchmarking %s...", col.Name()))
		res, err := benchColorer(ctx, col, g, runs)
		if err != nil {
			spinner.StopWithError("Benchmark cancelled")
			return err
		}
		results = append(results, res)
	}
	spinner.Stop()
	prog.done("Benchmark complete")

	printInfo("Random graph")
	printStats(g.Len(), g.EdgeCount(), 0)
	printNewline()
	fmt.Fprintln(stdout, benchTable(results))
	return nil
}

// benchColorer runs col on g runs times.
func benchColorer(ctx context.Context, col coloring.Colorer[int], g *graph.Graph[int], runs int) (benchResult, error) {
	res := benchResult{Colorer: col.Name(), Runs: runs}
	durations := make([]time.Duration, 0, runs)
	for range runs {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		r := coloring.Run(ctx, col, g)
		res.Colors = r.Colors
		durations = append(durations, r.Duration)
	}

	var total time.Duration
	for _, d := range durations {
		total += d
	}
	res.Min = slices.Min(durations)
	res.Max = slices.Max(durations)
	res.Mean = total / time.Duration(len(durations))
	return res, nil
}

// benchTable renders results as a bordered table. The fewest colors are
// highlighted.
func benchTable(results []benchResult) string {
	best := -1
	for _, r := range results {
		if best < 0 || r.Colors < best {
			best = r.Colors
		}
	}

	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			r.Colorer,
			fmt.Sprint(r.Colors),
			fmt.Sprint(r.Runs),
			r.Min.String(),
			r.Mean.String(),
			r.Max.String(),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Colorer", "Colors", "Runs", "Min", "Mean", "Max").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return styleHeader.Padding(0, 1)
			}
			if row < len(results) && col == 1 && results[row].Colors == best {
				return base.Foreground(colorGreen).Bold(true)
			}
			if col >= 3 {
				return base.Foreground(colorGray)
			}
			return base
		})
	return t.Render()
}
