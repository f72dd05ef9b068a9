package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/colorgraph/pkg/coloring"
	"github.com/matzehuels/colorgraph/pkg/config"
	"github.com/matzehuels/colorgraph/pkg/errors"
	"github.com/matzehuels/colorgraph/pkg/render"
)

// pollInterval is how often headless runs check the renderer.
const pollInterval = 50 * time.Millisecond

// simulateOpts holds the command-line flags for the simulate command.
type simulateOpts struct {
	colorer   string        // colorer applied after generation; "" leaves nodes uncolored
	duration  time.Duration // wall-clock limit; 0 means none
	untilRest bool          // stop once a physics step moves nothing
	tui       bool          // interactive terminal view
	fps       int           // tick rate override; 0 keeps the config value
}

// simulateCommand creates the simulate command.
func (c *CLI) simulateCommand() *cobra.Command {
	var gf graphFlags
	opts := simulateOpts{
		colorer:   coloring.IDRLF,
		duration:  10 * time.Second,
		untilRest: true,
	}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run the force layout on a random graph",
		Long: `Generate and color a random graph, then run the force-directed layout on the
task loop. Headless runs stop when the layout comes to rest or --duration
elapses, whichever is first. With --tui the simulation runs until you quit:

  space  toggle the simulation      r  reseed positions
  c      cycle the colorer          g  generate a new graph
  q      quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !opts.tui && opts.duration <= 0 && !opts.untilRest {
				return errors.New(errors.ErrCodeInvalidInput, "a headless run needs --duration or --until-rest")
			}
			if opts.fps != 0 {
				if err := errors.ValidateFPS(opts.fps); err != nil {
					return err
				}
			}
			gc, err := gf.resolve(cmd, c.config().Generate)
			if err != nil {
				return err
			}
			return c.runSimulate(cmd.Context(), gc, opts)
		},
	}

	gf.bind(cmd)
	cmd.Flags().StringVar(&opts.colorer, "colorer", opts.colorer, "colorer: "+strings.Join(coloring.IDs(), ", ")+" (empty for none)")
	cmd.Flags().DurationVarP(&opts.duration, "duration", "d", opts.duration, "stop after this long (0 for no limit)")
	cmd.Flags().BoolVar(&opts.untilRest, "until-rest", opts.untilRest, "stop when the layout comes to rest")
	cmd.Flags().BoolVar(&opts.tui, "tui", false, "show an interactive terminal view")
	cmd.Flags().IntVar(&opts.fps, "fps", 0, "tick rate (default from config)")

	return cmd
}

func (c *CLI) runSimulate(ctx context.Context, gc config.GenerateConfig, opts simulateOpts) error {
	logger := loggerFromContext(ctx)

	var col coloring.Colorer[int]
	if opts.colorer != "" {
		var err error
		if col, err = coloring.Lookup[int](opts.colorer); err != nil {
			return err
		}
	}

	meter := render.NewFPSMeter(0)
	ropts := []render.Option{render.WithFrameCallback(func(dt float64) { meter.Observe(dt) })}
	if opts.fps > 0 {
		ropts = append(ropts, render.WithFPS(opts.fps))
	}
	r, err := c.newRenderer(gc.Seed, ropts...)
	if err != nil {
		return err
	}

	r.Rebuild("generate", generateInto(gc))
	if col != nil {
		r.Recolor(col)
	}
	r.SetSimulationEnabled(true)

	if opts.tui {
		return runSimulationTUI(ctx, newSimModel(r, meter, gc, col))
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	errc := make(chan error, 1)
	go func() { errc <- r.Run(runCtx) }()

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, "Simulating...")
	spinner.Start()
	settled, waitErr := waitForRest(ctx, r, spinner, opts.duration, opts.untilRest)
	spinner.Stop()

	cancel()
	if err := <-errc; err != nil {
		return err
	}
	if waitErr != nil {
		return waitErr
	}

	stats := r.Scheduler().Stats()
	v := r.Snapshot()
	if settled {
		prog.done("Layout settled")
		printSuccess("Layout settled")
	} else if opts.untilRest {
		printWarning("Layout still moving after %s", opts.duration)
	} else {
		printSuccess("Simulation finished")
	}
	printStats(len(v.Nodes), len(v.Edges), v.Colors)
	printKeyValue("steps", fmt.Sprint(stats.Steps))
	printKeyValue("ticks", fmt.Sprint(stats.Ticks))
	printKeyValue("tasks", fmt.Sprint(stats.Tasks))
	printKeyValue("fps", fmt.Sprintf("%.1f", meter.FPS()))
	printNewline()
	printNextStep("Export the layout", appName+" render --seed "+fmt.Sprint(gc.Seed))
	return nil
}

// waitForRest polls r until it rests (when untilRest is set), limit elapses,
// or ctx is done. It reports whether the layout came to rest.
func waitForRest(ctx context.Context, r *render.Renderer[int], spinner *Spinner, limit time.Duration, untilRest bool) (bool, error) {
	var deadline <-chan time.Time
	if limit > 0 {
		timer := time.NewTimer(limit)
		defer timer.Stop()
		deadline = timer.C
	}
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-deadline:
			return r.Resting(), nil
		case <-ticker.C:
			if spinner != nil {
				spinner.SetMessage(fmt.Sprintf("Simulating... %d steps", r.Scheduler().Stats().Steps))
			}
			if untilRest && r.Resting() {
				return true, nil
			}
		}
	}
}
