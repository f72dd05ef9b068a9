package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/colorgraph/pkg/cache"
	"github.com/matzehuels/colorgraph/pkg/coloring"
	"github.com/matzehuels/colorgraph/pkg/config"
	"github.com/matzehuels/colorgraph/pkg/errors"
	"github.com/matzehuels/colorgraph/pkg/render"
	"github.com/matzehuels/colorgraph/pkg/render/nodelink"
)

const (
	defaultOutput = "graph"
	layoutTTL     = 7 * 24 * time.Hour
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string        // output file (single format) or base path (several)
	formats    []string      // export formats: dot, svg, pdf, png
	colorer    string        // colorer applied before settling
	settle     time.Duration // longest time to wait for the layout to rest
	hideLabels bool          // omit node labels
	scale      float64       // PNG scale factor
	noCache    bool          // always settle a fresh layout
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		gf         graphFlags
		formatsStr string
	)
	opts := renderOpts{
		colorer: coloring.IDRLF,
		settle:  5 * time.Second,
		scale:   1,
	}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Settle a colored random graph and export the drawing",
		Long: `Generate and color a random graph, run the force layout until it rests (or
--settle elapses), and export the drawing with every node pinned at its
simulated position.

DOT output needs nothing else. SVG is rendered with Graphviz; PDF and PNG
additionally need rsvg-convert on the PATH.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			for _, f := range opts.formats {
				if err := errors.ValidateFormat(f, nodelink.Formats()); err != nil {
					return err
				}
			}
			if opts.settle <= 0 {
				return errors.New(errors.ErrCodeInvalidInput, "settle must be positive, got %s", opts.settle)
			}
			gc, err := gf.resolve(cmd, c.config().Generate)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), gc, opts)
		},
	}

	gf.bind(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (default: "+defaultOutput+")")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, pdf, png (comma-separated)")
	cmd.Flags().StringVar(&opts.colorer, "colorer", opts.colorer, "colorer: "+strings.Join(coloring.IDs(), ", "))
	cmd.Flags().DurationVar(&opts.settle, "settle", opts.settle, "longest time to wait for the layout to rest")
	cmd.Flags().BoolVar(&opts.hideLabels, "no-labels", false, "omit node labels")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the layout cache")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, gc config.GenerateConfig, opts renderOpts) error {
	col, err := coloring.Lookup[int](opts.colorer)
	if err != nil {
		return err
	}
	store, err := newCache(opts.noCache)
	if err != nil {
		return err
	}
	defer store.Close()

	v, settled, cached, err := c.cachedSettle(ctx, store, gc, col, opts.settle)
	if err != nil {
		return err
	}
	if cached {
		printInfo("Using cached layout")
	} else if !settled {
		printWarning("Layout still moving after %s, exporting current positions", opts.settle)
	}

	base := basePath(opts.output, opts.formats)
	exportOpts := nodelink.Options{HideLabels: opts.hideLabels, Scale: opts.scale}
	var written []string
	for _, format := range opts.formats {
		data, err := nodelink.Export(ctx, v, format, exportOpts)
		if err != nil {
			return fmt.Errorf("export %s: %w", format, err)
		}
		path := outputPath(opts.output, base, format, len(opts.formats))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}

	printSuccess("Rendered %s", v)
	for _, p := range written {
		printFile(p)
	}
	printStats(len(v.Nodes), len(v.Edges), v.Colors)
	return nil
}

// cachedSettle returns the settled view for these inputs from store, or
// settles one and stores it. Layouts that did not come to rest are not cached.
func (c *CLI) cachedSettle(ctx context.Context, store cache.Cache, gc config.GenerateConfig, col coloring.Colorer[int], limit time.Duration) (v render.View[int], settled, cached bool, err error) {
	cfg := c.config()
	key := cache.Key("layout", gc, cfg.Layout, cfg.Render, col.ID())

	data, hit, err := store.Get(ctx, key)
	if err != nil {
		c.Logger.Warn("layout cache read failed", "err", err)
	}
	if hit && json.Unmarshal(data, &v) == nil {
		return v, true, true, nil
	}

	v, settled, err = c.settle(ctx, gc, col, limit)
	if err != nil || !settled {
		return v, settled, false, err
	}
	if data, err := json.Marshal(v); err == nil {
		if err := store.Set(ctx, key, data, layoutTTL); err != nil {
			c.Logger.Warn("layout cache write failed", "err", err)
		}
	}
	return v, true, false, nil
}

// settle builds a renderer over a fresh random graph, colors it, and runs the
// simulation until it rests or limit elapses.
func (c *CLI) settle(ctx context.Context, gc config.GenerateConfig, col coloring.Colorer[int], limit time.Duration) (render.View[int], bool, error) {
	r, err := c.newRenderer(gc.Seed)
	if err != nil {
		return render.View[int]{}, false, err
	}
	r.Rebuild("generate", generateInto(gc))
	r.Recolor(col)
	r.SetSimulationEnabled(true)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	errc := make(chan error, 1)
	go func() { errc <- r.Run(runCtx) }()

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinnerWithContext(ctx, "Settling layout...")
	spinner.Start()
	settled, waitErr := waitForRest(ctx, r, spinner, limit, true)
	spinner.Stop()

	// Let the last published frame reflect every applied intent.
	if waitErr == nil {
		syncCtx, syncCancel := context.WithTimeout(ctx, time.Second)
		waitErr = r.Sync(syncCtx)
		syncCancel()
	}
	cancel()
	if err := <-errc; err != nil {
		return render.View[int]{}, false, err
	}
	if waitErr != nil {
		return render.View[int]{}, false, waitErr
	}
	if settled {
		prog.done("Layout settled")
	}
	return r.Snapshot(), settled, nil
}

// basePath returns the output path without extension.
func basePath(output string, formats []string) string {
	if output == "" {
		return defaultOutput
	}
	if len(formats) > 1 {
		return strings.TrimSuffix(output, filepath.Ext(output))
	}
	return output
}

// outputPath returns the file for format. A single format writes exactly to
// output when one was given.
func outputPath(output, base, format string, count int) string {
	if output != "" && count == 1 {
		return output
	}
	return base + "." + format
}
