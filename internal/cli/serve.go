package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/colorgraph/internal/server"
	"github.com/matzehuels/colorgraph/pkg/config"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr     string
	generate bool          // start with a random graph instead of an empty one
	simulate bool          // start with the physics simulation enabled
	timeout  time.Duration // how long a request waits for its intent to apply
	maxNodes int           // largest graph POST /graph/generate accepts
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var gf graphFlags
	opts := serveOpts{
		addr:     server.DefaultAddr,
		simulate: true,
		timeout:  server.DefaultSyncTimeout,
		maxNodes: server.DefaultMaxNodes,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a live renderer over HTTP",
		Long: `Run a renderer and expose it over HTTP.

Mutating requests are queued on the renderer's task loop; each response is
the view after the request was applied. GET /events streams a "change" event
with the full view whenever nodes, edges or colors change.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gc, err := gf.resolve(cmd, c.config().Generate)
			if err != nil {
				return err
			}
			return c.runServe(cmd.Context(), gc, opts)
		},
	}

	gf.bind(cmd)
	cmd.Flags().StringVarP(&opts.addr, "addr", "a", opts.addr, "listen address")
	cmd.Flags().BoolVar(&opts.generate, "generate", false, "start with a random graph")
	cmd.Flags().BoolVar(&opts.simulate, "simulate", opts.simulate, "start with the simulation running")
	cmd.Flags().DurationVar(&opts.timeout, "sync-timeout", opts.timeout, "how long a request waits to be applied")
	cmd.Flags().IntVar(&opts.maxNodes, "max-nodes", opts.maxNodes, "largest graph the generate endpoint accepts")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, gc config.GenerateConfig, opts serveOpts) error {
	r, err := c.newRenderer(gc.Seed)
	if err != nil {
		return err
	}
	if opts.generate {
		r.Rebuild("generate", generateInto(gc))
	}
	r.SetSimulationEnabled(opts.simulate)

	srv := server.New(r,
		server.WithLogger(c.Logger.WithPrefix("http")),
		server.WithSyncTimeout(opts.timeout),
		server.WithMaxNodes(opts.maxNodes))
	defer srv.Close()

	printSuccess("Serving on %s", StyleLink.Render("http://"+displayAddr(opts.addr)))
	printDetail("press ctrl+c to stop")
	printNewline()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return r.Run(gctx) })
	g.Go(func() error { return srv.ListenAndServe(gctx, opts.addr) })
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// displayAddr turns a bare ":port" into "localhost:port".
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
