package cli

import (
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/colorgraph/pkg/buildinfo"
	"github.com/matzehuels/colorgraph/pkg/cache"
	"github.com/matzehuels/colorgraph/pkg/config"
	"github.com/matzehuels/colorgraph/pkg/errors"
	"github.com/matzehuels/colorgraph/pkg/generate"
	"github.com/matzehuels/colorgraph/pkg/graph"
	"github.com/matzehuels/colorgraph/pkg/layout"
	"github.com/matzehuels/colorgraph/pkg/palette"
	"github.com/matzehuels/colorgraph/pkg/render"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used in help text and next-step hints.
const appName = "colorgraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Colorgraph colors graphs and lays them out with a force simulation",
		Long: `Colorgraph colors undirected graphs with greedy heuristics (Fast, RLF, RSF)
and arranges them with a force-directed layout driven by a fixed-rate task loop.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			if c.Logger.GetLevel() <= log.DebugLevel {
				registerLogHooks(c.Logger)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default: $"+config.EnvPath+" or ./colorgraph.toml)")

	root.AddCommand(c.colorCommand())
	root.AddCommand(c.benchCommand())
	root.AddCommand(c.simulateCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

func (c *CLI) loadConfig() error {
	if c.configPath != "" {
		cfg, err := config.Load(c.configPath)
		if err != nil {
			return err
		}
		c.cfg = cfg
		c.Logger.Debug("loaded config", "path", c.configPath)
		return nil
	}
	cfg, path, err := config.LoadDefault()
	if err != nil {
		return err
	}
	c.cfg = cfg
	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}
	return nil
}

// config returns the loaded configuration, or defaults before loadConfig ran.
func (c *CLI) config() *config.Config {
	if c.cfg == nil {
		c.cfg = config.Default()
	}
	return c.cfg
}

// =============================================================================
// Graph Flags
// =============================================================================

// graphFlags are the random-graph flags shared by several commands. Flags the
// user did not set fall back to the config file.
type graphFlags struct {
	nodes     int
	neighbors string
	seed      uint64
}

func (f *graphFlags) bind(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.nodes, "nodes", "n", generate.DefaultNodes, "number of nodes")
	cmd.Flags().StringVar(&f.neighbors, "neighbors", strconv.Itoa(generate.DefaultMinNeighbors)+"-"+strconv.Itoa(generate.DefaultMaxNeighbors),
		"neighbors picked per node: N or MIN-MAX")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "random seed (0 picks one)")
}

// resolve merges the flags the user set over cfg and validates the result.
func (f *graphFlags) resolve(cmd *cobra.Command, cfg config.GenerateConfig) (config.GenerateConfig, error) {
	if cmd.Flags().Changed("nodes") {
		cfg.Nodes = f.nodes
	}
	if cmd.Flags().Changed("neighbors") {
		lo, hi, err := parseNeighbors(f.neighbors)
		if err != nil {
			return cfg, err
		}
		cfg.MinNeighbors, cfg.MaxNeighbors = lo, hi
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = f.seed
	}
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}
	return cfg, errors.ValidateNeighborRange(cfg.Nodes, cfg.MinNeighbors, cfg.MaxNeighbors)
}

// =============================================================================
// Builders
// =============================================================================

// newGraph builds a colored random graph from gc. gc.Seed must be set.
func newGraph(gc config.GenerateConfig) (*graph.Graph[int], error) {
	g := graph.NewColored[int]()
	if err := generate.Random(g, gc.Nodes, gc.MinNeighbors, gc.MaxNeighbors, newRand(gc.Seed)); err != nil {
		return nil, err
	}
	return g, nil
}

// newRenderer returns a renderer over an empty colored graph, configured from
// the loaded config. Callers fill the graph with Rebuild.
func (c *CLI) newRenderer(seed uint64, opts ...render.Option) (*render.Renderer[int], error) {
	cfg := c.config()
	resolve, err := palette.Lookup(cfg.Render.Palette)
	if err != nil {
		return nil, err
	}

	g := graph.NewColored[int]()
	lay := layout.New(g, layout.WithOptions(cfg.Layout), layout.WithSeed(seed))
	base := []render.Option{
		render.WithLogger(c.Logger),
		render.WithFPS(cfg.Scheduler.FPS),
		render.WithNodeRadius(cfg.Render.NodeRadius),
		render.WithCanvasSize(cfg.Render.Width, cfg.Render.Height),
		render.WithColorResolver(resolve),
	}
	return render.New(lay, generate.NextInt(g), append(base, opts...)...), nil
}

// generateInto returns a Rebuild function that fills the graph from gc.
func generateInto(gc config.GenerateConfig) func(g *graph.Graph[int]) {
	return func(g *graph.Graph[int]) {
		// gc was validated by graphFlags.resolve.
		_ = generate.Random(g, gc.Nodes, gc.MinNeighbors, gc.MaxNeighbors, newRand(gc.Seed))
	}
}

// =============================================================================
// Cache
// =============================================================================

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/colorgraph/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Parsing Helpers
// =============================================================================

// newRand returns a PCG generator seeded with seed.
func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// parseNeighbors parses "N" or "MIN-MAX".
func parseNeighbors(s string) (lo, hi int, err error) {
	s = strings.TrimSpace(s)
	minStr, maxStr, ranged := strings.Cut(s, "-")
	if !ranged {
		maxStr = minStr
	}
	lo, err = strconv.Atoi(strings.TrimSpace(minStr))
	if err != nil {
		return 0, 0, errors.New(errors.ErrCodeInvalidInput, "invalid neighbor count %q", s)
	}
	hi, err = strconv.Atoi(strings.TrimSpace(maxStr))
	if err != nil {
		return 0, 0, errors.New(errors.ErrCodeInvalidInput, "invalid neighbor count %q", s)
	}
	if lo < 0 || hi < lo {
		return 0, 0, errors.New(errors.ErrCodeInvalidInput, "invalid neighbor range %q", s)
	}
	return lo, hi, nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{"svg"}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}
