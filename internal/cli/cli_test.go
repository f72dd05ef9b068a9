package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/colorgraph/pkg/cache"
	"github.com/matzehuels/colorgraph/pkg/coloring"
	"github.com/matzehuels/colorgraph/pkg/config"
	"github.com/matzehuels/colorgraph/pkg/errors"
	"github.com/matzehuels/colorgraph/pkg/generate"
	"github.com/matzehuels/colorgraph/pkg/render"
)

func TestParseNeighbors(t *testing.T) {
	tests := []struct {
		in      string
		lo, hi  int
		wantErr bool
	}{
		{in: "2", lo: 2, hi: 2},
		{in: "0-3", lo: 0, hi: 3},
		{in: " 1 - 4 ", lo: 1, hi: 4},
		{in: "3-1", wantErr: true},
		{in: "x", wantErr: true},
		{in: "1-", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			lo, hi, err := parseNeighbors(tt.in)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidInput) {
					t.Fatalf("parseNeighbors(%q) error = %v, want INVALID_INPUT", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseNeighbors(%q) error = %v", tt.in, err)
			}
			if lo != tt.lo || hi != tt.hi {
				t.Errorf("parseNeighbors(%q) = %d, %d, want %d, %d", tt.in, lo, hi, tt.lo, tt.hi)
			}
		})
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"svg"}},
		{"dot", []string{"dot"}},
		{"SVG, dot,,png", []string{"svg", "dot", "png"}},
	}
	for _, tt := range tests {
		got := parseFormats(tt.in)
		if strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		output  string
		formats []string
		format  string
		want    string
	}{
		{"", []string{"svg"}, "svg", "graph.svg"},
		{"out.svg", []string{"svg"}, "svg", "out.svg"},
		{"out.svg", []string{"svg", "dot"}, "dot", "out.dot"},
		{"", []string{"svg", "dot"}, "dot", "graph.dot"},
	}
	for _, tt := range tests {
		base := basePath(tt.output, tt.formats)
		if got := outputPath(tt.output, base, tt.format, len(tt.formats)); got != tt.want {
			t.Errorf("outputPath(%q, %v, %q) = %q, want %q", tt.output, tt.formats, tt.format, got, tt.want)
		}
	}
}

func TestGraphFlagsResolve(t *testing.T) {
	cfg := config.GenerateConfig{Nodes: 30, MinNeighbors: 1, MaxNeighbors: 4, Seed: 9}

	t.Run("config fallback", func(t *testing.T) {
		var gf graphFlags
		cmd := &cobra.Command{}
		gf.bind(cmd)
		got, err := gf.resolve(cmd, cfg)
		if err != nil {
			t.Fatal(err)
		}
		if got != cfg {
			t.Errorf("resolve() = %+v, want %+v", got, cfg)
		}
	})

	t.Run("flags override", func(t *testing.T) {
		var gf graphFlags
		cmd := &cobra.Command{}
		gf.bind(cmd)
		if err := cmd.ParseFlags([]string{"--nodes", "5", "--neighbors", "2", "--seed", "3"}); err != nil {
			t.Fatal(err)
		}
		got, err := gf.resolve(cmd, cfg)
		if err != nil {
			t.Fatal(err)
		}
		want := config.GenerateConfig{Nodes: 5, MinNeighbors: 2, MaxNeighbors: 2, Seed: 3}
		if got != want {
			t.Errorf("resolve() = %+v, want %+v", got, want)
		}
	})

	t.Run("zero seed is replaced", func(t *testing.T) {
		var gf graphFlags
		cmd := &cobra.Command{}
		gf.bind(cmd)
		got, err := gf.resolve(cmd, config.GenerateConfig{Nodes: 3, MaxNeighbors: 1})
		if err != nil {
			t.Fatal(err)
		}
		if got.Seed == 0 {
			t.Error("resolve() kept seed 0")
		}
	})

	t.Run("invalid range", func(t *testing.T) {
		var gf graphFlags
		cmd := &cobra.Command{}
		gf.bind(cmd)
		if err := cmd.ParseFlags([]string{"--nodes", "3", "--neighbors", "0-5"}); err != nil {
			t.Fatal(err)
		}
		if _, err := gf.resolve(cmd, cfg); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("resolve() error = %v, want INVALID_INPUT", err)
		}
	})
}

func TestNewGraphIsReproducible(t *testing.T) {
	gc := config.GenerateConfig{Nodes: 20, MinNeighbors: 1, MaxNeighbors: 3, Seed: 77}
	a, err := newGraph(gc)
	if err != nil {
		t.Fatal(err)
	}
	b, err := newGraph(gc)
	if err != nil {
		t.Fatal(err)
	}
	if a.String() != b.String() {
		t.Error("same seed produced different graphs")
	}
	if a.Len() != 20 {
		t.Errorf("Len() = %d, want 20", a.Len())
	}
}

func TestPaletteDistinct(t *testing.T) {
	tests := []struct {
		name   string
		colors int
		want   int
	}{
		{"hue", 8, 8},
		{"fixed", 6, 6},
		{"fixed", 8, 7}, // classes past the table share black
		{"", 0, 0},
	}
	for _, tt := range tests {
		got, err := paletteDistinct(tt.name, tt.colors)
		if err != nil {
			t.Fatalf("paletteDistinct(%q, %d): %v", tt.name, tt.colors, err)
		}
		if got != tt.want {
			t.Errorf("paletteDistinct(%q, %d) = %d, want %d", tt.name, tt.colors, got, tt.want)
		}
	}
	if _, err := paletteDistinct("neon", 3); !errors.Is(err, errors.ErrCodeInvalidPalette) {
		t.Errorf("paletteDistinct(neon) error = %v, want INVALID_PALETTE", err)
	}
}

func TestSelectColorers(t *testing.T) {
	all, err := selectColorers("all")
	if err != nil || len(all) != len(coloring.IDs()) {
		t.Fatalf("selectColorers(all) = %d colorers, %v", len(all), err)
	}
	one, err := selectColorers("RSF")
	if err != nil || len(one) != 1 || one[0].ID() != coloring.IDRSF {
		t.Fatalf("selectColorers(RSF) = %v, %v", one, err)
	}
	if _, err := selectColorers("dsatur"); !errors.Is(err, errors.ErrCodeInvalidColorer) {
		t.Errorf("selectColorers(dsatur) error = %v, want INVALID_COLORER", err)
	}
}

func TestBenchColorer(t *testing.T) {
	g, err := newGraph(config.GenerateConfig{Nodes: 15, MinNeighbors: 1, MaxNeighbors: 3, Seed: 1})
	if err != nil {
		t.Fatal(err)
	}
	res, err := benchColorer(context.Background(), coloring.RLF[int]{}, g, 4)
	if err != nil {
		t.Fatal(err)
	}
	if res.Runs != 4 || res.Colors <= 0 {
		t.Errorf("benchColorer() = %+v", res)
	}
	if res.Min > res.Mean || res.Mean > res.Max {
		t.Errorf("durations out of order: min %s mean %s max %s", res.Min, res.Mean, res.Max)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := benchColorer(ctx, coloring.Fast[int]{}, g, 4); err == nil {
		t.Error("benchColorer() ignored a cancelled context")
	}

	out := benchTable([]benchResult{res})
	if !strings.Contains(out, res.Colorer) {
		t.Errorf("benchTable() missing colorer name:\n%s", out)
	}
}

func TestPlotView(t *testing.T) {
	v := render.View[int]{
		Width:  100,
		Height: 100,
		Nodes: []render.NodeView[int]{
			{Value: 0, X: 0, Y: 0, Color: "#ff0000"},
			{Value: 1, X: 100, Y: 100, Color: "#00ff00"},
		},
	}
	out := plotView(v, 10, 4)
	lines := strings.Split(out, "\n")
	if len(lines) != 4 {
		t.Fatalf("plotView() has %d lines, want 4", len(lines))
	}
	if strings.Count(out, tuiNodeGlyph) != 2 {
		t.Errorf("plotView() drew %d nodes, want 2", strings.Count(out, tuiNodeGlyph))
	}
}

func TestLegendView(t *testing.T) {
	v := render.View[int]{Nodes: []render.NodeView[int]{
		{Class: 0, Color: "#ff0000"},
		{Class: 1, Color: "#00ff00"},
		{Class: 0, Color: "#ff0000"},
		{Class: -1, Color: "#008000"},
	}}
	out := legendView(v)
	if strings.Count(out, tuiSwatchGlyph) != 2 {
		t.Errorf("legendView() = %q, want two swatches", out)
	}
	if legendView(render.View[int]{}) != "" {
		t.Error("legendView() of an empty view is not empty")
	}
}

func newTestModel(t *testing.T) simModel {
	t.Helper()
	c := New(io.Discard, LogInfo)
	r, err := c.newRenderer(1, render.WithFPS(500))
	if err != nil {
		t.Fatal(err)
	}
	gc := config.GenerateConfig{Nodes: 6, MinNeighbors: 1, MaxNeighbors: 2, Seed: 1}
	return newSimModel(r, render.NewFPSMeter(0), gc, coloring.Fast[int]{})
}

func TestSimModelKeys(t *testing.T) {
	m := newTestModel(t)
	if m.colorer != 0 {
		t.Fatalf("colorer index = %d, want 0 for fast", m.colorer)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	m = next.(simModel)
	if m.colorer != 1 {
		t.Errorf("after c, colorer index = %d, want 1", m.colorer)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("g")})
	m = next.(simModel)
	if m.gc.Seed != 2 {
		t.Errorf("after g, seed = %d, want 2", m.gc.Seed)
	}
	if got := m.r.Scheduler().Pending(); got != 3 {
		t.Errorf("pending tasks = %d, want 3 (recolor, generate, recolor)", got)
	}

	enabled := m.r.SimulationEnabled()
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	m = next.(simModel)
	if m.r.SimulationEnabled() == enabled {
		t.Error("space did not toggle the simulation")
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestSimModelView(t *testing.T) {
	m := newTestModel(t)
	next, cmd := m.Update(frameMsg(time.Now()))
	if cmd == nil {
		t.Error("frame did not schedule the next refresh")
	}
	out := next.(simModel).View()
	for _, want := range []string{"colorgraph simulate", "paused", "Fast"} {
		if !strings.Contains(out, want) {
			t.Errorf("View() missing %q:\n%s", want, out)
		}
	}
}

func TestRootCommand(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	want := []string{"bench", "color", "completion", "render", "serve", "simulate"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

// execute runs the CLI with args against a config file in a temp dir.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "colorgraph.toml")
	cfg := config.Default()
	cfg.Scheduler.FPS = 500
	if err := cfg.Save(cfgPath); err != nil {
		t.Fatal(err)
	}
	t.Setenv(config.EnvPath, cfgPath)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Chdir(dir)

	var out bytes.Buffer
	prev := stdout
	stdout = &out
	defer func() { stdout = prev }()

	root := New(io.Discard, LogInfo).RootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	err := root.ExecuteContext(ctx)
	return out.String(), err
}

func TestColorCommand(t *testing.T) {
	out, err := execute(t, "color", "--nodes", "12", "--neighbors", "1-3", "--seed", "5", "--dump")
	if err != nil {
		t.Fatalf("color: %v", err)
	}
	for _, want := range []string{"12 nodes", "seed 5", "Fast:", "colors"} {
		if !strings.Contains(out, want) {
			t.Errorf("color output missing %q:\n%s", want, out)
		}
	}
	if _, err := execute(t, "color", "--colorer", "nope"); !errors.Is(err, errors.ErrCodeInvalidColorer) {
		t.Errorf("color --colorer nope error = %v, want INVALID_COLORER", err)
	}
}

func TestRenderCommandDOT(t *testing.T) {
	if _, err := execute(t, "render", "-f", "dot", "-o", "out.dot", "--nodes", "5", "--neighbors", "1", "--seed", "2", "--settle", "2s"); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile("out.dot")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("graph G {")) {
		t.Errorf("out.dot does not start with a graph header:\n%s", data)
	}
	if _, err := execute(t, "render", "-f", "gif"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("render -f gif error = %v, want INVALID_FORMAT", err)
	}
}

func TestNewCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	c, err := newCache(true)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(cache.NullCache); !ok {
		t.Errorf("newCache(true) = %T, want NullCache", c)
	}

	c, err = newCache(false)
	if err != nil {
		t.Fatal(err)
	}
	fc, ok := c.(*cache.FileCache)
	if !ok {
		t.Fatalf("newCache(false) = %T, want *FileCache", c)
	}
	if !strings.HasSuffix(fc.Dir(), appName) {
		t.Errorf("Dir() = %q, want suffix %q", fc.Dir(), appName)
	}
}

func TestCachedSettleHit(t *testing.T) {
	store, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := New(io.Discard, LogInfo)
	cfg := c.config()
	gc := cfg.Generate
	gc.Seed = 3
	col := coloring.RLF[int]{}

	want := render.View[int]{
		Width:  100,
		Height: 80,
		Radius: 5,
		Nodes:  []render.NodeView[int]{{Value: 1, Label: "1", X: 10, Y: 20, Class: 0, Color: "#ff0000"}},
		Colors: 1,
	}
	data, err := json.Marshal(want)
	if err != nil {
		t.Fatal(err)
	}
	key := cache.Key("layout", gc, cfg.Layout, cfg.Render, col.ID())
	if err := store.Set(context.Background(), key, data, time.Hour); err != nil {
		t.Fatal(err)
	}

	got, settled, cached, err := c.cachedSettle(context.Background(), store, gc, col, time.Second)
	if err != nil {
		t.Fatalf("cachedSettle: %v", err)
	}
	if !settled || !cached {
		t.Errorf("settled=%v cached=%v, want both true", settled, cached)
	}
	if got.Width != want.Width || len(got.Nodes) != 1 || got.Nodes[0].Color != "#ff0000" {
		t.Errorf("cachedSettle returned %+v, want %+v", got, want)
	}
}

func TestSimulateNeedsStopCondition(t *testing.T) {
	_, err := execute(t, "simulate", "--duration", "0", "--until-rest=false")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("simulate error = %v, want INVALID_INPUT", err)
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range shellNames() {
		out, err := execute(t, "completion", shell)
		if err != nil {
			t.Fatalf("completion %s: %v", shell, err)
		}
		if !strings.Contains(out, "colorgraph") {
			t.Errorf("%s completion does not mention colorgraph", shell)
		}
	}
	if _, err := execute(t, "completion", "tcsh"); err == nil {
		t.Error("completion tcsh succeeded, want an invalid argument error")
	}
}

func TestConfigFlag(t *testing.T) {
	if _, err := execute(t, "--config", "missing.toml", "color"); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("--config missing.toml error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestGenerateDefaultsMatchFlags(t *testing.T) {
	var gf graphFlags
	cmd := &cobra.Command{}
	gf.bind(cmd)
	if gf.nodes != generate.DefaultNodes {
		t.Errorf("--nodes default = %d, want %d", gf.nodes, generate.DefaultNodes)
	}
	lo, hi, err := parseNeighbors(gf.neighbors)
	if err != nil || lo != generate.DefaultMinNeighbors || hi != generate.DefaultMaxNeighbors {
		t.Errorf("--neighbors default %q parses to %d-%d (%v)", gf.neighbors, lo, hi, err)
	}
}
