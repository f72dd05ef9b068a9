package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/colorgraph/pkg/coloring"
	"github.com/matzehuels/colorgraph/pkg/config"
	"github.com/matzehuels/colorgraph/pkg/render"
	"github.com/matzehuels/colorgraph/pkg/scheduler"
)

// TUI styles
var (
	tuiBoxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
	tuiPausedStyle = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	tuiLiveStyle   = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
)

const (
	tuiRefresh     = 50 * time.Millisecond
	tuiPlotWidth   = 64
	tuiPlotHeight  = 20
	tuiNodeGlyph   = "●"
	tuiSwatchGlyph = "██"
)

// =============================================================================
// simModel - Live simulation view
// =============================================================================

// frameMsg asks the model to pull a fresh snapshot.
type frameMsg time.Time

// simModel is the bubbletea model for the simulate --tui view. Key presses
// become renderer intents; the view polls snapshots on a timer.
type simModel struct {
	r     *render.Renderer[int]
	meter *render.FPSMeter
	gc    config.GenerateConfig

	colorers []coloring.Colorer[int]
	colorer  int // index into colorers, -1 for none

	view  render.View[int]
	stats scheduler.Stats
	fps   float64
	width int
}

func newSimModel(r *render.Renderer[int], meter *render.FPSMeter, gc config.GenerateConfig, col coloring.Colorer[int]) simModel {
	m := simModel{
		r:        r,
		meter:    meter,
		gc:       gc,
		colorers: coloring.All[int](),
		colorer:  -1,
		view:     r.Snapshot(),
		width:    tuiPlotWidth + 4,
	}
	if col != nil {
		for i, c := range m.colorers {
			if c.ID() == col.ID() {
				m.colorer = i
			}
		}
	}
	return m
}

func refreshCmd() tea.Cmd {
	return tea.Tick(tuiRefresh, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m simModel) Init() tea.Cmd {
	return refreshCmd()
}

func (m simModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "s":
			m.r.SetSimulationEnabled(!m.r.SimulationEnabled())
		case "r":
			m.r.Reset()
		case "c":
			m.colorer = (m.colorer + 1) % len(m.colorers)
			m.r.Recolor(m.colorers[m.colorer])
		case "g":
			m.gc.Seed++
			m.r.Rebuild("generate", generateInto(m.gc))
			if m.colorer >= 0 {
				m.r.Recolor(m.colorers[m.colorer])
			}
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case frameMsg:
		m.view = m.r.Snapshot()
		m.stats = m.r.Scheduler().Stats()
		m.fps = m.meter.FPS()
		return m, refreshCmd()
	}
	return m, nil
}

func (m simModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(appName + " simulate"))
	b.WriteString("  ")
	if m.r.SimulationEnabled() {
		b.WriteString(tuiLiveStyle.Render("running"))
	} else {
		b.WriteString(tuiPausedStyle.Render("paused"))
	}
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("space pause  r reset  c recolor  g generate  q quit"))
	b.WriteString("\n\n")

	cols := min(tuiPlotWidth, max(m.width-4, 16))
	b.WriteString(tuiBoxStyle.Render(plotView(m.view, cols, tuiPlotHeight)))
	b.WriteString("\n")

	colorer := "none"
	if m.colorer >= 0 {
		colorer = m.colorers[m.colorer].Name()
	}
	b.WriteString("  " + formatStats(len(m.view.Nodes), len(m.view.Edges), m.view.Colors))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %s · %.0f fps · %d steps · seed %d",
		colorer, m.fps, m.stats.Steps, m.gc.Seed)))
	b.WriteString("\n")
	if legend := legendView(m.view); legend != "" {
		b.WriteString("  " + legend + "\n")
	}
	return b.String()
}

// plotView draws the node positions of v on a cols x rows character grid.
// Nodes sharing a cell show the last one drawn.
func plotView(v render.View[int], cols, rows int) string {
	grid := make([][]string, rows)
	for y := range grid {
		grid[y] = make([]string, cols)
		for x := range grid[y] {
			grid[y][x] = " "
		}
	}
	if v.Width > 0 && v.Height > 0 {
		for _, n := range v.Nodes {
			x := clampIndex(n.X/v.Width, cols)
			y := clampIndex(n.Y/v.Height, rows)
			glyph := tuiNodeGlyph
			if n.Selected || n.Pinned {
				glyph = "◉"
			}
			grid[y][x] = lipgloss.NewStyle().Foreground(lipgloss.Color(n.Color)).Render(glyph)
		}
	}
	lines := make([]string, rows)
	for y, row := range grid {
		lines[y] = strings.Join(row, "")
	}
	return strings.Join(lines, "\n")
}

// clampIndex maps f in [0, 1] to a cell in [0, n).
func clampIndex(f float64, n int) int {
	i := int(f * float64(n))
	return max(0, min(i, n-1))
}

// legendView shows one swatch per color class with its node count.
func legendView(v render.View[int]) string {
	counts := make(map[int]int)
	colors := make(map[int]string)
	for _, n := range v.Nodes {
		if n.Class < 0 {
			continue
		}
		counts[n.Class]++
		colors[n.Class] = n.Color
	}
	classes := make([]int, 0, len(counts))
	for c := range counts {
		classes = append(classes, c)
	}
	sort.Ints(classes)

	parts := make([]string, 0, len(classes))
	for _, c := range classes {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(colors[c])).Render(tuiSwatchGlyph)
		parts = append(parts, swatch+StyleDim.Render(fmt.Sprintf(" %d", counts[c])))
	}
	return strings.Join(parts, "  ")
}

// runSimulationTUI runs m's renderer and the terminal view until the user
// quits or ctx is done.
func runSimulationTUI(ctx context.Context, m simModel) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	errc := make(chan error, 1)
	go func() { errc <- m.r.Run(runCtx) }()

	_, err := tea.NewProgram(m, tea.WithContext(runCtx), tea.WithAltScreen()).Run()
	cancel()
	if runErr := <-errc; runErr != nil {
		return runErr
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}
