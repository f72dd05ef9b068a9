package nodelink

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/colorgraph/pkg/errors"
	"github.com/matzehuels/colorgraph/pkg/render"
)

// Export formats.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPDF = "pdf"
	FormatPNG = "png"
)

// Formats returns the supported export formats.
func Formats() []string {
	return []string{FormatDOT, FormatSVG, FormatPDF, FormatPNG}
}

// pointsPerInch converts Graphviz inches to canvas units.
const pointsPerInch = 72.0

// Options configures diagram generation.
type Options struct {
	// HideLabels draws nodes without their values.
	HideLabels bool
	// Scale multiplies PNG resolution. Zero means 1.
	Scale float64
}

// ToDOT converts a view to Graphviz DOT with every node pinned at its canvas
// position and filled with its resolved color. Canvas y grows downwards, so
// it is flipped for Graphviz.
func ToDOT[T cmp.Ordered](v render.View[T], opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	fmt.Fprintf(&buf, "  inputscale=%g;\n", pointsPerInch)
	buf.WriteString("  notranslate=true;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	diameter := 2 * v.Radius / pointsPerInch
	fmt.Fprintf(&buf, "  node [shape=circle, style=filled, fixedsize=true, width=%s, penwidth=0, fontcolor=white, fontsize=10];\n",
		fmtFloat(diameter))
	buf.WriteString("  edge [color=blue];\n")
	buf.WriteString("\n")

	for _, n := range v.Nodes {
		attrs := fmtAttrs(n, v.Height, opts)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.Label, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range v.Edges {
		fmt.Fprintf(&buf, "  %q -- %q;\n", fmt.Sprint(e.From), fmt.Sprint(e.To))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtAttrs[T cmp.Ordered](n render.NodeView[T], height float64, opts Options) []string {
	label := n.Label
	if opts.HideLabels {
		label = ""
	}
	attrs := []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("pos=\"%s,%s!\"", fmtFloat(n.X), fmtFloat(height-n.Y)),
		fmt.Sprintf("fillcolor=%q", n.Color),
	}
	if n.Selected {
		attrs = append(attrs, "color=orange", "penwidth=3")
	}
	return attrs
}

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// Export renders v in format, one of [Formats].
func Export[T cmp.Ordered](ctx context.Context, v render.View[T], format string, opts Options) ([]byte, error) {
	if err := errors.ValidateFormat(format, Formats()); err != nil {
		return nil, err
	}
	dot := ToDOT(v, opts)
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatDOT:
		return []byte(dot), nil
	case FormatPDF:
		return RenderPDF(ctx, dot)
	case FormatPNG:
		return RenderPNG(ctx, dot, opts.Scale)
	default:
		return RenderSVG(ctx, dot)
	}
}

// RenderSVG renders a DOT graph to SVG with Graphviz's neato engine, which
// honors pinned positions.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's svg tag with one whose viewBox starts
// at the origin and whose size matches it.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// RenderPDF renders a DOT graph as PDF via SVG.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG at the given scale.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
