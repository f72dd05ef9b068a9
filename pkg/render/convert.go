package render

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"

	"github.com/matzehuels/colorgraph/pkg/errors"
)

// svgConverter is the external program used for PDF and PNG output.
var svgConverter = "rsvg-convert"

const installHint = `install librsvg:
  macOS:  brew install librsvg
  Linux:  apt install librsvg2-bin`

// ToPDF converts an SVG drawing to PDF.
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return convertSVG(ctx, svg, "pdf")
}

// ToPNG converts an SVG drawing to PNG, scaled by scale. Non-positive scales
// render at 1x.
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}
	return convertSVG(ctx, svg, "png", "--zoom", strconv.FormatFloat(scale, 'f', 2, 64))
}

// convertSVG pipes svg through the converter. A missing converter is
// ErrCodeUnsupported; a cancelled ctx is ErrCodeStopped.
func convertSVG(ctx context.Context, svg []byte, format string, args ...string) ([]byte, error) {
	path, err := exec.LookPath(svgConverter)
	if err != nil {
		return nil, errors.New(errors.ErrCodeUnsupported, "%s export needs %s; %s", format, svgConverter, installHint)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, append([]string{"--format", format}, args...)...)
	cmd.Stdin = bytes.NewReader(svg)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(errors.ErrCodeStopped, ctx.Err(), "%s export cancelled", format)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "%s: %s", svgConverter, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}
