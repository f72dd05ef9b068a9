package errors

import (
	"slices"
	"strings"
)

// Limits applied to user-supplied simulation parameters.
const (
	MaxFPS       = 1000
	MaxNodes     = 100_000
	MaxCanvasDim = 100_000
)

// ValidateFPS validates a target tick rate.
func ValidateFPS(fps int) error {
	if fps <= 0 {
		return New(ErrCodeInvalidInput, "fps must be positive, got %d", fps)
	}
	if fps > MaxFPS {
		return New(ErrCodeInvalidInput, "fps too high (max %d)", MaxFPS)
	}
	return nil
}

// ValidateSize validates canvas dimensions. Both must be positive and finite.
func ValidateSize(width, height float64) error {
	if !(width > 0) || !(height > 0) {
		return New(ErrCodeInvalidInput, "canvas size must be positive, got %gx%g", width, height)
	}
	if width > MaxCanvasDim || height > MaxCanvasDim {
		return New(ErrCodeInvalidInput, "canvas size too large (max %d)", MaxCanvasDim)
	}
	return nil
}

// ValidateNeighborRange validates the parameters of random graph generation.
//
// Validation rules:
//   - nodes must be in [0, MaxNodes]
//   - 0 <= lo <= hi
//   - hi must be smaller than nodes when nodes > 0
func ValidateNeighborRange(nodes, lo, hi int) error {
	if nodes < 0 || nodes > MaxNodes {
		return New(ErrCodeInvalidInput, "node count must be in [0, %d], got %d", MaxNodes, nodes)
	}
	if lo < 0 || hi < lo {
		return New(ErrCodeInvalidInput, "invalid neighbor range %d..%d", lo, hi)
	}
	if nodes > 0 && hi >= nodes {
		return New(ErrCodeInvalidInput, "max neighbors (%d) must be less than node count (%d)", hi, nodes)
	}
	return nil
}

// ValidateFormat checks that format is one of the supported values, ignoring
// case and surrounding whitespace.
func ValidateFormat(format string, supported []string) error {
	f := strings.ToLower(strings.TrimSpace(format))
	if f == "" {
		return New(ErrCodeInvalidFormat, "format cannot be empty")
	}
	if !slices.Contains(supported, f) {
		return New(ErrCodeInvalidFormat, "unsupported format %q (supported: %s)", format, strings.Join(supported, ", "))
	}
	return nil
}
