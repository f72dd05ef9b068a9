// Package palette maps color classes to display colors.
//
// The coloring engine only produces integers. A [Resolver] turns a class into
// something drawable; negative classes (uncolored nodes) resolve to black.
//
//   - [Hue] spreads classes around the hue circle, halving the step each time
//     the previous ring is used up, so any number of classes stays distinct.
//   - [Fixed] uses a short table of named colors and black beyond it.
package palette

import (
	"math"
	"slices"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/colorgraph/pkg/errors"
)

// Resolver maps a color class to a display color.
type Resolver func(class int) colorful.Color

// Black is the color of uncolored nodes.
var Black = colorful.Color{}

const (
	hueRing0      = 3
	hueStep0      = 360.0 / hueRing0
	hueSaturation = 0.8
	hueValue      = 0.5
)

// Hue resolves classes by hue at saturation 0.8 and value 0.5.
func Hue(class int) colorful.Color {
	if class < 0 {
		return Black
	}
	return colorful.Hsv(HueOf(class), hueSaturation, hueValue)
}

// HueOf returns the hue in degrees, in [0, 360), used by Hue for a
// non-negative class.
//
// Ring 0 holds 3 classes 120 degrees apart. Ring i > 0 holds 3*2^(i-1)
// classes, 120/2^(i-1) degrees apart, offset so they fall between the hues of
// the earlier rings.
func HueOf(class int) float64 {
	i := ring(class / hueRing0)
	m := class % ringSize(i)
	return math.Mod(ringOffset(i)+ringStep(i)*float64(m), 360)
}

// ring returns the number of doublings of 1 that are <= n.
func ring(n int) int {
	i, e := 0, 1
	for n >= e {
		i++
		e *= 2
	}
	return i
}

func ringSize(i int) int {
	if i == 0 {
		return hueRing0
	}
	return hueRing0 << (i - 1)
}

func ringStep(i int) float64 {
	if i == 0 {
		return hueStep0
	}
	return hueStep0 / float64(int(1)<<(i-1))
}

func ringOffset(i int) float64 {
	off := 0.0
	for k := 1; k <= i; k++ {
		sign := 1.0
		if k%2 == 0 {
			sign = -1
		}
		off += sign * ringStep(k) / 2
	}
	return off
}

// fixed is the table used by Fixed: green, blue, red, forestgreen,
// blueviolet, brown.
var fixed = []colorful.Color{
	rgb(0, 128, 0),
	rgb(0, 0, 255),
	rgb(255, 0, 0),
	rgb(34, 139, 34),
	rgb(138, 43, 226),
	rgb(165, 42, 42),
}

// Fixed resolves the first six classes to named colors and every other class
// to black.
func Fixed(class int) colorful.Color {
	if class < 0 || class >= len(fixed) {
		return Black
	}
	return fixed[class]
}

func rgb(r, g, b uint8) colorful.Color {
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// Palette names.
const (
	NameHue   = "hue"
	NameFixed = "fixed"
)

// Names returns the supported palette names.
func Names() []string { return []string{NameHue, NameFixed} }

// Lookup returns the resolver registered under name, ignoring case.
func Lookup(name string) (Resolver, error) {
	switch strings.ToLower(name) {
	case NameHue, "":
		return Hue, nil
	case NameFixed:
		return Fixed, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidPalette,
		"unknown palette %q (available: %s)", name, strings.Join(Names(), ", "))
}

// Distinct returns how many different colors r produces for classes.
func Distinct(r Resolver, classes []int) int {
	var hexes []string
	for _, c := range classes {
		h := r(c).Hex()
		if !slices.Contains(hexes, h) {
			hexes = append(hexes, h)
		}
	}
	return len(hexes)
}
