// Package vector provides the immutable 2D vector used by the layout engine.
//
// Vec is a thin value type over gonum's [r2.Vec]. Every operation returns a
// new value; a Vec is never mutated in place.
package vector

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vec is a 2D vector.
type Vec struct {
	X, Y float64
}

// Zero is the origin.
var Zero = Vec{}

// New returns the vector (x, y).
func New(x, y float64) Vec { return Vec{X: x, Y: y} }

func (v Vec) r2() r2.Vec { return r2.Vec{X: v.X, Y: v.Y} }

func from(p r2.Vec) Vec { return Vec{X: p.X, Y: p.Y} }

// Add returns v + w.
func (v Vec) Add(w Vec) Vec { return from(r2.Add(v.r2(), w.r2())) }

// Sub returns v - w.
func (v Vec) Sub(w Vec) Vec { return from(r2.Sub(v.r2(), w.r2())) }

// Scale returns v * f.
func (v Vec) Scale(f float64) Vec { return from(r2.Scale(f, v.r2())) }

// Div returns v / f. Dividing by zero yields infinities, as with float64.
func (v Vec) Div(f float64) Vec { return from(r2.Scale(1/f, v.r2())) }

// Len returns the Euclidean length of v.
func (v Vec) Len() float64 { return r2.Norm(v.r2()) }

// Normalize returns the unit vector in the direction of v.
// The zero vector normalizes to itself.
func (v Vec) Normalize() Vec {
	l := v.Len()
	if l == 0 {
		return v
	}
	return v.Div(l)
}

// IsZero reports whether both components are zero.
func (v Vec) IsZero() bool { return v.X == 0 && v.Y == 0 }

// Clamp returns v with each component limited to [-hw, hw] and [-hh, hh].
func (v Vec) Clamp(hw, hh float64) Vec {
	return Vec{
		X: math.Max(-hw, math.Min(hw, v.X)),
		Y: math.Max(-hh, math.Min(hh, v.Y)),
	}
}

// String formats v as "(x, y)".
func (v Vec) String() string {
	return fmt.Sprintf("(%g, %g)", v.X, v.Y)
}
