package hd

import "math"

// Canonical angle range [AngleMin, AngleMax). Every stage wraps its output
// angles into this interval with Wrap.
const (
	AngleMin = 0.0
	AngleMax = 2 * math.Pi
)

// Wrap maps any finite angle in radians into [0, 2π).
func Wrap(a float64) float64 {
	w := math.Mod(a, AngleMax)
	if w < 0 {
		w += AngleMax
	}
	// math.Mod can return AngleMax-sized values after the negative shift
	// when a is a tiny negative number.
	if w >= AngleMax {
		w = 0
	}
	return w
}

// Diff returns the signed circular difference a-b in (-π, π].
func Diff(a, b float64) float64 {
	d := Wrap(a - b)
	if d > math.Pi {
		d -= AngleMax
	}
	return d
}

// Distance returns the unsigned circular distance between two angles, in [0, π].
func Distance(a, b float64) float64 {
	return math.Abs(Diff(a, b))
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
