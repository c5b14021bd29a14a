// Package score reduces a tuning curve to its preferred direction and
// tuning strength via the rate-weighted resultant (Rayleigh) vector.
package score

import (
	"fmt"
	"math"

	"github.com/banshee-data/headdirection/internal/hd"
	"gonum.org/v1/gonum/floats"
)

// Directionality computes the rate-weighted circular mean of binCenters and
// the normalised resultant length
//
//	R = Σ r_b · exp(i·θ_b),  MeanAngle = Wrap(arg R),  VectorLength = |R| / Σ r_b
//
// Bin centres must be finite and rates non-negative and finite. A silent
// curve (Σ r_b == 0) has no direction and returns ErrDegenerateData.
func Directionality(binCenters, rates []float64) (hd.DirectionalityScore, error) {
	if len(binCenters) != len(rates) {
		return hd.DirectionalityScore{}, fmt.Errorf("%w: %d bin centres for %d rates", hd.ErrInputShape, len(binCenters), len(rates))
	}
	for b, c := range binCenters {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return hd.DirectionalityScore{}, fmt.Errorf("%w: bin centre %d is %g, must be finite", hd.ErrInputShape, b, c)
		}
	}
	for b, r := range rates {
		if r < 0 || math.IsNaN(r) || math.IsInf(r, 0) {
			return hd.DirectionalityScore{}, fmt.Errorf("%w: rate %d is %g, must be finite and non-negative", hd.ErrInputShape, b, r)
		}
	}

	total := floats.Sum(rates)
	if total == 0 {
		return hd.DirectionalityScore{}, fmt.Errorf("%w: total firing rate is zero, directionality undefined", hd.ErrDegenerateData)
	}

	var rx, ry float64
	for b, r := range rates {
		rx += r * math.Cos(binCenters[b])
		ry += r * math.Sin(binCenters[b])
	}

	s := hd.DirectionalityScore{
		MeanAngle:    hd.Wrap(math.Atan2(ry, rx)),
		VectorLength: math.Min(math.Hypot(rx, ry)/total, 1),
	}
	hd.Diagf("score: mean_angle=%.4f rad (%.1f°) vector_length=%.4f", s.MeanAngle, hd.Degrees(s.MeanAngle), s.VectorLength)
	return s, nil
}

// Curve scores a tuning curve.
func Curve(c hd.TuningCurve) (hd.DirectionalityScore, error) {
	return Directionality(c.BinCenters, c.FiringRate)
}
