package calibration

import (
	"fmt"
	"math"

	"github.com/banshee-data/headdirection/internal/hd"
)

// Defaults for Options.
const (
	DefaultMinSpeed           = 2.0  // length units per time unit
	DefaultMinMovingSamples   = 10   // samples above MinSpeed
	DefaultMinResultantLength = 0.05 // mean resultant length of the differences
)

// Options configures EstimateOffset.
type Options struct {
	// MinSpeed excludes samples at or below this speed; the direction of
	// travel is noise-dominated when the animal is nearly still.
	MinSpeed float64
	// MinMovingSamples is the fewest moving samples that yield an estimate.
	MinMovingSamples int
	// MinResultantLength is the smallest mean resultant length of the
	// head/travel differences accepted as a coherent alignment signal.
	MinResultantLength float64
}

// DefaultOptions returns the default calibration thresholds.
func DefaultOptions() Options {
	return Options{
		MinSpeed:           DefaultMinSpeed,
		MinMovingSamples:   DefaultMinMovingSamples,
		MinResultantLength: DefaultMinResultantLength,
	}
}

func (o Options) validate() error {
	if o.MinSpeed < 0 || math.IsNaN(o.MinSpeed) {
		return fmt.Errorf("%w: min_speed must be non-negative, got %g", hd.ErrInvalidOption, o.MinSpeed)
	}
	if o.MinMovingSamples < 1 {
		return fmt.Errorf("%w: min_moving_samples must be at least 1, got %d", hd.ErrInvalidOption, o.MinMovingSamples)
	}
	if o.MinResultantLength < 0 || o.MinResultantLength > 1 || math.IsNaN(o.MinResultantLength) {
		return fmt.Errorf("%w: min_resultant_length must be in [0, 1], got %g", hd.ErrInvalidOption, o.MinResultantLength)
	}
	return nil
}

// Result is the outcome of an offset estimate.
type Result struct {
	Offset          float64 `json:"offset"`           // Add to raw head angles to align them with travel, [0, 2π)
	ResultantLength float64 `json:"resultant_length"` // Mean resultant length of the differences, [0, 1]
	MovingSamples   int     `json:"moving_samples"`   // Samples above MinSpeed
}

// EstimateOffset returns the rotation that best aligns the raw head angles
// with the direction of self-motion.
//
// All four sequences share one index (the common-index alignment rule):
// angles[i] and (x[i], y[i]) were both observed at t[i]. Use Align or
// NearestResample to build position sequences on the angle clock.
//
// The offset is the circular mean of Wrap(travel_k - head_k) over samples
// moving faster than opts.MinSpeed, so Wrap(head + offset) points along
// travel. ErrAmbiguousOffset is returned when too few samples move or the
// differences do not agree.
func EstimateOffset(angles, x, y, t []float64, opts Options) (Result, error) {
	n := len(t)
	if len(angles) != n || len(x) != n || len(y) != n {
		return Result{}, fmt.Errorf("%w: angles=%d x=%d y=%d timestamps=%d must match", hd.ErrInputShape, len(angles), len(x), len(y), n)
	}
	if err := hd.ValidateTimestamps(t); err != nil {
		return Result{}, err
	}
	if err := opts.validate(); err != nil {
		return Result{}, err
	}
	for i, a := range angles {
		if math.IsNaN(a) || math.IsInf(a, 0) {
			return Result{}, fmt.Errorf("%w: angle %d is not finite", hd.ErrInputShape, i)
		}
	}
	if n < 2 {
		return Result{}, fmt.Errorf("%w: %d samples, need at least 2 to estimate velocity", hd.ErrAmbiguousOffset, n)
	}

	vx := Gradient(x, t)
	vy := Gradient(y, t)

	diffs := make([]float64, 0, n)
	for i := range n {
		speed := math.Hypot(vx[i], vy[i])
		if !(speed > opts.MinSpeed) {
			continue
		}
		travel := math.Atan2(vy[i], vx[i])
		diffs = append(diffs, hd.Wrap(travel-angles[i]))
	}

	if len(diffs) < opts.MinMovingSamples {
		return Result{}, fmt.Errorf("%w: %d samples above min_speed=%g, need %d", hd.ErrAmbiguousOffset, len(diffs), opts.MinSpeed, opts.MinMovingSamples)
	}

	var sumCos, sumSin float64
	for _, d := range diffs {
		sumCos += math.Cos(d)
		sumSin += math.Sin(d)
	}
	length := math.Hypot(sumCos, sumSin) / float64(len(diffs))
	if !(length >= opts.MinResultantLength) || length == 0 {
		return Result{}, fmt.Errorf("%w: resultant length %.4f below %.4f", hd.ErrAmbiguousOffset, length, opts.MinResultantLength)
	}

	res := Result{
		Offset:          hd.Wrap(math.Atan2(sumSin, sumCos)),
		ResultantLength: math.Min(length, 1),
		MovingSamples:   len(diffs),
	}
	hd.Diagf("calibration: offset=%.4f rad (%.1f°) resultant=%.3f moving=%d/%d", res.Offset, hd.Degrees(res.Offset), res.ResultantLength, res.MovingSamples, n)
	return res, nil
}

// Gradient returns df/dt using second-order central differences on the
// (possibly non-uniform) interior and first-order one-sided differences at
// the two ends. len(f) == len(t) >= 2 is assumed.
func Gradient(f, t []float64) []float64 {
	n := len(f)
	g := make([]float64, n)
	if n < 2 {
		return g
	}
	g[0] = (f[1] - f[0]) / (t[1] - t[0])
	g[n-1] = (f[n-1] - f[n-2]) / (t[n-1] - t[n-2])
	for i := 1; i < n-1; i++ {
		h1 := t[i] - t[i-1]
		h2 := t[i+1] - t[i]
		g[i] = (h1*h1*f[i+1] - h2*h2*f[i-1] + (h2*h2-h1*h1)*f[i]) / (h1 * h2 * (h1 + h2))
	}
	return g
}
