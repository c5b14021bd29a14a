package hd

import (
	"fmt"
	"math"
)

// TrackingSample is one row of two-marker tracking output.
type TrackingSample struct {
	T  float64 // Timestamp (caller time unit, normally seconds)
	X1 float64 // Marker 1 (front LED)
	Y1 float64
	X2 float64 // Marker 2 (back LED)
	Y2 float64
}

// Tracking holds two-marker tracking data as parallel sequences ordered by
// strictly increasing timestamp.
type Tracking struct {
	T  []float64
	X1 []float64
	Y1 []float64
	X2 []float64
	Y2 []float64
}

// NewTracking builds a Tracking from parallel sequences and validates it.
// The slices are copied so later changes by the caller are not observed.
func NewTracking(x1, y1, x2, y2, t []float64) (Tracking, error) {
	tr := Tracking{
		T:  append([]float64(nil), t...),
		X1: append([]float64(nil), x1...),
		Y1: append([]float64(nil), y1...),
		X2: append([]float64(nil), x2...),
		Y2: append([]float64(nil), y2...),
	}
	if err := tr.Validate(); err != nil {
		return Tracking{}, err
	}
	return tr, nil
}

// TrackingFromSamples converts a row-oriented sample slice into a Tracking.
func TrackingFromSamples(samples []TrackingSample) (Tracking, error) {
	n := len(samples)
	tr := Tracking{
		T:  make([]float64, n),
		X1: make([]float64, n),
		Y1: make([]float64, n),
		X2: make([]float64, n),
		Y2: make([]float64, n),
	}
	for i, s := range samples {
		tr.T[i] = s.T
		tr.X1[i] = s.X1
		tr.Y1[i] = s.Y1
		tr.X2[i] = s.X2
		tr.Y2[i] = s.Y2
	}
	if err := tr.Validate(); err != nil {
		return Tracking{}, err
	}
	return tr, nil
}

// Len returns the number of samples.
func (tr Tracking) Len() int { return len(tr.T) }

// Sample returns row i.
func (tr Tracking) Sample(i int) TrackingSample {
	return TrackingSample{T: tr.T[i], X1: tr.X1[i], Y1: tr.Y1[i], X2: tr.X2[i], Y2: tr.Y2[i]}
}

// Validate checks that all sequences share one length and that timestamps
// are finite and strictly increasing.
func (tr Tracking) Validate() error {
	n := len(tr.T)
	for name, s := range map[string][]float64{"x1": tr.X1, "y1": tr.Y1, "x2": tr.X2, "y2": tr.Y2} {
		if len(s) != n {
			return fmt.Errorf("%w: %s has %d samples, timestamps have %d", ErrInputShape, name, len(s), n)
		}
	}
	return ValidateTimestamps(tr.T)
}

// ValidateTimestamps checks that t is finite and strictly increasing.
func ValidateTimestamps(t []float64) error {
	for i, v := range t {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: timestamp %d is not finite", ErrInputShape, i)
		}
		if i > 0 && v <= t[i-1] {
			return fmt.Errorf("%w: timestamps not strictly increasing at index %d (%g <= %g)", ErrInputShape, i, v, t[i-1])
		}
	}
	return nil
}

// AngleSeries is a head-direction time series. Timestamps and Angles are
// parallel; Angles lie in [0, 2π). Index, when set, holds the row of the
// source Tracking each sample was reconstructed from.
type AngleSeries struct {
	Timestamps []float64
	Angles     []float64
	Index      []int
}

// Len returns the number of samples.
func (s AngleSeries) Len() int { return len(s.Timestamps) }

// Validate checks that the series is parallel, strictly increasing and
// carries only finite angles.
func (s AngleSeries) Validate() error {
	if len(s.Angles) != len(s.Timestamps) {
		return fmt.Errorf("%w: %d angles for %d timestamps", ErrInputShape, len(s.Angles), len(s.Timestamps))
	}
	for i, a := range s.Angles {
		if math.IsNaN(a) || math.IsInf(a, 0) {
			return fmt.Errorf("%w: angle %d is not finite", ErrInputShape, i)
		}
	}
	if s.Index != nil && len(s.Index) != len(s.Timestamps) {
		return fmt.Errorf("%w: %d source indices for %d timestamps", ErrInputShape, len(s.Index), len(s.Timestamps))
	}
	return ValidateTimestamps(s.Timestamps)
}

// Span returns the first and last timestamps. ok is false for an empty series.
func (s AngleSeries) Span() (start, end float64, ok bool) {
	if len(s.Timestamps) == 0 {
		return 0, 0, false
	}
	return s.Timestamps[0], s.Timestamps[len(s.Timestamps)-1], true
}

// TuningCurve is a circular firing-rate histogram. BinCenters ascend with
// uniform spacing 2π/len(BinCenters). SpikeCount and Occupancy are the raw
// (unsmoothed) per-bin totals the rate was derived from.
type TuningCurve struct {
	BinCenters []float64 `json:"bin_centers"`
	FiringRate []float64 `json:"firing_rate"`
	SpikeCount []float64 `json:"spike_count"`
	Occupancy  []float64 `json:"occupancy"`
}

// NumBins returns the number of angular bins.
func (c TuningCurve) NumBins() int { return len(c.BinCenters) }

// BinWidth returns the angular width of one bin in radians.
func (c TuningCurve) BinWidth() float64 {
	if len(c.BinCenters) == 0 {
		return 0
	}
	return AngleMax / float64(len(c.BinCenters))
}

// DirectionalityScore summarises a tuning curve by its weighted resultant.
type DirectionalityScore struct {
	MeanAngle    float64 `json:"mean_angle"`    // Preferred direction, [0, 2π)
	VectorLength float64 `json:"vector_length"` // 0 = uniform, 1 = single direction
}
