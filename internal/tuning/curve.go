package tuning

import (
	"fmt"
	"math"

	"github.com/banshee-data/headdirection/internal/hd"
	"gonum.org/v1/gonum/floats"
)

// Defaults for Options.
const (
	DefaultNumBins         = 36
	DefaultSmoothingWindow = 4
)

// Options configures Compute.
type Options struct {
	NumBins         int     // Angular bins over [0, 2π)
	SmoothingWindow int     // Boxcar width in bins; 0 or 1 disables smoothing
	MaxGap          float64 // Longest inter-sample gap counted as occupancy; 0 disables the cap
}

// DefaultOptions returns 36 bins, a 4-bin smoothing window and no gap cap.
func DefaultOptions() Options {
	return Options{NumBins: DefaultNumBins, SmoothingWindow: DefaultSmoothingWindow}
}

func (o Options) validate() error {
	if o.NumBins < 1 {
		return fmt.Errorf("%w: num_bins must be at least 1, got %d", hd.ErrInvalidOption, o.NumBins)
	}
	if o.SmoothingWindow < 0 || o.SmoothingWindow > o.NumBins {
		return fmt.Errorf("%w: smoothing_window must be in [0, %d], got %d", hd.ErrInvalidOption, o.NumBins, o.SmoothingWindow)
	}
	if o.MaxGap < 0 || math.IsNaN(o.MaxGap) {
		return fmt.Errorf("%w: max_gap must be non-negative, got %g", hd.ErrInvalidOption, o.MaxGap)
	}
	return nil
}

// BinCenters returns the centres of n equal bins starting at 0 rad:
// (b + 0.5) * 2π/n.
func BinCenters(n int) []float64 {
	width := hd.AngleMax / float64(n)
	out := make([]float64, n)
	for b := range out {
		out[b] = (float64(b) + 0.5) * width
	}
	return out
}

// BinIndex returns the bin holding angle a (any real; wrapped first).
func BinIndex(a float64, n int) int {
	b := int(hd.Wrap(a) / (hd.AngleMax / float64(n)))
	if b >= n {
		b = n - 1
	}
	return b
}

// Compute builds the firing-rate tuning curve of spikes against the head
// direction series s.
//
// Occupancy and spike counts are histogrammed by angle, each smoothed with
// the circular boxcar separately, and divided bin by bin. A bin whose
// smoothed occupancy is zero gets rate 0. ErrDegenerateData is returned
// when the series carries no occupancy at all.
func Compute(spikes []float64, s hd.AngleSeries, opts Options) (hd.TuningCurve, error) {
	if err := s.Validate(); err != nil {
		return hd.TuningCurve{}, err
	}
	if err := opts.validate(); err != nil {
		return hd.TuningCurve{}, err
	}
	for i, sp := range spikes {
		if math.IsNaN(sp) || math.IsInf(sp, 0) {
			return hd.TuningCurve{}, fmt.Errorf("%w: spike %d is not finite", hd.ErrInputShape, i)
		}
	}

	n := opts.NumBins
	occupancy := make([]float64, n)
	counts := make([]float64, n)

	binOf := make([]int, s.Len())
	for i, a := range s.Angles {
		binOf[i] = BinIndex(a, n)
	}
	for i, dt := range Dwell(s, opts.MaxGap) {
		occupancy[binOf[i]] += dt
	}

	assigned := 0
	for _, j := range AssignSpikes(spikes, s, opts.MaxGap) {
		if j < 0 {
			continue
		}
		counts[binOf[j]]++
		assigned++
	}

	totalOcc := floats.Sum(occupancy)
	if !(totalOcc > 0) {
		return hd.TuningCurve{}, fmt.Errorf("%w: angle series has zero total occupancy", hd.ErrDegenerateData)
	}

	smoothCounts, err := Smooth(counts, opts.SmoothingWindow)
	if err != nil {
		return hd.TuningCurve{}, err
	}
	smoothOcc, err := Smooth(occupancy, opts.SmoothingWindow)
	if err != nil {
		return hd.TuningCurve{}, err
	}

	rate := make([]float64, n)
	for b := range rate {
		if smoothOcc[b] > 0 {
			rate[b] = smoothCounts[b] / smoothOcc[b]
		}
	}

	hd.Diagf("tuning: %d of %d spikes assigned, occupancy=%.3f, bins=%d window=%d", assigned, len(spikes), totalOcc, n, opts.SmoothingWindow)
	if hd.TraceEnabled() {
		for b := range rate {
			hd.Tracef("tuning: bin %d spikes=%g occupancy=%g rate=%g", b, counts[b], occupancy[b], rate[b])
		}
	}

	return hd.TuningCurve{
		BinCenters: BinCenters(n),
		FiringRate: rate,
		SpikeCount: counts,
		Occupancy:  occupancy,
	}, nil
}
