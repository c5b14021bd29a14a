package tracking

import (
	"fmt"
	"math"

	"github.com/banshee-data/headdirection/internal/hd"
	"gonum.org/v1/gonum/stat"
)

// Feature selects the per-sample kinematic quantity scanned for outliers.
type Feature string

const (
	// FeatureDistanceRate is the rate of change of the inter-marker
	// distance. The markers are rigidly mounted, so a jump indicates a
	// swapped or occluded marker.
	FeatureDistanceRate Feature = "distance_rate"
	// FeatureMarkerSpeed is the instantaneous speed of marker 1.
	FeatureMarkerSpeed Feature = "marker_speed"
)

// DefaultStdThreshold is the default outlier cut in standard deviations.
const DefaultStdThreshold = 3.0

// featureNoiseFloor is the feature standard deviation (length units per
// time unit) below which the spread is rounding noise and no sample is
// treated as an outlier.
const featureNoiseFloor = 1e-9

// FilterOptions configures FilterArtifacts.
type FilterOptions struct {
	StdThreshold float64 // z-score above which a sample is rejected
	Feature      Feature // Empty selects FeatureDistanceRate
}

// DefaultFilterOptions returns the default artifact filter configuration.
func DefaultFilterOptions() FilterOptions {
	return FilterOptions{StdThreshold: DefaultStdThreshold, Feature: FeatureDistanceRate}
}

func (o FilterOptions) validate() error {
	if !(o.StdThreshold > 0) || math.IsInf(o.StdThreshold, 0) {
		return fmt.Errorf("%w: std_filter_threshold must be positive and finite, got %g", hd.ErrInvalidOption, o.StdThreshold)
	}
	switch o.Feature {
	case "", FeatureDistanceRate, FeatureMarkerSpeed:
		return nil
	default:
		return fmt.Errorf("%w: unknown artifact feature %q", hd.ErrInvalidOption, o.Feature)
	}
}

// FilterArtifacts returns a validity mask over the samples of tr.
//
// Each interior sample k gets the feature
//
//	f_k = min(|r(k-1, k)|, |r(k, k+1)|)
//
// where r is the per-interval rate selected by opts.Feature. Taking the
// smaller of the backward and forward rates makes an isolated glitch score
// high at exactly one sample: its neighbours each keep one calm side. A
// sample is an outlier when |f_k - mean(f)| / std(f) exceeds
// opts.StdThreshold. A spread below the numeric noise floor flags nothing.
//
// The first and last samples, samples with non-finite coordinates and
// samples adjacent to them have no defined feature and are always invalid.
// ErrDegenerateData is returned when fewer than two samples survive.
func FilterArtifacts(tr hd.Tracking, opts FilterOptions) ([]bool, error) {
	if err := tr.Validate(); err != nil {
		return nil, err
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	n := tr.Len()
	rates := intervalRates(tr, opts.Feature)

	features := make([]float64, n)
	defined := make([]bool, n)
	values := make([]float64, 0, n)
	for k := 1; k < n-1; k++ {
		back, fwd := rates[k-1], rates[k]
		if math.IsNaN(back) || math.IsNaN(fwd) {
			continue
		}
		features[k] = math.Min(math.Abs(back), math.Abs(fwd))
		defined[k] = true
		values = append(values, features[k])
	}

	var mean, std float64
	if len(values) > 1 {
		mean, std = stat.MeanStdDev(values, nil)
	}

	mask := make([]bool, n)
	valid := 0
	for k := range n {
		if !defined[k] {
			continue
		}
		if std > featureNoiseFloor && math.Abs(features[k]-mean)/std > opts.StdThreshold {
			if hd.TraceEnabled() {
				hd.Tracef("artifact: sample %d t=%g feature=%g rejected (mean=%g std=%g)", k, tr.T[k], features[k], mean, std)
			}
			continue
		}
		mask[k] = true
		valid++
	}

	hd.Diagf("artifact filter (%s, threshold=%.2f): kept %d of %d samples", featureName(opts.Feature), opts.StdThreshold, valid, n)
	if valid < 2 {
		return nil, fmt.Errorf("%w: %d valid samples after artifact filtering, need at least 2", hd.ErrDegenerateData, valid)
	}
	return mask, nil
}

// intervalRates returns the feature rate over each interval [j, j+1], so
// len(result) == n-1. Intervals touching a non-finite coordinate are NaN.
func intervalRates(tr hd.Tracking, f Feature) []float64 {
	n := tr.Len()
	if n < 2 {
		return nil
	}
	out := make([]float64, n-1)
	for j := 0; j < n-1; j++ {
		dt := tr.T[j+1] - tr.T[j]
		switch f {
		case FeatureMarkerSpeed:
			if !isFinite(tr.X1[j], tr.Y1[j], tr.X1[j+1], tr.Y1[j+1]) {
				out[j] = math.NaN()
				continue
			}
			out[j] = math.Hypot(tr.X1[j+1]-tr.X1[j], tr.Y1[j+1]-tr.Y1[j]) / dt
		default:
			if !isFinite(tr.X1[j], tr.Y1[j], tr.X2[j], tr.Y2[j], tr.X1[j+1], tr.Y1[j+1], tr.X2[j+1], tr.Y2[j+1]) {
				out[j] = math.NaN()
				continue
			}
			out[j] = (markerDistance(tr, j+1) - markerDistance(tr, j)) / dt
		}
	}
	return out
}

func markerDistance(tr hd.Tracking, i int) float64 {
	return math.Hypot(tr.X1[i]-tr.X2[i], tr.Y1[i]-tr.Y2[i])
}

func isFinite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func featureName(f Feature) Feature {
	if f == "" {
		return FeatureDistanceRate
	}
	return f
}
