package tracking

import (
	"fmt"
	"math"

	"github.com/banshee-data/headdirection/internal/hd"
)

// Options configures HeadDirection.
type Options struct {
	Filter FilterOptions
	Offset float64 // Mounting offset in radians, added to the marker-vector angle
}

// DefaultOptions returns threshold 3.0, distance-rate feature and zero offset.
func DefaultOptions() Options {
	return Options{Filter: DefaultFilterOptions()}
}

// HeadDirection filters tracking artifacts and reconstructs the head angle
// of every surviving sample.
//
// The head vector points from marker 2 (back) to marker 1 (front). Common
// mounting offsets for that convention:
//
//	offset   marker 1   marker 2
//	0        front      back
//	-π/2     left       right
//	π        back       front
//	π/2      right      left
//
// Use calibration.EstimateOffset to find the offset from movement data.
func HeadDirection(tr hd.Tracking, opts Options) (hd.AngleSeries, error) {
	mask, err := FilterArtifacts(tr, opts.Filter)
	if err != nil {
		return hd.AngleSeries{}, err
	}
	return Reconstruct(tr, mask, opts.Offset)
}

// Reconstruct computes Wrap(atan2(y1-y2, x1-x2) + offset) for every sample
// whose mask entry is true. A nil mask keeps every sample. Samples where the
// markers coincide have no direction and are dropped along with their
// timestamps.
func Reconstruct(tr hd.Tracking, mask []bool, offset float64) (hd.AngleSeries, error) {
	if err := tr.Validate(); err != nil {
		return hd.AngleSeries{}, err
	}
	n := tr.Len()
	if mask != nil && len(mask) != n {
		return hd.AngleSeries{}, fmt.Errorf("%w: mask has %d entries for %d samples", hd.ErrInputShape, len(mask), n)
	}
	if math.IsNaN(offset) || math.IsInf(offset, 0) {
		return hd.AngleSeries{}, fmt.Errorf("%w: offset must be finite, got %g", hd.ErrInvalidOption, offset)
	}
	if offset == 0 {
		hd.Diagf("reconstruct: offset=0, assuming marker 1 = front (nose), marker 2 = back")
	}

	out := hd.AngleSeries{
		Timestamps: make([]float64, 0, n),
		Angles:     make([]float64, 0, n),
		Index:      make([]int, 0, n),
	}
	coincident := 0
	for i := range n {
		if mask != nil && !mask[i] {
			continue
		}
		dx := tr.X1[i] - tr.X2[i]
		dy := tr.Y1[i] - tr.Y2[i]
		if !isFinite(dx, dy) {
			continue
		}
		if dx == 0 && dy == 0 {
			coincident++
			continue
		}
		out.Timestamps = append(out.Timestamps, tr.T[i])
		out.Angles = append(out.Angles, hd.Wrap(math.Atan2(dy, dx)+offset))
		out.Index = append(out.Index, i)
	}

	if coincident > 0 {
		hd.Diagf("reconstruct: dropped %d samples with coincident markers", coincident)
	}
	if out.Len() < 2 {
		return hd.AngleSeries{}, fmt.Errorf("%w: %d samples with a defined head direction, need at least 2", hd.ErrDegenerateData, out.Len())
	}
	return out, nil
}

// ApplyOffset returns a copy of s rotated by offset and re-wrapped.
func ApplyOffset(s hd.AngleSeries, offset float64) hd.AngleSeries {
	out := hd.AngleSeries{
		Timestamps: append([]float64(nil), s.Timestamps...),
		Angles:     make([]float64, len(s.Angles)),
	}
	if s.Index != nil {
		out.Index = append([]int(nil), s.Index...)
	}
	for i, a := range s.Angles {
		out.Angles[i] = hd.Wrap(a + offset)
	}
	return out
}
