package calibration

import (
	"fmt"
	"sort"

	"github.com/banshee-data/headdirection/internal/hd"
)

// Align picks the positions that belong to each sample of s using s.Index,
// the source row recorded by the reconstructor.
func Align(s hd.AngleSeries, xs, ys []float64) (x, y []float64, err error) {
	if len(xs) != len(ys) {
		return nil, nil, fmt.Errorf("%w: %d x positions, %d y positions", hd.ErrInputShape, len(xs), len(ys))
	}
	if s.Index == nil {
		if len(xs) != s.Len() {
			return nil, nil, fmt.Errorf("%w: series has no source index and %d samples for %d positions", hd.ErrInputShape, s.Len(), len(xs))
		}
		return append([]float64(nil), xs...), append([]float64(nil), ys...), nil
	}
	x = make([]float64, len(s.Index))
	y = make([]float64, len(s.Index))
	for i, src := range s.Index {
		if src < 0 || src >= len(xs) {
			return nil, nil, fmt.Errorf("%w: source index %d out of range [0, %d)", hd.ErrInputShape, src, len(xs))
		}
		x[i], y[i] = xs[src], ys[src]
	}
	return x, y, nil
}

// NearestResample maps positions sampled at srcT onto the clock dstT by
// taking, for each destination time, the source sample nearest in time.
// Ties resolve to the earlier source sample.
func NearestResample(srcT, xs, ys, dstT []float64) (x, y []float64, err error) {
	if len(xs) != len(srcT) || len(ys) != len(srcT) {
		return nil, nil, fmt.Errorf("%w: %d timestamps, %d x, %d y", hd.ErrInputShape, len(srcT), len(xs), len(ys))
	}
	if len(srcT) == 0 {
		return nil, nil, fmt.Errorf("%w: no source samples to resample", hd.ErrDegenerateData)
	}
	if err := hd.ValidateTimestamps(srcT); err != nil {
		return nil, nil, err
	}

	x = make([]float64, len(dstT))
	y = make([]float64, len(dstT))
	for i, ts := range dstT {
		j := sort.SearchFloat64s(srcT, ts)
		switch {
		case j == 0:
		case j == len(srcT):
			j = len(srcT) - 1
		case ts-srcT[j-1] <= srcT[j]-ts:
			j--
		}
		x[i], y[i] = xs[j], ys[j]
	}
	return x, y, nil
}
