package tuning

import (
	"fmt"

	"github.com/banshee-data/headdirection/internal/hd"
)

// Window returns the bin offsets [lo, hi] (inclusive, relative to the
// centre bin) covered by a boxcar of width w. Odd widths are symmetric.
// Even widths take one more bin on the left: w=4 covers [-2, +1].
func Window(w int) (lo, hi int) {
	if w <= 1 {
		return 0, 0
	}
	lo = -(w / 2)
	hi = lo + w - 1
	return lo, hi
}

// Smooth applies a circular boxcar (moving average) of width w to data.
// Bin b becomes the unweighted mean of data[b+lo .. b+hi] (see Window),
// wrapping across the first and last bins. Widths 0 and 1 return a copy.
func Smooth(data []float64, w int) ([]float64, error) {
	n := len(data)
	if w < 0 {
		return nil, fmt.Errorf("%w: smoothing window must be non-negative, got %d", hd.ErrInvalidOption, w)
	}
	if w > n {
		return nil, fmt.Errorf("%w: smoothing window (%d) cannot be larger than the number of bins (%d)", hd.ErrInvalidOption, w, n)
	}
	out := make([]float64, n)
	if w <= 1 {
		copy(out, data)
		return out, nil
	}

	lo, hi := Window(w)
	for b := range n {
		var sum float64
		for k := lo; k <= hi; k++ {
			sum += data[((b+k)%n+n)%n]
		}
		out[b] = sum / float64(w)
	}
	return out, nil
}
