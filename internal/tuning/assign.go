package tuning

import (
	"sort"

	"github.com/banshee-data/headdirection/internal/hd"
)

// AssignSpikes maps each spike to the angle-series sample describing the
// head direction at that instant, using causal hold-last semantics: the
// sample with the largest timestamp not after the spike. The result is
// parallel to spikes; -1 marks a dropped spike.
//
// Spikes before the first or after the last timestamp fall outside the
// series and are dropped. A spike exactly on the last timestamp belongs to
// the previous sample, because the last sample has no dwell time of its own.
// When maxGap > 0, spikes inside an inter-sample gap longer than maxGap are
// dropped as well.
func AssignSpikes(spikes []float64, s hd.AngleSeries, maxGap float64) []int {
	out := make([]int, len(spikes))
	n := s.Len()
	ts := s.Timestamps
	for i, sp := range spikes {
		out[i] = -1
		if n < 2 || sp < ts[0] || sp > ts[n-1] {
			continue
		}
		// First index with ts[j] > sp, minus one, is the hold-last sample.
		j := sort.Search(n, func(k int) bool { return ts[k] > sp }) - 1
		if j == n-1 {
			j = n - 2
		}
		if maxGap > 0 && ts[j+1]-ts[j] > maxGap {
			continue
		}
		out[i] = j
	}
	return out
}

// Dwell returns the time each sample represents: t[i+1]-t[i], and 0 for
// the last sample. When maxGap > 0, gaps longer than maxGap contribute 0.
func Dwell(s hd.AngleSeries, maxGap float64) []float64 {
	n := s.Len()
	out := make([]float64, n)
	for i := 0; i < n-1; i++ {
		dt := s.Timestamps[i+1] - s.Timestamps[i]
		if maxGap > 0 && dt > maxGap {
			continue
		}
		out[i] = dt
	}
	return out
}
