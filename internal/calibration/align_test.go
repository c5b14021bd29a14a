package calibration

import (
	"testing"

	"github.com/banshee-data/headdirection/internal/hd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlign(t *testing.T) {
	xs := []float64{10, 11, 12, 13}
	ys := []float64{20, 21, 22, 23}

	s := hd.AngleSeries{Timestamps: []float64{0, 2}, Angles: []float64{0, 0}, Index: []int{1, 3}}
	x, y, err := Align(s, xs, ys)
	require.NoError(t, err)
	assert.Equal(t, []float64{11, 13}, x)
	assert.Equal(t, []float64{21, 23}, y)

	_, _, err = Align(hd.AngleSeries{Index: []int{7}}, xs, ys)
	assert.ErrorIs(t, err, hd.ErrInputShape)

	_, _, err = Align(hd.AngleSeries{Timestamps: []float64{0}}, xs, ys)
	assert.ErrorIs(t, err, hd.ErrInputShape)

	x, _, err = Align(hd.AngleSeries{Timestamps: []float64{0, 1, 2, 3}}, xs, ys)
	require.NoError(t, err)
	assert.Equal(t, xs, x)
}

func TestNearestResample(t *testing.T) {
	srcT := []float64{0, 1, 2, 3}
	xs := []float64{0, 10, 20, 30}
	ys := []float64{5, 15, 25, 35}

	x, y, err := NearestResample(srcT, xs, ys, []float64{-1, 0.4, 0.5, 0.6, 2.9, 7})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0, 10, 30, 30}, x)
	assert.Equal(t, []float64{5, 5, 5, 15, 35, 35}, y)

	_, _, err = NearestResample(nil, nil, nil, []float64{1})
	assert.ErrorIs(t, err, hd.ErrDegenerateData)

	_, _, err = NearestResample(srcT, xs[:2], ys, []float64{1})
	assert.ErrorIs(t, err, hd.ErrInputShape)
}
