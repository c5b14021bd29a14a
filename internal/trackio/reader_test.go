package trackio

import (
	"math"
	"strings"
	"testing"

	"github.com/banshee-data/headdirection/internal/hd"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadTracking(t *testing.T) {
	in := `frame, x2, y2, t, x1, y1
0, 1, 1, 0.00, 2, 1
1, 1, 1, 0.02, 1, 2
2, , , 0.04, 1, nan
`
	tr, err := ReadTracking(strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, 3, tr.Len())

	if diff := cmp.Diff([]float64{0, 0.02, 0.04}, tr.T); diff != "" {
		t.Errorf("timestamps mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{2, 1, 1}, tr.X1); diff != "" {
		t.Errorf("x1 mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, math.IsNaN(tr.X2[2]))
	assert.True(t, math.IsNaN(tr.Y2[2]))
	assert.True(t, math.IsNaN(tr.Y1[2]))
}

func TestReadTrackingCaseInsensitiveHeader(t *testing.T) {
	tr, err := ReadTracking(strings.NewReader("T,X1,Y1,X2,Y2\n0,1,0,0,0\n1,1,0,0,0\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, tr.Len())
}

func TestReadTrackingErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"missing column", "t,x1,y1,x2\n0,1,1,1\n"},
		{"bad number", "t,x1,y1,x2,y2\n0,abc,0,0,0\n"},
		{"short row", "t,x1,y1,x2,y2\n0,1,0\n"},
		{"non-monotonic", "t,x1,y1,x2,y2\n1,1,0,0,0\n0,1,0,0,0\n"},
		{"missing timestamp", "t,x1,y1,x2,y2\n,1,0,0,0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadTracking(strings.NewReader(tt.in))
			assert.ErrorIs(t, err, hd.ErrInputShape)
		})
	}
}

func TestReadSpikes(t *testing.T) {
	t.Run("header and unit conversion", func(t *testing.T) {
		got, err := ReadSpikes(strings.NewReader("spike_ms\n1500\n250\n\n"), "ms")
		require.NoError(t, err)
		if diff := cmp.Diff([]float64{0.25, 1.5}, got); diff != "" {
			t.Errorf("spikes mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("headerless seconds", func(t *testing.T) {
		got, err := ReadSpikes(strings.NewReader("0.5,unit7\n0.1,unit7\n"), "s")
		require.NoError(t, err)
		assert.Equal(t, []float64{0.1, 0.5}, got)
	})

	t.Run("bad row", func(t *testing.T) {
		_, err := ReadSpikes(strings.NewReader("0.5\nxyz\n"), "s")
		assert.ErrorIs(t, err, hd.ErrInputShape)
	})

	t.Run("unknown unit", func(t *testing.T) {
		_, err := ReadSpikes(strings.NewReader("0.5\n"), "fortnight")
		assert.ErrorIs(t, err, hd.ErrInputShape)
	})
}
