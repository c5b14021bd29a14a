package pipeline

import (
	"context"
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/banshee-data/headdirection/internal/config"
	"github.com/banshee-data/headdirection/internal/hd"
	"github.com/banshee-data/headdirection/internal/testutil"
	"github.com/banshee-data/headdirection/internal/timeutil"
	"github.com/banshee-data/headdirection/internal/tracking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrBool(v bool) *bool        { return &v }
func ptrFloat(v float64) *float64 { return &v }
func ptrInt(v int) *int           { return &v }
func ptrString(v string) *string  { return &v }

// rotatingSession is an animal turning on the spot through six full
// revolutions, plus the spikes of a cell firing within 0.3 rad of north.
func rotatingSession(t *testing.T) (hd.Tracking, []float64) {
	t.Helper()
	tr := testutil.RotatingTracking(1201, 0.05, 2*math.Pi/10, 2)
	series, err := tracking.HeadDirection(tr, tracking.DefaultOptions())
	require.NoError(t, err)
	spikes := testutil.SpikesWhile(series, 20, func(a float64) bool {
		return hd.Distance(a, math.Pi/2) < 0.3
	})
	require.NotEmpty(t, spikes)
	return tr, spikes
}

func TestRunScoresCellsInOrder(t *testing.T) {
	tr, north := rotatingSession(t)
	in := Input{
		Tracking: tr,
		Cells: []Cell{
			{Name: "north", Spikes: north},
			{Name: "silent"},
		},
	}

	res, err := Run(context.Background(), in, config.EmptyAnalysisConfig())
	require.NoError(t, err)
	require.Len(t, res.Cells, 2)

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, 1201, res.Samples)
	assert.Equal(t, 1199, res.CleanSamples) // first and last samples have no artifact feature
	assert.Nil(t, res.Calibration)
	assert.Zero(t, res.Offset)

	north0 := res.Cells[0]
	assert.Equal(t, "north", north0.Name)
	require.NoError(t, north0.Err)
	testutil.AssertAngleNear(t, north0.Score.MeanAngle, math.Pi/2, 2*math.Pi/36)
	assert.Greater(t, north0.Score.VectorLength, 0.8)
	assert.Len(t, north0.Curve.FiringRate, 36)

	silent := res.Cells[1]
	assert.Equal(t, "silent", silent.Name)
	assert.ErrorIs(t, silent.Err, hd.ErrDegenerateData)
	assert.Contains(t, silent.Error, "silent")
}

func TestRunAppliesConfiguredOffset(t *testing.T) {
	tr, north := rotatingSession(t)
	cfg := config.EmptyAnalysisConfig()
	cfg.Offset = ptrFloat(math.Pi)

	res, err := Run(context.Background(), Input{Tracking: tr, Cells: []Cell{{Name: "c", Spikes: north}}}, cfg)
	require.NoError(t, err)
	require.NoError(t, res.Cells[0].Err)
	assert.Equal(t, math.Pi, res.Offset)
	testutil.AssertAngleNear(t, res.Cells[0].Score.MeanAngle, 3*math.Pi/2, 2*math.Pi/36)
}

func TestBuildSessionAutoCalibrates(t *testing.T) {
	const headOffset = 0.7
	tr := testutil.CircleWalk(400, 0.05, 20, 10, headOffset, 2)

	cfg := config.EmptyAnalysisConfig()
	cfg.AutoCalibrate = ptrBool(true)
	cfg.CalibrationPosition = ptrString(config.PositionMarker2)

	sess, err := BuildSession(context.Background(), tr, cfg)
	require.NoError(t, err)
	require.NotNil(t, sess.Calibration)
	testutil.AssertAngleNear(t, sess.Offset, hd.Wrap(-headOffset), 0.02)
	assert.Equal(t, sess.Calibration.Offset, sess.Offset)
	assert.Greater(t, sess.Calibration.ResultantLength, 0.99)

	// After calibration the head direction follows the direction of travel.
	omega := 10.0 / 20.0
	for i := 10; i < sess.Series.Len(); i += 50 {
		travel := hd.Wrap(omega*sess.Series.Timestamps[i] + math.Pi/2)
		testutil.AssertAngleNear(t, sess.Series.Angles[i], travel, 0.02)
	}
}

func TestBuildSessionCalibrationPositions(t *testing.T) {
	tr := testutil.CircleWalk(400, 0.05, 20, 10, 0.4, 2)
	for _, pos := range []string{config.PositionMarker1, config.PositionMarker2, config.PositionMid} {
		t.Run(pos, func(t *testing.T) {
			cfg := config.EmptyAnalysisConfig()
			cfg.AutoCalibrate = ptrBool(true)
			cfg.CalibrationPosition = ptrString(pos)

			sess, err := BuildSession(context.Background(), tr, cfg)
			require.NoError(t, err)
			// The markers are 2 units apart on a radius-20 circle, so every
			// position source sees nearly the same direction of travel.
			testutil.AssertAngleNear(t, sess.Offset, hd.Wrap(-0.4), 0.15)
		})
	}
}

func TestBuildSessionStationaryCannotCalibrate(t *testing.T) {
	tr, _ := rotatingSession(t)
	cfg := config.EmptyAnalysisConfig()
	cfg.AutoCalibrate = ptrBool(true)
	cfg.CalibrationPosition = ptrString(config.PositionMarker2)

	_, err := BuildSession(context.Background(), tr, cfg)
	assert.ErrorIs(t, err, hd.ErrAmbiguousOffset)
}

func TestRunErrors(t *testing.T) {
	tr, north := rotatingSession(t)

	t.Run("invalid config", func(t *testing.T) {
		cfg := config.EmptyAnalysisConfig()
		cfg.NumBins = ptrInt(0)
		_, err := Run(context.Background(), Input{Tracking: tr}, cfg)
		assert.ErrorIs(t, err, hd.ErrInvalidOption)
	})

	t.Run("mismatched tracking", func(t *testing.T) {
		bad := tr
		bad.X1 = bad.X1[:10]
		_, err := Run(context.Background(), Input{Tracking: bad}, nil)
		assert.ErrorIs(t, err, hd.ErrInputShape)
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Run(ctx, Input{Tracking: tr, Cells: []Cell{{Name: "c", Spikes: north}}}, nil)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestResultJSON(t *testing.T) {
	tr, north := rotatingSession(t)
	res, err := Run(context.Background(), Input{Tracking: tr, Cells: []Cell{{Name: "north", Spikes: north}, {Name: "silent"}}}, nil)
	require.NoError(t, err)

	data, err := json.Marshal(res)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, res.RunID, decoded["run_id"])
	assert.NotContains(t, decoded, "calibration")
	cells, ok := decoded["cells"].([]any)
	require.True(t, ok)
	require.Len(t, cells, 2)
	assert.NotContains(t, cells[0].(map[string]any), "error")
	assert.Contains(t, cells[1].(map[string]any), "error")
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.MustLoadDefaultConfig()
	cfg.SmoothingWindow = ptrInt(3)
	cfg.MaxGap = ptrFloat(0.5)
	cfg.ArtifactFeature = ptrString(config.FeatureMarkerSpeed)

	assert.Equal(t, tracking.FeatureMarkerSpeed, FilterOptions(cfg).Feature)
	assert.Equal(t, 3.0, FilterOptions(cfg).StdThreshold)
	assert.Equal(t, 3, TuningOptions(cfg).SmoothingWindow)
	assert.Equal(t, 0.5, TuningOptions(cfg).MaxGap)
	assert.Equal(t, 36, TuningOptions(cfg).NumBins)
	assert.Equal(t, 10, CalibrationOptions(cfg).MinMovingSamples)
}

func TestRunStampsSession(t *testing.T) {
	start := time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)
	mock := timeutil.NewMockClock(start)
	old := clock
	clock = mock
	t.Cleanup(func() { clock = old })

	tr, north := rotatingSession(t)
	first, err := Run(context.Background(), Input{Tracking: tr, Cells: []Cell{{Name: "c", Spikes: north}}}, nil)
	require.NoError(t, err)
	assert.True(t, first.CreatedAt.Equal(start))
	assert.Zero(t, first.Elapsed)

	second, err := Run(context.Background(), Input{Tracking: tr}, nil)
	require.NoError(t, err)
	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Empty(t, second.Cells)
}
