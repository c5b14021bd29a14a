package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/banshee-data/headdirection/internal/calibration"
	"github.com/banshee-data/headdirection/internal/config"
	"github.com/banshee-data/headdirection/internal/hd"
	"github.com/banshee-data/headdirection/internal/score"
	"github.com/banshee-data/headdirection/internal/timeutil"
	"github.com/banshee-data/headdirection/internal/tracking"
	"github.com/banshee-data/headdirection/internal/tuning"
	"github.com/google/uuid"
)

// clock stamps sessions and times runs.
var clock timeutil.Clock = timeutil.RealClock{}

// Input is one recording: the marker tracking and every cell recorded
// alongside it.
type Input struct {
	Tracking hd.Tracking
	Cells    []Cell
}

// Cell is one spike train analysed against the session's head direction.
type Cell struct {
	Name   string
	Spikes []float64 // seconds
}

// CellResult is the tuning curve and score of one cell. Err is set, and the
// other fields are zero, when the cell could not be scored.
type CellResult struct {
	Name  string                 `json:"name"`
	Curve hd.TuningCurve         `json:"curve"`
	Score hd.DirectionalityScore `json:"score"`
	Err   error                  `json:"-"`
	Error string                 `json:"error,omitempty"`
}

// Session is the head-direction series shared by every cell of a recording.
type Session struct {
	RunID        string              `json:"run_id"`
	CreatedAt    time.Time           `json:"created_at"`
	Series       hd.AngleSeries      `json:"-"`
	Offset       float64             `json:"offset"`
	Calibration  *calibration.Result `json:"calibration,omitempty"`
	Samples      int                 `json:"samples"`
	CleanSamples int                 `json:"clean_samples"`
}

// Result is a session plus the analysis of each of its cells.
type Result struct {
	Session
	Cells   []CellResult  `json:"cells"`
	Elapsed time.Duration `json:"elapsed_ns"`
}

// BuildSession filters and reconstructs the head direction of tr. With
// auto_calibrate set, the mounting offset is estimated from movement and
// replaces the configured offset.
func BuildSession(ctx context.Context, tr hd.Tracking, cfg *config.AnalysisConfig) (*Session, error) {
	if cfg == nil {
		cfg = config.EmptyAnalysisConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", hd.ErrInvalidOption, err)
	}

	sess := &Session{
		RunID:     uuid.New().String(),
		CreatedAt: clock.Now(),
		Samples:   tr.Len(),
	}
	hd.Opsf("run %s: %d tracking samples", sess.RunID, tr.Len())

	mask, err := tracking.FilterArtifacts(tr, FilterOptions(cfg))
	if err != nil {
		return nil, fmt.Errorf("artifact filter: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !cfg.GetAutoCalibrate() {
		sess.Offset = cfg.GetOffset()
		sess.Series, err = tracking.Reconstruct(tr, mask, sess.Offset)
		if err != nil {
			return nil, fmt.Errorf("reconstruct: %w", err)
		}
		sess.CleanSamples = sess.Series.Len()
		return sess, nil
	}

	raw, err := tracking.Reconstruct(tr, mask, 0)
	if err != nil {
		return nil, fmt.Errorf("reconstruct: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	xs, ys := calibrationPositions(tr, cfg.GetCalibrationPosition())
	x, y, err := calibration.Align(raw, xs, ys)
	if err != nil {
		return nil, fmt.Errorf("calibration: %w", err)
	}
	cal, err := calibration.EstimateOffset(raw.Angles, x, y, raw.Timestamps, CalibrationOptions(cfg))
	if err != nil {
		return nil, fmt.Errorf("calibration: %w", err)
	}

	sess.Calibration = &cal
	sess.Offset = cal.Offset
	sess.Series = tracking.ApplyOffset(raw, cal.Offset)
	sess.CleanSamples = sess.Series.Len()
	hd.Opsf("run %s: auto-calibrated offset %.1f° from %d moving samples", sess.RunID, hd.Degrees(cal.Offset), cal.MovingSamples)
	return sess, nil
}

// calibrationPositions selects the position track used to derive the
// direction of travel.
func calibrationPositions(tr hd.Tracking, source string) (xs, ys []float64) {
	switch source {
	case config.PositionMarker2:
		return tr.X2, tr.Y2
	case config.PositionMid:
		xs = make([]float64, tr.Len())
		ys = make([]float64, tr.Len())
		for i := range xs {
			xs[i] = (tr.X1[i] + tr.X2[i]) / 2
			ys[i] = (tr.Y1[i] + tr.Y2[i]) / 2
		}
		return xs, ys
	default:
		return tr.X1, tr.Y1
	}
}

// AnalyseCell computes the tuning curve and directionality of one cell.
func (s *Session) AnalyseCell(c Cell, cfg *config.AnalysisConfig) CellResult {
	if cfg == nil {
		cfg = config.EmptyAnalysisConfig()
	}
	res := CellResult{Name: c.Name}
	curve, err := tuning.Compute(c.Spikes, s.Series, TuningOptions(cfg))
	if err != nil {
		res.Err = fmt.Errorf("cell %q: tuning curve: %w", c.Name, err)
		res.Error = res.Err.Error()
		return res
	}
	sc, err := score.Curve(curve)
	if err != nil {
		res.Err = fmt.Errorf("cell %q: score: %w", c.Name, err)
		res.Error = res.Err.Error()
		return res
	}
	res.Curve, res.Score = curve, sc
	return res
}

// Run analyses every cell of in against the session built from its tracking. Cells are
// independent and scored concurrently; results keep the order of cells.
// A cell that cannot be scored reports its error in CellResult.Err without
// failing the others. Run fails only if the session itself cannot be built
// or ctx is cancelled.
func Run(ctx context.Context, in Input, cfg *config.AnalysisConfig) (*Result, error) {
	cells := in.Cells
	sess, err := BuildSession(ctx, in.Tracking, cfg)
	if err != nil {
		hd.Opsf("session failed: %v", err)
		return nil, err
	}

	results := make([]CellResult, len(cells))
	var wg sync.WaitGroup
	for i, c := range cells {
		wg.Add(1)
		go func(i int, c Cell) {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			results[i] = sess.AnalyseCell(c, cfg)
		}(i, c)
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			hd.Opsf("run %s: %v", sess.RunID, r.Err)
		}
	}
	elapsed := clock.Since(sess.CreatedAt)
	hd.Opsf("run %s: scored %d of %d cells in %s", sess.RunID, len(cells)-failed, len(cells), elapsed)
	return &Result{Session: *sess, Cells: results, Elapsed: elapsed}, nil
}
