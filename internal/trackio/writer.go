package trackio

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/banshee-data/headdirection/internal/hd"
)

// CurveHeader is the column layout written by CSVWriter.
var CurveHeader = []string{"cell", "bin_center_rad", "bin_center_deg", "spike_count", "occupancy_s", "firing_rate_hz"}

// CSVWriter wraps csv.Writer with methods for tuning-curve output.
type CSVWriter struct {
	w *csv.Writer
}

// NewCSVWriter creates a new CSVWriter writing to w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: csv.NewWriter(w)}
}

// WriteHeader writes the CurveHeader row.
func (c *CSVWriter) WriteHeader() error {
	return c.w.Write(CurveHeader)
}

// WriteCurve writes one row per bin of curve, labelled with cell.
func (c *CSVWriter) WriteCurve(cell string, curve hd.TuningCurve) error {
	n := curve.NumBins()
	if len(curve.FiringRate) != n || len(curve.SpikeCount) != n || len(curve.Occupancy) != n {
		return fmt.Errorf("%w: tuning curve for %q has inconsistent bin counts", hd.ErrInputShape, cell)
	}
	for b := range n {
		row := []string{
			cell,
			fmt.Sprintf("%.6f", curve.BinCenters[b]),
			fmt.Sprintf("%.2f", hd.Degrees(curve.BinCenters[b])),
			fmt.Sprintf("%.0f", curve.SpikeCount[b]),
			fmt.Sprintf("%.6f", curve.Occupancy[b]),
			fmt.Sprintf("%.6f", curve.FiringRate[b]),
		}
		if err := c.w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying writer and reports any write error.
func (c *CSVWriter) Flush() error {
	c.w.Flush()
	return c.w.Error()
}
