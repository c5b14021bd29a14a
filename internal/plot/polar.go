// Package plot renders tuning curves: a static polar PNG via gonum/plot and
// an interactive HTML report via go-echarts.
package plot

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/banshee-data/headdirection/internal/hd"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// PNGSize is the edge length of the square polar PNG.
const PNGSize = 6 * vg.Inch

var (
	curveColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	rayColor   = color.RGBA{R: 214, G: 39, B: 40, A: 255}
)

// polarXY projects a firing-rate curve to Cartesian points, closing the loop
// back to the first bin.
func polarXY(curve hd.TuningCurve) plotter.XYs {
	n := curve.NumBins()
	pts := make(plotter.XYs, 0, n+1)
	for b := 0; b <= n; b++ {
		i := b % n
		r := curve.FiringRate[i]
		pts = append(pts, plotter.XY{
			X: r * math.Cos(curve.BinCenters[i]),
			Y: r * math.Sin(curve.BinCenters[i]),
		})
	}
	return pts
}

// maxRate returns the largest firing rate, or 1 for an all-zero curve so the
// axes stay usable.
func maxRate(curve hd.TuningCurve) float64 {
	m := 0.0
	for _, r := range curve.FiringRate {
		m = math.Max(m, r)
	}
	if m == 0 {
		return 1
	}
	return m
}

// NewPolarPlot builds a polar view of curve: the rate at each bin centre
// drawn as a closed line, plus a ray along the preferred direction scaled by
// the vector length.
func NewPolarPlot(title string, curve hd.TuningCurve, score hd.DirectionalityScore) (*plot.Plot, error) {
	if curve.NumBins() == 0 || len(curve.FiringRate) != curve.NumBins() {
		return nil, fmt.Errorf("%w: tuning curve has %d centres and %d rates", hd.ErrInputShape, curve.NumBins(), len(curve.FiringRate))
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s (mean %.1f°, r=%.2f)", title, hd.Degrees(score.MeanAngle), score.VectorLength)
	p.X.Label.Text = "Rate (Hz)"
	p.Y.Label.Text = "Rate (Hz)"

	pad := maxRate(curve) * 1.1
	p.X.Min, p.X.Max = -pad, pad
	p.Y.Min, p.Y.Max = -pad, pad

	line, err := plotter.NewLine(polarXY(curve))
	if err != nil {
		return nil, err
	}
	line.Color = curveColor
	line.Width = vg.Points(1.5)
	p.Add(line)
	p.Legend.Add("firing rate", line)

	rayLen := score.VectorLength * maxRate(curve)
	ray, err := plotter.NewLine(plotter.XYs{
		{X: 0, Y: 0},
		{X: rayLen * math.Cos(score.MeanAngle), Y: rayLen * math.Sin(score.MeanAngle)},
	})
	if err != nil {
		return nil, err
	}
	ray.Color = rayColor
	ray.Width = vg.Points(2)
	p.Add(ray)
	p.Legend.Add("mean vector", ray)

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p, nil
}

// WritePolarPNG renders the polar plot of curve as a PNG to w.
func WritePolarPNG(w io.Writer, title string, curve hd.TuningCurve, score hd.DirectionalityScore) error {
	p, err := NewPolarPlot(title, curve, score)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(PNGSize, PNGSize, "png")
	if err != nil {
		return fmt.Errorf("failed to create png writer: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write png: %w", err)
	}
	return nil
}
