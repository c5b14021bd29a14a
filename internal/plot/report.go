package plot

import (
	"fmt"
	"io"
	"math"

	"github.com/banshee-data/headdirection/internal/hd"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// AssetsHost serves the echarts JavaScript for rendered reports.
var AssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"

// Cell is one scored tuning curve in an HTML report.
type Cell struct {
	Name  string
	Curve hd.TuningCurve
	Score hd.DirectionalityScore
}

// rateBar charts firing rate against bin centre in degrees.
func rateBar(c Cell) *charts.Bar {
	x := make([]string, c.Curve.NumBins())
	y := make([]opts.BarData, c.Curve.NumBins())
	for b := range x {
		x[b] = fmt.Sprintf("%.0f°", hd.Degrees(c.Curve.BinCenters[b]))
		y[b] = opts.BarData{Value: c.Curve.FiringRate[b]}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "400px", AssetsHost: AssetsHost}),
		charts.WithTitleOpts(opts.Title{Title: c.Name, Subtitle: fmt.Sprintf("mean=%.1f° r=%.3f", hd.Degrees(c.Score.MeanAngle), c.Score.VectorLength)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Rate (Hz)"}),
	)
	bar.SetXAxis(x).AddSeries("firing rate", y)
	return bar
}

// polarScatter draws the curve projected to XY, as the PNG does.
func polarScatter(c Cell) *charts.Scatter {
	data := make([]opts.ScatterData, 0, c.Curve.NumBins())
	for b, r := range c.Curve.FiringRate {
		theta := c.Curve.BinCenters[b]
		data = append(data, opts.ScatterData{Value: []interface{}{r * math.Cos(theta), r * math.Sin(theta), r}})
	}
	pad := maxRate(c.Curve) * 1.1

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "600px", Height: "600px", AssetsHost: AssetsHost}),
		charts.WithTitleOpts(opts.Title{Title: c.Name + " (polar)"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: -pad, Max: pad, Name: "X (Hz)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: -pad, Max: pad, Name: "Y (Hz)", NameLocation: "middle", NameGap: 30}),
	)
	scatter.AddSeries("rate", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 8}))
	return scatter
}

// RenderHTML writes a page with a rate bar chart and a polar scatter for
// every cell.
func RenderHTML(w io.Writer, title string, cells []Cell) error {
	page := components.NewPage()
	page.SetAssetsHost(AssetsHost)
	page.PageTitle = title
	for _, c := range cells {
		if c.Curve.NumBins() == 0 || len(c.Curve.FiringRate) != c.Curve.NumBins() {
			return fmt.Errorf("%w: cell %q has an empty or inconsistent tuning curve", hd.ErrInputShape, c.Name)
		}
		page.AddCharts(rateBar(c), polarScatter(c))
	}
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render error: %w", err)
	}
	return nil
}
