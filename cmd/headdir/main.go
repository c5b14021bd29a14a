// Command headdir computes head-direction tuning curves and directionality
// scores from two-marker tracking and spike-time CSV exports.
//
// Usage:
//
//	headdir -tracking session.csv -spikes unit1.csv,unit2.csv [-calibrate] [-png out.png] [-html report.html]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/banshee-data/headdirection/internal/config"
	"github.com/banshee-data/headdirection/internal/fsutil"
	"github.com/banshee-data/headdirection/internal/hd"
	"github.com/banshee-data/headdirection/internal/pipeline"
	"github.com/banshee-data/headdirection/internal/plot"
	"github.com/banshee-data/headdirection/internal/trackio"
	"github.com/banshee-data/headdirection/internal/version"
)

var (
	trackingFile = flag.String("tracking", "", "Tracking CSV with columns t,x1,y1,x2,y2 (required)")
	spikeFiles   = flag.String("spikes", "", "Comma-separated spike CSV files, one cell per file (required)")
	spikeUnit    = flag.String("spike-unit", "", "Time unit of spike files: s, ms, us, ns or min (default from config)")
	configFile   = flag.String("config", "", "Analysis config JSON (defaults apply to omitted fields)")
	calibrate    = flag.Bool("calibrate", false, "Estimate the mounting offset from movement instead of using -offset")
	offsetDeg    = flag.Float64("offset", 0, "Mounting offset in degrees added to the marker angle")
	bins         = flag.Int("bins", 0, "Number of angular bins (default from config)")
	window       = flag.Int("window", -1, "Smoothing window in bins (default from config)")
	csvOut       = flag.String("csv", "", "Write tuning curves to this CSV file")
	pngOut       = flag.String("png", "", "Write a polar PNG per cell (cell name is appended when there are several)")
	htmlOut      = flag.String("html", "", "Write an interactive HTML report")
	jsonOut      = flag.String("json", "", "Write the full result as JSON ('-' for stdout)")
	verbose      = flag.Bool("v", false, "Enable diagnostic logging")
	trace        = flag.Bool("trace", false, "Enable per-bin trace logging")
	showVersion  = flag.Bool("version", false, "Print version and exit")
)

// files is where inputs are read from and outputs written to.
var files fsutil.FileSystem = fsutil.OSFileSystem{}

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println("headdir", version.String())
		return
	}

	lw := hd.LogWriters{Ops: os.Stderr}
	if *verbose || *trace {
		lw.Diag = os.Stderr
	}
	if *trace {
		lw.Trace = os.Stderr
	}
	hd.SetLogWriters(lw)

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	cfg, err := loadConfig(*configFile, set)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Stdout); err != nil {
		log.Fatalf("headdir: %v", err)
	}
}

// loadConfig reads path (when given) and applies the command-line overrides
// the user explicitly set.
func loadConfig(path string, set map[string]bool) (*config.AnalysisConfig, error) {
	cfg := config.EmptyAnalysisConfig()
	if path != "" {
		loaded, err := config.LoadAnalysisConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if set["calibrate"] {
		cfg.AutoCalibrate = calibrate
	}
	if set["offset"] {
		rad := *offsetDeg * math.Pi / 180
		cfg.Offset = &rad
	}
	if set["bins"] {
		cfg.NumBins = bins
	}
	if set["window"] {
		cfg.SmoothingWindow = window
	}
	if set["spike-unit"] {
		cfg.SpikeUnit = spikeUnit
	}
	return cfg, cfg.Validate()
}

func run(ctx context.Context, cfg *config.AnalysisConfig, stdout io.Writer) error {
	if *trackingFile == "" || *spikeFiles == "" {
		return fmt.Errorf("-tracking and -spikes are required")
	}

	tr, err := readTracking(*trackingFile)
	if err != nil {
		return err
	}
	var cells []pipeline.Cell
	for _, path := range strings.Split(*spikeFiles, ",") {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		c, err := readCell(path, cfg.GetSpikeUnit())
		if err != nil {
			return err
		}
		cells = append(cells, c)
	}

	res, err := pipeline.Run(ctx, pipeline.Input{Tracking: tr, Cells: cells}, cfg)
	if err != nil {
		return err
	}

	if err := writeOutputs(res, stdout); err != nil {
		return err
	}
	return printSummary(stdout, res)
}

func readTracking(path string) (hd.Tracking, error) {
	f, err := files.Open(path)
	if err != nil {
		return hd.Tracking{}, err
	}
	defer f.Close()
	tr, err := trackio.ReadTracking(f)
	if err != nil {
		return hd.Tracking{}, fmt.Errorf("%s: %w", path, err)
	}
	return tr, nil
}

func readCell(path, unit string) (pipeline.Cell, error) {
	f, err := files.Open(path)
	if err != nil {
		return pipeline.Cell{}, err
	}
	defer f.Close()
	spikes, err := trackio.ReadSpikes(f, unit)
	if err != nil {
		return pipeline.Cell{}, fmt.Errorf("%s: %w", path, err)
	}
	return pipeline.Cell{Name: cellName(path), Spikes: spikes}, nil
}

// cellName is the file name without directory or extension.
func cellName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// cellOutputPath returns path unchanged for a single cell, otherwise with
// the sanitised cell name inserted before the extension.
func cellOutputPath(path, cell string, n int) string {
	if n <= 1 {
		return path
	}
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "-" + trackio.SafeName(cell) + ext
}

func writeOutputs(res *pipeline.Result, stdout io.Writer) error {
	scored := make([]pipeline.CellResult, 0, len(res.Cells))
	for _, c := range res.Cells {
		if c.Err == nil {
			scored = append(scored, c)
		}
	}

	if *csvOut != "" {
		if err := writeFile(*csvOut, func(w io.Writer) error {
			cw := trackio.NewCSVWriter(w)
			if err := cw.WriteHeader(); err != nil {
				return err
			}
			for _, c := range scored {
				if err := cw.WriteCurve(c.Name, c.Curve); err != nil {
					return err
				}
			}
			return cw.Flush()
		}); err != nil {
			return fmt.Errorf("csv: %w", err)
		}
	}

	if *pngOut != "" {
		for _, c := range scored {
			path := cellOutputPath(*pngOut, c.Name, len(scored))
			if err := writeFile(path, func(w io.Writer) error {
				return plot.WritePolarPNG(w, c.Name, c.Curve, c.Score)
			}); err != nil {
				return fmt.Errorf("png: %w", err)
			}
		}
	}

	if *htmlOut != "" {
		cells := make([]plot.Cell, len(scored))
		for i, c := range scored {
			cells[i] = plot.Cell{Name: c.Name, Curve: c.Curve, Score: c.Score}
		}
		if err := writeFile(*htmlOut, func(w io.Writer) error {
			return plot.RenderHTML(w, "Head direction "+res.RunID, cells)
		}); err != nil {
			return fmt.Errorf("html: %w", err)
		}
	}

	if *jsonOut != "" {
		encode := func(w io.Writer) error {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}
		var err error
		if *jsonOut == "-" {
			err = encode(stdout)
		} else {
			err = writeFile(*jsonOut, encode)
		}
		if err != nil {
			return fmt.Errorf("json: %w", err)
		}
	}
	return nil
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := files.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printSummary(w io.Writer, res *pipeline.Result) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "run %s: %d/%d samples kept, offset %.1f°\n", res.RunID, res.CleanSamples, res.Samples, hd.Degrees(res.Offset))
	fmt.Fprintln(tw, "cell\tmean_deg\tvector_length\terror")
	for _, c := range res.Cells {
		if c.Err != nil {
			fmt.Fprintf(tw, "%s\t-\t-\t%v\n", c.Name, c.Err)
			continue
		}
		fmt.Fprintf(tw, "%s\t%.1f\t%.3f\t\n", c.Name, hd.Degrees(c.Score.MeanAngle), c.Score.VectorLength)
	}
	return tw.Flush()
}
