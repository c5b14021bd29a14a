// Package trackio reads tracking and spike CSV exports and writes tuning
// curves back out as CSV.
package trackio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/banshee-data/headdirection/internal/hd"
	"github.com/banshee-data/headdirection/internal/spikes"
)

// TrackingColumns are the header names ReadTracking looks up. Extra columns
// are ignored and the order is free.
var TrackingColumns = []string{"t", "x1", "y1", "x2", "y2"}

// ReadTracking parses a tracking CSV with a header row naming at least the
// TrackingColumns (case-insensitive). Empty cells and "nan" mark lost
// marker fixes and are read as NaN; the artifact filter rejects them later.
func ReadTracking(r io.Reader) (hd.Tracking, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return hd.Tracking{}, fmt.Errorf("%w: tracking CSV is empty", hd.ErrInputShape)
	}
	if err != nil {
		return hd.Tracking{}, fmt.Errorf("failed to read tracking header: %w", err)
	}

	idx := make([]int, len(TrackingColumns))
	for i, name := range TrackingColumns {
		idx[i] = -1
		for j, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), name) {
				idx[i] = j
				break
			}
		}
		if idx[i] < 0 {
			return hd.Tracking{}, fmt.Errorf("%w: tracking CSV header missing column %q (want %s)", hd.ErrInputShape, name, strings.Join(TrackingColumns, ","))
		}
	}

	cols := make([][]float64, len(TrackingColumns))
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return hd.Tracking{}, fmt.Errorf("failed to read tracking line %d: %w", line, err)
		}
		for i, j := range idx {
			if j >= len(record) {
				return hd.Tracking{}, fmt.Errorf("%w: line %d has %d fields, need column %d", hd.ErrInputShape, line, len(record), j+1)
			}
			v, err := parseValue(record[j])
			if err != nil {
				return hd.Tracking{}, fmt.Errorf("%w: line %d column %s: %v", hd.ErrInputShape, line, TrackingColumns[i], err)
			}
			cols[i] = append(cols[i], v)
		}
	}

	tr := hd.Tracking{T: cols[0], X1: cols[1], Y1: cols[2], X2: cols[3], Y2: cols[4]}
	if err := tr.Validate(); err != nil {
		return hd.Tracking{}, err
	}
	hd.Diagf("trackio: read %d tracking samples", tr.Len())
	return tr, nil
}

// ReadSpikes parses one spike time per row from the first column, in the
// given time unit, and returns them in ascending seconds. A non-numeric
// first row is taken as a header.
func ReadSpikes(r io.Reader, unit string) ([]float64, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	var times []float64
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read spike line %d: %w", line, err)
		}
		field := strings.TrimSpace(record[0])
		if field == "" {
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			if line == 1 {
				continue
			}
			return nil, fmt.Errorf("%w: spike line %d: %v", hd.ErrInputShape, line, err)
		}
		times = append(times, v)
	}

	return spikes.Flatten(spikes.Train{Times: times, Unit: unit})
}

func parseValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}
