// Package spikes normalises spike-time containers into the plain,
// ascending sequence of seconds the numeric core consumes.
//
// Each supported container kind has its own adaptor, chosen by a type
// switch in Flatten. The core packages never see anything but []float64.
package spikes

import (
	"fmt"
	"math"
	"sort"

	"github.com/banshee-data/headdirection/internal/hd"
	"github.com/banshee-data/headdirection/internal/units"
)

// Train is a unit-tagged spike train, e.g. one sorted unit from a recording.
type Train struct {
	Name  string    // Optional label (unit/cell ID)
	Times []float64 // Spike times in Unit
	Unit  string    // One of units.ValidUnits; empty means seconds
}

// Seconds returns the train's spike times converted to seconds.
func (tr Train) Seconds() ([]float64, error) {
	unit := tr.Unit
	if unit == "" {
		unit = units.Seconds
	}
	if !units.IsValid(unit) {
		return nil, fmt.Errorf("%w: train %q has unknown time unit %q (valid: %s)", hd.ErrInputShape, tr.Name, tr.Unit, units.GetValidUnitsString())
	}
	out := make([]float64, len(tr.Times))
	for i, v := range tr.Times {
		out[i] = units.ToSeconds(v, unit)
	}
	return out, nil
}

// Flatten converts any mix of supported spike containers into one ascending
// sequence of spike times in seconds. Supported kinds: []float64 and
// []float32 (already seconds), []int64 (nanoseconds), Train, *Train and
// []Train. Non-finite spike times and unsupported kinds return ErrInputShape.
func Flatten(inputs ...any) ([]float64, error) {
	var out []float64
	for i, in := range inputs {
		vals, err := adapt(in)
		if err != nil {
			return nil, fmt.Errorf("spike input %d: %w", i, err)
		}
		out = append(out, vals...)
	}
	for i, v := range out {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: spike time %d is not finite", hd.ErrInputShape, i)
		}
	}
	sort.Float64s(out)
	return out, nil
}

func adapt(in any) ([]float64, error) {
	switch v := in.(type) {
	case []float64:
		return append([]float64(nil), v...), nil
	case []float32:
		out := make([]float64, len(v))
		for i, x := range v {
			out[i] = float64(x)
		}
		return out, nil
	case []int64:
		out := make([]float64, len(v))
		for i, x := range v {
			out[i] = units.ToSeconds(float64(x), units.Nanoseconds)
		}
		return out, nil
	case Train:
		return v.Seconds()
	case *Train:
		if v == nil {
			return nil, nil
		}
		return v.Seconds()
	case []Train:
		var out []float64
		for _, tr := range v {
			s, err := tr.Seconds()
			if err != nil {
				return nil, err
			}
			out = append(out, s...)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: unsupported spike container %T", hd.ErrInputShape, in)
	}
}
