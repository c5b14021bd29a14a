// Package units provides shared constants and conversion for time units
package units

import "strings"

// Unit constants
const (
	Seconds      = "s"
	Milliseconds = "ms"
	Microseconds = "us"
	Nanoseconds  = "ns"
	Minutes      = "min"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{Seconds, Milliseconds, Microseconds, Nanoseconds, Minutes}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return strings.Join(ValidUnits, ", ")
}

// ToSeconds converts a value in the given unit to seconds.
// Unknown units are returned unchanged; check IsValid first.
func ToSeconds(v float64, unit string) float64 {
	switch unit {
	case Milliseconds:
		return v / 1e3
	case Microseconds:
		return v / 1e6
	case Nanoseconds:
		return v / 1e9
	case Minutes:
		return v * 60
	default:
		return v
	}
}
