package hd

import "errors"

var (
	// ErrInputShape reports mismatched sequence lengths, non-monotonic or
	// non-finite timestamps, or values outside their valid domain.
	ErrInputShape = errors.New("input shape error")

	// ErrDegenerateData reports that too few valid samples remain, or that
	// a total (occupancy, firing rate) required as a divisor is zero.
	ErrDegenerateData = errors.New("degenerate data")

	// ErrAmbiguousOffset reports that the calibration signal is too weak
	// to trust an estimated mounting offset.
	ErrAmbiguousOffset = errors.New("ambiguous offset")

	// ErrInvalidOption reports an out-of-range tuning parameter.
	ErrInvalidOption = errors.New("invalid option")
)
