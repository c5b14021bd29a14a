// Package tuning bins spike events by head direction into a circular
// firing-rate histogram (tuning curve).
//
// Responsibilities: spike-to-sample assignment, occupancy and spike-count
// histograms, circular boxcar smoothing and the rate ratio.
// Key entry point: Compute.
//
// Dependency rule: tuning may depend on hd, but never on tracking,
// calibration or score.
package tuning
