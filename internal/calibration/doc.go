// Package calibration estimates the unknown marker mounting offset by
// aligning reconstructed head direction with the direction of travel.
//
// Dependency rule: calibration may depend on hd, but never on tracking,
// tuning or score.
package calibration
