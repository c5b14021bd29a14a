// Package hd owns the shared data model of the head-direction pipeline.
//
// Responsibilities: the canonical angle range and its wrap operation,
// the value types passed between stages, the error taxonomy, and the
// ops/diag/trace log streams.
// Key types: Tracking, AngleSeries, TuningCurve, DirectionalityScore.
//
// Dependency rule: hd depends on no other package in this module. Every
// stage package (tracking, calibration, tuning, score) depends on hd and
// never on each other.
package hd
