// Package tracking turns raw two-marker tracking into a head-direction
// angle series.
//
// Responsibilities: kinematic artifact rejection (ArtifactFilter) and
// four-quadrant angle reconstruction with a mounting offset
// (AngleReconstructor).
// Key entry point: HeadDirection.
//
// Dependency rule: tracking may depend on hd, but never on calibration,
// tuning or score.
package tracking
