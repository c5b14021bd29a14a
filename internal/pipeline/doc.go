// Package pipeline runs the full head-direction analysis: artifact
// filtering, angle reconstruction, optional auto-calibration, tuning curve
// and directionality score.
//
// Every stage is a pure function; the pipeline only sequences them, maps
// AnalysisConfig onto stage options and logs run lifecycle to the hd
// ops/diag streams. Independent cells recorded against one tracking
// session share a single angle series and are scored concurrently.
package pipeline
