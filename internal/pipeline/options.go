package pipeline

import (
	"github.com/banshee-data/headdirection/internal/calibration"
	"github.com/banshee-data/headdirection/internal/config"
	"github.com/banshee-data/headdirection/internal/tracking"
	"github.com/banshee-data/headdirection/internal/tuning"
)

// FilterOptions maps the artifact-filter section of cfg.
func FilterOptions(cfg *config.AnalysisConfig) tracking.FilterOptions {
	return tracking.FilterOptions{
		StdThreshold: cfg.GetStdFilterThreshold(),
		Feature:      tracking.Feature(cfg.GetArtifactFeature()),
	}
}

// CalibrationOptions maps the auto-calibration section of cfg.
func CalibrationOptions(cfg *config.AnalysisConfig) calibration.Options {
	return calibration.Options{
		MinSpeed:           cfg.GetMinSpeed(),
		MinMovingSamples:   cfg.GetMinMovingSamples(),
		MinResultantLength: cfg.GetMinResultantLength(),
	}
}

// TuningOptions maps the tuning-curve section of cfg.
func TuningOptions(cfg *config.AnalysisConfig) tuning.Options {
	return tuning.Options{
		NumBins:         cfg.GetNumBins(),
		SmoothingWindow: cfg.GetSmoothingWindow(),
		MaxGap:          cfg.GetMaxGap(),
	}
}
