package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/headdirection/internal/units"
)

// DefaultConfigPath is the path to the canonical analysis defaults file.
const DefaultConfigPath = "config/analysis.defaults.json"

// Artifact features and calibration position sources accepted by Validate.
const (
	FeatureDistanceRate = "distance_rate"
	FeatureMarkerSpeed  = "marker_speed"

	PositionMarker1 = "marker1"
	PositionMarker2 = "marker2"
	PositionMid     = "midpoint"
)

// AnalysisConfig represents the root configuration for a head-direction
// analysis. Every field is optional; the Get* methods supply the default
// for any field left out of the JSON.
type AnalysisConfig struct {
	// Artifact filter / reconstruction
	StdFilterThreshold *float64 `json:"std_filter_threshold,omitempty"`
	ArtifactFeature    *string  `json:"artifact_feature,omitempty"`
	Offset             *float64 `json:"offset,omitempty"` // radians, added to the marker angle

	// Auto-calibration
	AutoCalibrate       *bool    `json:"auto_calibrate,omitempty"`
	CalibrationPosition *string  `json:"calibration_position,omitempty"`
	MinSpeed            *float64 `json:"min_speed,omitempty"` // length units per second
	MinMovingSamples    *int     `json:"min_moving_samples,omitempty"`
	MinResultantLength  *float64 `json:"min_resultant_length,omitempty"`

	// Tuning curve
	NumBins         *int     `json:"num_bins,omitempty"`
	SmoothingWindow *int     `json:"smoothing_window,omitempty"`
	MaxGap          *float64 `json:"max_gap,omitempty"` // seconds; 0 disables

	// Spike input
	SpikeUnit *string `json:"spike_unit,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyAnalysisConfig returns an AnalysisConfig with all fields set to nil.
func EmptyAnalysisConfig() *AnalysisConfig {
	return &AnalysisConfig{}
}

// DefaultAnalysisConfig returns an AnalysisConfig with every field set to
// its default value.
func DefaultAnalysisConfig() *AnalysisConfig {
	return &AnalysisConfig{
		StdFilterThreshold:  ptrFloat64(3.0),
		ArtifactFeature:     ptrString(FeatureDistanceRate),
		Offset:              ptrFloat64(0),
		AutoCalibrate:       ptrBool(false),
		CalibrationPosition: ptrString(PositionMarker1),
		MinSpeed:            ptrFloat64(2.0),
		MinMovingSamples:    ptrInt(10),
		MinResultantLength:  ptrFloat64(0.05),
		NumBins:             ptrInt(36),
		SmoothingWindow:     ptrInt(4),
		MaxGap:              ptrFloat64(0),
		SpikeUnit:           ptrString(units.Seconds),
	}
}

// LoadAnalysisConfig loads an AnalysisConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the max file size.
// Fields omitted from the JSON file fall back to their defaults, so
// partial configs are safe.
func LoadAnalysisConfig(path string) (*AnalysisConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyAnalysisConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical analysis defaults from DefaultConfigPath.
// It searches for the file in the current directory and common parent directories.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *AnalysisConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/<pkg>/
		"../../../" + DefaultConfigPath, // from cmd/<tool>/ nested one deeper
	}
	for _, path := range candidates {
		if cfg, err := LoadAnalysisConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *AnalysisConfig) Validate() error {
	if c.StdFilterThreshold != nil && !(*c.StdFilterThreshold > 0) {
		return fmt.Errorf("std_filter_threshold must be positive, got %f", *c.StdFilterThreshold)
	}

	if c.ArtifactFeature != nil {
		switch *c.ArtifactFeature {
		case FeatureDistanceRate, FeatureMarkerSpeed:
		default:
			return fmt.Errorf("artifact_feature must be %q or %q, got %q", FeatureDistanceRate, FeatureMarkerSpeed, *c.ArtifactFeature)
		}
	}

	if c.CalibrationPosition != nil {
		switch *c.CalibrationPosition {
		case PositionMarker1, PositionMarker2, PositionMid:
		default:
			return fmt.Errorf("calibration_position must be one of %q, %q, %q, got %q", PositionMarker1, PositionMarker2, PositionMid, *c.CalibrationPosition)
		}
	}

	if c.MinSpeed != nil && *c.MinSpeed < 0 {
		return fmt.Errorf("min_speed must be non-negative, got %f", *c.MinSpeed)
	}
	if c.MinMovingSamples != nil && *c.MinMovingSamples < 1 {
		return fmt.Errorf("min_moving_samples must be at least 1, got %d", *c.MinMovingSamples)
	}
	if c.MinResultantLength != nil && (*c.MinResultantLength < 0 || *c.MinResultantLength > 1) {
		return fmt.Errorf("min_resultant_length must be between 0 and 1, got %f", *c.MinResultantLength)
	}

	if c.NumBins != nil && *c.NumBins < 1 {
		return fmt.Errorf("num_bins must be at least 1, got %d", *c.NumBins)
	}
	if c.SmoothingWindow != nil {
		if *c.SmoothingWindow < 0 {
			return fmt.Errorf("smoothing_window must be non-negative, got %d", *c.SmoothingWindow)
		}
		if *c.SmoothingWindow > c.GetNumBins() {
			return fmt.Errorf("smoothing_window (%d) cannot exceed num_bins (%d)", *c.SmoothingWindow, c.GetNumBins())
		}
	}
	if c.MaxGap != nil && *c.MaxGap < 0 {
		return fmt.Errorf("max_gap must be non-negative, got %f", *c.MaxGap)
	}

	if c.SpikeUnit != nil && !units.IsValid(*c.SpikeUnit) {
		return fmt.Errorf("spike_unit must be one of %s, got %q", units.GetValidUnitsString(), *c.SpikeUnit)
	}

	return nil
}

// GetStdFilterThreshold returns the std_filter_threshold value or the default.
func (c *AnalysisConfig) GetStdFilterThreshold() float64 {
	if c.StdFilterThreshold == nil {
		return 3.0
	}
	return *c.StdFilterThreshold
}

// GetArtifactFeature returns the artifact_feature value or the default.
func (c *AnalysisConfig) GetArtifactFeature() string {
	if c.ArtifactFeature == nil {
		return FeatureDistanceRate
	}
	return *c.ArtifactFeature
}

// GetOffset returns the offset value or the default.
func (c *AnalysisConfig) GetOffset() float64 {
	if c.Offset == nil {
		return 0
	}
	return *c.Offset
}

// GetAutoCalibrate returns the auto_calibrate value or the default.
func (c *AnalysisConfig) GetAutoCalibrate() bool {
	if c.AutoCalibrate == nil {
		return false // default: use the configured offset
	}
	return *c.AutoCalibrate
}

// GetCalibrationPosition returns the calibration_position value or the default.
func (c *AnalysisConfig) GetCalibrationPosition() string {
	if c.CalibrationPosition == nil {
		return PositionMarker1
	}
	return *c.CalibrationPosition
}

// GetMinSpeed returns the min_speed value or the default.
func (c *AnalysisConfig) GetMinSpeed() float64 {
	if c.MinSpeed == nil {
		return 2.0
	}
	return *c.MinSpeed
}

// GetMinMovingSamples returns the min_moving_samples value or the default.
func (c *AnalysisConfig) GetMinMovingSamples() int {
	if c.MinMovingSamples == nil {
		return 10
	}
	return *c.MinMovingSamples
}

// GetMinResultantLength returns the min_resultant_length value or the default.
func (c *AnalysisConfig) GetMinResultantLength() float64 {
	if c.MinResultantLength == nil {
		return 0.05
	}
	return *c.MinResultantLength
}

// GetNumBins returns the num_bins value or the default.
func (c *AnalysisConfig) GetNumBins() int {
	if c.NumBins == nil {
		return 36
	}
	return *c.NumBins
}

// GetSmoothingWindow returns the smoothing_window value or the default.
func (c *AnalysisConfig) GetSmoothingWindow() int {
	if c.SmoothingWindow == nil {
		return 4
	}
	return *c.SmoothingWindow
}

// GetMaxGap returns the max_gap value or the default.
func (c *AnalysisConfig) GetMaxGap() float64 {
	if c.MaxGap == nil {
		return 0 // default: no gap cap
	}
	return *c.MaxGap
}

// GetSpikeUnit returns the spike_unit value or the default.
func (c *AnalysisConfig) GetSpikeUnit() string {
	if c.SpikeUnit == nil {
		return units.Seconds
	}
	return *c.SpikeUnit
}
