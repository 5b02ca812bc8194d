package scan

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// maxConfigFileSize bounds how large a config file LoadConfig/LoadConfigYAML
// will read, the same guard internal/config/tuning.go's LoadTuningConfig
// applies before parsing.
const maxConfigFileSize = 1 * 1024 * 1024 // 1MB

// Config holds every tunable parameter of the pipeline: background
// learning, clustering, and track association and lifecycle.
type Config struct {
	BackgroundLearningRate float64 `json:"background_learning_rate" yaml:"background_learning_rate"`
	ForegroundThresholdMM  float64 `json:"foreground_threshold_mm" yaml:"foreground_threshold_mm"`
	MinLearningFrames      int     `json:"min_learning_frames" yaml:"min_learning_frames"`
	AngleBins              int     `json:"angle_bins" yaml:"angle_bins"`

	ClusterEpsMM       float64 `json:"cluster_eps_mm" yaml:"cluster_eps_mm"`
	ClusterMinSamples  int     `json:"cluster_min_samples" yaml:"cluster_min_samples"`
	MaxClusterRadiusMM float64 `json:"max_cluster_radius_mm" yaml:"max_cluster_radius_mm"`

	MaxMatchDistanceMM  float64 `json:"max_match_distance_mm" yaml:"max_match_distance_mm"`
	MinConfirmFrames    int     `json:"min_confirm_frames" yaml:"min_confirm_frames"`
	MaxMissingFrames    int     `json:"max_missing_frames" yaml:"max_missing_frames"`
	MaxTrajectoryLength int     `json:"max_trajectory_length" yaml:"max_trajectory_length"`
}

// DefaultConfig returns the documented default tuning.
func DefaultConfig() Config {
	return Config{
		BackgroundLearningRate: 0.02,
		ForegroundThresholdMM:  150,
		MinLearningFrames:      30,
		AngleBins:              720,

		ClusterEpsMM:       200,
		ClusterMinSamples:  3,
		MaxClusterRadiusMM: 500,

		MaxMatchDistanceMM:  800,
		MinConfirmFrames:    2,
		MaxMissingFrames:    10,
		MaxTrajectoryLength: 0,
	}
}

// Validate reports the first out-of-range parameter it finds.
func (c Config) Validate() error {
	switch {
	case c.AngleBins < 1:
		return fmt.Errorf("invalid config: angle_bins must be >= 1, got %d", c.AngleBins)
	case c.BackgroundLearningRate <= 0 || c.BackgroundLearningRate > 1:
		return fmt.Errorf("invalid config: background_learning_rate must be in (0, 1], got %f", c.BackgroundLearningRate)
	case c.ForegroundThresholdMM < 0:
		return fmt.Errorf("invalid config: foreground_threshold_mm must be >= 0, got %f", c.ForegroundThresholdMM)
	case c.MinLearningFrames < 0:
		return fmt.Errorf("invalid config: min_learning_frames must be >= 0, got %d", c.MinLearningFrames)
	case c.ClusterEpsMM < 0:
		return fmt.Errorf("invalid config: cluster_eps_mm must be >= 0, got %f", c.ClusterEpsMM)
	case c.ClusterMinSamples < 1:
		return fmt.Errorf("invalid config: cluster_min_samples must be >= 1, got %d", c.ClusterMinSamples)
	case c.MaxClusterRadiusMM < 0:
		return fmt.Errorf("invalid config: max_cluster_radius_mm must be >= 0, got %f", c.MaxClusterRadiusMM)
	case c.MaxMatchDistanceMM < 0:
		return fmt.Errorf("invalid config: max_match_distance_mm must be >= 0, got %f", c.MaxMatchDistanceMM)
	case c.MinConfirmFrames < 1:
		return fmt.Errorf("invalid config: min_confirm_frames must be >= 1, got %d", c.MinConfirmFrames)
	case c.MaxMissingFrames < 0:
		return fmt.Errorf("invalid config: max_missing_frames must be >= 0, got %d", c.MaxMissingFrames)
	case c.MaxTrajectoryLength < 0:
		return fmt.Errorf("invalid config: max_trajectory_length must be >= 0, got %d", c.MaxTrajectoryLength)
	}
	return nil
}

// LoadConfig loads a Config from a JSON file, starting from DefaultConfig
// so a partial file only overrides the fields it sets, validating the
// file's extension and size before parsing and the parsed result after.
func LoadConfig(path string) (Config, error) {
	return loadConfig(path, ".json", json.Unmarshal)
}

// LoadConfigYAML loads a Config from a YAML file under the same guards as
// LoadConfig.
func LoadConfigYAML(path string) (Config, error) {
	return loadConfig(path, ".yaml", yaml.Unmarshal)
}

func loadConfig(path, wantExt string, unmarshal func([]byte, interface{}) error) (Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != wantExt {
		return Config{}, fmt.Errorf("config file must have %s extension, got %q", wantExt, ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return Config{}, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return Config{}, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
