package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ssplab/go-tensile/classify"
	"github.com/ssplab/go-tensile/regression"
)

// appConfig is the JSON configuration consumed by the analyze command.
// Every analysis parameter has a default; the file only narrows them.
type appConfig struct {
	Analysis struct {
		R2Threshold    float64 `json:"stiffness_r2_threshold"`
		WindowFraction float64 `json:"stiffness_window_fraction"`
		MinWindow      int     `json:"stiffness_min_window"`
	} `json:"analysis"`
	Groups classify.Groups `json:"groups"`
}

func defaultAppConfig() appConfig {
	var cfg appConfig
	def := regression.DefaultConfig()
	cfg.Analysis.R2Threshold = def.R2Threshold
	cfg.Analysis.WindowFraction = def.WindowFraction
	cfg.Analysis.MinWindow = def.MinWindow
	return cfg
}

// loadAppConfig reads the config file, or returns defaults when path is "".
func loadAppConfig(path string) (appConfig, error) {
	cfg := defaultAppConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Analysis.R2Threshold < 0 || cfg.Analysis.R2Threshold > 1 {
		return cfg, fmt.Errorf("stiffness_r2_threshold must be in [0, 1], got %f", cfg.Analysis.R2Threshold)
	}
	if cfg.Analysis.WindowFraction <= 0 || cfg.Analysis.WindowFraction > 1 {
		return cfg, fmt.Errorf("stiffness_window_fraction must be in (0, 1], got %f", cfg.Analysis.WindowFraction)
	}
	if cfg.Analysis.MinWindow < 2 {
		return cfg, fmt.Errorf("stiffness_min_window must be at least 2, got %d", cfg.Analysis.MinWindow)
	}

	return cfg, nil
}

// regressionConfig converts the file values to search parameters.
func (c appConfig) regressionConfig() regression.Config {
	return regression.Config{
		WindowFraction:     c.Analysis.WindowFraction,
		MinWindow:          c.Analysis.MinWindow,
		R2Threshold:        c.Analysis.R2Threshold,
		MinQualifyingSlope: 0,
	}
}
