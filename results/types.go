// Package results defines the structured output format for analysis runs
package results

import (
	"time"

	"github.com/ssplab/go-tensile/metrics"
	"github.com/ssplab/go-tensile/regression"
)

const SchemaVersion = "1.0.0"

// Run contains complete output for one batch analysis run.
type Run struct {
	Version   string                   `json:"version"`
	Metadata  Metadata                 `json:"metadata"`
	Config    Config                   `json:"config"`
	Specimens []metrics.SpecimenResult `json:"specimens"`
	Failures  []FailureRecord          `json:"failures,omitempty"`
	Groups    []metrics.GroupSummary   `json:"groups,omitempty"`
}

// Metadata contains run execution information.
type Metadata struct {
	RunID       string    `json:"runId"`
	Timestamp   time.Time `json:"timestamp"`
	DataDir     string    `json:"dataDir,omitempty"`
	Status      string    `json:"status"` // success, partial, error
	Error       string    `json:"error,omitempty"`
	ComputeTime float64   `json:"computeTime"` // seconds
}

// Config echoes the analysis parameters the run used.
type Config struct {
	WindowFraction     float64 `json:"windowFraction"`
	MinWindow          int     `json:"minWindow"`
	R2Threshold        float64 `json:"r2Threshold"`
	MinQualifyingSlope float64 `json:"minQualifyingSlope"`
	Workers            int     `json:"workers,omitempty"`
}

// RegressionConfig converts the echoed parameters back to search parameters.
func (c Config) RegressionConfig() regression.Config {
	return regression.Config{
		WindowFraction:     c.WindowFraction,
		MinWindow:          c.MinWindow,
		R2Threshold:        c.R2Threshold,
		MinQualifyingSlope: c.MinQualifyingSlope,
	}
}

// FailureRecord is one input that was reported and skipped.
type FailureRecord struct {
	Source string `json:"source"`
	Error  string `json:"error"`
}

// Statuses for Metadata.Status.
const (
	StatusSuccess = "success"
	StatusPartial = "partial"
	StatusError   = "error"
)
