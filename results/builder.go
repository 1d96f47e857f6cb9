package results

import (
	"time"

	"github.com/google/uuid"

	"github.com/ssplab/go-tensile/metrics"
	"github.com/ssplab/go-tensile/regression"
)

// Builder helps construct a Run from batch output.
type Builder struct {
	run Run
}

// NewBuilder creates a new run builder with a fresh run ID.
func NewBuilder() *Builder {
	return &Builder{
		run: Run{
			Version: SchemaVersion,
			Metadata: Metadata{
				RunID:     uuid.NewString(),
				Timestamp: time.Now(),
			},
		},
	}
}

// WithConfig echoes the analysis parameters into the run.
func (b *Builder) WithConfig(cfg regression.Config, workers int) *Builder {
	b.run.Config = Config{
		WindowFraction:     cfg.WindowFraction,
		MinWindow:          cfg.MinWindow,
		R2Threshold:        cfg.R2Threshold,
		MinQualifyingSlope: cfg.MinQualifyingSlope,
		Workers:            workers,
	}
	return b
}

// WithDataDir records the source directory.
func (b *Builder) WithDataDir(dir string) *Builder {
	b.run.Metadata.DataDir = dir
	return b
}

// WithBatch stores batch output and derives the run status: success when
// every input processed, partial when some were skipped, error when nothing
// processed at all.
func (b *Builder) WithBatch(specimens []metrics.SpecimenResult, failures []metrics.Failure, computeTime float64) *Builder {
	b.run.Specimens = specimens
	b.run.Metadata.ComputeTime = computeTime

	for _, f := range failures {
		b.run.Failures = append(b.run.Failures, FailureRecord{
			Source: f.Source,
			Error:  f.Err.Error(),
		})
	}

	switch {
	case len(specimens) == 0 && len(failures) > 0:
		b.run.Metadata.Status = StatusError
		b.run.Metadata.Error = "no specimen processed"
	case len(failures) > 0:
		b.run.Metadata.Status = StatusPartial
	default:
		b.run.Metadata.Status = StatusSuccess
	}

	return b
}

// WithGroups stores the aggregated group summaries.
func (b *Builder) WithGroups(groups []metrics.GroupSummary) *Builder {
	b.run.Groups = groups
	return b
}

// WithError sets error status.
func (b *Builder) WithError(err error) *Builder {
	b.run.Metadata.Status = StatusError
	b.run.Metadata.Error = err.Error()
	return b
}

// Build returns the constructed Run.
func (b *Builder) Build() *Run {
	return &b.run
}
