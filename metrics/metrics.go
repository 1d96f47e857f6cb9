// Package metrics computes per-specimen summary metrics from tension-test
// curves and aggregates them into treatment-group statistics.
package metrics

import (
	"fmt"

	"github.com/ssplab/go-tensile/curve"
	"github.com/ssplab/go-tensile/regression"
)

// Input is one specimen's raw trace plus identity, as delivered by the
// parsing and classification collaborators.
type Input struct {
	SampleID       string
	TreatmentGroup string
	Displacement   []float64 // mm
	Load           []float64 // N
	SourceName     string    // originating filename, for traceability
}

// SpecimenResult is the per-specimen analysis record.
type SpecimenResult struct {
	SampleID        string            `json:"sampleId"`
	TreatmentGroup  string            `json:"treatmentGroup"`
	SourceName      string            `json:"sourceName"`
	MaxLoad         float64           `json:"maxLoadN"`   // of the untruncated trace
	EnergyToFailure float64           `json:"energyMJ"`   // trapezoidal, truncated domain
	Region          regression.Result `json:"linearRegion"`
}

// Stiffness returns the slope of the selected linear region, N/mm.
// NaN when no region was determinable.
func (r SpecimenResult) Stiffness() float64 {
	return r.Region.Slope
}

// Computer derives a SpecimenResult from one Input. All parameters are
// explicit construction-time values.
type Computer struct {
	cfg regression.Config
}

// NewComputer creates a Computer with the given region-search parameters.
func NewComputer(cfg regression.Config) *Computer {
	return &Computer{cfg: cfg}
}

// Compute validates the series, truncates it at maximum load, integrates
// energy, and runs the linear-region search. Validation failures are
// per-specimen errors; a series too short for the window is not an error
// and yields a result with an undefined region.
func (c *Computer) Compute(in Input) (SpecimenResult, error) {
	series, err := curve.New(in.Displacement, in.Load)
	if err != nil {
		return SpecimenResult{}, fmt.Errorf("sample %s: %w", in.SampleID, err)
	}

	maxLoad, _ := series.MaxLoad()
	trunc := series.TruncateAtMaxLoad()

	windowSize := c.cfg.WindowSize(trunc.Len())
	region := regression.FindStiffestRegion(trunc.Displacement, trunc.Load, windowSize, c.cfg)

	return SpecimenResult{
		SampleID:        in.SampleID,
		TreatmentGroup:  in.TreatmentGroup,
		SourceName:      in.SourceName,
		MaxLoad:         maxLoad,
		EnergyToFailure: trunc.Energy(),
		Region:          region,
	}, nil
}

// Recompute produces a result over externally chosen region indices into the
// truncated series, for manual review overrides. It shares exactly the fit
// formula of the automatic path (regression.FitRange), so a manual pick over
// the automatic indices reproduces the automatic stiffness bit for bit. Max
// load and energy are unchanged by the override.
func (c *Computer) Recompute(in Input, start, end int) (SpecimenResult, error) {
	series, err := curve.New(in.Displacement, in.Load)
	if err != nil {
		return SpecimenResult{}, fmt.Errorf("sample %s: %w", in.SampleID, err)
	}

	maxLoad, _ := series.MaxLoad()
	trunc := series.TruncateAtMaxLoad()

	region, err := regression.FitRange(trunc.Displacement, trunc.Load, start, end)
	if err != nil {
		return SpecimenResult{}, fmt.Errorf("sample %s: %w", in.SampleID, err)
	}

	return SpecimenResult{
		SampleID:        in.SampleID,
		TreatmentGroup:  in.TreatmentGroup,
		SourceName:      in.SourceName,
		MaxLoad:         maxLoad,
		EnergyToFailure: trunc.Energy(),
		Region:          region,
	}, nil
}
