// Package curve holds validated load-displacement series from uniaxial
// tension tests and the derived views used for analysis.
package curve

import (
	"errors"
	"fmt"
)

// ErrEmptySeries indicates a series with no data points.
var ErrEmptySeries = errors.New("empty series")

// ErrLengthMismatch indicates displacement and load sequences of different length.
var ErrLengthMismatch = errors.New("displacement/load length mismatch")

// Series is one test's paired (displacement, load) samples.
// Displacement is in mm, Load in N, index-aligned. A Series is never
// mutated after construction; TruncateAtMaxLoad returns a new Series.
type Series struct {
	Displacement []float64
	Load         []float64
}

// New creates a validated Series.
func New(displacement, load []float64) (*Series, error) {
	if len(displacement) != len(load) {
		return nil, fmt.Errorf("%w: displacement has %d points, load has %d",
			ErrLengthMismatch, len(displacement), len(load))
	}
	if len(displacement) == 0 {
		return nil, ErrEmptySeries
	}
	return &Series{Displacement: displacement, Load: load}, nil
}

// Len returns the number of points in the series.
func (s *Series) Len() int {
	return len(s.Load)
}

// MaxLoad returns the maximum load and the index of its first occurrence.
func (s *Series) MaxLoad() (float64, int) {
	maxVal := s.Load[0]
	maxIdx := 0
	for i, v := range s.Load {
		if v > maxVal {
			maxVal = v
			maxIdx = i
		}
	}
	return maxVal, maxIdx
}

// TruncateAtMaxLoad returns the sub-series up to and including the point of
// maximum load. Ties keep the first occurrence, so post-failure plateau
// points never extend the analysis domain. The receiver is not modified.
func (s *Series) TruncateAtMaxLoad() *Series {
	_, maxIdx := s.MaxLoad()
	return &Series{
		Displacement: s.Displacement[:maxIdx+1],
		Load:         s.Load[:maxIdx+1],
	}
}

// Energy computes the trapezoidal-rule integral of load over displacement,
// in N·mm (numerically equal to mJ).
func (s *Series) Energy() float64 {
	total := 0.0
	for i := 1; i < len(s.Load); i++ {
		dx := s.Displacement[i] - s.Displacement[i-1]
		total += dx * (s.Load[i] + s.Load[i-1]) / 2
	}
	return total
}
