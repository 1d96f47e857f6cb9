// Package regression implements the linear-region search used to extract
// stiffness from a truncated load-displacement curve.
//
// The search slides a fixed-size window over the curve, fits an ordinary
// least-squares line to each window, and keeps the steepest window whose R²
// meets the acceptance threshold. When no window meets the threshold it falls
// back to the first window seen with the best R² so far; fallback tracking
// stops as soon as a qualifying window exists. That freeze can pin the
// fallback on an early window even when a better sub-threshold window appears
// later — the behavior is kept for compatibility with prior analyses, and the
// Result.Method tag lets consumers audit which path produced a value.
package regression

import (
	"fmt"
	"math"
)

// Method records how a Result was produced.
type Method string

const (
	// MethodQualified means a window met the R² threshold and the slope bound.
	MethodQualified Method = "qualified"
	// MethodFallback means no window qualified; the best-R² fallback was used.
	MethodFallback Method = "fallback"
	// MethodManual means the fit was computed over externally chosen indices.
	MethodManual Method = "manual"
	// MethodNone means the series was too short for any window.
	MethodNone Method = "none"
)

// Config holds the region-search parameters. All fields are explicit; the
// search never reads ambient state.
type Config struct {
	WindowFraction     float64 // window size as a fraction of the series length
	MinWindow          int     // lower bound on the window size, in points
	R2Threshold        float64 // linearity acceptance threshold, in [0, 1]
	MinQualifyingSlope float64 // exclusive lower bound on a qualifying slope
}

// DefaultConfig returns the standard search parameters. MinQualifyingSlope of
// zero encodes the domain assumption that stiffness is physically positive: a
// flat or descending window never qualifies, however linear it is.
func DefaultConfig() Config {
	return Config{
		WindowFraction:     0.10,
		MinWindow:          5,
		R2Threshold:        0.99,
		MinQualifyingSlope: 0,
	}
}

// WindowSize computes the window span for a series of n points:
// max(MinWindow, round(WindowFraction*n)).
func (c Config) WindowSize(n int) int {
	span := int(math.Round(c.WindowFraction * float64(n)))
	if span < c.MinWindow {
		span = c.MinWindow
	}
	return span
}

// Result is the outcome of a region search or a range fit.
// StartIndex and EndIndex are inclusive bounds into the series the fit was
// computed on; when Slope is NaN no region was determinable and both are 0.
type Result struct {
	Slope      float64 `json:"slope"`
	Intercept  float64 `json:"intercept"`
	RSquared   float64 `json:"rSquared"`
	StartIndex int     `json:"startIndex"`
	EndIndex   int     `json:"endIndex"`
	WindowSize int     `json:"windowSize"`
	Method     Method  `json:"method"`
}

// Defined reports whether the result holds a usable fit.
func (r Result) Defined() bool {
	return !math.IsNaN(r.Slope)
}

// FitLine fits y = slope*x + intercept by ordinary least squares and returns
// the coefficient of determination. A window where every y is equal scores
// R² = 0, not 1: a flat window is never a "perfect" fit. A degenerate window
// where every x is equal gets slope 0 and intercept mean(y), which likewise
// scores 0. Fewer than two points returns all zeros.
func FitLine(x, y []float64) (slope, intercept, rSquared float64) {
	n := len(x)
	if n < 2 {
		return 0, 0, 0
	}

	var sumX, sumY, sumXY, sumXX float64
	for i := 0; i < n; i++ {
		sumX += x[i]
		sumY += y[i]
		sumXY += x[i] * y[i]
		sumXX += x[i] * x[i]
	}

	fn := float64(n)
	meanY := sumY / fn

	denom := fn*sumXX - sumX*sumX
	if denom == 0 {
		return 0, meanY, 0
	}

	slope = (fn*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / fn

	var ssRes, ssTot float64
	for i := 0; i < n; i++ {
		pred := slope*x[i] + intercept
		ssRes += (y[i] - pred) * (y[i] - pred)
		ssTot += (y[i] - meanY) * (y[i] - meanY)
	}
	if ssTot == 0 {
		return slope, intercept, 0
	}
	return slope, intercept, 1 - ssRes/ssTot
}

// FitRange fits a line over the inclusive index range [start, end]. The
// manual-review path and the automatic search share this formula, so a manual
// pick over the same indices reproduces the automatic stiffness bit for bit.
func FitRange(x, y []float64, start, end int) (Result, error) {
	if len(x) != len(y) {
		return Result{}, fmt.Errorf("length mismatch: x has %d points, y has %d", len(x), len(y))
	}
	if start < 0 || end >= len(x) || start >= end {
		return Result{}, fmt.Errorf("invalid index range [%d, %d] for %d points", start, end, len(x))
	}

	slope, intercept, r2 := FitLine(x[start:end+1], y[start:end+1])
	return Result{
		Slope:      slope,
		Intercept:  intercept,
		RSquared:   r2,
		StartIndex: start,
		EndIndex:   end,
		WindowSize: end - start + 1,
		Method:     MethodManual,
	}, nil
}

// FindStiffestRegion scans all contiguous windows of windowSize points and
// returns the best window per the policy in the package comment. A series
// shorter than the window yields an all-undefined Result with MethodNone —
// a valid "no stiffness determinable" outcome, not an error.
func FindStiffestRegion(x, y []float64, windowSize int, cfg Config) Result {
	undefined := Result{
		Slope:      math.NaN(),
		Intercept:  math.NaN(),
		RSquared:   math.NaN(),
		WindowSize: windowSize,
		Method:     MethodNone,
	}

	n := len(x)
	if n != len(y) || windowSize < 2 || n < windowSize {
		return undefined
	}

	bestSlope := cfg.MinQualifyingSlope
	var best Result
	qualified := false

	var fallback Result
	fallbackR2 := math.Inf(-1)

	for i := 0; i+windowSize <= n; i++ {
		end := i + windowSize - 1
		slope, intercept, r2 := FitLine(x[i:end+1], y[i:end+1])

		if r2 >= cfg.R2Threshold && slope > bestSlope {
			bestSlope = slope
			best = Result{
				Slope:      slope,
				Intercept:  intercept,
				RSquared:   r2,
				StartIndex: i,
				EndIndex:   end,
				WindowSize: windowSize,
				Method:     MethodQualified,
			}
			qualified = true
		}

		// Fallback candidate: first strictly-best R² seen, tracked only
		// until a qualifying window appears.
		if !qualified && r2 > fallbackR2 {
			fallbackR2 = r2
			fallback = Result{
				Slope:      slope,
				Intercept:  intercept,
				RSquared:   r2,
				StartIndex: i,
				EndIndex:   end,
				WindowSize: windowSize,
				Method:     MethodFallback,
			}
		}
	}

	if qualified {
		return best
	}
	return fallback
}
