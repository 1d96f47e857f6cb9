package regression

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitLineExact(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4}
	y := []float64{1, 3, 5, 7, 9} // y = 2x + 1

	slope, intercept, r2 := FitLine(x, y)
	require.InDelta(t, 2.0, slope, 1e-12)
	require.InDelta(t, 1.0, intercept, 1e-12)
	require.InDelta(t, 1.0, r2, 1e-12)
}

func TestFitLineConstantY(t *testing.T) {
	x := []float64{0, 1, 2, 3}
	y := []float64{5, 5, 5, 5}

	slope, _, r2 := FitLine(x, y)
	// SS_tot = 0: scored 0, never 1 and never NaN.
	assert.InDelta(t, 0.0, slope, 1e-12)
	assert.Equal(t, 0.0, r2)
}

func TestFitLineDegenerateX(t *testing.T) {
	x := []float64{2, 2, 2}
	y := []float64{1, 2, 3}

	slope, intercept, r2 := FitLine(x, y)
	assert.Equal(t, 0.0, slope)
	assert.InDelta(t, 2.0, intercept, 1e-12)
	assert.Equal(t, 0.0, r2)
}

func TestFitLineTooShort(t *testing.T) {
	slope, intercept, r2 := FitLine([]float64{1}, []float64{1})
	assert.Equal(t, 0.0, slope)
	assert.Equal(t, 0.0, intercept)
	assert.Equal(t, 0.0, r2)
}

func TestFindRegionExactLine(t *testing.T) {
	// Spec example: 6-point line y = 2x, window 5 → the single window wins.
	x := []float64{0, 1, 2, 3, 4, 5}
	y := []float64{0, 2, 4, 6, 8, 10}

	res := FindStiffestRegion(x, y, 5, DefaultConfig())
	require.True(t, res.Defined())
	assert.Equal(t, MethodQualified, res.Method)
	assert.InDelta(t, 2.0, res.Slope, 1e-12)
	assert.InDelta(t, 1.0, res.RSquared, 1e-12)
	assert.Equal(t, 0, res.StartIndex)
	assert.Equal(t, 4, res.EndIndex)
	assert.Equal(t, 5, res.WindowSize)
}

func TestFindRegionPicksSteepestQualifying(t *testing.T) {
	// Two perfectly linear segments; the second is steeper and must win.
	x := []float64{0, 1, 2, 3, 4, 5, 6, 7}
	y := []float64{0, 1, 2, 3, 4, 7, 10, 13}

	res := FindStiffestRegion(x, y, 3, DefaultConfig())
	require.Equal(t, MethodQualified, res.Method)
	assert.InDelta(t, 3.0, res.Slope, 1e-9)
	assert.Equal(t, 4, res.StartIndex)
	assert.Equal(t, 6, res.EndIndex)
	assert.Equal(t, res.WindowSize, res.EndIndex-res.StartIndex+1)
}

func TestFindRegionConstantFallback(t *testing.T) {
	// Spec example: constant y, no window qualifies, fallback has R²=0.
	x := []float64{0, 1, 2, 3, 4, 5}
	y := []float64{1, 1, 1, 1, 1, 1}

	res := FindStiffestRegion(x, y, 5, DefaultConfig())
	require.True(t, res.Defined())
	assert.Equal(t, MethodFallback, res.Method)
	assert.InDelta(t, 0.0, res.Slope, 1e-12)
	assert.Equal(t, 0.0, res.RSquared)
}

func TestFindRegionNegativeSlopeNeverQualifies(t *testing.T) {
	// Perfectly linear but descending: meets the R² bar, fails the slope
	// bound, so the fallback path reports it instead.
	x := []float64{0, 1, 2, 3, 4, 5}
	y := []float64{10, 8, 6, 4, 2, 0}

	res := FindStiffestRegion(x, y, 4, DefaultConfig())
	require.True(t, res.Defined())
	assert.Equal(t, MethodFallback, res.Method)
	assert.InDelta(t, -2.0, res.Slope, 1e-12)
}

func TestFindRegionQualifiedBeatsLaterPerfectFallback(t *testing.T) {
	// Once a qualifying window exists, fallback tracking stops: the
	// perfectly linear descending tail (R²=1, better than anything the
	// fallback saw) can no longer displace anything. Equal-slope
	// qualifying windows tie-break to the first seen (strict >).
	x := []float64{0, 1, 2, 3, 4, 5, 6, 7}
	// Noisy start, exact rise in the middle, exact fall at the end.
	y := []float64{0, 3, 1, 4, 7, 10, 8, 6}

	cfg := DefaultConfig()
	cfg.R2Threshold = 0.999

	res := FindStiffestRegion(x, y, 3, cfg)
	require.Equal(t, MethodQualified, res.Method)
	// Windows [2,4] and [3,5] both fit exactly with slope 3; [2,4] stands.
	assert.InDelta(t, 3.0, res.Slope, 1e-9)
	assert.Equal(t, 2, res.StartIndex)
}

func TestFindRegionFallbackKeepsFirstBest(t *testing.T) {
	// Sub-threshold everywhere: equal R² later never displaces the first
	// best-R² window (strict > comparison).
	x := []float64{0, 1, 2, 3, 4, 5, 6, 7}
	y := []float64{1, 1, 1, 1, 1, 1, 1, 1}

	res := FindStiffestRegion(x, y, 4, DefaultConfig())
	require.Equal(t, MethodFallback, res.Method)
	assert.Equal(t, 0, res.StartIndex)
	assert.Equal(t, 3, res.EndIndex)
}

func TestFindRegionInsufficientData(t *testing.T) {
	res := FindStiffestRegion([]float64{0, 1}, []float64{0, 1}, 5, DefaultConfig())
	assert.False(t, res.Defined())
	assert.True(t, math.IsNaN(res.RSquared))
	assert.Equal(t, MethodNone, res.Method)
	assert.Equal(t, 0, res.StartIndex)
	assert.Equal(t, 0, res.EndIndex)
}

func TestFitRangeMatchesSearch(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4, 5, 6}
	y := []float64{0.1, 2.2, 3.9, 6.1, 8.0, 9.9, 12.3}

	auto := FindStiffestRegion(x, y, 4, DefaultConfig())
	require.True(t, auto.Defined())

	manual, err := FitRange(x, y, auto.StartIndex, auto.EndIndex)
	require.NoError(t, err)

	// Both paths share one formula: same range, bit-identical values.
	assert.Equal(t, auto.Slope, manual.Slope)
	assert.Equal(t, auto.Intercept, manual.Intercept)
	assert.Equal(t, auto.RSquared, manual.RSquared)
	assert.Equal(t, MethodManual, manual.Method)
}

func TestFitRangeValidation(t *testing.T) {
	x := []float64{0, 1, 2}
	y := []float64{0, 1, 2}

	_, err := FitRange(x, y, -1, 2)
	assert.Error(t, err)
	_, err = FitRange(x, y, 0, 3)
	assert.Error(t, err)
	_, err = FitRange(x, y, 2, 2)
	assert.Error(t, err)
	_, err = FitRange(x, y[:2], 0, 1)
	assert.Error(t, err)
}

func TestWindowSizePolicy(t *testing.T) {
	cfg := DefaultConfig()

	// Small series: the floor applies.
	assert.Equal(t, 5, cfg.WindowSize(20))
	// Large series: 10% of n, rounded.
	assert.Equal(t, 100, cfg.WindowSize(1000))
	assert.Equal(t, 13, cfg.WindowSize(125))
}
