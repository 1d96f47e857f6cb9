package metrics

import (
	"math"
	"sort"
)

// GroupSummary holds descriptive statistics for one treatment group.
// Standard deviations use the sample (n-1) denominator; a group with a
// single usable value reports NaN, never 0 — one observation has no spread.
type GroupSummary struct {
	Group       string   `json:"group"`
	N           int      `json:"n"`
	MaxLoadMean float64  `json:"maxLoadMean"`
	MaxLoadStd  float64  `json:"maxLoadStd"`
	StiffMean   float64  `json:"stiffnessMean"`
	StiffStd    float64  `json:"stiffnessStd"`
	EnergyMean  float64  `json:"energyMean"`
	EnergyStd   float64  `json:"energyStd"`
	SampleIDs   []string `json:"sampleIds"`
}

// Aggregate groups results by treatment label and computes count, mean, and
// sample standard deviation for the three metrics. Empty groups are simply
// absent. Undefined stiffness values (no determinable region) are excluded
// from the stiffness mean/std but still count toward N.
func Aggregate(results []SpecimenResult) []GroupSummary {
	byGroup := make(map[string][]SpecimenResult)
	for _, r := range results {
		byGroup[r.TreatmentGroup] = append(byGroup[r.TreatmentGroup], r)
	}

	labels := make([]string, 0, len(byGroup))
	for label := range byGroup {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	summaries := make([]GroupSummary, 0, len(labels))
	for _, label := range labels {
		members := byGroup[label]

		maxLoads := make([]float64, 0, len(members))
		stiffs := make([]float64, 0, len(members))
		energies := make([]float64, 0, len(members))
		ids := make([]string, 0, len(members))

		for _, m := range members {
			maxLoads = append(maxLoads, m.MaxLoad)
			energies = append(energies, m.EnergyToFailure)
			if !math.IsNaN(m.Stiffness()) {
				stiffs = append(stiffs, m.Stiffness())
			}
			ids = append(ids, m.SampleID)
		}
		sort.Strings(ids)

		maxMean, maxStd := meanStd(maxLoads)
		stiffMean, stiffStd := meanStd(stiffs)
		energyMean, energyStd := meanStd(energies)

		summaries = append(summaries, GroupSummary{
			Group:       label,
			N:           len(members),
			MaxLoadMean: maxMean,
			MaxLoadStd:  maxStd,
			StiffMean:   stiffMean,
			StiffStd:    stiffStd,
			EnergyMean:  energyMean,
			EnergyStd:   energyStd,
			SampleIDs:   ids,
		})
	}

	return summaries
}

// meanStd returns the mean and sample standard deviation of values.
// Empty input returns (NaN, NaN); a single value has mean itself and NaN
// deviation.
func meanStd(values []float64) (float64, float64) {
	n := len(values)
	if n == 0 {
		return math.NaN(), math.NaN()
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(n)

	if n < 2 {
		return mean, math.NaN()
	}

	sumSq := 0.0
	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}
	return mean, math.Sqrt(sumSq / float64(n-1))
}
