package metrics

import (
	"encoding/json"
	"math"
)

// groupSummaryJSON is the wire shape of GroupSummary. Undefined statistics
// (NaN, e.g. the standard deviation of a single-sample group) are encoded as
// null.
type groupSummaryJSON struct {
	Group       string   `json:"group"`
	N           int      `json:"n"`
	MaxLoadMean *float64 `json:"maxLoadMean"`
	MaxLoadStd  *float64 `json:"maxLoadStd"`
	StiffMean   *float64 `json:"stiffnessMean"`
	StiffStd    *float64 `json:"stiffnessStd"`
	EnergyMean  *float64 `json:"energyMean"`
	EnergyStd   *float64 `json:"energyStd"`
	SampleIDs   []string `json:"sampleIds"`
}

// MarshalJSON encodes NaN statistics as null.
func (g GroupSummary) MarshalJSON() ([]byte, error) {
	return json.Marshal(groupSummaryJSON{
		Group:       g.Group,
		N:           g.N,
		MaxLoadMean: nullableFloat(g.MaxLoadMean),
		MaxLoadStd:  nullableFloat(g.MaxLoadStd),
		StiffMean:   nullableFloat(g.StiffMean),
		StiffStd:    nullableFloat(g.StiffStd),
		EnergyMean:  nullableFloat(g.EnergyMean),
		EnergyStd:   nullableFloat(g.EnergyStd),
		SampleIDs:   g.SampleIDs,
	})
}

// UnmarshalJSON decodes null statistics back to NaN.
func (g *GroupSummary) UnmarshalJSON(data []byte) error {
	var raw groupSummaryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	g.Group = raw.Group
	g.N = raw.N
	g.MaxLoadMean = floatOrNaN(raw.MaxLoadMean)
	g.MaxLoadStd = floatOrNaN(raw.MaxLoadStd)
	g.StiffMean = floatOrNaN(raw.StiffMean)
	g.StiffStd = floatOrNaN(raw.StiffStd)
	g.EnergyMean = floatOrNaN(raw.EnergyMean)
	g.EnergyStd = floatOrNaN(raw.EnergyStd)
	g.SampleIDs = raw.SampleIDs
	return nil
}

func nullableFloat(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func floatOrNaN(p *float64) float64 {
	if p == nil {
		return math.NaN()
	}
	return *p
}
