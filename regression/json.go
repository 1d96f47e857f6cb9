package regression

import (
	"encoding/json"
	"math"
)

// resultJSON is the wire shape of Result. Undefined values (NaN) are encoded
// as null, since JSON has no NaN literal.
type resultJSON struct {
	Slope      *float64 `json:"slope"`
	Intercept  *float64 `json:"intercept"`
	RSquared   *float64 `json:"rSquared"`
	StartIndex int      `json:"startIndex"`
	EndIndex   int      `json:"endIndex"`
	WindowSize int      `json:"windowSize"`
	Method     Method   `json:"method"`
}

// MarshalJSON encodes NaN fields as null.
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(resultJSON{
		Slope:      nullableFloat(r.Slope),
		Intercept:  nullableFloat(r.Intercept),
		RSquared:   nullableFloat(r.RSquared),
		StartIndex: r.StartIndex,
		EndIndex:   r.EndIndex,
		WindowSize: r.WindowSize,
		Method:     r.Method,
	})
}

// UnmarshalJSON decodes null fields back to NaN.
func (r *Result) UnmarshalJSON(data []byte) error {
	var raw resultJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Slope = floatOrNaN(raw.Slope)
	r.Intercept = floatOrNaN(raw.Intercept)
	r.RSquared = floatOrNaN(raw.RSquared)
	r.StartIndex = raw.StartIndex
	r.EndIndex = raw.EndIndex
	r.WindowSize = raw.WindowSize
	r.Method = raw.Method
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
