// Package classify maps raw data filenames to sample identity and
// treatment-group labels.
package classify

import (
	"regexp"
	"strings"
)

// Condition is the surgical condition encoded in a filename.
type Condition string

const (
	ConditionNonOperated Condition = "NO"
	ConditionOperated    Condition = "OPER"
	ConditionUnknown     Condition = "Unknown"
)

// Treatment-group labels.
const (
	GroupControl    = "NON" // non-operated control
	GroupTFL        = "TFL" // tensor fasciae latae allograft
	GroupMSC        = "MSC" // allograft plus mesenchymal stem cells
	GroupUnassigned = "Unassigned"
)

// subjectIDPattern matches subject identifiers like B5, C12, D1.
var subjectIDPattern = regexp.MustCompile(`^[BCD]\d{1,2}$`)

// Groups holds the configured subject-ID membership for the operated
// treatment groups.
type Groups struct {
	TFLIDs []string `json:"TFL_IDS"`
	MSCIDs []string `json:"MSC_IDS"`
}

// Sample is the identity extracted from one data filename.
type Sample struct {
	SubjectID string
	Condition Condition
	Group     string
}

// ParseFilename extracts the subject ID and condition from a data filename,
// e.g. "SSP_2025-03-17_D1_NO.csv" → ("D1", ConditionNonOperated).
func ParseFilename(filename string) (string, Condition) {
	base := strings.TrimSuffix(filename, ".csv")
	parts := strings.Split(base, "_")

	condition := ConditionUnknown
	for _, part := range parts {
		switch part {
		case "NO":
			condition = ConditionNonOperated
		case "OPER":
			condition = ConditionOperated
		}
	}

	subjectID := ""
	for _, part := range parts {
		if subjectIDPattern.MatchString(part) {
			subjectID = part
			break
		}
	}

	return subjectID, condition
}

// Classify resolves a filename to a Sample. Non-operated samples always land
// in the control group; operated samples are assigned by subject-ID
// membership in the configured group lists.
func Classify(filename string, groups Groups) Sample {
	subjectID, condition := ParseFilename(filename)

	group := GroupUnassigned
	switch condition {
	case ConditionNonOperated:
		group = GroupControl
	case ConditionOperated:
		if contains(groups.TFLIDs, subjectID) {
			group = GroupTFL
		} else if contains(groups.MSCIDs, subjectID) {
			group = GroupMSC
		}
	}

	return Sample{SubjectID: subjectID, Condition: condition, Group: group}
}

// SampleID builds the canonical sample identifier "SubjectID_Condition",
// e.g. "D1_NO". Returns "" when the filename could not be resolved.
func (s Sample) SampleID() string {
	if s.SubjectID == "" || s.Condition == ConditionUnknown {
		return ""
	}
	return s.SubjectID + "_" + string(s.Condition)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
