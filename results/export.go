package results

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// WriteDetailedCSV writes the per-specimen master log. Undefined values
// (NaN stiffness or R² when no region was determinable) become empty fields.
func WriteDetailedCSV(run *Run, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"Filename", "SampleID", "Subgroup",
		"MaxLoad_N", "Stiffness_N_mm", "Energy_mJ",
		"R2_Score", "Linear_Start_Idx", "Linear_End_Idx", "Method",
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, s := range run.Specimens {
		record := []string{
			s.SourceName,
			s.SampleID,
			s.TreatmentGroup,
			formatFloat(s.MaxLoad),
			formatFloat(s.Stiffness()),
			formatFloat(s.EnergyToFailure),
			formatFloat(s.Region.RSquared),
			strconv.Itoa(s.Region.StartIndex),
			strconv.Itoa(s.Region.EndIndex),
			string(s.Region.Method),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write record for %s: %w", s.SampleID, err)
		}
	}

	w.Flush()
	return w.Error()
}

// WriteGroupCSV writes the group-statistics table. Groups appear in the
// order the aggregator produced them; single-sample deviations export empty.
func WriteGroupCSV(run *Run, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"Subgroup", "Count",
		"MaxLoad_Mean", "MaxLoad_Std",
		"Stiffness_Mean", "Stiffness_Std",
		"Energy_Mean", "Energy_Std",
		"Sample_List",
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, g := range run.Groups {
		record := []string{
			g.Group,
			strconv.Itoa(g.N),
			formatFloat(g.MaxLoadMean),
			formatFloat(g.MaxLoadStd),
			formatFloat(g.StiffMean),
			formatFloat(g.StiffStd),
			formatFloat(g.EnergyMean),
			formatFloat(g.EnergyStd),
			strings.Join(g.SampleIDs, ", "),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write record for %s: %w", g.Group, err)
		}
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}
