package results

import (
	"encoding/csv"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ssplab/go-tensile/metrics"
	"github.com/ssplab/go-tensile/regression"
)

func sampleRun() *Run {
	specimens := []metrics.SpecimenResult{
		{
			SampleID:        "D1_NO",
			TreatmentGroup:  "NON",
			SourceName:      "SSP_2025-03-17_D1_NO.csv",
			MaxLoad:         142.5,
			EnergyToFailure: 310.2,
			Region: regression.Result{
				Slope:      38.4,
				Intercept:  -1.2,
				RSquared:   0.996,
				StartIndex: 12,
				EndIndex:   21,
				WindowSize: 10,
				Method:     regression.MethodQualified,
			},
		},
		{
			SampleID:       "B5_OPER",
			TreatmentGroup: "TFL",
			SourceName:     "SSP_2022-12-08_B5_OPER.csv",
			MaxLoad:        61.0,
			Region: regression.Result{
				Slope:    math.NaN(),
				RSquared: math.NaN(),
				Method:   regression.MethodNone,
			},
		},
	}

	return NewBuilder().
		WithConfig(regression.DefaultConfig(), 4).
		WithDataDir("testdata").
		WithBatch(specimens, []metrics.Failure{
			{Source: "SSP_broken.csv", Err: errors.New("no load column")},
		}, 0.42).
		WithGroups(metrics.Aggregate(specimens)).
		Build()
}

func TestBuilderStatus(t *testing.T) {
	run := sampleRun()

	if run.Version != SchemaVersion {
		t.Errorf("Expected version %s, got %s", SchemaVersion, run.Version)
	}
	if run.Metadata.RunID == "" {
		t.Error("Expected a run ID")
	}
	if run.Metadata.Status != StatusPartial {
		t.Errorf("Expected partial status with failures present, got %s", run.Metadata.Status)
	}
	if len(run.Failures) != 1 {
		t.Fatalf("Expected 1 failure record, got %d", len(run.Failures))
	}
	if run.Failures[0].Error != "no load column" {
		t.Errorf("Unexpected failure message: %s", run.Failures[0].Error)
	}
}

func TestBuilderAllFailed(t *testing.T) {
	run := NewBuilder().
		WithBatch(nil, []metrics.Failure{{Source: "x.csv", Err: errors.New("bad")}}, 0).
		Build()

	if run.Metadata.Status != StatusError {
		t.Errorf("Expected error status when nothing processed, got %s", run.Metadata.Status)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	run := sampleRun()

	path := filepath.Join(t.TempDir(), "run.json")
	if err := WriteJSON(run, path); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	loaded, err := ReadJSON(path)
	if err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}

	if loaded.Metadata.RunID != run.Metadata.RunID {
		t.Errorf("Run ID lost in round trip")
	}
	if len(loaded.Specimens) != 2 {
		t.Fatalf("Expected 2 specimens, got %d", len(loaded.Specimens))
	}
	if loaded.Specimens[0].Region.Slope != 38.4 {
		t.Errorf("Expected slope 38.4, got %f", loaded.Specimens[0].Region.Slope)
	}

	// Undefined region survives as NaN, not zero.
	if !math.IsNaN(loaded.Specimens[1].Region.Slope) {
		t.Errorf("Expected NaN slope after round trip, got %f", loaded.Specimens[1].Region.Slope)
	}

	// Single-sample group deviations survive as NaN.
	for _, g := range loaded.Groups {
		if g.N == 1 && !math.IsNaN(g.StiffStd) {
			t.Errorf("Group %s: expected NaN std for n=1, got %f", g.Group, g.StiffStd)
		}
	}
}

func TestWriteDetailedCSV(t *testing.T) {
	run := sampleRun()

	path := filepath.Join(t.TempDir(), "detailed.csv")
	if err := WriteDetailedCSV(run, path); err != nil {
		t.Fatalf("WriteDetailedCSV failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("Expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "Filename" {
		t.Errorf("Unexpected header: %v", rows[0])
	}
	if rows[1][1] != "D1_NO" {
		t.Errorf("Expected sample D1_NO, got %s", rows[1][1])
	}

	// NaN stiffness exports as an empty field.
	if rows[2][4] != "" {
		t.Errorf("Expected empty stiffness field for undefined region, got %q", rows[2][4])
	}
	if rows[2][9] != "none" {
		t.Errorf("Expected method none, got %q", rows[2][9])
	}
}

func TestWriteGroupCSV(t *testing.T) {
	run := sampleRun()

	path := filepath.Join(t.TempDir(), "groups.csv")
	if err := WriteGroupCSV(run, path); err != nil {
		t.Fatalf("WriteGroupCSV failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	content := string(data)
	if !strings.Contains(content, "Subgroup,Count") {
		t.Errorf("Missing header in %q", content)
	}
	if !strings.Contains(content, "NON,1") {
		t.Errorf("Missing NON group row in %q", content)
	}
}
