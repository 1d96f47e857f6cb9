package store

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/ssplab/go-tensile/metrics"
	"github.com/ssplab/go-tensile/regression"
	"github.com/ssplab/go-tensile/results"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "tensile.db"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testRun() *results.Run {
	specimens := []metrics.SpecimenResult{
		{
			SampleID:        "D1_NO",
			TreatmentGroup:  "NON",
			SourceName:      "SSP_D1_NO.csv",
			MaxLoad:         150.5,
			EnergyToFailure: 320.1,
			Region: regression.Result{
				Slope:      41.2,
				Intercept:  -0.8,
				RSquared:   0.998,
				StartIndex: 10,
				EndIndex:   19,
				WindowSize: 10,
				Method:     regression.MethodQualified,
			},
		},
		{
			SampleID:       "C2_OPER",
			TreatmentGroup: "MSC",
			SourceName:     "SSP_C2_OPER.csv",
			MaxLoad:        72.3,
			Region: regression.Result{
				Slope:    math.NaN(),
				RSquared: math.NaN(),
				Method:   regression.MethodNone,
			},
		},
	}

	return results.NewBuilder().
		WithConfig(regression.DefaultConfig(), 2).
		WithDataDir("data").
		WithBatch(specimens, nil, 0.1).
		Build()
}

func TestSaveAndGetRun(t *testing.T) {
	s := openTestStore(t)
	run := testRun()

	if err := s.SaveRun(run); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	loaded, err := s.GetRun(run.Metadata.RunID)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}

	if loaded.Metadata.Status != results.StatusSuccess {
		t.Errorf("Expected status success, got %s", loaded.Metadata.Status)
	}
	if loaded.Config.R2Threshold != 0.99 {
		t.Errorf("Expected R2 threshold 0.99, got %f", loaded.Config.R2Threshold)
	}
	if len(loaded.Specimens) != 2 {
		t.Fatalf("Expected 2 specimens, got %d", len(loaded.Specimens))
	}

	sp := loaded.Specimens[0]
	if sp.SampleID != "D1_NO" || sp.Region.Slope != 41.2 {
		t.Errorf("First specimen mismatch: %+v", sp)
	}
	if sp.Region.Method != regression.MethodQualified {
		t.Errorf("Expected qualified method, got %s", sp.Region.Method)
	}

	// Undefined region stored as NULL, loaded back as NaN.
	if !math.IsNaN(loaded.Specimens[1].Region.Slope) {
		t.Errorf("Expected NaN slope, got %f", loaded.Specimens[1].Region.Slope)
	}
}

func TestGetRunMissing(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.GetRun("nope"); err == nil {
		t.Error("Expected error for unknown run ID")
	}
}

func TestRecentRuns(t *testing.T) {
	s := openTestStore(t)

	first := testRun()
	if err := s.SaveRun(first); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}
	second := testRun()
	second.Metadata.Timestamp = second.Metadata.Timestamp.Add(time.Hour)
	if err := s.SaveRun(second); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	infos, err := s.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns failed: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("Expected 2 runs, got %d", len(infos))
	}
	if infos[0].RunID != second.Metadata.RunID {
		t.Error("Expected newest run first")
	}
	if infos[0].Specimens != 2 {
		t.Errorf("Expected 2 specimens counted, got %d", infos[0].Specimens)
	}
}

func TestOverrideRoundTrip(t *testing.T) {
	s := openTestStore(t)

	if o, err := s.GetOverride("D1_NO"); err != nil || o != nil {
		t.Fatalf("Expected no override, got %v (err %v)", o, err)
	}

	err := s.SaveOverride(&ManualOverride{
		SampleID:   "D1_NO",
		StartIndex: 5,
		EndIndex:   14,
		Stiffness:  39.7,
		RSquared:   0.991,
		CreatedAt:  time.Now(),
	})
	if err != nil {
		t.Fatalf("SaveOverride failed: %v", err)
	}

	o, err := s.GetOverride("D1_NO")
	if err != nil {
		t.Fatalf("GetOverride failed: %v", err)
	}
	if o == nil || o.Stiffness != 39.7 || o.EndIndex != 14 {
		t.Errorf("Override mismatch: %+v", o)
	}

	// Saving again replaces the pick.
	err = s.SaveOverride(&ManualOverride{
		SampleID:   "D1_NO",
		StartIndex: 6,
		EndIndex:   15,
		Stiffness:  40.1,
		RSquared:   0.993,
		CreatedAt:  time.Now(),
	})
	if err != nil {
		t.Fatalf("SaveOverride (update) failed: %v", err)
	}

	overrides, err := s.ListOverrides()
	if err != nil {
		t.Fatalf("ListOverrides failed: %v", err)
	}
	if len(overrides) != 1 {
		t.Fatalf("Expected 1 override after upsert, got %d", len(overrides))
	}
	if overrides[0].StartIndex != 6 {
		t.Errorf("Expected updated start index 6, got %d", overrides[0].StartIndex)
	}
}
