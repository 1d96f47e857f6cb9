package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ssplab/go-tensile/metrics"
	"github.com/ssplab/go-tensile/parser"
	"github.com/ssplab/go-tensile/results"
	"github.com/ssplab/go-tensile/store"
)

func override(args []string) error {
	fs := flag.NewFlagSet("override", flag.ExitOnError)
	sampleID := fs.String("sample", "", "Sample ID to override (required)")
	start := fs.Int("start", -1, "Region start index into the truncated curve (required)")
	end := fs.Int("end", -1, "Region end index, inclusive (required)")
	dataDir := fs.String("data-dir", "", "Directory holding the raw CSV exports (defaults to the run's data dir)")
	output := fs.String("output", "", "Output results file (defaults to overwriting the input)")
	dbPath := fs.String("db", "", "Also record the override in this SQLite database")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: tensile override <results-file> [options]

Recompute one sample's stiffness over manually chosen region indices.
The fit uses the same least-squares formula as the automatic search, so
overriding with the automatic indices reproduces the automatic result
exactly. Group statistics are re-aggregated and the results file is
rewritten.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Example:
  tensile override results.json --sample D1_NO --start 12 --end 24
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("results file required")
	}
	if *sampleID == "" {
		fs.Usage()
		return fmt.Errorf("--sample is required")
	}
	if *start < 0 || *end < 0 {
		fs.Usage()
		return fmt.Errorf("--start and --end are required")
	}

	run, err := results.ReadJSON(fs.Arg(0))
	if err != nil {
		return err
	}

	specimen, err := findSpecimen(run, *sampleID)
	if err != nil {
		return err
	}

	dir := *dataDir
	if dir == "" {
		dir = run.Metadata.DataDir
	}
	if dir == "" {
		return fmt.Errorf("data directory unknown, pass --data-dir")
	}

	series, err := parser.ParseCSV(filepath.Join(dir, specimen.SourceName), parser.DefaultCSVConfig())
	if err != nil {
		return fmt.Errorf("reload %s: %w", specimen.SourceName, err)
	}

	computer := metrics.NewComputer(run.Config.RegressionConfig())
	updated, err := computer.Recompute(metrics.Input{
		SampleID:       specimen.SampleID,
		TreatmentGroup: specimen.TreatmentGroup,
		Displacement:   series.Displacement,
		Load:           series.Load,
		SourceName:     specimen.SourceName,
	}, *start, *end)
	if err != nil {
		return err
	}

	*specimen = updated
	run.Groups = metrics.Aggregate(run.Specimens)

	out := *output
	if out == "" {
		out = fs.Arg(0)
	}
	if err := results.WriteJSON(run, out); err != nil {
		return fmt.Errorf("write results: %w", err)
	}

	fmt.Printf("Sample %s: stiffness %.2f N/mm (R² %.4f) over [%d, %d]\n",
		updated.SampleID, updated.Stiffness(), updated.Region.RSquared, *start, *end)
	fmt.Fprintf(os.Stderr, "Results saved to %s\n", out)

	if *dbPath != "" {
		st, err := store.New(*dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer st.Close()
		if err := st.SaveOverride(&store.ManualOverride{
			SampleID:   updated.SampleID,
			StartIndex: *start,
			EndIndex:   *end,
			Stiffness:  updated.Stiffness(),
			RSquared:   updated.Region.RSquared,
			CreatedAt:  time.Now(),
		}); err != nil {
			return fmt.Errorf("save override: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Override recorded in %s\n", *dbPath)
	}

	return nil
}
