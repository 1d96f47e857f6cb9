package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ssplab/go-tensile/curve"
	"github.com/ssplab/go-tensile/metrics"
	"github.com/ssplab/go-tensile/parser"
	"github.com/ssplab/go-tensile/plotter"
	"github.com/ssplab/go-tensile/results"
)

func plot(args []string) error {
	fs := flag.NewFlagSet("plot", flag.ExitOnError)
	sampleID := fs.String("sample", "", "Sample ID to plot (required)")
	dataDir := fs.String("data-dir", "", "Directory holding the raw CSV exports (defaults to the run's data dir)")
	output := fs.String("output", "", "Output SVG file (defaults to <sample>.svg)")
	width := fs.Float64("width", 800, "Plot width in pixels")
	height := fs.Float64("height", 600, "Plot height in pixels")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: tensile plot <results-file> [options]

Render one specimen's load-displacement curve as SVG, truncated at
maximum load, with the selected linear region highlighted and its
fitted line overlaid.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Example:
  tensile plot results.json --sample D1_NO --output D1_NO.svg
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

	trunc, err := loadTruncated(dir, specimen.SourceName)
	if err != nil {
		return err
	}

	p := plotter.NewSVGPlotter(*width, *height).
		SetTitle(fmt.Sprintf("%s (%s)", specimen.SampleID, specimen.TreatmentGroup)).
		AddSeries(trunc.Displacement, trunc.Load, specimen.SampleID, "#3498db")

	if specimen.Region.Defined() {
		p.HighlightRegion(specimen.Region.StartIndex, specimen.Region.EndIndex,
			specimen.Region.Slope, specimen.Region.Intercept)
	}

	out := *output
	if out == "" {
		out = specimen.SampleID + ".svg"
	}
	if err := os.WriteFile(out, []byte(p.Render()), 0644); err != nil {
		return fmt.Errorf("write plot: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Plot saved to %s\n", out)
	return nil
}

func findSpecimen(run *results.Run, sampleID string) (*metrics.SpecimenResult, error) {
	for i := range run.Specimens {
		if run.Specimens[i].SampleID == sampleID {
			return &run.Specimens[i], nil
		}
	}
	return nil, fmt.Errorf("sample %s not found in results", sampleID)
}

// loadTruncated re-parses a specimen's source CSV and truncates the curve at
// maximum load, matching the domain the analysis indices refer to.
func loadTruncated(dataDir, sourceName string) (*curve.Series, error) {
	series, err := parser.ParseCSV(filepath.Join(dataDir, sourceName), parser.DefaultCSVConfig())
	if err != nil {
		return nil, fmt.Errorf("reload %s: %w", sourceName, err)
	}
	return series.TruncateAtMaxLoad(), nil
}
