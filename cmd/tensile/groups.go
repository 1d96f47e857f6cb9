package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ssplab/go-tensile/metrics"
	"github.com/ssplab/go-tensile/plotter"
	"github.com/ssplab/go-tensile/results"
)

// groupPalette assigns a stable color per treatment group.
var groupPalette = map[string]string{
	"NON":        "#2ecc71",
	"TFL":        "#3498db",
	"MSC":        "#e74c3c",
	"Unassigned": "#95a5a6",
}

func groups(args []string) error {
	fs := flag.NewFlagSet("groups", flag.ExitOnError)
	outDir := fs.String("out-dir", ".", "Directory for the SVG charts")
	width := fs.Float64("width", 600, "Chart width in pixels")
	height := fs.Float64("height", 450, "Chart height in pixels")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: tensile groups <results-file> [options]

Render one bar chart per metric (max load, stiffness, energy) from the
group statistics of a results file. Bars show group means with sample
standard deviation whiskers.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Example:
  tensile groups results.json --out-dir ./out
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("results file required")
	}

	run, err := results.ReadJSON(fs.Arg(0))
	if err != nil {
		return err
	}
	if len(run.Groups) == 0 {
		return fmt.Errorf("results file has no group statistics")
	}

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		return fmt.Errorf("create out dir: %w", err)
	}

	charts := []struct {
		file  string
		title string
		yAxis string
		mean  func(metrics.GroupSummary) float64
		std   func(metrics.GroupSummary) float64
	}{
		{
			file:  "max_load.svg",
			title: "Maximum Load by Group",
			yAxis: "Max Load (N)",
			mean:  func(g metrics.GroupSummary) float64 { return g.MaxLoadMean },
			std:   func(g metrics.GroupSummary) float64 { return g.MaxLoadStd },
		},
		{
			file:  "stiffness.svg",
			title: "Stiffness by Group",
			yAxis: "Stiffness (N/mm)",
			mean:  func(g metrics.GroupSummary) float64 { return g.StiffMean },
			std:   func(g metrics.GroupSummary) float64 { return g.StiffStd },
		},
		{
			file:  "energy.svg",
			title: "Energy to Failure by Group",
			yAxis: "Energy (mJ)",
			mean:  func(g metrics.GroupSummary) float64 { return g.EnergyMean },
			std:   func(g metrics.GroupSummary) float64 { return g.EnergyStd },
		},
	}

	for _, spec := range charts {
		chart := plotter.NewBarChart(*width, *height).
			SetTitle(spec.title).
			SetYLabel(spec.yAxis)
		for _, g := range run.Groups {
			color, ok := groupPalette[g.Group]
			if !ok {
				color = "#7f8c8d"
			}
			chart.AddBar(g.Group, spec.mean(g), spec.std(g), g.N, color)
		}

		path := filepath.Join(*outDir, spec.file)
		if err := os.WriteFile(path, []byte(chart.Render()), 0644); err != nil {
			return fmt.Errorf("write chart: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Saved %s\n", path)
	}

	return nil
}
