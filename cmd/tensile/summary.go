package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/ssplab/go-tensile/results"
)

func summary(args []string) error {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: tensile summary <results-file>

Display a quick summary of an analysis run: status, specimen table,
and per-group statistics.

Example:
  tensile summary results.json
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

	printRunSummary(run)
	return nil
}

// printRunSummary writes a human-readable run report to stdout.
func printRunSummary(run *results.Run) {
	fmt.Println("\n=== Analysis Run ===")
	fmt.Printf("Run ID:    %s\n", run.Metadata.RunID)
	fmt.Printf("Timestamp: %s\n", run.Metadata.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Printf("Status:    %s\n", run.Metadata.Status)
	if run.Metadata.DataDir != "" {
		fmt.Printf("Data dir:  %s\n", run.Metadata.DataDir)
	}
	fmt.Printf("Compute:   %.2fs\n", run.Metadata.ComputeTime)
	if run.Metadata.Error != "" {
		fmt.Printf("Error:     %s\n", run.Metadata.Error)
	}

	if len(run.Specimens) > 0 {
		fmt.Printf("\nSpecimens (%d):\n", len(run.Specimens))
		fmt.Printf("  %-10s %-12s %10s %12s %10s %10s\n",
			"Sample", "Group", "MaxLoad(N)", "Stiff(N/mm)", "Energy(mJ)", "Method")
		for _, s := range run.Specimens {
			fmt.Printf("  %-10s %-12s %10.2f %12s %10.2f %10s\n",
				s.SampleID, s.TreatmentGroup, s.MaxLoad,
				formatStiffness(s.Stiffness()), s.EnergyToFailure, s.Region.Method)
		}
	}

	if len(run.Failures) > 0 {
		fmt.Printf("\nSkipped files (%d):\n", len(run.Failures))
		for _, f := range run.Failures {
			fmt.Printf("  %s: %s\n", f.Source, f.Error)
		}
	}

	if len(run.Groups) > 0 {
		fmt.Println("\nGroup statistics:")
		for _, g := range run.Groups {
			fmt.Printf("  %s (n=%d)\n", g.Group, g.N)
			fmt.Printf("    Max load:  %s N\n", formatMeanStd(g.MaxLoadMean, g.MaxLoadStd))
			fmt.Printf("    Stiffness: %s N/mm\n", formatMeanStd(g.StiffMean, g.StiffStd))
			fmt.Printf("    Energy:    %s mJ\n", formatMeanStd(g.EnergyMean, g.EnergyStd))
			fmt.Printf("    Samples:   %s\n", strings.Join(g.SampleIDs, ", "))
		}
	}
	fmt.Println()
}

func formatStiffness(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}

func formatMeanStd(mean, std float64) string {
	if math.IsNaN(mean) {
		return "n/a"
	}
	if math.IsNaN(std) {
		return fmt.Sprintf("%.2f", mean)
	}
	return fmt.Sprintf("%.2f ± %.2f", mean, std)
}
