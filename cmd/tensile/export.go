package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ssplab/go-tensile/results"
)

func export(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	outDir := fs.String("out-dir", ".", "Directory for the CSV tables")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: tensile export <results-file> [options]

Write the detailed per-specimen table and the group statistics table as
CSV files from a results file.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Example:
  tensile export results.json --out-dir ./out
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

	return writeCSVs(run, *outDir)
}
