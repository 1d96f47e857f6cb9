package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "analyze":
		if err := analyze(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "summary":
		if err := summary(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "export":
		if err := export(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "plot":
		if err := plot(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "groups":
		if err := groups(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "override":
		if err := override(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "runs":
		if err := runs(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Println("tensile version 1.0.0")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`tensile - tendon-graft tension test analysis tool

Usage:
  tensile <command> [options]

Commands:
  analyze    Run the batch analysis over a directory of CSV exports
  summary    Display quick summary of a results file
  export     Write detailed and group CSV tables from a results file
  plot       Generate an SVG curve plot with the selected linear region
  groups     Generate group bar charts from a results file
  override   Recompute one sample's stiffness over manually chosen indices
  runs       List analysis runs stored in the database
  help       Show this help message
  version    Show version information

Examples:
  # Run the pipeline
  tensile analyze ./data --config config.json --output results.json

  # Inspect a run
  tensile summary results.json

  # Plot one specimen's curve
  tensile plot results.json --sample D1_NO --data-dir ./data --output D1_NO.svg

  # Apply a manual region pick
  tensile override results.json --sample D1_NO --start 12 --end 24 --data-dir ./data

For command-specific help, run:
  tensile <command> --help`)
}
