package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ssplab/go-tensile/classify"
	"github.com/ssplab/go-tensile/metrics"
	"github.com/ssplab/go-tensile/parser"
	"github.com/ssplab/go-tensile/results"
	"github.com/ssplab/go-tensile/store"
)

func analyze(args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	configPath := fs.String("config", "", "JSON config file (analysis parameters, group IDs)")
	output := fs.String("output", "results.json", "Output results file")
	csvDir := fs.String("csv-dir", "", "Also write detailed and group CSVs to this directory")
	dbPath := fs.String("db", "", "Also persist the run to this SQLite database")
	workers := fs.Int("workers", runtime.NumCPU(), "Concurrent specimen workers")
	verbose := fs.Bool("verbose", false, "Per-specimen progress logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: tensile analyze <data-dir> [options]

Process every CSV export in the data directory: classify each specimen,
truncate its curve at maximum load, extract stiffness, integrate energy,
and aggregate treatment-group statistics.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Full pipeline with persistence
  tensile analyze ./data --config config.json --output results.json --db study.db

  # CSV tables alongside the JSON
  tensile analyze ./data --csv-dir ./out
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("data directory required")
	}
	dataDir := fs.Arg(0)

	cfg, err := loadAppConfig(*configPath)
	if err != nil {
		return err
	}

	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	inputs, failures, err := collectInputs(dataDir, cfg, log)
	if err != nil {
		return err
	}
	if len(inputs) == 0 && len(failures) == 0 {
		return fmt.Errorf("no CSV files found in %s", dataDir)
	}

	regCfg := cfg.regressionConfig()
	computer := metrics.NewComputer(regCfg)

	start := time.Now()
	computed, batchFailures := metrics.NewBatch(computer).
		WithWorkers(*workers).
		WithLogger(log).
		Run(inputs)
	elapsed := time.Since(start).Seconds()

	failures = append(failures, batchFailures...)
	groups := metrics.Aggregate(computed)

	run := results.NewBuilder().
		WithConfig(regCfg, *workers).
		WithDataDir(dataDir).
		WithBatch(computed, failures, elapsed).
		WithGroups(groups).
		Build()

	if err := results.WriteJSON(run, *output); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Results saved to %s\n", *output)

	if *csvDir != "" {
		if err := writeCSVs(run, *csvDir); err != nil {
			return err
		}
	}

	if *dbPath != "" {
		st, err := store.New(*dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer st.Close()
		if err := st.SaveRun(run); err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Run %s saved to %s\n", run.Metadata.RunID, *dbPath)
	}

	printRunSummary(run)
	return nil
}

// collectInputs scans the data directory, classifies each CSV, and parses
// the usable ones. Files that cannot be classified or parsed become failure
// records, never a batch abort.
func collectInputs(dataDir string, cfg appConfig, log zerolog.Logger) ([]metrics.Input, []metrics.Failure, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("read data dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var inputs []metrics.Input
	var failures []metrics.Failure

	for _, name := range names {
		sample := classify.Classify(name, cfg.Groups)
		if sample.SampleID() == "" {
			log.Warn().Str("file", name).Msg("could not classify, skipping")
			failures = append(failures, metrics.Failure{
				Source: name,
				Err:    fmt.Errorf("could not determine sample identity from filename"),
			})
			continue
		}

		series, err := parser.ParseCSV(filepath.Join(dataDir, name), parser.DefaultCSVConfig())
		if err != nil {
			log.Warn().Str("file", name).Err(err).Msg("unreadable export, skipping")
			failures = append(failures, metrics.Failure{Source: name, Err: err})
			continue
		}

		inputs = append(inputs, metrics.Input{
			SampleID:       sample.SampleID(),
			TreatmentGroup: sample.Group,
			Displacement:   series.Displacement,
			Load:           series.Load,
			SourceName:     name,
		})
	}

	return inputs, failures, nil
}

func writeCSVs(run *results.Run, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create csv dir: %w", err)
	}

	detailed := filepath.Join(dir, "Experiment_Master_Log_Detailed.csv")
	if err := results.WriteDetailedCSV(run, detailed); err != nil {
		return fmt.Errorf("write detailed csv: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Saved %s\n", detailed)

	groupsPath := filepath.Join(dir, "Group_Statistics_Detailed.csv")
	if err := results.WriteGroupCSV(run, groupsPath); err != nil {
		return fmt.Errorf("write group csv: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Saved %s\n", groupsPath)

	return nil
}
