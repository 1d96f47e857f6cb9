package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ssplab/go-tensile/store"
)

func runs(args []string) error {
	fs := flag.NewFlagSet("runs", flag.ExitOnError)
	dbPath := fs.String("db", "", "SQLite database file (required)")
	limit := fs.Int("limit", 10, "Maximum number of runs to list")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: tensile runs [options]

List analysis runs stored in the database, most recent first.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Example:
  tensile runs --db study.db --limit 5
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *dbPath == "" {
		fs.Usage()
		return fmt.Errorf("--db is required")
	}

	st, err := store.New(*dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer st.Close()

	infos, err := st.RecentRuns(*limit)
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Println("No runs stored.")
		return nil
	}

	fmt.Printf("%-36s  %-19s  %-8s  %9s  %s\n",
		"Run ID", "Timestamp", "Status", "Specimens", "Data dir")
	for _, info := range infos {
		fmt.Printf("%-36s  %-19s  %-8s  %9d  %s\n",
			info.RunID, info.Timestamp.Format("2006-01-02 15:04:05"),
			info.Status, info.Specimens, info.DataDir)
	}

	overrides, err := st.ListOverrides()
	if err != nil {
		return err
	}
	if len(overrides) > 0 {
		fmt.Printf("\nManual overrides (%d):\n", len(overrides))
		for _, o := range overrides {
			fmt.Printf("  %-10s  [%d, %d]  %.2f N/mm  (R² %.4f)\n",
				o.SampleID, o.StartIndex, o.EndIndex, o.Stiffness, o.RSquared)
		}
	}

	return nil
}
