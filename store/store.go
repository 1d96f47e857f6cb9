// Package store provides SQLite-based persistence for analysis runs and
// manual review overrides.
package store

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ssplab/go-tensile/metrics"
	"github.com/ssplab/go-tensile/regression"
	"github.com/ssplab/go-tensile/results"
)

// Store handles SQLite database operations for analysis results.
type Store struct {
	db *sql.DB
}

// RunInfo is a stored run's summary row.
type RunInfo struct {
	RunID     string    `json:"run_id"`
	Timestamp time.Time `json:"timestamp"`
	DataDir   string    `json:"data_dir"`
	Status    string    `json:"status"`
	Specimens int       `json:"specimens"`
	Failures  int       `json:"failures"`
}

// ManualOverride is an externally chosen linear region for one sample.
// It supersedes the automatically selected region in downstream aggregation.
type ManualOverride struct {
	SampleID   string    `json:"sample_id"`
	StartIndex int       `json:"start_index"`
	EndIndex   int       `json:"end_index"`
	Stiffness  float64   `json:"stiffness_n_mm"`
	RSquared   float64   `json:"r2"`
	CreatedAt  time.Time `json:"created_at"`
}

// New creates a Store backed by the database at dbPath, creating the schema
// if needed.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		timestamp DATETIME NOT NULL,
		data_dir TEXT,
		status TEXT NOT NULL,
		compute_time REAL DEFAULT 0,
		window_fraction REAL NOT NULL,
		min_window INTEGER NOT NULL,
		r2_threshold REAL NOT NULL,
		min_qualifying_slope REAL NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS specimen_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		sample_id TEXT NOT NULL,
		treatment_group TEXT NOT NULL,
		source_name TEXT NOT NULL,
		max_load_n REAL NOT NULL,
		energy_mj REAL NOT NULL,
		stiffness_n_mm REAL,
		intercept REAL,
		r2 REAL,
		start_idx INTEGER NOT NULL DEFAULT 0,
		end_idx INTEGER NOT NULL DEFAULT 0,
		window_size INTEGER NOT NULL DEFAULT 0,
		method TEXT NOT NULL,
		FOREIGN KEY (run_id) REFERENCES runs(run_id)
	);

	CREATE TABLE IF NOT EXISTS manual_overrides (
		sample_id TEXT PRIMARY KEY,
		start_idx INTEGER NOT NULL,
		end_idx INTEGER NOT NULL,
		stiffness_n_mm REAL NOT NULL,
		r2 REAL NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_results_run ON specimen_results(run_id);
	CREATE INDEX IF NOT EXISTS idx_results_sample ON specimen_results(sample_id);
	CREATE INDEX IF NOT EXISTS idx_results_group ON specimen_results(run_id, treatment_group);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection for custom queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// SaveRun persists a run and all its specimen results in one transaction.
func (s *Store) SaveRun(run *results.Run) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO runs (run_id, timestamp, data_dir, status, compute_time,
			window_fraction, min_window, r2_threshold, min_qualifying_slope)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.Metadata.RunID, run.Metadata.Timestamp, run.Metadata.DataDir,
		run.Metadata.Status, run.Metadata.ComputeTime,
		run.Config.WindowFraction, run.Config.MinWindow,
		run.Config.R2Threshold, run.Config.MinQualifyingSlope)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO specimen_results (run_id, sample_id, treatment_group,
			source_name, max_load_n, energy_mj, stiffness_n_mm, intercept, r2,
			start_idx, end_idx, window_size, method)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, sp := range run.Specimens {
		_, err := stmt.Exec(run.Metadata.RunID, sp.SampleID, sp.TreatmentGroup,
			sp.SourceName, sp.MaxLoad, sp.EnergyToFailure,
			nullFloat(sp.Region.Slope), nullFloat(sp.Region.Intercept),
			nullFloat(sp.Region.RSquared),
			sp.Region.StartIndex, sp.Region.EndIndex, sp.Region.WindowSize,
			string(sp.Region.Method))
		if err != nil {
			return fmt.Errorf("insert result for %s: %w", sp.SampleID, err)
		}
	}

	return tx.Commit()
}

// GetRun loads a stored run's metadata, config, and specimen results.
// Group summaries are recomputed, not stored; the caller derives them.
func (s *Store) GetRun(runID string) (*results.Run, error) {
	run := &results.Run{Version: results.SchemaVersion}

	err := s.db.QueryRow(`
		SELECT run_id, timestamp, data_dir, status, compute_time,
			window_fraction, min_window, r2_threshold, min_qualifying_slope
		FROM runs WHERE run_id = ?`, runID).Scan(
		&run.Metadata.RunID, &run.Metadata.Timestamp, &run.Metadata.DataDir,
		&run.Metadata.Status, &run.Metadata.ComputeTime,
		&run.Config.WindowFraction, &run.Config.MinWindow,
		&run.Config.R2Threshold, &run.Config.MinQualifyingSlope)
	if err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}

	rows, err := s.db.Query(`
		SELECT sample_id, treatment_group, source_name, max_load_n, energy_mj,
			stiffness_n_mm, intercept, r2, start_idx, end_idx, window_size, method
		FROM specimen_results WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sp metrics.SpecimenResult
		var slope, intercept, r2 sql.NullFloat64
		var method string

		err := rows.Scan(&sp.SampleID, &sp.TreatmentGroup, &sp.SourceName,
			&sp.MaxLoad, &sp.EnergyToFailure,
			&slope, &intercept, &r2,
			&sp.Region.StartIndex, &sp.Region.EndIndex, &sp.Region.WindowSize,
			&method)
		if err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}

		sp.Region.Slope = floatOrNaN(slope)
		sp.Region.Intercept = floatOrNaN(intercept)
		sp.Region.RSquared = floatOrNaN(r2)
		sp.Region.Method = regression.Method(method)
		run.Specimens = append(run.Specimens, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}

	return run, nil
}

// RecentRuns lists stored runs, newest first.
func (s *Store) RecentRuns(limit int) ([]*RunInfo, error) {
	rows, err := s.db.Query(`
		SELECT r.run_id, r.timestamp, r.data_dir, r.status,
			(SELECT COUNT(*) FROM specimen_results sr WHERE sr.run_id = r.run_id)
		FROM runs r ORDER BY r.timestamp DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var infos []*RunInfo
	for rows.Next() {
		info := &RunInfo{}
		if err := rows.Scan(&info.RunID, &info.Timestamp, &info.DataDir,
			&info.Status, &info.Specimens); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// SaveOverride stores or replaces the manual region pick for a sample.
func (s *Store) SaveOverride(o *ManualOverride) error {
	_, err := s.db.Exec(`
		INSERT INTO manual_overrides (sample_id, start_idx, end_idx, stiffness_n_mm, r2, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(sample_id) DO UPDATE SET
			start_idx = excluded.start_idx,
			end_idx = excluded.end_idx,
			stiffness_n_mm = excluded.stiffness_n_mm,
			r2 = excluded.r2,
			created_at = excluded.created_at`,
		o.SampleID, o.StartIndex, o.EndIndex, o.Stiffness, o.RSquared, o.CreatedAt)
	if err != nil {
		return fmt.Errorf("save override for %s: %w", o.SampleID, err)
	}
	return nil
}

// GetOverride fetches the manual override for a sample, or nil when none
// exists.
func (s *Store) GetOverride(sampleID string) (*ManualOverride, error) {
	o := &ManualOverride{}
	err := s.db.QueryRow(`
		SELECT sample_id, start_idx, end_idx, stiffness_n_mm, r2, created_at
		FROM manual_overrides WHERE sample_id = ?`, sampleID).Scan(
		&o.SampleID, &o.StartIndex, &o.EndIndex, &o.Stiffness, &o.RSquared, &o.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query override: %w", err)
	}
	return o, nil
}

// ListOverrides returns all stored manual overrides.
func (s *Store) ListOverrides() ([]*ManualOverride, error) {
	rows, err := s.db.Query(`
		SELECT sample_id, start_idx, end_idx, stiffness_n_mm, r2, created_at
		FROM manual_overrides ORDER BY sample_id`)
	if err != nil {
		return nil, fmt.Errorf("query overrides: %w", err)
	}
	defer rows.Close()

	var overrides []*ManualOverride
	for rows.Next() {
		o := &ManualOverride{}
		if err := rows.Scan(&o.SampleID, &o.StartIndex, &o.EndIndex,
			&o.Stiffness, &o.RSquared, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan override: %w", err)
		}
		overrides = append(overrides, o)
	}
	return overrides, rows.Err()
}

func nullFloat(v float64) sql.NullFloat64 {
	if math.IsNaN(v) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func floatOrNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
