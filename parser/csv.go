// Package parser reads raw test-machine CSV exports into curve series.
// Exports carry a displacement column in mm and a load column in either N
// or kN; kN values are normalized to N on read.
package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ssplab/go-tensile/curve"
)

// CSVConfig configures column mapping for raw exports.
type CSVConfig struct {
	DisplacementColumn string // column with crosshead displacement, mm (required)
	LoadColumn         string // column with load in N
	LoadKNColumn       string // column with load in kN, scaled x1000 when LoadColumn is absent
	Delimiter          rune   // CSV delimiter (default: comma)
	SkipRows           int    // header rows to skip before the column header
}

// DefaultCSVConfig returns the column names used by the test-machine export.
func DefaultCSVConfig() CSVConfig {
	return CSVConfig{
		DisplacementColumn: "Crossheadmm",
		LoadColumn:         "LoadN",
		LoadKNColumn:       "LoadkN",
		Delimiter:          ',',
		SkipRows:           0,
	}
}

// ParseCSV reads a raw export file into a Series.
func ParseCSV(filename string, config CSVConfig) (*curve.Series, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return ParseCSVReader(f, config)
}

// ParseCSVReader reads a raw export from a CSV reader.
func ParseCSVReader(r io.Reader, config CSVConfig) (*curve.Series, error) {
	if config.DisplacementColumn == "" {
		return nil, fmt.Errorf("DisplacementColumn is required")
	}
	if config.LoadColumn == "" && config.LoadKNColumn == "" {
		return nil, fmt.Errorf("LoadColumn or LoadKNColumn is required")
	}

	reader := csv.NewReader(r)
	if config.Delimiter != 0 {
		reader.Comma = config.Delimiter
	}
	// Vendor preambles and ragged trailing columns are common in machine
	// exports; field counts are validated per-row below instead.
	reader.FieldsPerRecord = -1

	for i := 0; i < config.SkipRows; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, fmt.Errorf("skipping row %d: %w", i, err)
		}
	}

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	colIndex := make(map[string]int)
	for i, col := range header {
		colIndex[strings.ToLower(strings.TrimSpace(col))] = i
	}

	dispIdx, ok := colIndex[strings.ToLower(config.DisplacementColumn)]
	if !ok {
		return nil, fmt.Errorf("displacement column '%s' not found in header: %v",
			config.DisplacementColumn, header)
	}

	// Prefer the N column; fall back to kN with unit conversion.
	loadIdx := -1
	loadScale := 1.0
	if config.LoadColumn != "" {
		if idx, found := colIndex[strings.ToLower(config.LoadColumn)]; found {
			loadIdx = idx
		}
	}
	if loadIdx < 0 && config.LoadKNColumn != "" {
		if idx, found := colIndex[strings.ToLower(config.LoadKNColumn)]; found {
			loadIdx = idx
			loadScale = 1000.0
		}
	}
	if loadIdx < 0 {
		return nil, fmt.Errorf("no load column found in header: %v", header)
	}

	var displacement, load []float64
	lineNum := config.SkipRows + 2 // +1 for header, +1 for 1-based line numbers

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading line %d: %w", lineNum, err)
		}

		if len(record) <= dispIdx || len(record) <= loadIdx {
			return nil, fmt.Errorf("line %d: insufficient columns", lineNum)
		}

		d, err := strconv.ParseFloat(strings.TrimSpace(record[dispIdx]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid displacement '%s': %w",
				lineNum, record[dispIdx], err)
		}
		l, err := strconv.ParseFloat(strings.TrimSpace(record[loadIdx]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid load '%s': %w",
				lineNum, record[loadIdx], err)
		}

		displacement = append(displacement, d)
		load = append(load, l*loadScale)
		lineNum++
	}

	return curve.New(displacement, load)
}
