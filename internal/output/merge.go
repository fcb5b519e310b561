// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/pubmed-crawler/pkg/types"
)

// ErrNoFiles is returned by Merge when it is given no input files.
var ErrNoFiles = errors.New("no monthly files to merge")

// MergeSummary reports what Merge wrote.
type MergeSummary struct {
	Files int
	Rows  int
}

// Merge reads every file in paths in full, concatenates their rows in
// order, and writes them to outPath under a single header. A missing or
// unreadable input aborts the merge before outPath is touched. Input
// headers are skipped, not validated.
func Merge(paths []string, outPath string) (MergeSummary, error) {
	if len(paths) == 0 {
		return MergeSummary{}, ErrNoFiles
	}

	var rows [][]string
	for _, p := range paths {
		r, err := readRows(p)
		if err != nil {
			return MergeSummary{}, err
		}
		rows = append(rows, r...)
	}

	if err := writeCSV(outPath, rows); err != nil {
		return MergeSummary{}, err
	}
	return MergeSummary{Files: len(paths), Rows: len(rows)}, nil
}

// ReadRecords reads a monthly or merged CSV file into Records.
func ReadRecords(path string) ([]types.Record, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}
	records := make([]types.Record, len(rows))
	for i, row := range rows {
		records[i] = types.RecordFromRow(row)
	}
	return records, nil
}

// readRows returns every row after the header. An empty file has no rows.
func readRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	if _, err := r.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading header of %s: %w", path, err)
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return rows, nil
}

// writeCSV writes header + rows to a temp file beside path and renames it
// into place.
func writeCSV(path string, rows [][]string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".merge-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	w := csv.NewWriter(tmp)
	if err := w.Write(types.Columns); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing rows: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
