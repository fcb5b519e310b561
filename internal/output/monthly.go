// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package output writes monthly CSV files, merges them, and records the
// crawl manifest.
package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdiddy/pubmed-crawler/pkg/types"
)

// MonthlyFile returns the path of the monthly CSV for w inside dir.
func MonthlyFile(dir, prefix string, w types.DateWindow) string {
	return filepath.Join(dir, prefix+w.Label()+".csv")
}

// AppendRecords opens path for append (creating it if absent), writes the
// column header when the file is empty, then writes records in order and
// closes the file. It is called once per fetched page. It does not check
// for rows already present: appending the same records twice duplicates
// them.
func AppendRecords(path string, records []types.Record) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(types.Columns); err != nil {
			return fmt.Errorf("writing header to %s: %w", path, err)
		}
	}
	for _, r := range records {
		if err := w.Write(r.Row()); err != nil {
			return fmt.Errorf("writing row to %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return nil
}
