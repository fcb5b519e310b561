// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// DateWindow is one calendar month of the crawl. Start and End are already
// encoded for the search filter (e.g. "2020%2F01%2F01").
type DateWindow struct {
	Start string     `json:"start" yaml:"start"`
	End   string     `json:"end" yaml:"end"`
	Year  int        `json:"year" yaml:"year"`
	Month time.Month `json:"month" yaml:"month"`
}

// Label returns the window's "YYYY_MM" file label.
func (w DateWindow) Label() string {
	return fmt.Sprintf("%d_%02d", w.Year, int(w.Month))
}
