// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package window generates the monthly date windows a crawl iterates over.
package window

import (
	"fmt"
	"iter"
	"time"

	"github.com/pdiddy/pubmed-crawler/pkg/types"
)

// Months returns a lazy sequence of DateWindows from startYear/startMonth
// through endYear/endMonth inclusive, one calendar month per window. Each
// range over the sequence starts again from the first month. An end before
// the start, or a month outside 1..12, yields nothing.
func Months(startYear, startMonth, endYear, endMonth int) iter.Seq[types.DateWindow] {
	return func(yield func(types.DateWindow) bool) {
		if !validMonth(startMonth) || !validMonth(endMonth) {
			return
		}
		current := time.Date(startYear, time.Month(startMonth), 1, 0, 0, 0, 0, time.UTC)
		last := time.Date(endYear, time.Month(endMonth), 1, 0, 0, 0, 0, time.UTC)

		for !current.After(last) {
			if !yield(At(current.Year(), current.Month())) {
				return
			}
			current = current.AddDate(0, 1, 0)
		}
	}
}

// At returns the DateWindow covering the given month.
func At(year int, month time.Month) types.DateWindow {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return types.DateWindow{
		Start: EncodeDate(first),
		End:   EncodeDate(LastDay(first)),
		Year:  first.Year(),
		Month: first.Month(),
	}
}

// LastDay returns the last day of t's month.
func LastDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location())
}

// EncodeDate formats t as "YYYY%2FMM%2FDD", the search filter's date form
// with "/" already percent-encoded. time.Format cannot express this layout
// because "2" is a day token.
func EncodeDate(t time.Time) string {
	return fmt.Sprintf("%04d%%2F%02d%%2F%02d", t.Year(), int(t.Month()), t.Day())
}

// Collect materializes a sequence into a slice.
func Collect(seq iter.Seq[types.DateWindow]) []types.DateWindow {
	var out []types.DateWindow
	for w := range seq {
		out = append(out, w)
	}
	return out
}

// ParseMonth parses a "YYYY-MM" string into its year and month.
func ParseMonth(s string) (int, int, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q (want YYYY-MM): %w", s, err)
	}
	return t.Year(), int(t.Month()), nil
}

// Range parses start and end "YYYY-MM" strings and returns the window
// sequence between them.
func Range(start, end string) (iter.Seq[types.DateWindow], error) {
	sy, sm, err := ParseMonth(start)
	if err != nil {
		return nil, err
	}
	ey, em, err := ParseMonth(end)
	if err != nil {
		return nil, err
	}
	return Months(sy, sm, ey, em), nil
}

func validMonth(m int) bool {
	return m >= 1 && m <= 12
}
