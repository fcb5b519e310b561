// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scrape

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/pubmed-crawler/pkg/types"
)

// Selectors for the result listing. Each result row contributes one element
// of each field class, in document order.
const (
	ResultsSelector         = "div.search-results-chunk.results-chunk"
	pmidSelector            = "span.docsum-pmid"
	titleSelector           = "a.docsum-title"
	authorSelector          = "span.docsum-authors.short-authors"
	citationSelector        = "span.docsum-journal-citation.full-journal-citation"
	publicationYearSelector = "span.docsum-journal-citation.short-journal-citation"
)

// FieldCounts reports how many elements each field selector matched.
type FieldCounts struct {
	PMID            int
	Title           int
	Author          int
	Citation        int
	PublicationYear int
}

// Shortest returns the length of the shortest field sequence.
func (c FieldCounts) Shortest() int {
	return min(c.PMID, c.Title, c.Author, c.Citation, c.PublicationYear)
}

// Equal reports whether all five sequences have the same length.
func (c FieldCounts) Equal() bool {
	return c.PMID == c.Title && c.PMID == c.Author && c.PMID == c.Citation && c.PMID == c.PublicationYear
}

// String formats the counts for diagnostics.
func (c FieldCounts) String() string {
	return fmt.Sprintf("pmid=%d title=%d author=%d citation=%d year=%d",
		c.PMID, c.Title, c.Author, c.Citation, c.PublicationYear)
}

// Extraction is the outcome of extracting records from one results container.
type Extraction struct {
	Records []types.Record
	Counts  FieldCounts

	// Mismatch is set when the field sequences had unequal lengths. Records
	// then holds only the first Counts.Shortest() rows.
	Mismatch bool
}

// FindResults returns the first results container in doc, and false when
// the page has none.
func FindResults(doc *goquery.Document) (*goquery.Selection, bool) {
	sel := doc.Find(ResultsSelector).First()
	if sel.Length() == 0 {
		return nil, false
	}
	return sel, true
}

// ExtractRecords pulls the five field sequences out of a results container
// and zips them into Records, inferring VirusName from each title with
// names. Text fields are trimmed. When the sequences differ in length the
// rows are truncated to the shortest sequence rather than read out of range.
// A container with no rows yields an empty Extraction.
func ExtractRecords(container *goquery.Selection, names NameExtractor) Extraction {
	if names == nil {
		names = PatternExtractor{}
	}

	pmids := texts(container, pmidSelector)
	titles := texts(container, titleSelector)
	authors := texts(container, authorSelector)
	citations := texts(container, citationSelector)
	years := texts(container, publicationYearSelector)

	counts := FieldCounts{
		PMID:            len(pmids),
		Title:           len(titles),
		Author:          len(authors),
		Citation:        len(citations),
		PublicationYear: len(years),
	}

	n := counts.Shortest()
	records := make([]types.Record, 0, n)
	for i := 0; i < n; i++ {
		virus, _ := names.Extract(titles[i])
		records = append(records, types.Record{
			PMID:            pmids[i],
			Title:           titles[i],
			Author:          authors[i],
			Citation:        citations[i],
			PublicationYear: years[i],
			VirusName:       virus,
		})
	}

	return Extraction{
		Records:  records,
		Counts:   counts,
		Mismatch: !counts.Equal(),
	}
}

// texts returns the trimmed text of every element matching selector.
func texts(sel *goquery.Selection, selector string) []string {
	found := sel.Find(selector)
	out := make([]string, 0, found.Length())
	found.Each(func(_ int, s *goquery.Selection) {
		out = append(out, strings.TrimSpace(s.Text()))
	})
	return out
}
