// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the pubmed-crawler
// pipeline: date windows, scraped records, crawl results, and stage
// configuration.
package types

import (
	"regexp"
	"strconv"
)

// Columns is the fixed column order of every monthly and merged CSV file.
var Columns = []string{
	"PMID",
	"Title",
	"Author",
	"Citation",
	"Publication Year",
	"Virus Name",
}

// Record is one bibliographic citation scraped from a result listing.
// All fields are opaque text. PMID is treated as a key but uniqueness is
// not enforced anywhere in the pipeline.
type Record struct {
	// PMID is the PubMed identifier shown next to the result.
	PMID string `json:"pmid" yaml:"pmid"`

	// Title is the article title as displayed in the listing.
	Title string `json:"title" yaml:"title"`

	// Author is the short author summary (e.g. "Smith J, Doe A.").
	Author string `json:"author" yaml:"author"`

	// Citation is the full journal citation string.
	Citation string `json:"citation" yaml:"citation"`

	// PublicationYear is the short journal citation, which carries the year.
	PublicationYear string `json:"publication_year" yaml:"publication_year"`

	// VirusName is the organism name inferred from the title, or empty.
	VirusName string `json:"virus_name,omitempty" yaml:"virus_name,omitempty"`
}

// Row returns the record as a CSV row in Columns order.
func (r Record) Row() []string {
	return []string{r.PMID, r.Title, r.Author, r.Citation, r.PublicationYear, r.VirusName}
}

// RecordFromRow builds a Record from a CSV row in Columns order. Missing
// trailing cells are left empty.
func RecordFromRow(row []string) Record {
	cell := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}
	return Record{
		PMID:            cell(0),
		Title:           cell(1),
		Author:          cell(2),
		Citation:        cell(3),
		PublicationYear: cell(4),
		VirusName:       cell(5),
	}
}

var yearPattern = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)

// Year returns the four-digit publication year found in PublicationYear,
// falling back to Citation. It returns 0 when neither carries a year.
func (r Record) Year() int {
	for _, s := range []string{r.PublicationYear, r.Citation} {
		if m := yearPattern.FindString(s); m != "" {
			y, _ := strconv.Atoi(m)
			return y
		}
	}
	return 0
}
