// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export renders crawled records as CSL bibliographies or plain JSON.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pubmed-crawler/pkg/types"
)

const pubmedURL = "https://pubmed.ncbi.nlm.nih.gov/"

// Format selects the export encoding.
type Format string

const (
	FormatCSLYAML Format = "csl-yaml"
	FormatCSLJSON Format = "csl-json"
	FormatJSON    Format = "json"
)

// Formats lists the supported formats.
var Formats = []Format{FormatCSLYAML, FormatCSLJSON, FormatJSON}

// CSLItem is one bibliographic entry in CSL (Citation Style Language) form,
// readable by Pandoc and reference managers.
type CSLItem struct {
	ID             string    `json:"id" yaml:"id"`
	Type           string    `json:"type" yaml:"type"`
	Title          string    `json:"title" yaml:"title"`
	Author         []CSLName `json:"author,omitempty" yaml:"author,omitempty"`
	ContainerTitle string    `json:"container-title,omitempty" yaml:"container-title,omitempty"`
	Issued         *CSLDate  `json:"issued,omitempty" yaml:"issued,omitempty"`
	DOI            string    `json:"DOI,omitempty" yaml:"DOI,omitempty"`
	PMID           string    `json:"PMID,omitempty" yaml:"PMID,omitempty"`
	URL            string    `json:"URL,omitempty" yaml:"URL,omitempty"`
	Note           string    `json:"note,omitempty" yaml:"note,omitempty"`
}

// CSLName is a person's name in CSL form.
type CSLName struct {
	Family  string `json:"family,omitempty" yaml:"family,omitempty"`
	Given   string `json:"given,omitempty" yaml:"given,omitempty"`
	Literal string `json:"literal,omitempty" yaml:"literal,omitempty"`
}

// CSLDate is a CSL date using date-parts.
type CSLDate struct {
	DateParts [][]int `json:"date-parts" yaml:"date-parts"`
}

// Write encodes records to w in format f.
func Write(w io.Writer, records []types.Record, f Format) error {
	switch f {
	case FormatCSLYAML:
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(ToCSL(records)); err != nil {
			return err
		}
		return enc.Close()
	case FormatCSLJSON:
		return writeJSON(w, ToCSL(records))
	case FormatJSON:
		if records == nil {
			records = []types.Record{}
		}
		return writeJSON(w, records)
	default:
		return fmt.Errorf("unknown export format %q (want one of %v)", f, Formats)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ToCSL converts records to CSL items, preserving order.
func ToCSL(records []types.Record) []CSLItem {
	items := make([]CSLItem, len(records))
	for i, r := range records {
		items[i] = toCSLItem(r)
	}
	return items
}

func toCSLItem(r types.Record) CSLItem {
	item := CSLItem{
		ID:             r.PMID,
		Type:           "article-journal",
		Title:          r.Title,
		Author:         parseAuthors(r.Author),
		ContainerTitle: journal(r.PublicationYear),
		DOI:            parseDOI(r.Citation),
		PMID:           r.PMID,
		Note:           r.VirusName,
	}
	if r.PMID != "" {
		item.URL = pubmedURL + r.PMID + "/"
	}
	if y := r.Year(); y > 0 {
		item.Issued = &CSLDate{DateParts: [][]int{{y}}}
	}
	return item
}

// parseAuthors splits a short author list ("Smith J, Doe A, et al.") into
// names. "et al" is dropped.
func parseAuthors(list string) []CSLName {
	list = strings.TrimSuffix(strings.TrimSpace(list), ".")
	if list == "" {
		return nil
	}
	var names []CSLName
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" || strings.EqualFold(strings.TrimSuffix(part, "."), "et al") {
			continue
		}
		names = append(names, parseAuthorName(part))
	}
	return names
}

// parseAuthorName splits a listing name into CSL family/given parts. The
// listing puts initials last, so the last token is given and everything
// before it is family. Single-token names use the literal field.
func parseAuthorName(name string) CSLName {
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return CSLName{Literal: name}
	}
	return CSLName{
		Family: name[:idx],
		Given:  name[idx+1:],
	}
}

var doiPattern = regexp.MustCompile(`(?i)doi:\s*(10\.\d{4,9}/\S+)`)

// parseDOI returns the DOI in a citation string, without trailing
// punctuation.
func parseDOI(citation string) string {
	m := doiPattern.FindStringSubmatch(citation)
	if m == nil {
		return ""
	}
	return strings.TrimRight(m[1], ".,;")
}

// journal returns the abbreviation before the first ". " in a short
// citation such as "Lancet. 2020.".
func journal(short string) string {
	short = strings.TrimSpace(short)
	if i := strings.Index(short, ". "); i > 0 {
		return short[:i]
	}
	return ""
}
