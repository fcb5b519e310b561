// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scrape

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- title parser ---

func TestExtractVirusName(t *testing.T) {
	tests := []struct {
		name   string
		title  string
		want   string
		wantOK bool
	}{
		{"single word organism", "Ebola virus outbreak", "Ebola virus", true},
		{"virus inside a word", "A novel coronavirus variant", "A novel corona virus", true},
		{"no virus", "Public health policy update", "", false},
		{"two word organism", "Hepatitis B virus infection in adults", "Hepatitis B virus", true},
		{"case insensitive", "ZIKA VIRUS in Brazil", "ZIKA virus", true},
		{"virus with no preceding word", "Virus replication kinetics", "", false},
		{"first match only", "Dengue virus and Zika virus co-infection", "Dengue virus", true},
		{"no-break space", "Ebola\u00a0virus outbreak", "Ebola virus", true},
		{"accented first letter", "Évaluation du virus", "Évaluation du virus", true},
		{"accented prefix before split word", "Übertragung des Hantavirus", "Übertragung des Hanta virus", true},
		{"no-break space in prefix", "Hepatitis\u00a0B virus", "Hepatitis\u00a0B virus", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractVirusName(tt.title)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractVirusNameEndsInVirus(t *testing.T) {
	titles := []string{
		"Measles virus",
		"Respiratory syncytial virus in infants",
		"Influenza A virus H5N1",
		"SARS-CoV-2 virus shedding",
		"Human papillomavirus vaccination",
	}
	for _, title := range titles {
		got, ok := ExtractVirusName(title)
		require.True(t, ok, title)
		assert.True(t, strings.HasSuffix(got, "virus"), "%q -> %q", title, got)
	}
}

// --- page extractor ---

const resultsPage = `<!DOCTYPE html>
<html><body>
<div class="search-results-chunk results-chunk">
  <article class="full-docsum">
    <a class="docsum-title" href="/32000001/">
      Ebola virus outbreak in West Africa
    </a>
    <span class="docsum-authors short-authors">Smith J, Doe A.</span>
    <span class="docsum-journal-citation full-journal-citation">Lancet. 2020 Feb 15;395(10223):497-506. doi: 10.1016/S0140-6736(20)30183-5.</span>
    <span class="docsum-journal-citation short-journal-citation">Lancet. 2020.</span>
    <span class="docsum-pmid">32000001</span>
  </article>
  <article class="full-docsum">
    <a class="docsum-title" href="/32000002/">Public health policy update</a>
    <span class="docsum-authors short-authors">Lee K.</span>
    <span class="docsum-journal-citation full-journal-citation">BMJ. 2020 Mar 1;368:m800.</span>
    <span class="docsum-journal-citation short-journal-citation">BMJ. 2020.</span>
    <span class="docsum-pmid"> 32000002 </span>
  </article>
</div>
</body></html>`

func parse(t *testing.T, page string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)
	return doc
}

func TestFindResultsMissing(t *testing.T) {
	doc := parse(t, `<html><body><div class="results-amount">No results were found.</div></body></html>`)
	_, ok := FindResults(doc)
	assert.False(t, ok)
}

func TestExtractRecords(t *testing.T) {
	container, ok := FindResults(parse(t, resultsPage))
	require.True(t, ok)

	ex := ExtractRecords(container, nil)
	assert.False(t, ex.Mismatch)
	require.Len(t, ex.Records, 2)

	first := ex.Records[0]
	assert.Equal(t, "32000001", first.PMID)
	assert.Equal(t, "Ebola virus outbreak in West Africa", first.Title)
	assert.Equal(t, "Smith J, Doe A.", first.Author)
	assert.Equal(t, "Lancet. 2020.", first.PublicationYear)
	assert.Contains(t, first.Citation, "doi: 10.1016")
	assert.Equal(t, "Ebola virus", first.VirusName)

	second := ex.Records[1]
	assert.Equal(t, "32000002", second.PMID, "pmid should be trimmed")
	assert.Empty(t, second.VirusName)
}

func TestExtractRecordsEmptyContainer(t *testing.T) {
	container, ok := FindResults(parse(t, `<div class="search-results-chunk results-chunk"></div>`))
	require.True(t, ok)

	ex := ExtractRecords(container, nil)
	assert.Empty(t, ex.Records)
	assert.False(t, ex.Mismatch)
}

func TestExtractRecordsTruncatesOnMismatch(t *testing.T) {
	// Second row lacks its author span.
	page := `<div class="search-results-chunk results-chunk">
	  <a class="docsum-title">Zika virus in Brazil</a>
	  <span class="docsum-authors short-authors">Silva M.</span>
	  <span class="docsum-journal-citation full-journal-citation">Cell. 2020.</span>
	  <span class="docsum-journal-citation short-journal-citation">Cell. 2020.</span>
	  <span class="docsum-pmid">1</span>
	  <a class="docsum-title">Measles virus resurgence</a>
	  <span class="docsum-journal-citation full-journal-citation">Nature. 2020.</span>
	  <span class="docsum-journal-citation short-journal-citation">Nature. 2020.</span>
	  <span class="docsum-pmid">2</span>
	</div>`
	container, ok := FindResults(parse(t, page))
	require.True(t, ok)

	ex := ExtractRecords(container, nil)
	assert.True(t, ex.Mismatch)
	assert.Equal(t, 2, ex.Counts.PMID)
	assert.Equal(t, 1, ex.Counts.Author)
	require.Len(t, ex.Records, 1)
	assert.Equal(t, "1", ex.Records[0].PMID)
}

type fixedName string

func (f fixedName) Extract(string) (string, bool) { return string(f), true }

func TestExtractRecordsCustomExtractor(t *testing.T) {
	container, ok := FindResults(parse(t, resultsPage))
	require.True(t, ok)

	ex := ExtractRecords(container, fixedName("custom"))
	for _, r := range ex.Records {
		assert.Equal(t, "custom", r.VirusName)
	}
}

func TestFieldCountsString(t *testing.T) {
	c := FieldCounts{PMID: 3, Title: 3, Author: 2, Citation: 3, PublicationYear: 3}
	assert.Equal(t, "pmid=3 title=3 author=2 citation=3 year=3", c.String())
	assert.False(t, c.Equal())
	assert.Equal(t, 2, c.Shortest())
}
