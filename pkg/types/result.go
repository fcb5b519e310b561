// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// MonthState is the crawl driver's state while paging through one window.
type MonthState string

const (
	AwaitingFirstPage  MonthState = "awaiting_first_page"
	PagingFurtherPages MonthState = "paging_further_pages"
	MonthFailedSoft    MonthState = "month_failed_soft"
	MonthExhausted     MonthState = "month_exhausted"
)

// WindowResult summarizes the crawl of a single DateWindow.
type WindowResult struct {
	Window DateWindow `json:"window" yaml:"window"`

	// File is the monthly CSV the window's records were appended to.
	File string `json:"file" yaml:"file"`

	// PagesFetched counts every page request that returned a response.
	PagesFetched int `json:"pages_fetched" yaml:"pages_fetched"`

	// PagesEmpty counts pages without a results container.
	PagesEmpty int `json:"pages_empty" yaml:"pages_empty"`

	// PagesHTTPError counts pages answered with a non-200 status.
	PagesHTTPError int `json:"pages_http_error" yaml:"pages_http_error"`

	// Records is the number of rows written for the window.
	Records int `json:"records" yaml:"records"`

	// Mismatches counts pages whose field sequences had unequal lengths.
	Mismatches int `json:"mismatches" yaml:"mismatches"`

	// FinalState is the state the window ended in.
	FinalState MonthState `json:"final_state" yaml:"final_state"`
}

// CrawlResult accumulates per-window results in generation order. Files
// lists each monthly file once, in window order, and is the input to merge.
type CrawlResult struct {
	Windows      []WindowResult `json:"windows" yaml:"windows"`
	Files        []string       `json:"files" yaml:"files"`
	TotalRecords int            `json:"total_records" yaml:"total_records"`
}

// Add appends a window result and its file to the accumulator.
func (r *CrawlResult) Add(wr WindowResult) {
	r.Windows = append(r.Windows, wr)
	r.Files = append(r.Files, wr.File)
	r.TotalRecords += wr.Records
}
