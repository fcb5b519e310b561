// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crawl

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/pdiddy/pubmed-crawler/pkg/types"
)

// WindowURL builds the search URL for the first page of win. The window's
// dates are already percent-encoded and are written verbatim.
func WindowURL(cfg types.CrawlConfig, win types.DateWindow) string {
	var b strings.Builder
	b.WriteString(cfg.BaseURL)
	b.WriteString("?term=")
	b.WriteString(url.QueryEscape(cfg.Term))
	b.WriteString("&filter=dates.")
	b.WriteString(win.Start)
	b.WriteString("-")
	b.WriteString(win.End)
	if cfg.ExcludePreprints {
		b.WriteString("&filter=other.excludepreprints")
	}
	b.WriteString("&timeline=expanded")
	fmt.Fprintf(&b, "&size=%d", cfg.PageSize)
	return b.String()
}

// PageURL builds the search URL for a page of win. Page 1 has no page
// parameter.
func PageURL(cfg types.CrawlConfig, win types.DateWindow, page int) string {
	if page <= 1 {
		return WindowURL(cfg, win)
	}
	return fmt.Sprintf("%s&page=%d", WindowURL(cfg, win), page)
}
