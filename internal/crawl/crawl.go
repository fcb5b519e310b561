// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package crawl walks PubMed result pages month by month, appending the
// records on each page to the month's CSV file.
package crawl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/pubmed-crawler/internal/httputil"
	"github.com/pdiddy/pubmed-crawler/internal/output"
	"github.com/pdiddy/pubmed-crawler/internal/scrape"
	"github.com/pdiddy/pubmed-crawler/pkg/types"
)

// Fetcher retrieves and parses one result page. *httputil.Client satisfies it.
type Fetcher interface {
	GetDocument(ctx context.Context, url string) (*goquery.Document, error)
}

// RobotsChecker reports whether robots.txt permits fetching a URL.
// *httputil.Client satisfies it.
type RobotsChecker interface {
	Allowed(ctx context.Context, url string) (bool, error)
}

// ErrDisallowed is returned by Run when robots.txt disallows the search URL.
var ErrDisallowed = errors.New("robots.txt disallows the search URL")

// pageOutcome is what a single page fetch produced.
type pageOutcome int

const (
	pageRecords   pageOutcome = iota // container with at least one record
	pageNoRecords                    // container present but empty
	pageMissing                      // no results container
	pageHTTPError                    // non-200 response
)

// Driver crawls date windows sequentially. Fetcher and Config are required;
// the remaining fields have defaults.
type Driver struct {
	Fetcher Fetcher
	Config  types.CrawlConfig
	Output  types.OutputConfig

	// Pacer runs between consecutive page fetches of a window. Nil means
	// a JitterPacer over Config.MinDelay and Config.MaxDelay.
	Pacer Pacer

	// Names extracts the virus name from each title. Nil means the
	// default title pattern.
	Names scrape.NameExtractor

	// Robots, when set, is consulted once with the first window's URL
	// before any page is fetched.
	Robots RobotsChecker

	Logger *slog.Logger
}

func (d *Driver) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

// pacer returns d.Pacer, installing the default JitterPacer on first use.
func (d *Driver) pacer(w io.Writer) Pacer {
	if d.Pacer == nil {
		d.Pacer = NewJitterPacer(d.Config.MinDelay, d.Config.MaxDelay, w)
	}
	return d.Pacer
}

// Run crawls every window in order and returns the accumulated result. A
// transport or file error stops the run; the result then holds the windows
// completed so far and the partial files stay on disk.
func (d *Driver) Run(ctx context.Context, windows iter.Seq[types.DateWindow], w io.Writer) (types.CrawlResult, error) {
	if w == nil {
		w = io.Discard
	}
	var result types.CrawlResult
	checked := d.Robots == nil
	for win := range windows {
		if !checked {
			if err := d.checkRobots(ctx, win); err != nil {
				return result, err
			}
			checked = true
		}
		wr, err := d.CrawlWindow(ctx, win, w)
		if err != nil {
			return result, err
		}
		result.Add(wr)
	}
	fmt.Fprintf(w, "Crawl complete: %d windows, %d records\n", len(result.Windows), result.TotalRecords)
	return result, nil
}

func (d *Driver) checkRobots(ctx context.Context, win types.DateWindow) error {
	u := WindowURL(d.Config, win)
	ok, err := d.Robots.Allowed(ctx, u)
	if err != nil {
		return fmt.Errorf("checking robots.txt: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrDisallowed, u)
	}
	d.logger().Debug("robots.txt allows crawl", "url", u)
	return nil
}

// CrawlWindow pages through one window from page 1 up to the configured
// ceiling. The monthly file is created with its header before the first
// fetch, so every window yields a file even when it has no results.
func (d *Driver) CrawlWindow(ctx context.Context, win types.DateWindow, w io.Writer) (types.WindowResult, error) {
	if w == nil {
		w = io.Discard
	}
	log := d.logger().With("window", win.Label())
	pacer := d.pacer(w)

	wr := types.WindowResult{
		Window:     win,
		File:       output.MonthlyFile(d.Output.Dir, d.Output.Prefix, win),
		FinalState: types.AwaitingFirstPage,
	}
	if err := output.AppendRecords(wr.File, nil); err != nil {
		return wr, err
	}

	fmt.Fprintf(w, "Collecting %s into %s\n", win.Label(), wr.File)

	emptyRun := 0
	for page := 1; wr.FinalState != types.MonthExhausted; page++ {
		if page > 1 {
			if err := pacer.Wait(ctx); err != nil {
				return wr, err
			}
		}

		outcome, err := d.crawlPage(ctx, &wr, page, w, log)
		if err != nil {
			return wr, err
		}
		if outcome == pageRecords {
			emptyRun = 0
		} else {
			emptyRun++
		}
		wr.FinalState = d.next(wr.FinalState, outcome, page, emptyRun)
		log.Debug("page done", "page", page, "state", wr.FinalState)
	}

	fmt.Fprintf(w, "  %s: %d records, %d pages fetched, %d empty, %d http errors\n",
		win.Label(), wr.Records, wr.PagesFetched, wr.PagesEmpty, wr.PagesHTTPError)
	return wr, nil
}

// next computes the state after a page. The window is exhausted when the
// following page would reach the ceiling, or when the consecutive-empty cap
// is set and reached. A miss on page 1 is not a soft failure.
func (d *Driver) next(state types.MonthState, outcome pageOutcome, page, emptyRun int) types.MonthState {
	if page+1 >= d.Config.PageCeiling {
		return types.MonthExhausted
	}
	if d.Config.MaxConsecutiveEmpty > 0 && emptyRun >= d.Config.MaxConsecutiveEmpty {
		return types.MonthExhausted
	}
	if state != types.AwaitingFirstPage && (outcome == pageMissing || outcome == pageHTTPError) {
		return types.MonthFailedSoft
	}
	return types.PagingFurtherPages
}

func (d *Driver) crawlPage(ctx context.Context, wr *types.WindowResult, page int, w io.Writer, log *slog.Logger) (pageOutcome, error) {
	url := PageURL(d.Config, wr.Window, page)
	log.Debug("fetching", "page", page, "url", url)

	doc, err := d.Fetcher.GetDocument(ctx, url)
	var se *httputil.StatusError
	if errors.As(err, &se) {
		wr.PagesHTTPError++
		fmt.Fprintf(w, "Unable to fetch page %d (HTTP %d). Skipping...\n", page, se.Code)
		log.Warn("non-200 response", "page", page, "status", se.Code)
		return pageHTTPError, nil
	}
	if err != nil {
		return pageMissing, fmt.Errorf("fetching page %d of %s: %w", page, wr.Window.Label(), err)
	}
	wr.PagesFetched++

	container, ok := scrape.FindResults(doc)
	if !ok {
		wr.PagesEmpty++
		if page > 1 {
			fmt.Fprintf(w, "Unable to extract data from page %d. Skipping...\n", page)
		}
		return pageMissing, nil
	}

	ex := scrape.ExtractRecords(container, d.Names)
	if ex.Mismatch {
		wr.Mismatches++
		log.Warn("field count mismatch, truncating", "page", page, "counts", ex.Counts.String())
	}
	if len(ex.Records) == 0 {
		return pageNoRecords, nil
	}

	if err := output.AppendRecords(wr.File, ex.Records); err != nil {
		return pageRecords, err
	}
	wr.Records += len(ex.Records)
	return pageRecords, nil
}
