// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pubmed-crawler/internal/crawl"
	"github.com/pdiddy/pubmed-crawler/internal/httputil"
	"github.com/pdiddy/pubmed-crawler/internal/output"
	"github.com/pdiddy/pubmed-crawler/internal/window"
	"github.com/pdiddy/pubmed-crawler/pkg/types"
)

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Crawl result pages for each month into monthly CSV files",
	Long: `Crawl fetches the search results for every month in the configured range,
page by page, and appends the records on each page to that month's CSV file.
A randomized wait separates consecutive page fetches within a month.

Monthly files are appended to, not replaced: re-running over existing output
duplicates rows. A crawl manifest listing the files is written at the end,
also when the crawl stops on an error.`,
	RunE: runCrawl,
}

func init() {
	addCrawlFlags(crawlCmd)
	rootCmd.AddCommand(crawlCmd)
}

func runCrawl(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, mergeKeys(rangeFlagKeys, crawlFlagKeys)); err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	_, err = crawlMonths(cmd.Context(), cfg, cmd.OutOrStdout())
	return err
}

// crawlMonths runs the crawl driver over cfg's month range and writes the
// manifest.
func crawlMonths(ctx context.Context, cfg types.PipelineConfig, w io.Writer) (types.CrawlResult, error) {
	if err := cfg.Crawl.Validate(); err != nil {
		return types.CrawlResult{}, err
	}
	months, err := window.Range(cfg.Crawl.Start, cfg.Crawl.End)
	if err != nil {
		return types.CrawlResult{}, err
	}
	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return types.CrawlResult{}, fmt.Errorf("creating output directory: %w", err)
	}

	client := httputil.NewClient(cfg.Crawl.HTTPConfig)
	d := &crawl.Driver{
		Fetcher: client,
		Config:  cfg.Crawl,
		Output:  cfg.Output,
		Logger:  slog.Default(),
	}
	if cfg.Crawl.RespectRobots {
		d.Robots = client
	}

	fmt.Fprintln(w, "Starting data collection...")
	result, runErr := d.Run(ctx, months, w)

	manifestPath := filepath.Join(cfg.Output.Dir, cfg.Output.Manifest)
	if err := output.WriteManifest(manifestPath, output.NewManifest(cfg.Crawl, result)); err != nil {
		if runErr == nil {
			return result, err
		}
		slog.Warn("manifest not written", "path", manifestPath, "err", err)
	}
	if runErr != nil {
		return result, runErr
	}

	fmt.Fprintln(w, "Individual monthly data extracted.")
	return result, nil
}
