// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pubmed-crawler/internal/output"
	"github.com/pdiddy/pubmed-crawler/internal/window"
	"github.com/pdiddy/pubmed-crawler/pkg/types"
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge monthly CSV files into one combined CSV",
	Long: `Merge reads every monthly CSV file in window order and writes them as one
combined file with a single header. The file list comes from the crawl
manifest when one exists, otherwise from the configured month range.
Passing --start or --end selects the month range even when a manifest
exists.
A missing monthly file aborts the merge without writing output.`,
	RunE: runMerge,
}

func init() {
	addRangeFlags(mergeCmd)
	rootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, rangeFlagKeys); err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	files, err := monthlyFiles(cfg, rangeFlagsSet(cmd))
	if err != nil {
		return err
	}
	return mergeMonthly(cfg, files, cmd.OutOrStdout())
}

// rangeFlagsSet reports whether --start or --end was given on the command
// line.
func rangeFlagsSet(cmd *cobra.Command) bool {
	return cmd.Flags().Changed("start") || cmd.Flags().Changed("end")
}

// monthlyFiles lists the monthly files to merge. The manifest is preferred
// unless fromRange is set, in which case the configured month range wins.
func monthlyFiles(cfg types.PipelineConfig, fromRange bool) ([]string, error) {
	manifestPath := filepath.Join(cfg.Output.Dir, cfg.Output.Manifest)
	m, err := output.ReadManifest(manifestPath)
	switch {
	case err == nil && !fromRange:
		return m.Files, nil
	case err == nil:
		slog.Warn("explicit month range overrides crawl manifest",
			"manifest", manifestPath, "start", cfg.Crawl.Start, "end", cfg.Crawl.End)
	case !errors.Is(err, fs.ErrNotExist):
		return nil, err
	}
	return rangeFiles(cfg)
}

// rangeFiles derives the monthly file names from the configured range.
func rangeFiles(cfg types.PipelineConfig) ([]string, error) {
	months, err := window.Range(cfg.Crawl.Start, cfg.Crawl.End)
	if err != nil {
		return nil, err
	}
	var files []string
	for win := range months {
		files = append(files, output.MonthlyFile(cfg.Output.Dir, cfg.Output.Prefix, win))
	}
	return files, nil
}

func mergeMonthly(cfg types.PipelineConfig, files []string, w io.Writer) error {
	out := filepath.Join(cfg.Output.Dir, cfg.Output.Merged)
	summary, err := output.Merge(files, out)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "All data merged into %s (%d files, %d rows)\n", out, summary.Files, summary.Rows)
	return nil
}
