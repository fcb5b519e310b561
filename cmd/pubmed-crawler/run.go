// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Crawl every month, then merge the monthly files",
	Long: `Run performs crawl followed by merge. With no flags or config it covers
2020-01 through 2023-09 for the term VIRUS.`,
	RunE: runRun,
}

func init() {
	addCrawlFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, mergeKeys(rangeFlagKeys, crawlFlagKeys)); err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	result, err := crawlMonths(cmd.Context(), cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	return mergeMonthly(cfg, result.Files, cmd.OutOrStdout())
}
