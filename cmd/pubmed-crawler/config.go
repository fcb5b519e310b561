// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"maps"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pubmed-crawler/internal/secrets"
	"github.com/pdiddy/pubmed-crawler/pkg/types"
)

const envPrefix = "PUBMED_CRAWLER"

// setDefaults registers the default pipeline settings. With no config file,
// environment or flags these reproduce the 2020-01 to 2023-09 VIRUS crawl.
func setDefaults() {
	viper.SetDefault("crawl.base_url", "https://pubmed.ncbi.nlm.nih.gov/")
	viper.SetDefault("crawl.term", "VIRUS")
	viper.SetDefault("crawl.page_size", 200)
	viper.SetDefault("crawl.exclude_preprints", true)
	viper.SetDefault("crawl.page_ceiling", 60)
	viper.SetDefault("crawl.max_consecutive_empty", 0)
	viper.SetDefault("crawl.min_delay", 1500*time.Millisecond)
	viper.SetDefault("crawl.max_delay", 2500*time.Millisecond)
	viper.SetDefault("crawl.timeout", 30*time.Second)
	viper.SetDefault("crawl.user_agent", "pubmed-crawler/0.1")
	viper.SetDefault("crawl.requests_per_second", 1.0)
	viper.SetDefault("crawl.respect_robots", false)
	viper.SetDefault("crawl.start", "2020-01")
	viper.SetDefault("crawl.end", "2023-09")

	viper.SetDefault("output.dir", ".")
	viper.SetDefault("output.prefix", "pubmed_data_")
	viper.SetDefault("output.merged", "merged_pubmed_data.csv")
	viper.SetDefault("output.manifest", "crawl-manifest.yaml")

	viper.SetDefault("index.path", "pubmed-index.db")
	viper.SetDefault("index.max_results", 20)
}

// loadConfig unmarshals the resolved settings. The contact email secret, if
// present, is appended to the User-Agent.
func loadConfig() (types.PipelineConfig, error) {
	var cfg types.PipelineConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Crawl.UserAgent = secrets.UserAgent(cfg.Crawl.UserAgent, loadedSecrets)
	return cfg, nil
}

// bindFlags binds each named flag of cmd to its config key. Binding happens
// when the command runs so that commands sharing a key do not override each
// other's flags.
func bindFlags(cmd *cobra.Command, keys map[string]string) error {
	for name, key := range keys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := viper.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding --%s: %w", name, err)
		}
	}
	return nil
}

// Flags shared by crawl, merge and run.
var (
	rangeFlagKeys = map[string]string{
		"start":      "crawl.start",
		"end":        "crawl.end",
		"output-dir": "output.dir",
	}
	crawlFlagKeys = map[string]string{
		"term":                  "crawl.term",
		"page-ceiling":          "crawl.page_ceiling",
		"max-consecutive-empty": "crawl.max_consecutive_empty",
		"min-delay":             "crawl.min_delay",
		"max-delay":             "crawl.max_delay",
		"timeout":               "crawl.timeout",
		"respect-robots":        "crawl.respect_robots",
	}
)

func addRangeFlags(cmd *cobra.Command) {
	cmd.Flags().String("start", "", "first month to crawl, YYYY-MM (default 2020-01)")
	cmd.Flags().String("end", "", "last month to crawl, YYYY-MM (default 2023-09)")
	cmd.Flags().String("output-dir", "", "directory for monthly, merged and manifest files (default .)")
}

func addCrawlFlags(cmd *cobra.Command) {
	addRangeFlags(cmd)
	cmd.Flags().String("term", "", "search term (default VIRUS)")
	cmd.Flags().Int("page-ceiling", 0, "exclusive upper bound on page numbers per month (default 60)")
	cmd.Flags().Int("max-consecutive-empty", 0, "stop a month after this many empty pages in a row (0 pages to the ceiling)")
	cmd.Flags().Duration("min-delay", 0, "minimum wait between page fetches (default 1.5s)")
	cmd.Flags().Duration("max-delay", 0, "maximum wait between page fetches (default 2.5s)")
	cmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 30s)")
	cmd.Flags().Bool("respect-robots", false, "refuse to crawl when robots.txt disallows the search path")
}

// mergeKeys combines flag-to-key maps.
func mergeKeys(sets ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, m := range sets {
		maps.Copy(out, m)
	}
	return out
}
