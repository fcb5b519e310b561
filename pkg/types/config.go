// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
	"time"
)

// Configuration validation errors.
var (
	ErrEmptyTerm        = errors.New("crawl.term must not be empty")
	ErrInvalidPageSize  = errors.New("crawl.page_size must be positive")
	ErrInvalidCeiling   = errors.New("crawl.page_ceiling must be at least 2")
	ErrNegativeDelay    = errors.New("crawl.min_delay and crawl.max_delay must be non-negative")
	ErrDelayOrder       = errors.New("crawl.min_delay cannot exceed crawl.max_delay")
	ErrNegativeEmptyCap = errors.New("crawl.max_consecutive_empty must be non-negative")
	ErrInvalidMonth     = errors.New("invalid month (want YYYY-MM)")
)

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout bounds each page request, including reading the body.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// RequestsPerSecond caps the request rate regardless of the jitter
	// delay. Zero disables the cap.
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// CrawlConfig holds settings for the crawl stage.
type CrawlConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the search results endpoint (e.g. "https://pubmed.ncbi.nlm.nih.gov/").
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// Term is the fixed search term.
	Term string `json:"term" yaml:"term" mapstructure:"term"`

	// PageSize is the number of results requested per page.
	PageSize int `json:"page_size" yaml:"page_size" mapstructure:"page_size"`

	// ExcludePreprints adds the preprint exclusion filter.
	ExcludePreprints bool `json:"exclude_preprints" yaml:"exclude_preprints" mapstructure:"exclude_preprints"`

	// PageCeiling is the exclusive upper bound on page numbers per window.
	PageCeiling int `json:"page_ceiling" yaml:"page_ceiling" mapstructure:"page_ceiling"`

	// MaxConsecutiveEmpty stops a window after this many consecutive pages
	// without results. Zero pages through to the ceiling.
	MaxConsecutiveEmpty int `json:"max_consecutive_empty" yaml:"max_consecutive_empty" mapstructure:"max_consecutive_empty"`

	// MinDelay and MaxDelay bound the uniform random wait between pages.
	MinDelay time.Duration `json:"min_delay" yaml:"min_delay" mapstructure:"min_delay"`
	MaxDelay time.Duration `json:"max_delay" yaml:"max_delay" mapstructure:"max_delay"`

	// RespectRobots checks the site's robots.txt before the first request
	// and refuses to crawl when the search path is disallowed.
	RespectRobots bool `json:"respect_robots" yaml:"respect_robots" mapstructure:"respect_robots"`

	// Start and End are the first and last months crawled, as "YYYY-MM".
	Start string `json:"start" yaml:"start" mapstructure:"start"`
	End   string `json:"end" yaml:"end" mapstructure:"end"`
}

// Validate checks the crawl settings for values the driver cannot run with.
func (c CrawlConfig) Validate() error {
	if c.Term == "" {
		return ErrEmptyTerm
	}
	if c.PageSize <= 0 {
		return ErrInvalidPageSize
	}
	if c.PageCeiling < 2 {
		return ErrInvalidCeiling
	}
	if c.MinDelay < 0 || c.MaxDelay < 0 {
		return ErrNegativeDelay
	}
	if c.MinDelay > c.MaxDelay {
		return ErrDelayOrder
	}
	if c.MaxConsecutiveEmpty < 0 {
		return ErrNegativeEmptyCap
	}
	if c.BaseURL == "" {
		return fmt.Errorf("crawl.base_url must not be empty")
	}
	if err := validMonth("crawl.start", c.Start); err != nil {
		return err
	}
	return validMonth("crawl.end", c.End)
}

func validMonth(key, month string) error {
	if _, err := time.Parse("2006-01", month); err != nil {
		return fmt.Errorf("%s %q: %w", key, month, ErrInvalidMonth)
	}
	return nil
}

// OutputConfig controls where CSV files and the crawl manifest are written.
type OutputConfig struct {
	// Dir is the directory holding monthly files, the merged file and the manifest.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// Prefix is prepended to each monthly file name ("pubmed_data_2020_01.csv").
	Prefix string `json:"prefix" yaml:"prefix" mapstructure:"prefix"`

	// Merged is the merged CSV file name.
	Merged string `json:"merged" yaml:"merged" mapstructure:"merged"`

	// Manifest is the crawl manifest file name.
	Manifest string `json:"manifest" yaml:"manifest" mapstructure:"manifest"`
}

// IndexConfig holds settings for the SQLite record index.
type IndexConfig struct {
	// Path is the SQLite database file.
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// MaxResults is the default maximum number of query results.
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Crawl  CrawlConfig  `json:"crawl" yaml:"crawl" mapstructure:"crawl"`
	Output OutputConfig `json:"output" yaml:"output" mapstructure:"output"`
	Index  IndexConfig  `json:"index" yaml:"index" mapstructure:"index"`
}
