// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pubmed-crawler/pkg/types"
)

// Manifest is the on-disk summary of a crawl run. It lists the monthly files
// in window order so a later merge can run without re-deriving them. It is
// a report, not resume state: nothing reads it to skip work.
type Manifest struct {
	Term    string               `yaml:"term"`
	Start   string               `yaml:"start"`
	End     string               `yaml:"end"`
	Files   []string             `yaml:"files"`
	Windows []types.WindowResult `yaml:"windows"`
	Summary ManifestSummary      `yaml:"summary"`
}

// ManifestSummary stores run totals and a timestamp.
type ManifestSummary struct {
	Windows   int       `yaml:"windows"`
	Records   int       `yaml:"records"`
	Timestamp time.Time `yaml:"timestamp"`
}

// NewManifest builds a Manifest from a crawl result.
func NewManifest(cfg types.CrawlConfig, result types.CrawlResult) Manifest {
	return Manifest{
		Term:    cfg.Term,
		Start:   cfg.Start,
		End:     cfg.End,
		Files:   result.Files,
		Windows: result.Windows,
		Summary: ManifestSummary{
			Windows:   len(result.Windows),
			Records:   result.TotalRecords,
			Timestamp: time.Now().UTC(),
		},
	}
}

// WriteManifest saves m as YAML at path.
func WriteManifest(path string, m Manifest) error {
	data, err := yaml.Marshal(&m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing manifest %s: %w", path, err)
	}
	return nil
}

// ReadManifest loads a Manifest from path.
func ReadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return m, nil
}
