// Package main contains Mage build targets for pubmed-crawler developer tooling.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir  = "bin"
	binName = "pubmed-crawler"
	cmdPkg  = "./cmd/pubmed-crawler"
	dataDir = "data"
)

// Init creates the output directory used by the Crawl, Merge and Index targets.
func Init() error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dataDir, err)
	}
	fmt.Println("  ", dataDir)
	fmt.Println("Project directories initialized.")
	return nil
}

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs all package tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Lint runs go vet over the module.
func Lint() error {
	return sh.RunV("go", "vet", "./...")
}

// Crawl builds the CLI and crawls the default month range into data/.
func Crawl() error {
	mg.Deps(Init, Build)
	return sh.RunV(filepath.Join(binDir, binName), "crawl", "--output-dir", dataDir)
}

// Merge merges the monthly files in data/ into the combined CSV.
func Merge() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "merge", "--output-dir", dataDir)
}

// Index loads the merged CSV from data/ into the SQLite index and prints its stats.
func Index() error {
	mg.Deps(Build)
	bin := filepath.Join(binDir, binName)
	db := filepath.Join(dataDir, "pubmed-index.db")
	if err := sh.RunV(bin, "index", "load", "--output-dir", dataDir, "--db", db); err != nil {
		return err
	}
	return sh.RunV(bin, "index", "stats", "--db", db)
}

// Clean removes the binary and everything the pipeline wrote to data/.
func Clean() error {
	for _, path := range []string{binDir, dataDir} {
		if err := sh.Rm(path); err != nil {
			return fmt.Errorf("removing %s: %w", path, err)
		}
		fmt.Println("removed", path)
	}
	return nil
}

// Stats prints project metrics: Go production and test line counts.
func Stats() error {
	prodLines, err := countGoLines(".", false)
	if err != nil {
		return err
	}
	testLines, err := countGoLines(".", true)
	if err != nil {
		return err
	}

	fmt.Printf("Lines of code (Go, production): %d\n", prodLines)
	fmt.Printf("Lines of code (Go, tests):      %d\n", testLines)
	return nil
}

// countGoLines walks the directory tree and counts non-blank lines in Go files.
// If testOnly is true, count only _test.go files; otherwise count non-test .go files.
func countGoLines(root string, testOnly bool) (int, error) {
	total := 0
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if name := d.Name(); path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" || strings.HasSuffix(path, "_test.go") != testOnly {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		for _, line := range strings.Split(string(data), "\n") {
			if strings.TrimSpace(line) != "" {
				total++
			}
		}
		return nil
	})
	return total, err
}
