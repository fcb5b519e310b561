// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pubmed-crawler/internal/export"
	"github.com/pdiddy/pubmed-crawler/internal/output"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export merged records as CSL-YAML, CSL-JSON or JSON",
	Long: `Export reads the merged CSV and writes it as a CSL bibliography
(csl-yaml or csl-json, usable with Pandoc and reference managers) or as a
plain JSON array of records. Output goes to stdout unless --out is given.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("format", string(export.FormatCSLYAML), "output format: csl-yaml, csl-json, json")
	exportCmd.Flags().String("input", "", "CSV file to export (default: merged file in the output directory)")
	exportCmd.Flags().String("out", "", "output file (default stdout)")
	exportCmd.Flags().String("output-dir", "", "directory holding the merged file (default .)")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) (err error) {
	if err := bindFlags(cmd, map[string]string{"output-dir": "output.dir"}); err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	input, _ := cmd.Flags().GetString("input")
	if input == "" {
		input = filepath.Join(cfg.Output.Dir, cfg.Output.Merged)
	}
	records, err := output.ReadRecords(input)
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	outPath, _ := cmd.Flags().GetString("out")

	var w io.Writer = cmd.OutOrStdout()
	if outPath != "" {
		f, cerr := os.Create(outPath)
		if cerr != nil {
			return fmt.Errorf("creating %s: %w", outPath, cerr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		w = f
	}

	if err := export.Write(w, records, export.Format(format)); err != nil {
		return err
	}
	if outPath != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d records to %s\n", len(records), outPath)
	}
	return nil
}
