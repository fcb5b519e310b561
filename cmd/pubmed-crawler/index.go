// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/pdiddy/pubmed-crawler/internal/index"
	"github.com/pdiddy/pubmed-crawler/internal/output"
	"github.com/pdiddy/pubmed-crawler/pkg/types"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Load the merged CSV into a SQLite index and query it",
	Long: `Index manages a local SQLite database built from the merged CSV. Use
subcommands to load records, print summaries, or search them.`,
}

var indexFlagKeys = map[string]string{
	"db":         "index.path",
	"output-dir": "output.dir",
}

// --- load subcommand ---

var indexLoadCmd = &cobra.Command{
	Use:   "load",
	Short: "Replace the index contents with the merged CSV",
	RunE:  runIndexLoad,
}

func runIndexLoad(cmd *cobra.Command, args []string) error {
	cfg, store, err := openIndex(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	input, _ := cmd.Flags().GetString("input")
	if input == "" {
		input = filepath.Join(cfg.Output.Dir, cfg.Output.Merged)
	}
	records, err := output.ReadRecords(input)
	if err != nil {
		return err
	}

	n, err := store.Load(cmd.Context(), records)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d records from %s into %s\n", n, input, cfg.Index.Path)
	return nil
}

// --- stats subcommand ---

var indexStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print record counts per virus and per year",
	RunE:  runIndexStats,
}

type indexStats struct {
	Records int           `json:"records"`
	Viruses []index.Tally `json:"viruses"`
	Years   []index.Tally `json:"years"`
}

func runIndexStats(cmd *cobra.Command, args []string) error {
	_, store, err := openIndex(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	top, _ := cmd.Flags().GetInt("top")

	var stats indexStats
	if stats.Records, err = store.Count(ctx); err != nil {
		return err
	}
	if stats.Viruses, err = store.VirusCounts(ctx, top); err != nil {
		return err
	}
	if stats.Years, err = store.YearCounts(ctx); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return writeJSON(w, stats)
	}

	fmt.Fprintf(w, "%d records\n\n", stats.Records)
	printTallies(w, "Virus", stats.Viruses)
	fmt.Fprintln(w)
	printTallies(w, "Year", stats.Years)
	return nil
}

func printTallies(w io.Writer, heading string, tallies []index.Tally) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{heading, "Count"})
	for _, tally := range tallies {
		t.AppendRow(table.Row{tally.Key, tally.Count})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

// --- search subcommand ---

var indexSearchCmd = &cobra.Command{
	Use:   "search [title words]",
	Short: "Search indexed records by title, virus name or year",
	RunE:  runIndexSearch,
}

func runIndexSearch(cmd *cobra.Command, args []string) error {
	_, store, err := openIndex(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	q := index.Query{Title: strings.Join(args, " ")}
	q.Virus, _ = cmd.Flags().GetString("virus")
	q.Year, _ = cmd.Flags().GetInt("year")
	q.MaxResults, _ = cmd.Flags().GetInt("max-results")
	if q.Title == "" && q.Virus == "" && q.Year == 0 {
		return fmt.Errorf("provide title words, --virus, or --year")
	}

	results, err := store.Search(cmd.Context(), q)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return writeJSON(w, results)
	}
	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"PMID", "Title", "Virus", "Published"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Title", WidthMax: 60},
		{Name: "Published", WidthMax: 40},
	})
	for _, r := range results {
		t.AppendRow(table.Row{r.PMID, r.Title, r.VirusName, r.PublicationYear})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d results", len(results))})
	t.SetStyle(table.StyleRounded)
	t.Render()
	return nil
}

// --- shared helpers ---

func openIndex(cmd *cobra.Command) (types.PipelineConfig, *index.Store, error) {
	if err := bindFlags(cmd, indexFlagKeys); err != nil {
		return types.PipelineConfig{}, nil, err
	}
	cfg, err := loadConfig()
	if err != nil {
		return cfg, nil, err
	}
	store, err := index.Open(cfg.Index)
	return cfg, store, err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	for _, c := range []*cobra.Command{indexLoadCmd, indexStatsCmd, indexSearchCmd} {
		c.Flags().String("db", "", "SQLite index file (default pubmed-index.db)")
		indexCmd.AddCommand(c)
	}

	indexLoadCmd.Flags().String("input", "", "CSV file to load (default: merged file in the output directory)")
	indexLoadCmd.Flags().String("output-dir", "", "directory holding the merged file (default .)")

	indexStatsCmd.Flags().Int("top", 0, "number of virus names to list (default index.max_results)")
	indexStatsCmd.Flags().Bool("json", false, "output as JSON")

	indexSearchCmd.Flags().String("virus", "", "filter by virus name (case-insensitive)")
	indexSearchCmd.Flags().Int("year", 0, "filter by publication year")
	indexSearchCmd.Flags().Int("max-results", 0, "maximum number of results (default index.max_results)")
	indexSearchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(indexCmd)
}
