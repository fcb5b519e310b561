// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pubmed-crawler/pkg/types"
)

const header = "PMID,Title,Author,Citation,Publication Year,Virus Name"

func rec(pmid, title string) types.Record {
	return types.Record{
		PMID:            pmid,
		Title:           title,
		Author:          "Smith J, Doe A.",
		Citation:        "Lancet. 2020 Feb 15;395(10223):497-506.",
		PublicationYear: "Lancet. 2020.",
	}
}

func lines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

// --- monthly writer ---

func TestMonthlyFile(t *testing.T) {
	w := types.DateWindow{Year: 2020, Month: time.March}
	assert.Equal(t, filepath.Join("out", "pubmed_data_2020_03.csv"), MonthlyFile("out", "pubmed_data_", w))
}

func TestAppendRecordsWritesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.csv")

	require.NoError(t, AppendRecords(path, []types.Record{rec("1", "Ebola virus outbreak")}))
	require.NoError(t, AppendRecords(path, []types.Record{rec("2", "Zika virus"), rec("3", "Flu")}))

	got := lines(t, path)
	require.Len(t, got, 4)
	assert.Equal(t, header, got[0])
	assert.True(t, strings.HasPrefix(got[1], "1,"))
	assert.True(t, strings.HasPrefix(got[2], "2,"))
	assert.True(t, strings.HasPrefix(got[3], "3,"))
}

func TestAppendRecordsEmptyWritesHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.csv")
	require.NoError(t, AppendRecords(path, nil))
	assert.Equal(t, []string{header}, lines(t, path))

	// A second empty append leaves the file unchanged.
	require.NoError(t, AppendRecords(path, nil))
	assert.Equal(t, []string{header}, lines(t, path))
}

func TestAppendRecordsDuplicatesOnRerun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.csv")
	rows := []types.Record{rec("1", "A"), rec("2", "B")}

	require.NoError(t, AppendRecords(path, rows))
	require.NoError(t, AppendRecords(path, rows))

	got, err := ReadRecords(path)
	require.NoError(t, err)
	require.Len(t, got, 4, "the writer only guards the header, not the rows")
	assert.Equal(t, got[0], got[2])
	assert.Equal(t, got[1], got[3])
}

func TestAppendRecordsQuotesCommas(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.csv")
	r := rec("9", `Title, with "quotes"`)
	r.VirusName = "Ebola virus"
	require.NoError(t, AppendRecords(path, []types.Record{r}))

	got, err := ReadRecords(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, r, got[0])
}

func TestAppendRecordsMissingDir(t *testing.T) {
	err := AppendRecords(filepath.Join(t.TempDir(), "nope", "m.csv"), nil)
	assert.Error(t, err)
}

// --- merge ---

func TestMergeConcatenatesInOrder(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.csv")
	b := filepath.Join(dir, "b.csv")
	c := filepath.Join(dir, "c.csv")
	require.NoError(t, AppendRecords(a, []types.Record{rec("1", "one"), rec("2", "two")}))
	require.NoError(t, AppendRecords(b, nil))
	require.NoError(t, AppendRecords(c, []types.Record{rec("3", "three")}))

	out := filepath.Join(dir, "merged.csv")
	summary, err := Merge([]string{a, b, c}, out)
	require.NoError(t, err)
	assert.Equal(t, MergeSummary{Files: 3, Rows: 3}, summary)

	got := lines(t, out)
	require.Len(t, got, 4)
	assert.Equal(t, header, got[0])
	assert.Equal(t, 1, strings.Count(strings.Join(got, "\n"), header), "exactly one header")

	records, err := ReadRecords(out)
	require.NoError(t, err)
	var pmids []string
	for _, r := range records {
		pmids = append(pmids, r.PMID)
	}
	assert.Equal(t, []string{"1", "2", "3"}, pmids)
}

func TestMergeMissingFileAborts(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.csv")
	require.NoError(t, AppendRecords(a, []types.Record{rec("1", "one")}))

	out := filepath.Join(dir, "merged.csv")
	_, err := Merge([]string{a, filepath.Join(dir, "missing.csv")}, out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.csv")

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "merged file should not be written")
}

func TestMergeNoFiles(t *testing.T) {
	_, err := Merge(nil, filepath.Join(t.TempDir(), "merged.csv"))
	assert.ErrorIs(t, err, ErrNoFiles)
}

func TestMergeZeroByteFile(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))

	out := filepath.Join(dir, "merged.csv")
	summary, err := Merge([]string{empty}, out)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Rows)
	assert.Equal(t, []string{header}, lines(t, out))
}

// --- manifest ---

func TestManifestRoundTrip(t *testing.T) {
	cfg := types.CrawlConfig{Term: "VIRUS", Start: "2020-01", End: "2020-02"}
	var result types.CrawlResult
	result.Add(types.WindowResult{
		Window:     types.DateWindow{Start: "2020%2F01%2F01", End: "2020%2F01%2F31", Year: 2020, Month: time.January},
		File:       "pubmed_data_2020_01.csv",
		Records:    5,
		FinalState: types.MonthExhausted,
	})
	result.Add(types.WindowResult{
		Window:     types.DateWindow{Start: "2020%2F02%2F01", End: "2020%2F02%2F29", Year: 2020, Month: time.February},
		File:       "pubmed_data_2020_02.csv",
		Records:    2,
		FinalState: types.MonthExhausted,
	})

	path := filepath.Join(t.TempDir(), "crawl-manifest.yaml")
	require.NoError(t, WriteManifest(path, NewManifest(cfg, result)))

	m, err := ReadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, "VIRUS", m.Term)
	assert.Equal(t, []string{"pubmed_data_2020_01.csv", "pubmed_data_2020_02.csv"}, m.Files)
	assert.Equal(t, 7, m.Summary.Records)
	assert.Equal(t, 2, m.Summary.Windows)
	require.Len(t, m.Windows, 2)
	assert.Equal(t, time.February, m.Windows[1].Window.Month)
}

func TestReadManifestMissing(t *testing.T) {
	_, err := ReadManifest(filepath.Join(t.TempDir(), "none.yaml"))
	assert.Error(t, err)
}
