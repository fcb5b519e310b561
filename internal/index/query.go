// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pdiddy/pubmed-crawler/pkg/types"
)

// Tally is one group in a summary query.
type Tally struct {
	Key   string `json:"key" yaml:"key"`
	Count int    `json:"count" yaml:"count"`
}

// VirusCounts returns the number of records per virus name, most frequent
// first. Names are grouped case-insensitively; records without a name are
// left out. A limit of zero uses the store default.
func (s *Store) VirusCounts(ctx context.Context, limit int) ([]Tally, error) {
	if limit <= 0 {
		limit = s.maxResults
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT min(virus_name), count(*) AS n
		FROM records
		WHERE virus_name <> ''
		GROUP BY virus_name COLLATE NOCASE
		ORDER BY n DESC, min(virus_name)
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying virus counts: %w", err)
	}
	return scanTallies(rows)
}

// YearCounts returns the number of records per publication year in
// ascending year order. Records without a recognizable year are grouped
// under "unknown", listed last.
func (s *Store) YearCounts(ctx context.Context) ([]Tally, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT coalesce(CAST(year AS TEXT), 'unknown'), count(*)
		FROM records
		GROUP BY year
		ORDER BY year IS NULL, year`)
	if err != nil {
		return nil, fmt.Errorf("querying year counts: %w", err)
	}
	return scanTallies(rows)
}

func scanTallies(rows *sql.Rows) ([]Tally, error) {
	defer rows.Close()
	var out []Tally
	for rows.Next() {
		var t Tally
		if err := rows.Scan(&t.Key, &t.Count); err != nil {
			return nil, fmt.Errorf("scanning tally: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Query holds search filters. Empty fields do not filter.
type Query struct {
	// Title matches records whose title contains this text, ignoring
	// ASCII case.
	Title string

	// Virus matches the inferred virus name exactly, ignoring case.
	Virus string

	// Year matches the publication year.
	Year int

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// Search returns records matching q in load order.
func (s *Store) Search(ctx context.Context, q Query) ([]types.Record, error) {
	maxResults := q.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(`SELECT pmid, title, author, citation, publication_year, virus_name
		FROM records WHERE 1=1`)

	if q.Title != "" {
		qb.WriteString(` AND title LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(q.Title)+"%")
	}
	if q.Virus != "" {
		qb.WriteString(` AND virus_name = ? COLLATE NOCASE`)
		args = append(args, q.Virus)
	}
	if q.Year > 0 {
		qb.WriteString(` AND year = ?`)
		args = append(args, q.Year)
	}
	qb.WriteString(` ORDER BY seq LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("searching records: %w", err)
	}
	defer rows.Close()

	var out []types.Record
	for rows.Next() {
		var r types.Record
		if err := rows.Scan(&r.PMID, &r.Title, &r.Author, &r.Citation, &r.PublicationYear, &r.VirusName); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
