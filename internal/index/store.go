// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index loads merged crawl records into a SQLite database and
// answers summary and lookup queries over them.
package index

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pubmed-crawler/pkg/types"
)

const defaultMaxResults = 20

// Store wraps the record index database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// Open opens or creates the index database at cfg.Path, creating its parent
// directory and schema as needed.
func Open(cfg types.IndexConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("index path is empty")
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating index directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS records (
			seq INTEGER PRIMARY KEY,
			pmid TEXT NOT NULL,
			title TEXT,
			author TEXT,
			citation TEXT,
			publication_year TEXT,
			virus_name TEXT,
			year INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_pmid ON records(pmid)`,
		`CREATE INDEX IF NOT EXISTS idx_records_virus ON records(virus_name COLLATE NOCASE)`,
		`CREATE INDEX IF NOT EXISTS idx_records_year ON records(year)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Load replaces the index contents with records, keeping their order.
// Duplicate PMIDs are stored as separate rows.
func (s *Store) Load(ctx context.Context, records []types.Record) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return 0, fmt.Errorf("clearing records: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (seq, pmid, title, author, citation, publication_year, virus_name, year)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		var year any
		if y := r.Year(); y > 0 {
			year = y
		}
		if _, err := stmt.ExecContext(ctx, i+1, r.PMID, r.Title, r.Author, r.Citation,
			r.PublicationYear, r.VirusName, year); err != nil {
			return 0, fmt.Errorf("inserting record %s: %w", r.PMID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing: %w", err)
	}
	return len(records), nil
}

// Count returns the number of indexed records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	return n, nil
}
