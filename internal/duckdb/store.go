// Package duckdb persists nearest-transcript matches in a queryable store.
package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"os"
	"path/filepath"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/alexpreynolds/nearest-transcripts/internal/nearest"
)

// Store manages a DuckDB connection for persisting match results.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create results directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS nearest_results (
		chrom VARCHAR,
		site_start BIGINT,
		site_end BIGINT,
		transcript_start BIGINT,
		transcript_end BIGINT,
		transcript_strand VARCHAR,
		transcript_id VARCHAR,
		transcript_distance BIGINT,
		gene_id VARCHAR,
		PRIMARY KEY (chrom, site_start, site_end, gene_id)
	)`)
	return err
}

// matchKey is the composite key for deduplicating matches before writing.
type matchKey struct {
	chrom, geneID      string
	siteStart, siteEnd int64
}

// WriteMatches batch-inserts matches into DuckDB using the Appender API.
// Duplicate (chrom, site_start, site_end, gene_id) entries are deduplicated
// before writing.
func (s *Store) WriteMatches(matches []nearest.Match) error {
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[matchKey]bool, len(matches))
	deduped := make([]nearest.Match, 0, len(matches))
	for _, m := range matches {
		k := matchKey{m.Site.Chrom, m.GeneID, m.Site.Start, m.Site.End}
		if !seen[k] {
			seen[k] = true
			deduped = append(deduped, m)
		}
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "nearest_results")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for _, m := range deduped {
		strand := "+"
		if m.Strand == -1 {
			strand = "-"
		}
		if err := appender.AppendRow(
			m.Site.Chrom, m.Site.Start, m.Site.End,
			m.TranscriptStart, m.TranscriptEnd, strand,
			m.TranscriptID, m.Distance, m.GeneID,
		); err != nil {
			return fmt.Errorf("append match: %w", err)
		}
	}

	return appender.Flush()
}

// LookupSite returns the stored matches for one site, ordered by gene ID.
func (s *Store) LookupSite(chrom string, start, end int64) ([]nearest.Match, error) {
	rows, err := s.db.Query(`SELECT
			chrom, site_start, site_end,
			transcript_start, transcript_end, transcript_strand,
			transcript_id, transcript_distance, gene_id
		FROM nearest_results
		WHERE chrom = ? AND site_start = ? AND site_end = ?
		ORDER BY gene_id`, chrom, start, end)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	defer rows.Close()

	var matches []nearest.Match
	for rows.Next() {
		var m nearest.Match
		var strand string
		if err := rows.Scan(
			&m.Site.Chrom, &m.Site.Start, &m.Site.End,
			&m.TranscriptStart, &m.TranscriptEnd, &strand,
			&m.TranscriptID, &m.Distance, &m.GeneID,
		); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		m.Strand = 1
		if strand == "-" {
			m.Strand = -1
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// CountMatches returns the number of stored matches.
func (s *Store) CountMatches() (int64, error) {
	var n int64
	err := s.db.QueryRow(`SELECT COUNT(*) FROM nearest_results`).Scan(&n)
	return n, err
}

// ClearMatches removes all stored matches.
func (s *Store) ClearMatches() error {
	_, err := s.db.Exec(`DELETE FROM nearest_results`)
	return err
}
