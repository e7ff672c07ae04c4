// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history keeps a SQLite ledger of conversion runs: what was
// converted, into which file, and whether it failed. Only outcomes are
// stored, never document text.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/md-convert/pkg/types"
)

const defaultListLimit = 20

// Store manages the history SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the ledger at path, creating its parent directory
// and the schema when missing.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	s := &Store{db: db}
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
		`CREATE TABLE IF NOT EXISTS runs (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			source_path TEXT NOT NULL,
			title TEXT,
			format TEXT NOT NULL,
			mode TEXT,
			output_path TEXT,
			citations INTEGER,
			status TEXT NOT NULL,
			error TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_source ON runs(source_path)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record appends a run to the ledger. A missing ID is filled with a new
// UUID and a zero CreatedAt with the current time; the stored record is
// returned.
func (s *Store) Record(ctx context.Context, rec types.RunRecord) (types.RunRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, source_path, title, format, mode, output_path, citations, status, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.SourcePath, rec.Title, string(rec.Format), string(rec.Mode),
		rec.OutputPath, rec.Citations, string(rec.Status), rec.Error,
		rec.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return rec, fmt.Errorf("recording run %s: %w", rec.ID, err)
	}
	return rec, nil
}

// List returns up to limit runs, newest first. limit <= 0 selects 20.
func (s *Store) List(ctx context.Context, limit int) ([]types.RunRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source_path, title, format, mode, output_path, citations, status, error, created_at
		 FROM runs ORDER BY seq DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var records []types.RunRecord
	for rows.Next() {
		var (
			rec                             types.RunRecord
			format, mode, status, createdAt string
			title, output, errMsg           sql.NullString
			citations                       sql.NullInt64
		)
		if err := rows.Scan(&rec.ID, &rec.SourcePath, &title, &format, &mode,
			&output, &citations, &status, &errMsg, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		rec.Title = title.String
		rec.Format = types.OutputFormat(format)
		rec.Mode = types.CitationMode(mode)
		rec.OutputPath = output.String
		rec.Citations = int(citations.Int64)
		rec.Status = types.RunStatus(status)
		rec.Error = errMsg.String
		if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("parsing created_at for run %s: %w", rec.ID, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
