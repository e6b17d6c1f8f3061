// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package library persists a cross-project reference library in SQLite
// with full-text search. Projects copy entries out of the library; the
// library never holds live references into a project.
package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paper-forge/pkg/types"
)

// ErrDuplicateKey is returned when adding an entry whose key exists.
var ErrDuplicateKey = errors.New("duplicate citation key")

// ErrNotFound is returned when a key has no entry.
var ErrNotFound = errors.New("entry not found")

// Store manages the reference library database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the library database at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening library database: %w", err)
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
		`CREATE TABLE IF NOT EXISTS refs (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			key TEXT NOT NULL UNIQUE,
			type TEXT NOT NULL,
			authors TEXT NOT NULL,
			year INTEGER NOT NULL,
			title TEXT NOT NULL,
			source TEXT,
			url TEXT,
			added_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_refs_year ON refs(year)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='refs_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE refs_fts USING fts5(authors, title, source, content=refs, content_rowid=rowid)`,
			`CREATE TRIGGER refs_ai AFTER INSERT ON refs BEGIN
				INSERT INTO refs_fts(rowid, authors, title, source) VALUES (new.rowid, new.authors, new.title, new.source);
			END`,
			`CREATE TRIGGER refs_ad AFTER DELETE ON refs BEGIN
				INSERT INTO refs_fts(refs_fts, rowid, authors, title, source) VALUES('delete', old.rowid, old.authors, old.title, old.source);
			END`,
			`CREATE TRIGGER refs_au AFTER UPDATE ON refs BEGIN
				INSERT INTO refs_fts(refs_fts, rowid, authors, title, source) VALUES('delete', old.rowid, old.authors, old.title, old.source);
				INSERT INTO refs_fts(rowid, authors, title, source) VALUES (new.rowid, new.authors, new.title, new.source);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}
	return nil
}

// Add inserts a citation into the library. Keys are unique.
func (s *Store) Add(ctx context.Context, c types.Citation) error {
	if c.Key == "" {
		return fmt.Errorf("citation key is required")
	}
	authorsJSON, _ := json.Marshal(c.Authors)
	addedAt := c.AddedAt
	if addedAt.IsZero() {
		addedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO refs (key, type, authors, year, title, source, url, added_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.Key, string(c.Type), string(authorsJSON), c.Year, c.Title, c.Source, c.URL,
		addedAt.Format(time.RFC3339),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("library entry %q: %w", c.Key, ErrDuplicateKey)
		}
		return fmt.Errorf("inserting entry %s: %w", c.Key, err)
	}
	return nil
}

// Remove deletes an entry by key.
func (s *Store) Remove(ctx context.Context, key string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM refs WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("deleting entry %s: %w", key, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("library entry %q: %w", key, ErrNotFound)
	}
	return nil
}

// Get returns the entry with the given key.
func (s *Store) Get(ctx context.Context, key string) (*types.Citation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT key, type, authors, year, title, source, url, added_at FROM refs WHERE key = ?`, key)
	c, err := scanCitation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("library entry %q: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("reading entry %s: %w", key, err)
	}
	return c, nil
}

// Search runs an FTS query over authors, title, and source, ordered by
// relevance.
func (s *Store) Search(ctx context.Context, term string, limit int) ([]types.Citation, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.key, r.type, r.authors, r.year, r.title, r.source, r.url, r.added_at
		 FROM refs_fts f JOIN refs r ON r.rowid = f.rowid
		 WHERE refs_fts MATCH ?
		 ORDER BY rank LIMIT ?`, term, limit)
	if err != nil {
		return nil, fmt.Errorf("searching library: %w", err)
	}
	defer rows.Close()
	return collect(rows)
}

// List returns every entry ordered by key.
func (s *Store) List(ctx context.Context) ([]types.Citation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, type, authors, year, title, source, url, added_at FROM refs ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("listing library: %w", err)
	}
	defer rows.Close()
	return collect(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCitation(row rowScanner) (*types.Citation, error) {
	var c types.Citation
	var typ, authorsJSON, addedAt string
	if err := row.Scan(&c.Key, &typ, &authorsJSON, &c.Year, &c.Title, &c.Source, &c.URL, &addedAt); err != nil {
		return nil, err
	}
	c.Type = types.CitationType(typ)
	if err := json.Unmarshal([]byte(authorsJSON), &c.Authors); err != nil {
		return nil, fmt.Errorf("parsing authors for %s: %w", c.Key, err)
	}
	if t, err := time.Parse(time.RFC3339, addedAt); err == nil {
		c.AddedAt = t
	}
	return &c, nil
}

func collect(rows *sql.Rows) ([]types.Citation, error) {
	var cs []types.Citation
	for rows.Next() {
		c, err := scanCitation(rows)
		if err != nil {
			return nil, err
		}
		cs = append(cs, *c)
	}
	return cs, rows.Err()
}
