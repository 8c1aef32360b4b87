// Package history keeps a local log of dispatched operations and their
// outcomes in a sqlite database, so a run of the file-driven client can
// be inspected after the fact.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Store manages the dispatch log database.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Entry is one dispatched operation. Failed entries carry the error
// text and no value.
type Entry struct {
	ID           string
	BatchID      string
	Domain       string
	Line         int
	Verb         string
	Raw          string
	Value        float64
	Failed       bool
	Error        string
	DispatchedAt time.Time
}

// Open creates or opens the dispatch log at dbPath.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db, dbPath: dbPath}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS dispatches (
		id TEXT PRIMARY KEY,
		batch_id TEXT NOT NULL,
		domain TEXT NOT NULL,
		line INTEGER NOT NULL,
		verb TEXT NOT NULL,
		raw TEXT NOT NULL,
		value REAL,
		failed INTEGER NOT NULL DEFAULT 0,
		error TEXT,
		dispatched_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_dispatches_batch ON dispatches(batch_id);
	CREATE INDEX IF NOT EXISTS idx_dispatches_time ON dispatches(dispatched_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record appends one entry. A missing ID or timestamp is filled in.
func (s *Store) Record(e Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.DispatchedAt.IsZero() {
		e.DispatchedAt = time.Now().UTC()
	}

	var value any
	if !e.Failed {
		value = e.Value
	}
	_, err := s.db.Exec(`
		INSERT INTO dispatches (id, batch_id, domain, line, verb, raw, value, failed, error, dispatched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.BatchID, e.Domain, e.Line, e.Verb, e.Raw, value, e.Failed, e.Error, e.DispatchedAt)
	if err != nil {
		return fmt.Errorf("record dispatch: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, batch_id, domain, line, verb, raw, value, failed, error, dispatched_at
		FROM dispatches
		ORDER BY dispatched_at DESC, line DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query dispatches: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e     Entry
			value sql.NullFloat64
			errTx sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.BatchID, &e.Domain, &e.Line, &e.Verb, &e.Raw,
			&value, &e.Failed, &errTx, &e.DispatchedAt); err != nil {
			return nil, fmt.Errorf("scan dispatch: %w", err)
		}
		if value.Valid {
			e.Value = value.Float64
		}
		if errTx.Valid {
			e.Error = errTx.String
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
