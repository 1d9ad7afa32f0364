// Package history persists the expressions entered at the interactive
// prompt so they can be recalled later. Stored results are for display
// only and are never reused for evaluation.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Entry is one evaluated expression
type Entry struct {
	ID         int64
	Expression string
	Result     string // formatted value, empty on failure
	Error      string // error message, empty on success
	CreatedAt  time.Time
}

// Store handles SQLite operations for the history
type Store struct {
	db     *sql.DB
	dbPath string
}

// Open opens (and creates if needed) the history database at dbPath
func Open(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// a single connection keeps ":memory:" databases shared
	db.SetMaxOpenConns(1)

	store := &Store{db: db, dbPath: dbPath}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}

	return store, nil
}

// Path returns the database path
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		expression TEXT NOT NULL,
		result TEXT NOT NULL DEFAULT '',
		error TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_history_created_at ON history(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append records an evaluated expression
func (s *Store) Append(entry Entry) (int64, error) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	res, err := s.db.Exec(
		`INSERT INTO history (expression, result, error, created_at) VALUES (?, ?, ?, ?)`,
		entry.Expression, entry.Result, entry.Error, entry.CreatedAt.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to append history entry: %w", err)
	}
	return res.LastInsertId()
}

// Recent returns up to limit entries, oldest first
func (s *Store) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.db.Query(
		`SELECT id, expression, result, error, created_at FROM (
			SELECT id, expression, result, error, created_at FROM history ORDER BY id DESC LIMIT ?
		) ORDER BY id ASC`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Expression, &e.Result, &e.Error, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns the number of stored entries
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM history`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count history: %w", err)
	}
	return n, nil
}

// Clear removes every entry
func (s *Store) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM history`); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}
