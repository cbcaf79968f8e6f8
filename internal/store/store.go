// Package store persists the song catalog, agent execution history and
// comparison runs in a single SQLite database.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("store: not found")

// Store wraps the SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS songs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	album TEXT NOT NULL,
	year INTEGER NOT NULL,
	lyrics TEXT,
	mood TEXT NOT NULL,
	duration_seconds INTEGER,
	track_number INTEGER,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_songs_mood ON songs(mood);
CREATE INDEX IF NOT EXISTS idx_songs_album ON songs(album);
CREATE INDEX IF NOT EXISTS idx_songs_year ON songs(year);

CREATE TABLE IF NOT EXISTS executions (
	execution_id TEXT PRIMARY KEY,
	query TEXT NOT NULL,
	answer TEXT NOT NULL,
	model TEXT NOT NULL,
	execution_time_seconds REAL NOT NULL,
	estimated_cost_usd REAL NOT NULL,
	total_tokens INTEGER NOT NULL,
	num_steps INTEGER NOT NULL,
	timestamp TEXT NOT NULL,
	reasoning_trace TEXT NOT NULL,
	metrics TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_executions_timestamp ON executions(timestamp);
CREATE INDEX IF NOT EXISTS idx_executions_model ON executions(model);

CREATE TABLE IF NOT EXISTS comparisons (
	comparison_id TEXT PRIMARY KEY,
	models TEXT NOT NULL,
	status TEXT NOT NULL,
	result TEXT,
	error TEXT,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	completed_at DATETIME
);
`

// Open opens (creating if needed) the database at path and runs
// auto-migration.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate db: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Ping checks database connectivity.
func (s *Store) Ping() error {
	return s.db.Ping()
}

// SizeBytes returns the on-disk size of the database file.
func (s *Store) SizeBytes() int64 {
	info, err := os.Stat(s.path)
	if err != nil {
		return 0
	}
	return info.Size()
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
