package archive

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// DefaultSQLitePath is used when no DSN is configured.
const DefaultSQLitePath = ".scalebench.db"

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		hostname TEXT NOT NULL DEFAULT '',
		cpu_model TEXT NOT NULL DEFAULT '',
		logical_cpus INTEGER NOT NULL DEFAULT 0,
		statistic TEXT NOT NULL DEFAULT '',
		note TEXT NOT NULL DEFAULT ''
	);`,
	`CREATE TABLE IF NOT EXISTS measurements (
		session_id TEXT NOT NULL REFERENCES sessions(id),
		binary_name TEXT NOT NULL,
		size INTEGER NOT NULL,
		processors INTEGER NOT NULL,
		repeat_index INTEGER NOT NULL,
		seconds REAL,
		PRIMARY KEY (session_id, binary_name, size, processors, repeat_index)
	);`,
}

// SQLiteStore implements Store using SQLite
type SQLiteStore struct {
	sqlStore
}

// NewSQLiteStore opens path and applies migrations
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{sqlStore{db: db}}
	if err := store.migrate(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}
