package archive

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL,
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
		seconds DOUBLE PRECISION,
		PRIMARY KEY (session_id, binary_name, size, processors, repeat_index)
	);`,
}

// PostgresStore implements Store using PostgreSQL
type PostgresStore struct {
	sqlStore
}

// NewPostgresStore connects to dsn and applies migrations
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := newPostgresStore(db)
	if err := store.migrate(postgresSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

func newPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{sqlStore{db: db, numbered: true}}
}
