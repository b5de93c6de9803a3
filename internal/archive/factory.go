package archive

import (
	"fmt"
	"strings"
)

// Config holds configuration for the storage backend
type Config struct {
	Type string // "sqlite" or "postgres"
	DSN  string // File path for SQLite, DSN for Postgres
}

// NewStore creates a new Store instance based on the provided configuration
func NewStore(config Config) (Store, error) {
	switch strings.ToLower(config.Type) {
	case "postgres", "postgresql":
		if config.DSN == "" {
			return nil, fmt.Errorf("postgres connection string is required")
		}
		return NewPostgresStore(config.DSN)
	case "sqlite", "sqlite3", "":
		if config.DSN == "" {
			config.DSN = DefaultSQLitePath
		}
		return NewSQLiteStore(config.DSN)
	default:
		return nil, fmt.Errorf("unsupported store type: %s", config.Type)
	}
}
