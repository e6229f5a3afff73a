// Package sqlite provides SQLite implementations of the entity and audit stores.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// open opens a database at path with a single connection, so every
// transaction on the handle is serialized.
func open(path string) (*sql.DB, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}

	if !strings.HasPrefix(path, ":memory:") && !strings.HasPrefix(path, "file:") {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []struct {
		stmt string
		desc string
	}{
		{"PRAGMA foreign_keys = ON", "enabling foreign keys"},
		{"PRAGMA journal_mode = WAL", "enabling WAL mode"},
		// Avoid "database is locked" when another process holds the file.
		{"PRAGMA busy_timeout = 5000", "setting busy timeout"},
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p.stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", p.desc, err)
		}
	}

	return db, nil
}
