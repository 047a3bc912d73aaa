// Package db opens the SQLite database backing the scenario store.
package db

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// filePragmas apply to on-disk databases only; journal_mode has no effect
// on an in-memory database.
var filePragmas = []string{
	"journal_mode = WAL",
	"synchronous = NORMAL",
}

var commonPragmas = []string{
	"busy_timeout = 5000",
}

// Open opens the SQLite database at dbPath, applies pragmas and checks the
// connection. In-memory databases are pinned to one connection so every
// query sees the same data.
func Open(dbPath string) (*sql.DB, error) {
	database, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	pragmas := commonPragmas
	if isMemory(dbPath) {
		database.SetMaxOpenConns(1)
	} else {
		pragmas = append(append([]string{}, filePragmas...), commonPragmas...)
	}

	for _, p := range pragmas {
		if _, err := database.Exec("PRAGMA " + p); err != nil {
			database.Close()
			return nil, fmt.Errorf("set sqlite pragma %q: %w", p, err)
		}
	}

	if err := database.Ping(); err != nil {
		database.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}

	return database, nil
}

func isMemory(dbPath string) bool {
	return dbPath == ":memory:" || strings.Contains(dbPath, "mode=memory") || strings.HasPrefix(dbPath, "file::memory:")
}
