// Package db provides the SQLite-backed exercise catalog store. Configs
// arriving from the recommendation service (or the built-in defaults)
// are cached here so sessions can start without a network round trip.
// Rep history is deliberately not persisted.
package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the catalog database connection.
type DB struct {
	*sql.DB
}

// Open opens (creating if necessary) the catalog database at path and
// brings the schema up to date. Use ":memory:" for an ephemeral store.
func Open(path string) (*DB, error) {
	sqldb, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}

	// SQLite allows one writer; a single connection avoids lock errors
	// from concurrent API handlers.
	sqldb.SetMaxOpenConns(1)

	if _, err := sqldb.Exec(`PRAGMA journal_mode = WAL; PRAGMA foreign_keys = ON;`); err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("failed to set pragmas: %w", err)
	}

	db := &DB{sqldb}
	if err := db.MigrateUp(); err != nil {
		sqldb.Close()
		return nil, err
	}
	return db, nil
}
