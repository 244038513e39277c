// Package store persists the type catalog and the market orders in SQLite
// databases.
//
// Both databases are plain files (or ":memory:") opened with the pure Go
// modernc.org/sqlite driver. They implement the inventory.TypeCatalog and
// inventory.OrderBook interfaces.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// open opens a database and applies the schema.
func open(path, schema string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cannot open database %q: %w", path, err)
	}
	// A single connection: ":memory:" databases are per connection, and
	// sqlite has a single writer anyway.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot initialize database %q: %w", path, err)
	}
	return db, nil
}

// isConstraintViolation reports whether err is a primary key or unique violation.
func isConstraintViolation(err error) bool {
	var serr *sqlite.Error
	if !errors.As(err, &serr) {
		return false
	}
	switch serr.Code() {
	case sqlite3.SQLITE_CONSTRAINT, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return true
	}
	return false
}

func nop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
