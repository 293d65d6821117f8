// pkg/db/sqlite.go
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// NewSQLiteDB opens a SQLite database at path (":memory:" for a private in-memory database).
//
// The pool is pinned to a single connection: SQLite allows one writer at a time, and an
// in-memory database lives only as long as its connection. Transactions begin IMMEDIATE so
// that a trade or drift sweep holds the write lock from its first read.
func NewSQLiteDB(path string) (*sqlx.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite database path cannot be empty")
	}
	dsn := path + "?_txlock=immediate&_foreign_keys=on&_busy_timeout=5000"

	db, err := sqlx.Open(DriverSQLite, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping SQLite: %w", err)
	}

	return db, nil
}
