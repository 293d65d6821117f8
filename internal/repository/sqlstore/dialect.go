// internal/repository/sqlstore/dialect.go
package sqlstore

import (
	"cryptoex/internal/repository"
	"cryptoex/pkg/db"
)

// lockClause returns the row locking suffix for SELECT queries.
// SQLite has no row locks; its transactions are opened with BEGIN IMMEDIATE and hold the database write lock instead.
func lockClause(q repository.DBExecutor) string {
	if q.DriverName() == db.DriverPostgres {
		return " FOR UPDATE"
	}
	return ""
}
