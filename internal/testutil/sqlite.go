// internal/testutil/sqlite.go
package testutil

import (
	"context"
	"testing"

	"cryptoex/pkg/db"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// NewSQLiteDB returns a private, migrated in-memory database that is closed when the test ends.
func NewSQLiteDB(t testing.TB) *sqlx.DB {
	t.Helper()

	conn, err := db.NewSQLiteDB(":memory:")
	require.NoError(t, err, "failed to open in-memory SQLite")
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, db.Migrate(context.Background(), conn), "failed to migrate in-memory SQLite")
	return conn
}
