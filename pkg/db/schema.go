// pkg/db/schema.go
package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS users (
	id BIGSERIAL PRIMARY KEY,
	name VARCHAR(32) NOT NULL UNIQUE,
	registration_date TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS wallets (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
	balance NUMERIC NOT NULL DEFAULT 1000 CHECK (balance >= 0),
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS currencies (
	id BIGSERIAL PRIMARY KEY,
	name VARCHAR(32) NOT NULL UNIQUE,
	exchange_rate NUMERIC NOT NULL CHECK (exchange_rate > 0),
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS positions (
	id BIGSERIAL PRIMARY KEY,
	wallet_id BIGINT NOT NULL REFERENCES wallets(id) ON DELETE CASCADE,
	currency_id BIGINT NOT NULL REFERENCES currencies(id),
	amount NUMERIC NOT NULL CHECK (amount > 0),
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	UNIQUE (wallet_id, currency_id)
);

CREATE TABLE IF NOT EXISTS operations (
	id BIGSERIAL PRIMARY KEY,
	currency_id BIGINT NOT NULL REFERENCES currencies(id),
	wallet_id BIGINT NOT NULL REFERENCES wallets(id) ON DELETE CASCADE,
	type VARCHAR(8) NOT NULL CHECK (type IN ('BUY', 'SELL')),
	amount NUMERIC NOT NULL CHECK (amount > 0),
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_operations_wallet ON operations(wallet_id, id);
`

// Decimals are stored as TEXT so SQLite keeps them exact; the CHECKs cast for comparison.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	registration_date TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS wallets (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
	balance TEXT NOT NULL DEFAULT '1000' CHECK (CAST(balance AS REAL) >= 0),
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS currencies (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	exchange_rate TEXT NOT NULL CHECK (CAST(exchange_rate AS REAL) > 0),
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS positions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	wallet_id INTEGER NOT NULL REFERENCES wallets(id) ON DELETE CASCADE,
	currency_id INTEGER NOT NULL REFERENCES currencies(id),
	amount TEXT NOT NULL CHECK (CAST(amount AS REAL) > 0),
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL,
	UNIQUE (wallet_id, currency_id)
);

CREATE TABLE IF NOT EXISTS operations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	currency_id INTEGER NOT NULL REFERENCES currencies(id),
	wallet_id INTEGER NOT NULL REFERENCES wallets(id) ON DELETE CASCADE,
	type TEXT NOT NULL CHECK (type IN ('BUY', 'SELL')),
	amount TEXT NOT NULL CHECK (CAST(amount AS REAL) > 0),
	created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_operations_wallet ON operations(wallet_id, id);
`

// Migrate creates the exchange schema if it does not exist yet.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	var schema string
	switch db.DriverName() {
	case DriverPostgres:
		schema = postgresSchema
	case DriverSQLite:
		schema = sqliteSchema
	default:
		return fmt.Errorf("no schema for driver %q", db.DriverName())
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
