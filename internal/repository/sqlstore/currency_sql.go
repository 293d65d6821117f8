// internal/repository/sqlstore/currency_sql.go
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cryptoex/internal/domain"
	"cryptoex/internal/repository"
	"cryptoex/internal/util"
	"cryptoex/pkg/db"

	"github.com/shopspring/decimal"
)

// CurrencyRepository implements repository.CurrencyRepository on top of sqlx.
type CurrencyRepository struct{}

// NewCurrencyRepository creates a new CurrencyRepository.
func NewCurrencyRepository() repository.CurrencyRepository {
	return &CurrencyRepository{}
}

const currencyColumns = `id, name, exchange_rate, created_at, updated_at`

// CreateCurrency inserts a new currency into the database using the provided DBExecutor.
func (r *CurrencyRepository) CreateCurrency(ctx context.Context, q repository.DBExecutor, currency *domain.Currency) error {
	query := q.Rebind(`INSERT INTO currencies (name, exchange_rate, created_at, updated_at)
              VALUES (?, ?, ?, ?) RETURNING id`)
	err := q.QueryRowContext(ctx, query, currency.Name, currency.ExchangeRate, currency.CreatedAt, currency.UpdatedAt).Scan(&currency.ID)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return fmt.Errorf("failed to create currency '%s': %w", currency.Name, util.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to create currency: %w", err)
	}
	return nil
}

// GetCurrencyByName retrieves a currency by its unique name.
func (r *CurrencyRepository) GetCurrencyByName(ctx context.Context, q repository.DBExecutor, name string) (*domain.Currency, error) {
	return r.getCurrency(ctx, q, "", name)
}

// GetCurrencyByNameForUpdate retrieves a currency by name and locks its row.
func (r *CurrencyRepository) GetCurrencyByNameForUpdate(ctx context.Context, q repository.DBExecutor, name string) (*domain.Currency, error) {
	return r.getCurrency(ctx, q, lockClause(q), name)
}

func (r *CurrencyRepository) getCurrency(ctx context.Context, q repository.DBExecutor, lock, name string) (*domain.Currency, error) {
	var currency domain.Currency
	query := q.Rebind(`SELECT ` + currencyColumns + ` FROM currencies WHERE name = ?` + lock)
	err := q.GetContext(ctx, &currency, query, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get currency by name '%s': %w", name, err)
	}
	return &currency, nil
}

// ListCurrencies retrieves every currency ordered by ID.
func (r *CurrencyRepository) ListCurrencies(ctx context.Context, q repository.DBExecutor) ([]domain.Currency, error) {
	return r.listCurrencies(ctx, q, "")
}

// ListCurrenciesForUpdate retrieves every currency ordered by ID and locks all rows in that order.
func (r *CurrencyRepository) ListCurrenciesForUpdate(ctx context.Context, q repository.DBExecutor) ([]domain.Currency, error) {
	return r.listCurrencies(ctx, q, lockClause(q))
}

func (r *CurrencyRepository) listCurrencies(ctx context.Context, q repository.DBExecutor, lock string) ([]domain.Currency, error) {
	currencies := []domain.Currency{}
	query := `SELECT ` + currencyColumns + ` FROM currencies ORDER BY id` + lock
	if err := q.SelectContext(ctx, &currencies, query); err != nil {
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	return currencies, nil
}

// UpdateExchangeRate stores a new base exchange rate for a currency.
func (r *CurrencyRepository) UpdateExchangeRate(ctx context.Context, q repository.DBExecutor, currencyID int64, rate decimal.Decimal) error {
	query := q.Rebind(`UPDATE currencies SET exchange_rate = ?, updated_at = ? WHERE id = ?`)
	result, err := q.ExecContext(ctx, query, rate, time.Now().UTC(), currencyID)
	if err != nil {
		return fmt.Errorf("failed to update exchange rate for currency ID %d: %w", currencyID, err)
	}
	return requireOneRow(result, "currency", currencyID)
}
