// internal/repository/currency_repo.go
package repository

import (
	"context"

	"cryptoex/internal/domain"

	"github.com/shopspring/decimal"
)

// CurrencyRepository defines the interface for currency data operations.
type CurrencyRepository interface {
	// CreateCurrency adds a new currency. A taken name yields util.ErrDuplicateEntry.
	CreateCurrency(ctx context.Context, q DBExecutor, currency *domain.Currency) error
	GetCurrencyByName(ctx context.Context, q DBExecutor, name string) (*domain.Currency, error)
	// GetCurrencyByNameForUpdate also locks the row, so the rate cannot drift until the transaction ends.
	GetCurrencyByNameForUpdate(ctx context.Context, q DBExecutor, name string) (*domain.Currency, error)
	// ListCurrencies returns every currency ordered by ID.
	ListCurrencies(ctx context.Context, q DBExecutor) ([]domain.Currency, error)
	// ListCurrenciesForUpdate returns every currency ordered by ID and locks all rows.
	ListCurrenciesForUpdate(ctx context.Context, q DBExecutor) ([]domain.Currency, error)
	UpdateExchangeRate(ctx context.Context, q DBExecutor, currencyID int64, rate decimal.Decimal) error
}
