// internal/repository/position_repo.go
package repository

import (
	"context"

	"cryptoex/internal/domain"

	"github.com/shopspring/decimal"
)

// PositionRepository defines the interface for currency holdings of a wallet.
type PositionRepository interface {
	CreatePosition(ctx context.Context, q DBExecutor, position *domain.Position) error
	// GetPositionForUpdate returns util.ErrNotFound when the wallet holds none of the currency.
	GetPositionForUpdate(ctx context.Context, q DBExecutor, walletID, currencyID int64) (*domain.Position, error)
	ListPositionsByWalletID(ctx context.Context, q DBExecutor, walletID int64) ([]domain.Position, error)
	SetPositionAmount(ctx context.Context, q DBExecutor, positionID int64, amount decimal.Decimal) error
	DeletePosition(ctx context.Context, q DBExecutor, positionID int64) error
}
