// internal/repository/sqlstore/position_sql.go
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

// PositionRepository implements repository.PositionRepository on top of sqlx.
type PositionRepository struct{}

// NewPositionRepository creates a new PositionRepository.
func NewPositionRepository() repository.PositionRepository {
	return &PositionRepository{}
}

const positionColumns = `id, wallet_id, currency_id, amount, created_at, updated_at`

// CreatePosition inserts a new holding. A second row for the same (wallet, currency) yields util.ErrDuplicateEntry.
func (r *PositionRepository) CreatePosition(ctx context.Context, q repository.DBExecutor, position *domain.Position) error {
	query := q.Rebind(`INSERT INTO positions (wallet_id, currency_id, amount, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?) RETURNING id`)
	err := q.QueryRowContext(ctx, query,
		position.WalletID,
		position.CurrencyID,
		position.Amount,
		position.CreatedAt,
		position.UpdatedAt,
	).Scan(&position.ID)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return fmt.Errorf("failed to create position: %w", util.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to create position: %w", err)
	}
	return nil
}

// GetPositionForUpdate retrieves the holding of one currency in one wallet and locks the row.
func (r *PositionRepository) GetPositionForUpdate(ctx context.Context, q repository.DBExecutor, walletID, currencyID int64) (*domain.Position, error) {
	var position domain.Position
	query := q.Rebind(`SELECT ` + positionColumns + ` FROM positions WHERE wallet_id = ? AND currency_id = ?` + lockClause(q))
	err := q.GetContext(ctx, &position, query, walletID, currencyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get position for wallet %d and currency %d: %w", walletID, currencyID, err)
	}
	return &position, nil
}

// ListPositionsByWalletID retrieves every holding of a wallet ordered by currency.
func (r *PositionRepository) ListPositionsByWalletID(ctx context.Context, q repository.DBExecutor, walletID int64) ([]domain.Position, error) {
	positions := []domain.Position{}
	query := q.Rebind(`SELECT ` + positionColumns + ` FROM positions WHERE wallet_id = ? ORDER BY currency_id`)
	if err := q.SelectContext(ctx, &positions, query, walletID); err != nil {
		return nil, fmt.Errorf("failed to list positions for wallet %d: %w", walletID, err)
	}
	return positions, nil
}

// SetPositionAmount overwrites the held amount of a position.
func (r *PositionRepository) SetPositionAmount(ctx context.Context, q repository.DBExecutor, positionID int64, amount decimal.Decimal) error {
	query := q.Rebind(`UPDATE positions SET amount = ?, updated_at = ? WHERE id = ?`)
	result, err := q.ExecContext(ctx, query, amount, time.Now().UTC(), positionID)
	if err != nil {
		return fmt.Errorf("failed to update position amount for ID %d: %w", positionID, err)
	}
	return requireOneRow(result, "position", positionID)
}

// DeletePosition removes a holding that has been sold out completely.
func (r *PositionRepository) DeletePosition(ctx context.Context, q repository.DBExecutor, positionID int64) error {
	query := q.Rebind(`DELETE FROM positions WHERE id = ?`)
	result, err := q.ExecContext(ctx, query, positionID)
	if err != nil {
		return fmt.Errorf("failed to delete position ID %d: %w", positionID, err)
	}
	return requireOneRow(result, "position", positionID)
}
