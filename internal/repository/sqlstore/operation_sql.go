// internal/repository/sqlstore/operation_sql.go
package sqlstore

import (
	"context"
	"fmt"

	"cryptoex/internal/domain"
	"cryptoex/internal/repository"
)

// OperationRepository implements repository.OperationRepository on top of sqlx.
type OperationRepository struct{}

// NewOperationRepository creates a new OperationRepository.
func NewOperationRepository() repository.OperationRepository {
	return &OperationRepository{}
}

// CreateOperation inserts a new operation record into the database using the provided DBExecutor.
func (r *OperationRepository) CreateOperation(ctx context.Context, q repository.DBExecutor, operation *domain.Operation) error {
	query := q.Rebind(`INSERT INTO operations (currency_id, wallet_id, type, amount, created_at)
              VALUES (?, ?, ?, ?, ?) RETURNING id`)

	err := q.QueryRowContext(ctx, query,
		operation.CurrencyID,
		operation.WalletID,
		operation.Type,
		operation.Amount,
		operation.CreatedAt,
	).Scan(&operation.ID)

	if err != nil {
		return fmt.Errorf("failed to create operation: %w", err)
	}
	return nil
}

// GetOperationsByWalletID retrieves a paginated list of operations for a specific wallet.
// It performs two queries: one for the data and one for the total count.
func (r *OperationRepository) GetOperationsByWalletID(ctx context.Context, q repository.DBExecutor, walletID int64, limit, offset int) ([]domain.Operation, int64, error) {
	operations := []domain.Operation{}

	query := q.Rebind(`
		SELECT id, currency_id, wallet_id, type, amount, created_at
		FROM operations
		WHERE wallet_id = ?
		ORDER BY id
		LIMIT ? OFFSET ?`)
	err := q.SelectContext(ctx, &operations, query, walletID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch operations for wallet %d: %w", walletID, err)
	}

	var totalCount int64
	countQuery := q.Rebind(`SELECT COUNT(*) FROM operations WHERE wallet_id = ?`)
	err = q.GetContext(ctx, &totalCount, countQuery, walletID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get total operation count for wallet %d: %w", walletID, err)
	}

	return operations, totalCount, nil
}
