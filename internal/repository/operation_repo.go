// internal/repository/operation_repo.go
package repository

import (
	"context"

	"cryptoex/internal/domain"
)

// OperationRepository defines the interface for the append-only trade log.
// There is deliberately no update or delete.
type OperationRepository interface {
	// CreateOperation appends a trade record using the provided DBExecutor.
	CreateOperation(ctx context.Context, q DBExecutor, operation *domain.Operation) error
	// GetOperationsByWalletID retrieves a page of a wallet's operations plus their total count.
	GetOperationsByWalletID(ctx context.Context, q DBExecutor, walletID int64, limit, offset int) ([]domain.Operation, int64, error)
}
