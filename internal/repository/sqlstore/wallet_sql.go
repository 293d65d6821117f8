// internal/repository/sqlstore/wallet_sql.go
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

	"github.com/shopspring/decimal"
)

// WalletRepository implements repository.WalletRepository on top of sqlx.
type WalletRepository struct{}

// NewWalletRepository creates a new WalletRepository.
func NewWalletRepository() repository.WalletRepository {
	return &WalletRepository{}
}

const selectWallet = `SELECT id, user_id, balance, created_at, updated_at FROM wallets WHERE user_id = ?`

// CreateWallet inserts a new wallet into the database using the provided DBExecutor.
func (r *WalletRepository) CreateWallet(ctx context.Context, q repository.DBExecutor, wallet *domain.Wallet) error {
	query := q.Rebind(`INSERT INTO wallets (user_id, balance, created_at, updated_at)
              VALUES (?, ?, ?, ?) RETURNING id`)
	err := q.QueryRowContext(ctx, query, wallet.UserID, wallet.Balance, wallet.CreatedAt, wallet.UpdatedAt).Scan(&wallet.ID)
	if err != nil {
		return fmt.Errorf("failed to create wallet: %w", err)
	}
	return nil
}

// GetWalletByUserID retrieves the wallet of a user.
func (r *WalletRepository) GetWalletByUserID(ctx context.Context, q repository.DBExecutor, userID int64) (*domain.Wallet, error) {
	return r.getWallet(ctx, q, q.Rebind(selectWallet), userID)
}

// GetWalletByUserIDForUpdate retrieves the wallet of a user and locks the row.
func (r *WalletRepository) GetWalletByUserIDForUpdate(ctx context.Context, q repository.DBExecutor, userID int64) (*domain.Wallet, error) {
	return r.getWallet(ctx, q, q.Rebind(selectWallet+lockClause(q)), userID)
}

func (r *WalletRepository) getWallet(ctx context.Context, q repository.DBExecutor, query string, userID int64) (*domain.Wallet, error) {
	var wallet domain.Wallet
	err := q.GetContext(ctx, &wallet, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get wallet by user ID %d: %w", userID, err)
	}
	return &wallet, nil
}

// SetWalletBalance overwrites the balance of a specific wallet using the provided DBExecutor.
func (r *WalletRepository) SetWalletBalance(ctx context.Context, q repository.DBExecutor, walletID int64, balance decimal.Decimal) error {
	query := q.Rebind(`UPDATE wallets SET balance = ?, updated_at = ? WHERE id = ?`)
	result, err := q.ExecContext(ctx, query, balance, time.Now().UTC(), walletID)
	if err != nil {
		return fmt.Errorf("failed to update wallet balance for ID %d: %w", walletID, err)
	}
	return requireOneRow(result, "wallet", walletID)
}
