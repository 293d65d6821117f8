// internal/repository/wallet_repo.go
package repository

import (
	"context"

	"cryptoex/internal/domain"

	"github.com/shopspring/decimal"
)

// WalletRepository defines the interface for wallet data operations.
type WalletRepository interface {
	// CreateWallet adds a new wallet to the database.
	CreateWallet(ctx context.Context, q DBExecutor, wallet *domain.Wallet) error
	// GetWalletByUserID retrieves the wallet owned by a user.
	GetWalletByUserID(ctx context.Context, q DBExecutor, userID int64) (*domain.Wallet, error)
	// GetWalletByUserIDForUpdate retrieves the wallet and locks its row until the transaction ends.
	GetWalletByUserIDForUpdate(ctx context.Context, q DBExecutor, userID int64) (*domain.Wallet, error)
	// SetWalletBalance overwrites the balance of a wallet.
	SetWalletBalance(ctx context.Context, q DBExecutor, walletID int64, balance decimal.Decimal) error
}
