// internal/domain/wallet.go
package domain

import (
	"time"

	"github.com/shopspring/decimal" // For precise monetary calculations
)

// DefaultWalletBalance is the cash every new wallet starts with.
var DefaultWalletBalance = decimal.NewFromInt(1000)

// Wallet represents a user's cash account. Its balance is never negative.
type Wallet struct {
	ID        int64           `db:"id" json:"id"`                 // Primary key, BIGSERIAL in DB
	UserID    int64           `db:"user_id" json:"user_id"`       // Foreign key to User, unique
	Balance   decimal.Decimal `db:"balance" json:"balance"`       // Current cash balance, NUMERIC in DB
	CreatedAt time.Time       `db:"created_at" json:"created_at"` // Timestamp of creation
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"` // Timestamp of last update
}

// NewWallet creates a new Wallet instance funded with DefaultWalletBalance.
func NewWallet(userID int64) *Wallet {
	now := time.Now().UTC()
	return &Wallet{
		UserID:    userID,
		Balance:   DefaultWalletBalance,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
