// internal/domain/position.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position is the amount of one currency held in one wallet.
// At most one row exists per (wallet, currency); a position that reaches zero is deleted.
type Position struct {
	ID         int64           `db:"id" json:"-"`
	WalletID   int64           `db:"wallet_id" json:"-"`
	CurrencyID int64           `db:"currency_id" json:"currency_id"`
	Amount     decimal.Decimal `db:"amount" json:"currency_amount"`
	CreatedAt  time.Time       `db:"created_at" json:"-"`
	UpdatedAt  time.Time       `db:"updated_at" json:"-"`
}

// NewPosition creates a new Position instance.
func NewPosition(walletID, currencyID int64, amount decimal.Decimal) *Position {
	now := time.Now().UTC()
	return &Position{
		WalletID:   walletID,
		CurrencyID: currencyID,
		Amount:     amount,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
