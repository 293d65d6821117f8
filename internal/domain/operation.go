// internal/domain/operation.go
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OperationType defines the direction of a trade.
type OperationType string

const (
	OperationTypeBuy  OperationType = "BUY"
	OperationTypeSell OperationType = "SELL"
)

// ParseOperationType accepts "buy"/"sell" in any letter case.
func ParseOperationType(s string) (OperationType, error) {
	switch t := OperationType(strings.ToUpper(strings.TrimSpace(s))); t {
	case OperationTypeBuy, OperationTypeSell:
		return t, nil
	default:
		return "", fmt.Errorf("unknown operation type %q", s)
	}
}

// Operation is an append-only log entry of one executed trade. Never updated or deleted.
type Operation struct {
	ID         int64           `db:"id" json:"id"`
	CurrencyID int64           `db:"currency_id" json:"currency_id"`
	WalletID   int64           `db:"wallet_id" json:"wallet_id"`
	Type       OperationType   `db:"type" json:"type"`
	Amount     decimal.Decimal `db:"amount" json:"amount"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}

// NewOperation creates a new Operation instance.
func NewOperation(currencyID, walletID int64, opType OperationType, amount decimal.Decimal) *Operation {
	return &Operation{
		CurrencyID: currencyID,
		WalletID:   walletID,
		Type:       opType,
		Amount:     amount,
		CreatedAt:  time.Now().UTC(),
	}
}
