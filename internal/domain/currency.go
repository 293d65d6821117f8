// internal/domain/currency.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency is a tradable cryptocurrency with a strictly positive base exchange rate.
// The rate changes only at creation and through the rate drift process.
type Currency struct {
	ID           int64           `db:"id" json:"id"`
	Name         string          `db:"name" json:"name"`
	ExchangeRate decimal.Decimal `db:"exchange_rate" json:"exchange_rate"`
	CreatedAt    time.Time       `db:"created_at" json:"-"`
	UpdatedAt    time.Time       `db:"updated_at" json:"-"`
}

// NewCurrency creates a new Currency instance.
func NewCurrency(name string, rate decimal.Decimal) *Currency {
	now := time.Now().UTC()
	return &Currency{
		Name:         name,
		ExchangeRate: rate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// BuyingRate is the price per unit a wallet pays when buying this currency.
func (c *Currency) BuyingRate(commission decimal.Decimal) decimal.Decimal {
	return BuyingRate(c.ExchangeRate, commission)
}

// SellingRate is the price per unit a wallet receives when selling this currency.
func (c *Currency) SellingRate(commission decimal.Decimal) decimal.Decimal {
	return SellingRate(c.ExchangeRate, commission)
}
