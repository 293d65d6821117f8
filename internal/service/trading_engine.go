// internal/service/trading_engine.go
package service

import (
	"context"
	"errors"
	"fmt"

	"cryptoex/internal/domain"
	"cryptoex/internal/repository"
	"cryptoex/internal/util"

	"github.com/shopspring/decimal"
)

// TradingEngine applies buys and sells to an already resolved wallet and currency.
// Every method runs on the caller's transaction and expects the currency and wallet rows
// to be locked by it; on error the caller must roll back.
type TradingEngine struct {
	walletRepo    repository.WalletRepository
	positionRepo  repository.PositionRepository
	operationRepo repository.OperationRepository
	commission    decimal.Decimal
}

// NewTradingEngine creates a new TradingEngine charging the given commission fraction.
func NewTradingEngine(
	walletRepo repository.WalletRepository,
	positionRepo repository.PositionRepository,
	operationRepo repository.OperationRepository,
	commission decimal.Decimal,
) *TradingEngine {
	return &TradingEngine{
		walletRepo:    walletRepo,
		positionRepo:  positionRepo,
		operationRepo: operationRepo,
		commission:    commission,
	}
}

// Commission returns the configured commission fraction.
func (e *TradingEngine) Commission() decimal.Decimal {
	return e.commission
}

// checkPreconditions rejects a quote that no longer matches the stored rate and a non-positive amount.
// It runs before any rate is computed.
func (e *TradingEngine) checkPreconditions(currency *domain.Currency, amount, quotedRate decimal.Decimal) error {
	if !quotedRate.Equal(currency.ExchangeRate) {
		return util.ErrStalePrice
	}
	if !amount.IsPositive() {
		return fmt.Errorf("amount must be positive: %w", util.ErrInvalidInput)
	}
	return nil
}

// Buy debits amount * buying rate from the wallet and adds amount to its position in currency.
// On success wallet.Balance holds the new balance.
func (e *TradingEngine) Buy(ctx context.Context, q repository.DBExecutor, wallet *domain.Wallet, currency *domain.Currency, amount, quotedRate decimal.Decimal) error {
	if err := e.checkPreconditions(currency, amount, quotedRate); err != nil {
		return err
	}

	rate := currency.BuyingRate(e.commission)
	cost := rate.Mul(amount)
	if wallet.Balance.LessThan(cost) {
		return util.ErrInsufficientFunds
	}
	newBalance := wallet.Balance.Sub(cost)

	if err := e.walletRepo.SetWalletBalance(ctx, q, wallet.ID, newBalance); err != nil {
		return fmt.Errorf("buy: failed to debit wallet %d: %w", wallet.ID, err)
	}

	operation := domain.NewOperation(currency.ID, wallet.ID, domain.OperationTypeBuy, amount)
	if err := e.operationRepo.CreateOperation(ctx, q, operation); err != nil {
		return fmt.Errorf("buy: failed to record operation: %w", err)
	}

	position, err := e.positionRepo.GetPositionForUpdate(ctx, q, wallet.ID, currency.ID)
	switch {
	case errors.Is(err, util.ErrNotFound):
		position = domain.NewPosition(wallet.ID, currency.ID, amount)
		if err := e.positionRepo.CreatePosition(ctx, q, position); err != nil {
			return fmt.Errorf("buy: failed to open position: %w", err)
		}
	case err != nil:
		return fmt.Errorf("buy: failed to get position: %w", err)
	default:
		if err := e.positionRepo.SetPositionAmount(ctx, q, position.ID, position.Amount.Add(amount)); err != nil {
			return fmt.Errorf("buy: failed to increase position %d: %w", position.ID, err)
		}
	}

	wallet.Balance = newBalance
	return nil
}

// Sell removes amount from the wallet's position in currency and credits amount * selling rate.
// A position sold down to exactly zero is deleted. On success wallet.Balance holds the new balance.
func (e *TradingEngine) Sell(ctx context.Context, q repository.DBExecutor, wallet *domain.Wallet, currency *domain.Currency, amount, quotedRate decimal.Decimal) error {
	if err := e.checkPreconditions(currency, amount, quotedRate); err != nil {
		return err
	}

	rate := currency.SellingRate(e.commission)

	position, err := e.positionRepo.GetPositionForUpdate(ctx, q, wallet.ID, currency.ID)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return util.ErrNoSuchHolding
		}
		return fmt.Errorf("sell: failed to get position: %w", err)
	}
	if position.Amount.LessThan(amount) {
		return util.ErrInsufficientHolding
	}

	remaining := position.Amount.Sub(amount)
	newBalance := wallet.Balance.Add(rate.Mul(amount))

	if err := e.walletRepo.SetWalletBalance(ctx, q, wallet.ID, newBalance); err != nil {
		return fmt.Errorf("sell: failed to credit wallet %d: %w", wallet.ID, err)
	}

	if remaining.IsZero() {
		if err := e.positionRepo.DeletePosition(ctx, q, position.ID); err != nil {
			return fmt.Errorf("sell: failed to close position %d: %w", position.ID, err)
		}
	} else {
		if err := e.positionRepo.SetPositionAmount(ctx, q, position.ID, remaining); err != nil {
			return fmt.Errorf("sell: failed to decrease position %d: %w", position.ID, err)
		}
	}

	operation := domain.NewOperation(currency.ID, wallet.ID, domain.OperationTypeSell, amount)
	if err := e.operationRepo.CreateOperation(ctx, q, operation); err != nil {
		return fmt.Errorf("sell: failed to record operation: %w", err)
	}

	wallet.Balance = newBalance
	return nil
}
