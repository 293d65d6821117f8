// internal/service/trading_service.go
package service

import (
	"context"
	"errors"
	"fmt"

	"cryptoex/internal/domain"
	"cryptoex/internal/metrics"
	"cryptoex/internal/repository"
	"cryptoex/internal/util"
	"cryptoex/pkg/db"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TradeRequest is a buy or sell order quoted at the exchange rate the requester last saw.
type TradeRequest struct {
	UserName     string
	CurrencyName string
	Type         domain.OperationType
	Amount       decimal.Decimal
	ExchangeRate decimal.Decimal // Base rate the requester agrees to trade at
}

// TradingService defines the interface for executing trade requests.
type TradingService interface {
	Trade(ctx context.Context, req TradeRequest) error
}

// tradingService implements the TradingService interface.
type tradingService struct {
	dbBeginner   db.DBTxBeginner
	userRepo     repository.UserRepository
	walletRepo   repository.WalletRepository
	currencyRepo repository.CurrencyRepository
	engine       *TradingEngine
	metrics      *metrics.Metrics
	logger       *zap.Logger
	beginTx      db.BeginTxFunc    // Injected dependency for beginning transactions
	commitTx     db.CommitTxFunc   // Injected dependency for committing transactions
	rollbackTx   db.RollbackTxFunc // Injected dependency for rolling back transactions
}

// NewTradingService creates a new instance of TradingService.
func NewTradingService(
	dbBeginner db.DBTxBeginner,
	userRepo repository.UserRepository,
	walletRepo repository.WalletRepository,
	currencyRepo repository.CurrencyRepository,
	engine *TradingEngine,
	m *metrics.Metrics,
	logger *zap.Logger,
	txFuncs db.TxFuncs,
) TradingService {
	return &tradingService{
		dbBeginner:   dbBeginner,
		userRepo:     userRepo,
		walletRepo:   walletRepo,
		currencyRepo: currencyRepo,
		engine:       engine,
		metrics:      m,
		logger:       logger,
		beginTx:      txFuncs.Begin,
		commitTx:     txFuncs.Commit,
		rollbackTx:   txFuncs.Rollback,
	}
}

// Trade resolves the currency and the user's wallet, then runs the order through the engine.
// Everything happens in one transaction, so the quoted rate is compared against the locked row
// and a drift sweep cannot change it before the trade commits.
func (s *tradingService) Trade(ctx context.Context, req TradeRequest) (err error) {
	defer func() { s.metrics.ObserveTrade(string(req.Type), err) }()

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return fmt.Errorf("trade: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return fmt.Errorf("trade: transaction controller does not implement DBExecutor")
	}

	currency, err := s.currencyRepo.GetCurrencyByNameForUpdate(ctx, txExecutor, req.CurrencyName)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return util.ErrCurrencyNotFound
		}
		return fmt.Errorf("trade: failed to get currency '%s': %w", req.CurrencyName, err)
	}

	user, err := s.userRepo.GetUserByName(ctx, txExecutor, req.UserName)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return util.ErrUserNotFound
		}
		return fmt.Errorf("trade: failed to get user '%s': %w", req.UserName, err)
	}

	wallet, err := s.walletRepo.GetWalletByUserIDForUpdate(ctx, txExecutor, user.ID)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return util.ErrWalletNotFound
		}
		return fmt.Errorf("trade: failed to get wallet of user %d: %w", user.ID, err)
	}

	switch req.Type {
	case domain.OperationTypeBuy:
		err = s.engine.Buy(ctx, txExecutor, wallet, currency, req.Amount, req.ExchangeRate)
	case domain.OperationTypeSell:
		err = s.engine.Sell(ctx, txExecutor, wallet, currency, req.Amount, req.ExchangeRate)
	default:
		return fmt.Errorf("trade: unknown operation type %q: %w", req.Type, util.ErrInvalidInput)
	}
	if err != nil {
		return err
	}

	if err := s.commitTx(txController); err != nil {
		return fmt.Errorf("trade: failed to commit transaction: %w", err)
	}

	s.logger.Info("Trade executed",
		zap.String("user", user.Name),
		zap.String("currency", currency.Name),
		zap.String("type", string(req.Type)),
		zap.String("amount", req.Amount.String()),
		zap.String("balance", wallet.Balance.String()),
	)
	return nil
}
