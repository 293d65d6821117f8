// internal/service/exchange_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cryptoex/internal/domain"
	"cryptoex/internal/repository"
	"cryptoex/internal/util"
	"cryptoex/pkg/db"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// CurrencyQuote is a currency together with the prices a wallet trades it at.
type CurrencyQuote struct {
	domain.Currency
	BuyingRate  decimal.Decimal `json:"buying_rate"`
	SellingRate decimal.Decimal `json:"selling_rate"`
}

// WalletView is the public shape of a wallet: cash plus held positions.
type WalletView struct {
	Balance    decimal.Decimal   `json:"balance"`
	Currencies []domain.Position `json:"currencies"`
}

// UserProfile is a user with their wallet.
type UserProfile struct {
	domain.User
	Wallet WalletView `json:"wallet"`
}

// RateBounds limits the randomly drawn initial rate of a new currency.
type RateBounds struct {
	Min int
	Max int
}

// ExchangeService defines the interface for the currency catalogue and user accounts.
type ExchangeService interface {
	AddCurrency(ctx context.Context, name string) (*domain.Currency, error)
	GetCurrency(ctx context.Context, name string) (*CurrencyQuote, error)
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
	SeedCurrencies(ctx context.Context, names []string) (int, error)
	RegisterUser(ctx context.Context, name string) (*UserProfile, error)
	GetUser(ctx context.Context, name string) (*UserProfile, error)
	GetOperations(ctx context.Context, userName string, limit, page int) ([]domain.Operation, int64, error)
}

// exchangeService implements the ExchangeService interface.
type exchangeService struct {
	dbBeginner    db.DBTxBeginner       // For starting transactions (e.g., *sqlx.DB)
	dbExecutor    repository.DBExecutor // For non-transactional reads (e.g., *sqlx.DB)
	userRepo      repository.UserRepository
	walletRepo    repository.WalletRepository
	currencyRepo  repository.CurrencyRepository
	positionRepo  repository.PositionRepository
	operationRepo repository.OperationRepository
	bounds        RateBounds
	commission    decimal.Decimal
	random        domain.RandomSource
	logger        *zap.Logger
	beginTx       db.BeginTxFunc
	commitTx      db.CommitTxFunc
	rollbackTx    db.RollbackTxFunc
	listGroup     singleflight.Group // Collapses concurrent catalogue reads into one query
}

// ExchangeRepositories groups the repositories the exchange service reads and writes.
type ExchangeRepositories struct {
	Users      repository.UserRepository
	Wallets    repository.WalletRepository
	Currencies repository.CurrencyRepository
	Positions  repository.PositionRepository
	Operations repository.OperationRepository
}

// NewExchangeService creates a new instance of ExchangeService.
func NewExchangeService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	repos ExchangeRepositories,
	bounds RateBounds,
	commission decimal.Decimal,
	random domain.RandomSource,
	logger *zap.Logger,
	txFuncs db.TxFuncs,
) ExchangeService {
	return &exchangeService{
		dbBeginner:    dbBeginner,
		dbExecutor:    dbExecutor,
		userRepo:      repos.Users,
		walletRepo:    repos.Wallets,
		currencyRepo:  repos.Currencies,
		positionRepo:  repos.Positions,
		operationRepo: repos.Operations,
		bounds:        bounds,
		commission:    commission,
		random:        random,
		logger:        logger,
		beginTx:       txFuncs.Begin,
		commitTx:      txFuncs.Commit,
		rollbackTx:    txFuncs.Rollback,
	}
}

func normalizeCurrencyName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// AddCurrency lists a new currency at a random initial rate. Names are stored lower-cased.
func (s *exchangeService) AddCurrency(ctx context.Context, name string) (*domain.Currency, error) {
	name = normalizeCurrencyName(name)
	if name == "" {
		return nil, fmt.Errorf("add currency: empty name: %w", util.ErrInvalidInput)
	}

	currency := domain.NewCurrency(name, domain.GenerateInitialRate(s.random, s.bounds.Min, s.bounds.Max))
	if err := s.currencyRepo.CreateCurrency(ctx, s.dbExecutor, currency); err != nil {
		if errors.Is(err, util.ErrDuplicateEntry) {
			return nil, util.ErrCurrencyExists
		}
		return nil, fmt.Errorf("add currency: %w", err)
	}

	s.logger.Info("Currency added", zap.String("currency", currency.Name), zap.String("rate", currency.ExchangeRate.String()))
	return currency, nil
}

// GetCurrency returns a currency with its current buying and selling rates.
func (s *exchangeService) GetCurrency(ctx context.Context, name string) (*CurrencyQuote, error) {
	currency, err := s.currencyRepo.GetCurrencyByName(ctx, s.dbExecutor, name)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, util.ErrCurrencyNotFound
		}
		return nil, fmt.Errorf("get currency: %w", err)
	}
	return &CurrencyQuote{
		Currency:    *currency,
		BuyingRate:  currency.BuyingRate(s.commission),
		SellingRate: currency.SellingRate(s.commission),
	}, nil
}

// ListCurrencies returns every listed currency ordered by ID.
// Callers share the result of an in-flight query and must not modify it.
func (s *exchangeService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	v, err, _ := s.listGroup.Do("currencies", func() (interface{}, error) {
		return s.currencyRepo.ListCurrencies(ctx, s.dbExecutor)
	})
	if err != nil {
		return nil, fmt.Errorf("list currencies: %w", err)
	}
	return v.([]domain.Currency), nil
}

// SeedCurrencies lists every name not yet present, in one transaction, and reports how many were added.
func (s *exchangeService) SeedCurrencies(ctx context.Context, names []string) (int, error) {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return 0, fmt.Errorf("seed currencies: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return 0, fmt.Errorf("seed currencies: transaction controller does not implement DBExecutor")
	}

	added := 0
	for _, name := range names {
		name = normalizeCurrencyName(name)
		if name == "" {
			continue
		}
		_, err := s.currencyRepo.GetCurrencyByName(ctx, txExecutor, name)
		if err == nil {
			continue
		}
		if !errors.Is(err, util.ErrNotFound) {
			return 0, fmt.Errorf("seed currencies: failed to look up '%s': %w", name, err)
		}

		currency := domain.NewCurrency(name, domain.GenerateInitialRate(s.random, s.bounds.Min, s.bounds.Max))
		if err := s.currencyRepo.CreateCurrency(ctx, txExecutor, currency); err != nil {
			return 0, fmt.Errorf("seed currencies: failed to create '%s': %w", name, err)
		}
		added++
	}

	if err := s.commitTx(txController); err != nil {
		return 0, fmt.Errorf("seed currencies: failed to commit transaction: %w", err)
	}

	s.logger.Info("Currencies seeded", zap.Int("added", added), zap.Int("requested", len(names)))
	return added, nil
}

// RegisterUser creates a user and their funded wallet in one transaction.
func (s *exchangeService) RegisterUser(ctx context.Context, name string) (*UserProfile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("register user: empty name: %w", util.ErrInvalidInput)
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("register user: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("register user: transaction controller does not implement DBExecutor")
	}

	user := domain.NewUser(name)
	if err := s.userRepo.CreateUser(ctx, txExecutor, user); err != nil {
		if errors.Is(err, util.ErrDuplicateEntry) {
			return nil, util.ErrUserExists
		}
		return nil, fmt.Errorf("register user: failed to create user: %w", err)
	}

	wallet := domain.NewWallet(user.ID)
	if err := s.walletRepo.CreateWallet(ctx, txExecutor, wallet); err != nil {
		return nil, fmt.Errorf("register user: failed to create wallet: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("register user: failed to commit transaction: %w", err)
	}

	s.logger.Info("User registered", zap.String("user", user.Name), zap.Int64("wallet_id", wallet.ID))
	return &UserProfile{
		User:   *user,
		Wallet: WalletView{Balance: wallet.Balance, Currencies: []domain.Position{}},
	}, nil
}

// GetUser returns a user with their wallet balance and positions.
func (s *exchangeService) GetUser(ctx context.Context, name string) (*UserProfile, error) {
	user, wallet, err := s.resolveWallet(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	positions, err := s.positionRepo.ListPositionsByWalletID(ctx, s.dbExecutor, wallet.ID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &UserProfile{
		User:   *user,
		Wallet: WalletView{Balance: wallet.Balance, Currencies: positions},
	}, nil
}

// GetOperations returns one page of a user's trade log, oldest first, and the total number of trades.
func (s *exchangeService) GetOperations(ctx context.Context, userName string, limit, page int) ([]domain.Operation, int64, error) {
	if limit < 1 || page < 0 {
		return nil, 0, fmt.Errorf("get operations: limit must be positive and page non-negative: %w", util.ErrInvalidInput)
	}

	_, wallet, err := s.resolveWallet(ctx, userName)
	if err != nil {
		return nil, 0, fmt.Errorf("get operations: %w", err)
	}

	operations, total, err := s.operationRepo.GetOperationsByWalletID(ctx, s.dbExecutor, wallet.ID, limit, limit*page)
	if err != nil {
		return nil, 0, fmt.Errorf("get operations: %w", err)
	}
	return operations, total, nil
}

func (s *exchangeService) resolveWallet(ctx context.Context, userName string) (*domain.User, *domain.Wallet, error) {
	user, err := s.userRepo.GetUserByName(ctx, s.dbExecutor, userName)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, nil, util.ErrUserNotFound
		}
		return nil, nil, fmt.Errorf("failed to get user '%s': %w", userName, err)
	}

	wallet, err := s.walletRepo.GetWalletByUserID(ctx, s.dbExecutor, user.ID)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, nil, util.ErrWalletNotFound
		}
		return nil, nil, fmt.Errorf("failed to get wallet of user %d: %w", user.ID, err)
	}
	return user, wallet, nil
}
