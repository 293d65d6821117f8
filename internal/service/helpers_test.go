// internal/service/helpers_test.go
package service

import (
	"context"
	"math/rand/v2"
	"testing"

	"cryptoex/internal/domain"
	"cryptoex/internal/metrics"
	"cryptoex/internal/repository/sqlstore"
	"cryptoex/internal/testutil"
	"cryptoex/pkg/db"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testCommission = decimal.RequireFromString("0.06")

// exchangeEnv wires the services against a private in-memory SQLite database.
type exchangeEnv struct {
	conn     *sqlx.DB
	repos    ExchangeRepositories
	engine   *TradingEngine
	trading  TradingService
	exchange ExchangeService
	metrics  *metrics.Metrics
}

func newExchangeEnv(t *testing.T) *exchangeEnv {
	t.Helper()
	conn := testutil.NewSQLiteDB(t)
	repos := ExchangeRepositories{
		Users:      sqlstore.NewUserRepository(),
		Wallets:    sqlstore.NewWalletRepository(),
		Currencies: sqlstore.NewCurrencyRepository(),
		Positions:  sqlstore.NewPositionRepository(),
		Operations: sqlstore.NewOperationRepository(),
	}
	m := metrics.New(prometheus.NewRegistry())
	engine := NewTradingEngine(repos.Wallets, repos.Positions, repos.Operations, testCommission)
	logger := zap.NewNop()

	return &exchangeEnv{
		conn:    conn,
		repos:   repos,
		engine:  engine,
		metrics: m,
		trading: NewTradingService(conn, repos.Users, repos.Wallets, repos.Currencies, engine, m, logger, db.DefaultTxFuncs()),
		exchange: NewExchangeService(conn, conn, repos, RateBounds{Min: 1, Max: 100}, testCommission,
			rand.New(rand.NewPCG(1, 1)), logger, db.DefaultTxFuncs()),
	}
}

// listCurrency stores a currency at a fixed rate, bypassing the random initial rate.
func (e *exchangeEnv) listCurrency(t *testing.T, name, rate string) *domain.Currency {
	t.Helper()
	currency := domain.NewCurrency(name, decimal.RequireFromString(rate))
	require.NoError(t, e.repos.Currencies.CreateCurrency(context.Background(), e.conn, currency))
	return currency
}

func (e *exchangeEnv) register(t *testing.T, name string) *UserProfile {
	t.Helper()
	profile, err := e.exchange.RegisterUser(context.Background(), name)
	require.NoError(t, err)
	return profile
}

func (e *exchangeEnv) trade(userName, currencyName string, opType domain.OperationType, amount, rate string) error {
	return e.trading.Trade(context.Background(), TradeRequest{
		UserName:     userName,
		CurrencyName: currencyName,
		Type:         opType,
		Amount:       decimal.RequireFromString(amount),
		ExchangeRate: decimal.RequireFromString(rate),
	})
}

func (e *exchangeEnv) profile(t *testing.T, userName string) *UserProfile {
	t.Helper()
	profile, err := e.exchange.GetUser(context.Background(), userName)
	require.NoError(t, err)
	return profile
}

func (e *exchangeEnv) operationCount(t *testing.T, userName string) int64 {
	t.Helper()
	_, total, err := e.exchange.GetOperations(context.Background(), userName, 1, 0)
	require.NoError(t, err)
	return total
}

// walletState captures everything a failed trade must leave untouched.
type walletState struct {
	Balance    string
	Positions  map[int64]string
	Operations int64
}

func (e *exchangeEnv) state(t *testing.T, userName string) walletState {
	t.Helper()
	profile := e.profile(t, userName)
	positions := make(map[int64]string, len(profile.Wallet.Currencies))
	for _, p := range profile.Wallet.Currencies {
		positions[p.CurrencyID] = p.Amount.String()
	}
	return walletState{
		Balance:    profile.Wallet.Balance.String(),
		Positions:  positions,
		Operations: e.operationCount(t, userName),
	}
}

func mockTxFuncs(tx *MockTxController) db.TxFuncs {
	return db.TxFuncs{
		Begin: func(ctx context.Context, dbConn db.DBTxBeginner) (db.TxController, error) {
			return tx, nil
		},
		Commit: func(db.TxController) error {
			return tx.Commit()
		},
		Rollback: func(db.TxController) {
			_ = tx.Rollback()
		},
	}
}
