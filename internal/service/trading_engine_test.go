// internal/service/trading_engine_test.go
package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"cryptoex/internal/domain"
	"cryptoex/internal/util"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBuyDebitsCostAndOpensPosition(t *testing.T) {
	env := newExchangeEnv(t)
	env.register(t, "alice")
	currency := env.listCurrency(t, "bitcoin", "100")

	require.NoError(t, env.trade("alice", "bitcoin", domain.OperationTypeBuy, "3", "100"))

	state := env.state(t, "alice")
	assert.Equal(t, "682", state.Balance)
	assert.Equal(t, map[int64]string{currency.ID: "3"}, state.Positions)
	assert.Equal(t, int64(1), state.Operations)

	t.Run("SecondBuyConsolidatesPosition", func(t *testing.T) {
		require.NoError(t, env.trade("alice", "bitcoin", domain.OperationTypeBuy, "0.5", "100"))

		state := env.state(t, "alice")
		assert.Equal(t, "629", state.Balance)
		assert.Equal(t, map[int64]string{currency.ID: "3.5"}, state.Positions)
		assert.Equal(t, int64(2), state.Operations)
	})
}

func TestSellExhaustingPositionDeletesRow(t *testing.T) {
	env := newExchangeEnv(t)
	env.register(t, "alice")
	env.listCurrency(t, "ripple", "10")

	require.NoError(t, env.trade("alice", "ripple", domain.OperationTypeBuy, "20", "10"))
	assert.Equal(t, "788", env.state(t, "alice").Balance)

	require.NoError(t, env.trade("alice", "ripple", domain.OperationTypeSell, "20", "10"))

	state := env.state(t, "alice")
	assert.Empty(t, state.Positions)
	assert.Equal(t, "976", state.Balance) // 788 + 20 * 10 * 0.94
	assert.Equal(t, int64(2), state.Operations)
}

func TestPartialSellKeepsRemainder(t *testing.T) {
	env := newExchangeEnv(t)
	env.register(t, "alice")
	currency := env.listCurrency(t, "monero", "4")

	require.NoError(t, env.trade("alice", "monero", domain.OperationTypeBuy, "10", "4"))
	require.NoError(t, env.trade("alice", "monero", domain.OperationTypeSell, "9.75", "4"))

	state := env.state(t, "alice")
	assert.Equal(t, map[int64]string{currency.ID: "0.25"}, state.Positions)
}

func TestRoundTripCostsTwiceTheSpread(t *testing.T) {
	env := newExchangeEnv(t)
	env.register(t, "alice")
	env.listCurrency(t, "ethereum", "37.25")
	amount := decimal.RequireFromString("1.5")
	rate := decimal.RequireFromString("37.25")

	before := decimal.RequireFromString(env.state(t, "alice").Balance)
	require.NoError(t, env.trade("alice", "ethereum", domain.OperationTypeBuy, "1.5", "37.25"))
	require.NoError(t, env.trade("alice", "ethereum", domain.OperationTypeSell, "1.5", "37.25"))
	after := decimal.RequireFromString(env.state(t, "alice").Balance)

	expected := amount.Mul(rate).Mul(decimal.NewFromInt(2)).Mul(testCommission)
	assert.True(t, before.Sub(after).Equal(expected), "spread cost %s, want %s", before.Sub(after), expected)
}

func TestFailedTradesLeaveStateUntouched(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(t *testing.T, env *exchangeEnv)
		opType  domain.OperationType
		amount  string
		rate    string
		wantErr error
	}{
		{
			name:    "InsufficientFunds",
			opType:  domain.OperationTypeBuy,
			amount:  "10", // 10 * 106 > 1000
			rate:    "100",
			wantErr: util.ErrInsufficientFunds,
		},
		{
			name:    "NoSuchHolding",
			opType:  domain.OperationTypeSell,
			amount:  "1",
			rate:    "100",
			wantErr: util.ErrNoSuchHolding,
		},
		{
			name: "InsufficientHolding",
			prepare: func(t *testing.T, env *exchangeEnv) {
				require.NoError(t, env.trade("alice", "bitcoin", domain.OperationTypeBuy, "1", "100"))
			},
			opType:  domain.OperationTypeSell,
			amount:  "1.0001",
			rate:    "100",
			wantErr: util.ErrInsufficientHolding,
		},
		{
			name:    "StalePrice",
			opType:  domain.OperationTypeBuy,
			amount:  "1",
			rate:    "99.99",
			wantErr: util.ErrStalePrice,
		},
		{
			name:    "NonPositiveAmount",
			opType:  domain.OperationTypeBuy,
			amount:  "0",
			rate:    "100",
			wantErr: util.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newExchangeEnv(t)
			env.register(t, "alice")
			env.listCurrency(t, "bitcoin", "100")
			if tt.prepare != nil {
				tt.prepare(t, env)
			}

			before := env.state(t, "alice")
			err := env.trade("alice", "bitcoin", tt.opType, tt.amount, tt.rate)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, before, env.state(t, "alice"))
		})
	}
}

func TestRandomTradeSequencesKeepBooksConsistent(t *testing.T) {
	env := newExchangeEnv(t)
	env.register(t, "alice")
	env.listCurrency(t, "bitcoin", "45.5")
	env.listCurrency(t, "cardano", "0.37")

	r := rand.New(rand.NewPCG(2024, 10))
	names := []string{"bitcoin", "cardano"}
	rates := map[string]string{"bitcoin": "45.5", "cardano": "0.37"}
	amounts := []string{"0.1", "0.25", "1", "2.5", "7", "13"}
	allowed := []error{util.ErrInsufficientFunds, util.ErrNoSuchHolding, util.ErrInsufficientHolding}

	for i := 0; i < 150; i++ {
		name := names[r.IntN(len(names))]
		opType := domain.OperationTypeBuy
		if r.IntN(2) == 0 {
			opType = domain.OperationTypeSell
		}

		err := env.trade("alice", name, opType, amounts[r.IntN(len(amounts))], rates[name])
		if err != nil {
			known := false
			for _, target := range allowed {
				known = known || errors.Is(err, target)
			}
			require.True(t, known, "unexpected trade error: %v", err)
		}

		profile := env.profile(t, "alice")
		require.False(t, profile.Wallet.Balance.IsNegative(), "balance went negative: %s", profile.Wallet.Balance)
		for _, p := range profile.Wallet.Currencies {
			require.True(t, p.Amount.IsPositive(), "position %d persisted with amount %s", p.CurrencyID, p.Amount)
		}
	}
}

func TestEngineStalePriceTouchesNothing(t *testing.T) {
	ctx := context.Background()
	mockWalletRepo := new(MockWalletRepository)
	mockPositionRepo := new(MockPositionRepository)
	mockOperationRepo := new(MockOperationRepository)
	engine := NewTradingEngine(mockWalletRepo, mockPositionRepo, mockOperationRepo, testCommission)

	wallet := &domain.Wallet{ID: 1, Balance: decimal.NewFromInt(1000)}
	currency := &domain.Currency{ID: 2, Name: "bitcoin", ExchangeRate: decimal.NewFromInt(100)}

	err := engine.Buy(ctx, new(MockDBExecutor), wallet, currency, decimal.NewFromInt(1), decimal.NewFromInt(101))
	assert.ErrorIs(t, err, util.ErrStalePrice)
	err = engine.Sell(ctx, new(MockDBExecutor), wallet, currency, decimal.NewFromInt(1), decimal.NewFromInt(99))
	assert.ErrorIs(t, err, util.ErrStalePrice)

	assert.True(t, decimal.NewFromInt(1000).Equal(wallet.Balance))
	mockWalletRepo.AssertNotCalled(t, "SetWalletBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockPositionRepo.AssertNotCalled(t, "GetPositionForUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEngineBuyIncrementsExistingPosition(t *testing.T) {
	ctx := context.Background()
	q := new(MockDBExecutor)
	mockWalletRepo := new(MockWalletRepository)
	mockPositionRepo := new(MockPositionRepository)
	mockOperationRepo := new(MockOperationRepository)
	engine := NewTradingEngine(mockWalletRepo, mockPositionRepo, mockOperationRepo, testCommission)

	wallet := &domain.Wallet{ID: 1, Balance: decimal.NewFromInt(1000)}
	currency := &domain.Currency{ID: 2, ExchangeRate: decimal.NewFromInt(100)}
	existing := &domain.Position{ID: 9, WalletID: 1, CurrencyID: 2, Amount: decimal.NewFromInt(2)}

	mockWalletRepo.On("SetWalletBalance", ctx, q, int64(1), mock.MatchedBy(func(b decimal.Decimal) bool {
		return b.Equal(decimal.NewFromInt(682))
	})).Return(nil).Once()
	mockOperationRepo.On("CreateOperation", ctx, q, mock.MatchedBy(func(op *domain.Operation) bool {
		return op.Type == domain.OperationTypeBuy && op.Amount.Equal(decimal.NewFromInt(3))
	})).Return(nil).Once()
	mockPositionRepo.On("GetPositionForUpdate", ctx, q, int64(1), int64(2)).Return(existing, nil).Once()
	mockPositionRepo.On("SetPositionAmount", ctx, q, int64(9), mock.MatchedBy(func(a decimal.Decimal) bool {
		return a.Equal(decimal.NewFromInt(5))
	})).Return(nil).Once()

	require.NoError(t, engine.Buy(ctx, q, wallet, currency, decimal.NewFromInt(3), decimal.NewFromInt(100)))
	assert.True(t, decimal.NewFromInt(682).Equal(wallet.Balance))

	mockWalletRepo.AssertExpectations(t)
	mockPositionRepo.AssertExpectations(t)
	mockOperationRepo.AssertExpectations(t)
}

func TestEngineSellStorageFailureKeepsWalletBalance(t *testing.T) {
	ctx := context.Background()
	q := new(MockDBExecutor)
	mockWalletRepo := new(MockWalletRepository)
	mockPositionRepo := new(MockPositionRepository)
	engine := NewTradingEngine(mockWalletRepo, mockPositionRepo, new(MockOperationRepository), testCommission)

	wallet := &domain.Wallet{ID: 1, Balance: decimal.NewFromInt(10)}
	currency := &domain.Currency{ID: 2, ExchangeRate: decimal.NewFromInt(100)}
	storageErr := errors.New("connection reset")

	mockPositionRepo.On("GetPositionForUpdate", ctx, q, int64(1), int64(2)).
		Return(&domain.Position{ID: 4, Amount: decimal.NewFromInt(1)}, nil).Once()
	mockWalletRepo.On("SetWalletBalance", ctx, q, int64(1), mock.Anything).Return(storageErr).Once()

	err := engine.Sell(ctx, q, wallet, currency, decimal.NewFromInt(1), decimal.NewFromInt(100))
	assert.ErrorIs(t, err, storageErr)
	assert.True(t, decimal.NewFromInt(10).Equal(wallet.Balance))
	mockPositionRepo.AssertNotCalled(t, "DeletePosition", mock.Anything, mock.Anything, mock.Anything)
}
