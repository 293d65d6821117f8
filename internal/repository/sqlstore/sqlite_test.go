// internal/repository/sqlstore/sqlite_test.go
package sqlstore

import (
	"context"
	"testing"

	"cryptoex/internal/domain"
	"cryptoex/internal/testutil"
	"cryptoex/internal/util"
	"cryptoex/pkg/db"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteRepositoriesRoundTrip(t *testing.T) {
	ctx := context.Background()
	conn := testutil.NewSQLiteDB(t)

	users := NewUserRepository()
	wallets := NewWalletRepository()
	currencies := NewCurrencyRepository()
	positions := NewPositionRepository()
	operations := NewOperationRepository()

	user := domain.NewUser("alice")
	require.NoError(t, users.CreateUser(ctx, conn, user))
	require.NotZero(t, user.ID)

	err := users.CreateUser(ctx, conn, domain.NewUser("alice"))
	assert.ErrorIs(t, err, util.ErrDuplicateEntry)

	wallet := domain.NewWallet(user.ID)
	require.NoError(t, wallets.CreateWallet(ctx, conn, wallet))

	stored, err := wallets.GetWalletByUserIDForUpdate(ctx, conn, user.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1000).Equal(stored.Balance))

	btc := domain.NewCurrency("bitcoin", decimal.RequireFromString("45717.125"))
	eth := domain.NewCurrency("ethereum", decimal.NewFromInt(3425))
	require.NoError(t, currencies.CreateCurrency(ctx, conn, btc))
	require.NoError(t, currencies.CreateCurrency(ctx, conn, eth))
	assert.ErrorIs(t, currencies.CreateCurrency(ctx, conn, domain.NewCurrency("bitcoin", decimal.NewFromInt(1))), util.ErrDuplicateEntry)

	all, err := currencies.ListCurrenciesForUpdate(ctx, conn)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "bitcoin", all[0].Name)
	assert.Equal(t, "45717.125", all[0].ExchangeRate.String())

	require.NoError(t, currencies.UpdateExchangeRate(ctx, conn, eth.ID, decimal.RequireFromString("3082.5")))
	got, err := currencies.GetCurrencyByName(ctx, conn, "ethereum")
	require.NoError(t, err)
	assert.Equal(t, "3082.5", got.ExchangeRate.String())

	position := domain.NewPosition(wallet.ID, btc.ID, decimal.RequireFromString("0.3"))
	require.NoError(t, positions.CreatePosition(ctx, conn, position))
	err = positions.CreatePosition(ctx, conn, domain.NewPosition(wallet.ID, btc.ID, decimal.NewFromInt(1)))
	assert.ErrorIs(t, err, util.ErrDuplicateEntry)

	require.NoError(t, positions.SetPositionAmount(ctx, conn, position.ID, decimal.RequireFromString("0.45")))
	held, err := positions.GetPositionForUpdate(ctx, conn, wallet.ID, btc.ID)
	require.NoError(t, err)
	assert.Equal(t, "0.45", held.Amount.String())

	require.NoError(t, positions.DeletePosition(ctx, conn, position.ID))
	_, err = positions.GetPositionForUpdate(ctx, conn, wallet.ID, btc.ID)
	assert.ErrorIs(t, err, util.ErrNotFound)

	for _, amount := range []string{"1.2", "2.1", "10"} {
		op := domain.NewOperation(btc.ID, wallet.ID, domain.OperationTypeBuy, decimal.RequireFromString(amount))
		require.NoError(t, operations.CreateOperation(ctx, conn, op))
	}
	page, total, err := operations.GetOperationsByWalletID(ctx, conn, wallet.ID, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page, 1)
	assert.Equal(t, "10", page[0].Amount.String())
}

func TestSQLiteConstraintsRejectInvalidState(t *testing.T) {
	ctx := context.Background()
	conn := testutil.NewSQLiteDB(t)

	user := domain.NewUser("bob")
	require.NoError(t, NewUserRepository().CreateUser(ctx, conn, user))
	wallet := domain.NewWallet(user.ID)
	require.NoError(t, NewWalletRepository().CreateWallet(ctx, conn, wallet))

	err := NewWalletRepository().SetWalletBalance(ctx, conn, wallet.ID, decimal.NewFromInt(-1))
	require.Error(t, err)
	assert.True(t, db.IsCheckViolation(err))

	currency := domain.NewCurrency("ripple", decimal.NewFromInt(5))
	require.NoError(t, NewCurrencyRepository().CreateCurrency(ctx, conn, currency))
	err = NewPositionRepository().CreatePosition(ctx, conn, domain.NewPosition(wallet.ID, currency.ID, decimal.Zero))
	require.Error(t, err)
	assert.True(t, db.IsCheckViolation(err))
}
