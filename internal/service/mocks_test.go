// internal/service/mocks_test.go
package service

import (
	"context"
	"database/sql"

	"cryptoex/internal/domain"
	"cryptoex/internal/repository"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockDBExecutor is a mock implementation of repository.DBExecutor.
type MockDBExecutor struct {
	mock.Mock
}

func (m *MockDBExecutor) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	argsCalled := m.Called(ctx, query, args)
	return argsCalled.Get(0).(sql.Result), argsCalled.Error(1)
}

func (m *MockDBExecutor) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	m.Called(ctx, query, args)
	return &sql.Row{}
}

func (m *MockDBExecutor) Rebind(query string) string { return query }

func (m *MockDBExecutor) DriverName() string { return "mock" }

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, q repository.DBExecutor, user *domain.User) error {
	args := m.Called(ctx, q, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.User, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByName(ctx context.Context, q repository.DBExecutor, name string) (*domain.User, error) {
	args := m.Called(ctx, q, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockWalletRepository is a mock implementation of repository.WalletRepository.
type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) CreateWallet(ctx context.Context, q repository.DBExecutor, wallet *domain.Wallet) error {
	args := m.Called(ctx, q, wallet)
	return args.Error(0)
}

func (m *MockWalletRepository) GetWalletByUserID(ctx context.Context, q repository.DBExecutor, userID int64) (*domain.Wallet, error) {
	args := m.Called(ctx, q, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *MockWalletRepository) GetWalletByUserIDForUpdate(ctx context.Context, q repository.DBExecutor, userID int64) (*domain.Wallet, error) {
	args := m.Called(ctx, q, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *MockWalletRepository) SetWalletBalance(ctx context.Context, q repository.DBExecutor, walletID int64, balance decimal.Decimal) error {
	args := m.Called(ctx, q, walletID, balance)
	return args.Error(0)
}

// MockCurrencyRepository is a mock implementation of repository.CurrencyRepository.
type MockCurrencyRepository struct {
	mock.Mock
}

func (m *MockCurrencyRepository) CreateCurrency(ctx context.Context, q repository.DBExecutor, currency *domain.Currency) error {
	args := m.Called(ctx, q, currency)
	return args.Error(0)
}

func (m *MockCurrencyRepository) GetCurrencyByName(ctx context.Context, q repository.DBExecutor, name string) (*domain.Currency, error) {
	args := m.Called(ctx, q, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) GetCurrencyByNameForUpdate(ctx context.Context, q repository.DBExecutor, name string) (*domain.Currency, error) {
	args := m.Called(ctx, q, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) ListCurrencies(ctx context.Context, q repository.DBExecutor) ([]domain.Currency, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) ListCurrenciesForUpdate(ctx context.Context, q repository.DBExecutor) ([]domain.Currency, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) UpdateExchangeRate(ctx context.Context, q repository.DBExecutor, currencyID int64, rate decimal.Decimal) error {
	args := m.Called(ctx, q, currencyID, rate)
	return args.Error(0)
}

// MockPositionRepository is a mock implementation of repository.PositionRepository.
type MockPositionRepository struct {
	mock.Mock
}

func (m *MockPositionRepository) CreatePosition(ctx context.Context, q repository.DBExecutor, position *domain.Position) error {
	args := m.Called(ctx, q, position)
	return args.Error(0)
}

func (m *MockPositionRepository) GetPositionForUpdate(ctx context.Context, q repository.DBExecutor, walletID, currencyID int64) (*domain.Position, error) {
	args := m.Called(ctx, q, walletID, currencyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Position), args.Error(1)
}

func (m *MockPositionRepository) ListPositionsByWalletID(ctx context.Context, q repository.DBExecutor, walletID int64) ([]domain.Position, error) {
	args := m.Called(ctx, q, walletID)
	return args.Get(0).([]domain.Position), args.Error(1)
}

func (m *MockPositionRepository) SetPositionAmount(ctx context.Context, q repository.DBExecutor, positionID int64, amount decimal.Decimal) error {
	args := m.Called(ctx, q, positionID, amount)
	return args.Error(0)
}

func (m *MockPositionRepository) DeletePosition(ctx context.Context, q repository.DBExecutor, positionID int64) error {
	args := m.Called(ctx, q, positionID)
	return args.Error(0)
}

// MockOperationRepository is a mock implementation of repository.OperationRepository.
type MockOperationRepository struct {
	mock.Mock
}

func (m *MockOperationRepository) CreateOperation(ctx context.Context, q repository.DBExecutor, operation *domain.Operation) error {
	args := m.Called(ctx, q, operation)
	return args.Error(0)
}

func (m *MockOperationRepository) GetOperationsByWalletID(ctx context.Context, q repository.DBExecutor, walletID int64, limit, offset int) ([]domain.Operation, int64, error) {
	args := m.Called(ctx, q, walletID, limit, offset)
	return args.Get(0).([]domain.Operation), args.Get(1).(int64), args.Error(2)
}

// MockDBBeginner is a mock implementation of db.DBTxBeginner.
type MockDBBeginner struct {
	mock.Mock
}

func (m *MockDBBeginner) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	args := m.Called(ctx, opts)
	return &sqlx.Tx{}, args.Error(1)
}

// MockTxController is a mock implementation of db.TxController.
// It also implicitly implements repository.DBExecutor for testing purposes
// by embedding MockDBExecutor.
type MockTxController struct {
	mock.Mock
	MockDBExecutor // Embed MockDBExecutor to satisfy repository.DBExecutor interface
}

func (m *MockTxController) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTxController) Rollback() error {
	args := m.Called()
	return args.Error(0)
}
