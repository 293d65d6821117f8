// pkg/db/transaction_manager.go
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// TxController defines methods for controlling a database transaction.
// *sqlx.Tx implicitly implements this interface.
type TxController interface {
	Commit() error
	Rollback() error
}

// DBTxBeginner defines the interface for beginning transactions.
// *sqlx.DB implements this.
type DBTxBeginner interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// Function types injected into services so tests can replace the transaction lifecycle.
type (
	BeginTxFunc    func(ctx context.Context, dbConn DBTxBeginner) (TxController, error)
	CommitTxFunc   func(tx TxController) error
	RollbackTxFunc func(tx TxController)
)

// BeginTx starts a new database transaction.
// It returns a TxController interface, which *sqlx.Tx implements.
func BeginTx(ctx context.Context, dbConn DBTxBeginner) (TxController, error) {
	tx, err := dbConn.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return tx, nil // *sqlx.Tx implicitly implements TxController
}

// CommitTx commits the transaction.
func CommitTx(tx TxController) error {
	return tx.Commit()
}

// RollbackTx rolls back the transaction. Safe to defer: a rollback after commit is ignored.
func RollbackTx(tx TxController) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		zap.L().Warn("Error rolling back transaction", zap.Error(err))
	}
}

// TxFuncs bundles the transaction lifecycle so a unit of work can be run as one scope.
type TxFuncs struct {
	Begin    BeginTxFunc
	Commit   CommitTxFunc
	Rollback RollbackTxFunc
}

// DefaultTxFuncs returns the sqlx-backed lifecycle.
func DefaultTxFuncs() TxFuncs {
	return TxFuncs{Begin: BeginTx, Commit: CommitTx, Rollback: RollbackTx}
}

// Run executes fn inside one transaction. The transaction is committed when fn returns nil
// and rolled back on every other exit path, including a panic in fn.
func (f TxFuncs) Run(ctx context.Context, dbConn DBTxBeginner, fn func(tx TxController) error) error {
	tx, err := f.Begin(ctx, dbConn)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer f.Rollback(tx)

	if err := fn(tx); err != nil {
		return err
	}

	if err := f.Commit(tx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
