// internal/util/errors.go
package util

import "errors"

// Common application-specific errors.
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input provided")
	ErrDuplicateEntry = errors.New("duplicate entry") // Unique constraint hit in the store

	ErrUserNotFound     = errors.New("user not found")
	ErrWalletNotFound   = errors.New("wallet not found")
	ErrCurrencyNotFound = errors.New("currency not found")

	ErrUserExists     = errors.New("user already exists")
	ErrCurrencyExists = errors.New("currency already exists")

	// Trading failures. None of them leave a mutation behind.
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrNoSuchHolding       = errors.New("currency not held in wallet")
	ErrInsufficientHolding = errors.New("insufficient currency holding")
	ErrStalePrice          = errors.New("quoted exchange rate is outdated")
)

// IsError reports whether any error in err's chain matches target.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}
