// internal/repository/user_repo.go
package repository

import (
	"context"

	"cryptoex/internal/domain"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	// CreateUser adds a new user and sets its ID. A taken name yields util.ErrDuplicateEntry.
	CreateUser(ctx context.Context, q DBExecutor, user *domain.User) error
	// GetUserByID retrieves a user by their ID using the provided DBExecutor.
	GetUserByID(ctx context.Context, q DBExecutor, id int64) (*domain.User, error)
	// GetUserByName retrieves a user by their unique name using the provided DBExecutor.
	GetUserByName(ctx context.Context, q DBExecutor, name string) (*domain.User, error)
}
