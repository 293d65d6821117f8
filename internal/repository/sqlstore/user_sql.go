// internal/repository/sqlstore/user_sql.go
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cryptoex/internal/domain"
	"cryptoex/internal/repository"
	"cryptoex/internal/util"
	"cryptoex/pkg/db"
)

// UserRepository implements repository.UserRepository on top of sqlx.
type UserRepository struct{}

// NewUserRepository creates a new UserRepository.
func NewUserRepository() repository.UserRepository {
	return &UserRepository{}
}

// CreateUser inserts a new user into the database using the provided DBExecutor.
func (r *UserRepository) CreateUser(ctx context.Context, q repository.DBExecutor, user *domain.User) error {
	query := q.Rebind(`INSERT INTO users (name, registration_date) VALUES (?, ?) RETURNING id`)
	err := q.QueryRowContext(ctx, query, user.Name, user.RegistrationDate).Scan(&user.ID)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return fmt.Errorf("failed to create user '%s': %w", user.Name, util.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByID retrieves a user by their ID using the provided DBExecutor.
func (r *UserRepository) GetUserByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.User, error) {
	var user domain.User
	query := q.Rebind(`SELECT id, name, registration_date FROM users WHERE id = ?`)
	err := q.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID %d: %w", id, err)
	}
	return &user, nil
}

// GetUserByName retrieves a user by their name using the provided DBExecutor.
func (r *UserRepository) GetUserByName(ctx context.Context, q repository.DBExecutor, name string) (*domain.User, error) {
	var user domain.User
	query := q.Rebind(`SELECT id, name, registration_date FROM users WHERE name = ?`)
	err := q.GetContext(ctx, &user, query, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by name '%s': %w", name, err)
	}
	return &user, nil
}
