// internal/domain/user.go
package domain

import "time"

// User represents a registered exchange user. Each user owns exactly one Wallet.
type User struct {
	ID               int64     `db:"id" json:"id"`                               // Primary key, BIGSERIAL in DB
	Name             string    `db:"name" json:"name"`                           // Unique user name
	RegistrationDate time.Time `db:"registration_date" json:"registration_date"` // Timestamp of registration
}

// NewUser creates a new User instance.
func NewUser(name string) *User {
	return &User{
		Name:             name,
		RegistrationDate: time.Now().UTC(),
	}
}
