// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"
)

// User represents a registered user of the expense tracker.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser creates a new User entity with the given credentials.
func NewUser(username, email, passwordHash string) *User {
	now := time.Now().UTC()

	return &User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Username constraints.
const (
	UsernameMinLength = 3
	UsernameMaxLength = 20
)
