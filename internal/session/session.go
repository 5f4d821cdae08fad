package session

import (
	"errors"
	"time"
)

var (
	// ErrInvalidCredentials is returned by sign-in for any bad email/password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUnauthorized is returned for missing, expired or revoked tokens.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound is returned when no user matches.
	ErrNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when registering an existing email.
	ErrEmailTaken = errors.New("email already registered")
)

// Identity is the signed-in member. A nil *Identity means signed out.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// User is the identity provider's record.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

func (u User) Identity() Identity {
	return Identity{ID: u.ID, Email: u.Email}
}
