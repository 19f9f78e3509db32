package core

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// User is the identity record every resource hangs off.
//
// TokenVersion backs refresh-token revocation: a refresh token carries the
// version it was minted at and is only honoured while the stored version still
// matches. Incrementing the column invalidates every outstanding refresh token.
type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	IsActive       bool      `json:"is_active"`
	TokenVersion   int64     `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in RegisterInput) Validate() error {
	if strings.TrimSpace(in.Username) == "" {
		return fmt.Errorf("%w: username is required", ErrValidation)
	}
	if len(in.Username) > 50 {
		return fmt.Errorf("%w: username too long (max 50 characters)", ErrValidation)
	}
	if !emailPattern.MatchString(in.Email) {
		return fmt.Errorf("%w: invalid email format", ErrValidation)
	}
	if len(in.Password) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
	}
	return nil
}

// LoginInput carries the credentials presented at login.
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (in LoginInput) Validate() error {
	if strings.TrimSpace(in.Username) == "" || in.Password == "" {
		return fmt.Errorf("%w: username and password are required", ErrValidation)
	}
	return nil
}
