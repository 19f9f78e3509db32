// Package core holds the domain model shared by storage, services and the
// HTTP layer: users, accounts, categories, transactions and the sentinel
// errors the boundary maps to response codes.
package core

import "errors"

// Domain-level errors. Services return these (usually wrapped with %w and a
// detail message); the HTTP layer maps them to a status code and error_code
// with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicate          = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrRefreshRevoked     = errors.New("refresh token revoked")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrValidation         = errors.New("validation failed")
)
