package domain

import "errors"

// Error kinds surfaced by every core operation. The HTTP layer maps each one
// to a stable status code.
var (
	ErrValidation         = errors.New("validation failed")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrForbidden          = errors.New("access forbidden")
	ErrNotFound           = errors.New("not found")
	ErrInvalidState       = errors.New("invalid state")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInsufficientAmount = errors.New("amount is less than the bill amount")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyCheckedOut  = errors.New("visitor already checked out")
	ErrDuplicateRequest   = errors.New("duplicate request")
)
