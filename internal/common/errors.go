// Package common defines shared constants and sentinel errors used across
// the messaging service. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Auth-flow errors (login/registration).
	//
	// ErrInvalidCredentials deliberately covers both "unknown user" and
	// "wrong password" so callers cannot enumerate usernames.
	ErrMissingFields      = errors.New("missing required fields")
	ErrInvalidCredentials = errors.New("invalid username/password")
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrUnknownUsername    = errors.New("unknown username")

	// Access-control errors.
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("access denied")

	// Token errors (invalid, malformed, or expired token).
	ErrInvalidToken = errors.New("invalid token")

	// Generic/internal flow control.
	ErrInternal = errors.New("internal error")
)
