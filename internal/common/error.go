// Package common defines shared constants and sentinel errors used across
// PODs components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Validation errors.
	ErrorValidation            = errors.New("validation error")
	ErrorInvalidTimezone       = errors.New("invalid IANA timezone")
	ErrorInvalidPasswordFormat = errors.New("invalid password format")
	ErrorInvalidLoginPassword  = errors.New("invalid login/password")
	ErrorPartyNameTaken        = errors.New("community name taken")
	ErrorPartyCodeInUse        = errors.New("code in use")
	ErrorUserAlreadyExists     = errors.New("user already exists")

	// Session errors (invalid or malformed session token).
	ErrInvalidSession = errors.New("invalid session")
)
