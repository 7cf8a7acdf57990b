// Package common defines shared constants and sentinel errors used across
// the server, the CLI client and their storage layers. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound          = errors.New("not found")
	ErrConstraintViolation = errors.New("username or email already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("invalid login credentials")
	ErrorValidation   = errors.New("validation error")

	// Sign-up errors.
	ErrPasswordMismatch = errors.New("passwords do not match")

	// Upload boundary errors.
	ErrExtensionNotAllowed = errors.New("file extension not allowed")
	ErrUploadTooLarge      = errors.New("upload too large")

	// Preview errors.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrParseFailure      = errors.New("unable to parse the file")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Session errors.
	ErrInvalidTransition = errors.New("invalid session transition")
)
