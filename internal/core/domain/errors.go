package domain

import "errors"

// Common domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
	ErrInternalServer     = errors.New("internal server error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
)

// Document errors
var (
	ErrDocumentNotFound   = errors.New("document not found")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrResourceContention = errors.New("document number allocation retries exhausted")
	ErrCapacityExceeded   = errors.New("document number sequence exhausted for this year")
)

// User errors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserInactive      = errors.New("user account is inactive")
	ErrDivisionNotFound  = errors.New("division not found")
)

// ErrorCode returns the stable machine-readable code for a domain error.
// Unrecognized errors map to INTERNAL.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrDocumentNotFound),
		errors.Is(err, ErrUserNotFound), errors.Is(err, ErrDivisionNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrInvalidTransition):
		return "INVALID_TRANSITION"
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrUserInactive):
		return "FORBIDDEN"
	case errors.Is(err, ErrConflict), errors.Is(err, ErrUserAlreadyExists):
		return "CONFLICT"
	case errors.Is(err, ErrResourceContention):
		return "RESOURCE_CONTENTION"
	case errors.Is(err, ErrCapacityExceeded):
		return "CAPACITY_EXCEEDED"
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrTokenExpired), errors.Is(err, ErrTokenInvalid):
		return "UNAUTHORIZED"
	case errors.Is(err, ErrInvalidInput):
		return "INVALID_INPUT"
	default:
		return "INTERNAL"
	}
}
