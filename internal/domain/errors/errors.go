// Package errors defines the application error taxonomy shared by the
// usecase and delivery layers.
package errors

import (
	"net/http"

	"github.com/pkg/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types. The login failure split (account-not-found vs
// wrong-credential vs the generic fallback) is part of the contract: the
// calling UI renders different guidance for each kind.
var (
	// ErrValidation covers malformed input: bad email shape, mismatched or
	// too-short secrets. Recoverable client-side by correcting input.
	ErrValidation = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Invalid input",
		"",
	)

	// ErrDuplicateAccount is returned when registration collides with an
	// existing email or username.
	ErrDuplicateAccount = NewBaseError(
		http.StatusConflict,
		"ACCOUNT_ALREADY_EXISTS",
		"This email is already registered",
		"",
	)

	// ErrAccountNotFound is returned when an operation referenced an identity
	// with no matching account.
	ErrAccountNotFound = NewBaseError(
		http.StatusNotFound,
		"ACCOUNT_NOT_FOUND",
		"No account found with the provided identity",
		"",
	)

	// ErrWrongCredential is returned when the identity resolved but the
	// secret did not match.
	ErrWrongCredential = NewBaseError(
		http.StatusUnauthorized,
		"WRONG_CREDENTIAL",
		"Incorrect password",
		"",
	)

	// ErrInvalidCredential is the generic login failure when neither a
	// missing account nor a wrong password is cleanly distinguishable.
	ErrInvalidCredential = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_CREDENTIAL",
		"Invalid username or password",
		"",
	)

	// ErrUnverifiedAccount blocks login for accounts whose email
	// verification is incomplete.
	ErrUnverifiedAccount = NewBaseError(
		http.StatusUnauthorized,
		"ACCOUNT_UNVERIFIED",
		"Email not verified. Please verify your email before logging in.",
		"",
	)

	// ErrInvalidTicket is returned when a verify or reset ticket does not
	// resolve to an account, has expired, or was already consumed.
	ErrInvalidTicket = NewBaseError(
		http.StatusBadRequest,
		"INVALID_TICKET",
		"Invalid or expired token",
		"",
	)

	// ErrAlreadyVerified is returned when verification resend is requested
	// for an already-verified account.
	ErrAlreadyVerified = NewBaseError(
		http.StatusConflict,
		"ALREADY_VERIFIED",
		"Email is already verified",
		"",
	)

	// ErrNotAuthenticated is returned when an operation requiring an active
	// session was called without one.
	ErrNotAuthenticated = NewBaseError(
		http.StatusUnauthorized,
		"NOT_AUTHENTICATED",
		"Not authenticated",
		"",
	)

	// ErrSessionLimitExceeded blocks login once an account holds the maximum
	// number of active sessions.
	ErrSessionLimitExceeded = NewBaseError(
		http.StatusTooManyRequests,
		"SESSION_LIMIT_EXCEEDED",
		"Maximum number of active sessions reached",
		"",
	)

	// ErrPasswordHashFailed signals an internal hashing failure.
	ErrPasswordHashFailed = NewBaseError(
		http.StatusInternalServerError,
		"PASSWORD_HASH_FAILED",
		"Password processing failed",
		"",
	)

	// ErrForbidden is returned when the caller lacks the required role.
	ErrForbidden = NewBaseError(
		http.StatusForbidden,
		"FORBIDDEN",
		"Access denied",
		"",
	)

	// ErrInternalError is the generic fallback for unexpected failures.
	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"Internal server error",
		"",
	)
)

// StorageExecuteError represents a storage execution error, implementing the
// AppError interface.
type StorageExecuteError struct {
	err     error
	details string
}

// NewStorageExecuteError creates a storage-related error
func NewStorageExecuteError(err error, details string) AppError {
	return &StorageExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *StorageExecuteError) Error() string {
	return errors.Wrap(e.err, "storage execution failed").Error()
}

// HTTPCode returns the HTTP status code
func (e *StorageExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *StorageExecuteError) ErrorCode() string {
	return "STORAGE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *StorageExecuteError) Message() string {
	return "Storage execution failed"
}

// Details returns detailed error information
func (e *StorageExecuteError) Details() string {
	return e.details
}
