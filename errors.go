package learnpath

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCategory classifies errors by how they should be handled.
type ErrorCategory string

const (
	// ErrorTransient indicates the error is temporary and the operation can be retried.
	// Examples: rate limits, temporary network issues, server overload.
	ErrorTransient ErrorCategory = "transient"

	// ErrorPermanent indicates the error is not recoverable through retry.
	// Examples: invalid API key, insufficient permissions, model not found.
	ErrorPermanent ErrorCategory = "permanent"

	// ErrorUserInput indicates the user provided invalid input that must be corrected.
	ErrorUserInput ErrorCategory = "user_input"
)

// ErrorKind identifies which part of the system an error came from.
type ErrorKind string

const (
	// KindConfig marks missing or invalid configuration. Fatal, surfaced immediately.
	KindConfig ErrorKind = "config"

	// KindAuth marks a credential that could not be loaded, refreshed or obtained.
	KindAuth ErrorKind = "auth"

	// KindUpstream marks a failure of the model provider or an external API.
	KindUpstream ErrorKind = "upstream"

	// KindUserInput marks a request rejected before any work started.
	KindUserInput ErrorKind = "user_input"
)

// CategorizedError is an error that provides information about how it should be handled.
type CategorizedError interface {
	error
	Kind() ErrorKind
	Category() ErrorCategory
	Retryable() bool           // convenience: returns true if Category == ErrorTransient
	StatusCode() int           // HTTP status code if applicable, 0 otherwise
	RetryAfter() time.Duration // suggested retry delay from server, 0 if not available
}

// Error is a categorized error with metadata for error handling decisions.
type Error struct {
	Msg        string
	K          ErrorKind
	Cat        ErrorCategory
	Code       int           // HTTP status code, 0 if not applicable
	RetryDelay time.Duration // from Retry-After header, 0 if not available
	Cause      error         // underlying error
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Cause)
	}
	return e.Msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Kind returns the error kind.
func (e *Error) Kind() ErrorKind {
	return e.K
}

// Category returns the error category.
func (e *Error) Category() ErrorCategory {
	return e.Cat
}

// Retryable returns true if the error is transient and can be retried.
func (e *Error) Retryable() bool {
	return e.Cat == ErrorTransient
}

// StatusCode returns the HTTP status code, or 0 if not applicable.
func (e *Error) StatusCode() int {
	return e.Code
}

// RetryAfter returns the suggested retry delay, or 0 if not available.
func (e *Error) RetryAfter() time.Duration {
	return e.RetryDelay
}

// NewConfigError creates an error for missing or malformed configuration.
func NewConfigError(msg string, cause error) *Error {
	return &Error{Msg: msg, K: KindConfig, Cat: ErrorPermanent, Cause: cause}
}

// NewAuthError creates an error for a credential that cannot be obtained.
func NewAuthError(msg string, cause error) *Error {
	return &Error{Msg: msg, K: KindAuth, Cat: ErrorPermanent, Cause: cause}
}

// NewUserInputError creates an error indicating invalid user input.
func NewUserInputError(msg string, cause error) *Error {
	return &Error{Msg: msg, K: KindUserInput, Cat: ErrorUserInput, Cause: cause}
}

// NewUpstreamError creates an upstream error categorized from its HTTP status code.
func NewUpstreamError(msg string, statusCode int, cause error) *Error {
	return &Error{
		Msg:   msg,
		K:     KindUpstream,
		Cat:   CategorizeStatusCode(statusCode),
		Code:  statusCode,
		Cause: cause,
	}
}

// NewTransientError creates a transient upstream error that can be retried.
func NewTransientError(msg string, statusCode int, cause error) *Error {
	return &Error{
		Msg:   msg,
		K:     KindUpstream,
		Cat:   ErrorTransient,
		Code:  statusCode,
		Cause: cause,
	}
}

// NewTransientErrorWithRetry creates a transient error with a suggested retry delay.
func NewTransientErrorWithRetry(msg string, statusCode int, retryAfter time.Duration, cause error) *Error {
	return &Error{
		Msg:        msg,
		K:          KindUpstream,
		Cat:        ErrorTransient,
		Code:       statusCode,
		RetryDelay: retryAfter,
		Cause:      cause,
	}
}

// CategorizeStatusCode determines the error category from an HTTP status code.
func CategorizeStatusCode(code int) ErrorCategory {
	switch {
	case code == 429:
		return ErrorTransient // Rate limited
	case code >= 500 && code < 600:
		return ErrorTransient // Server error
	case code == 401 || code == 403:
		return ErrorPermanent // Authentication/authorization
	case code == 400 || code == 404 || code == 422:
		return ErrorUserInput // Bad request or not found
	default:
		return ErrorPermanent
	}
}

// KindOf returns the kind of a categorized error, or "" if err carries none.
func KindOf(err error) ErrorKind {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.Kind()
	}
	return ""
}

// IsConfig returns true if the error or any wrapped error is a configuration error.
func IsConfig(err error) bool { return KindOf(err) == KindConfig }

// IsAuth returns true if the error or any wrapped error is an authentication error.
func IsAuth(err error) bool { return KindOf(err) == KindAuth }

// IsUpstream returns true if the error or any wrapped error is an upstream error.
func IsUpstream(err error) bool { return KindOf(err) == KindUpstream }

// IsUserInput returns true if the error or any wrapped error is a user input error.
func IsUserInput(err error) bool { return KindOf(err) == KindUserInput }

// IsTransient returns true if the error is categorized as transient.
// It checks if the error or any wrapped error implements CategorizedError.
func IsTransient(err error) bool {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.Category() == ErrorTransient
	}
	return false
}

// IsPermanent returns true if the error is categorized as permanent.
func IsPermanent(err error) bool {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.Category() == ErrorPermanent
	}
	return false
}

// StatusCodeOf returns the HTTP status code from a categorized error, or 0.
func StatusCodeOf(err error) int {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.StatusCode()
	}
	return 0
}

// RetryAfterOf returns the retry delay from a categorized error, or 0.
func RetryAfterOf(err error) time.Duration {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.RetryAfter()
	}
	return 0
}
