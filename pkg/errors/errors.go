package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// ErrorType categorizes different error types
type ErrorType string

const (
	// Network errors
	ErrorTypeNetwork ErrorType = "network"
	ErrorTypeTimeout ErrorType = "timeout"

	// Authentication errors
	ErrorTypeUnauthenticated ErrorType = "unauthenticated"
	ErrorTypeForbidden       ErrorType = "forbidden"

	// Validation errors
	ErrorTypeValidation ErrorType = "validation"

	// Server errors
	ErrorTypeServer    ErrorType = "server"
	ErrorTypeNotFound  ErrorType = "not_found"
	ErrorTypeConflict  ErrorType = "conflict"
	ErrorTypeRateLimit ErrorType = "rate_limit"

	// Local state errors
	ErrorTypeStateDesync ErrorType = "state_desync"

	ErrorTypeUnknown ErrorType = "unknown"
)

// StatusCoder is implemented by API errors that carry an HTTP status.
type StatusCoder interface {
	HTTPStatus() int
}

// CLIError represents a structured error with context
type CLIError struct {
	Type       ErrorType
	Message    string
	Cause      error
	Suggestion string
	StatusCode int
	RetryAfter int
}

// Error implements the error interface
func (e *CLIError) Error() string {
	return e.Message
}

// WithSuggestion adds a helpful suggestion to the error
func (e *CLIError) WithSuggestion(suggestion string) *CLIError {
	e.Suggestion = suggestion
	return e
}

// HasSuggestion returns true if the error has a suggestion
func (e *CLIError) HasSuggestion() bool {
	return e.Suggestion != ""
}

// Unwrap returns the underlying error
func (e *CLIError) Unwrap() error {
	return e.Cause
}

// NewCLIError creates a new CLI error
func NewCLIError(errorType ErrorType, message string, cause error) *CLIError {
	return &CLIError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

// Is reports whether err is a CLIError of the given type.
func Is(err error, errorType ErrorType) bool {
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr.Type == errorType
	}
	return false
}

// IsNetworkOrServer reports whether err means the confirming request failed
// in transit or on the server.
func IsNetworkOrServer(err error) bool {
	return Is(err, ErrorTypeNetwork) || Is(err, ErrorTypeTimeout) || Is(err, ErrorTypeServer)
}

// NetworkError creates a network error
func NetworkError(message string, cause error) *CLIError {
	err := NewCLIError(ErrorTypeNetwork, message, cause)
	err.Suggestion = "Check your internet connection and that the API server is running."
	return err
}

// TimeoutError creates a timeout error
func TimeoutError(cause error) *CLIError {
	err := NewCLIError(ErrorTypeTimeout, "Request timed out", cause)
	err.Suggestion = "The server is taking too long to respond. Try again in a moment."
	return err
}

// UnauthenticatedError creates an error for a missing or expired session
func UnauthenticatedError(message string) *CLIError {
	err := NewCLIError(ErrorTypeUnauthenticated, message, nil)
	err.StatusCode = 401
	err.Suggestion = "Log in again with 'skillshare auth login'."
	return err
}

// ForbiddenError creates a forbidden error
func ForbiddenError() *CLIError {
	err := NewCLIError(ErrorTypeForbidden, "Access denied", nil)
	err.StatusCode = 403
	err.Suggestion = "You can only change content you own."
	return err
}

// ValidationError creates a validation error
func ValidationError(field, reason string) *CLIError {
	message := fmt.Sprintf("Validation error: %s - %s", field, reason)
	return NewCLIError(ErrorTypeValidation, message, nil)
}

// ServerError creates a server error
func ServerError(statusCode int, message string) *CLIError {
	if message == "" {
		message = "Server error"
	}
	err := NewCLIError(ErrorTypeServer, message, nil)
	err.StatusCode = statusCode
	err.Suggestion = "The server rejected the request. Try again in a few moments."
	return err
}

// NotFoundError creates a not found error
func NotFoundError(resourceType, identifier string) *CLIError {
	err := NewCLIError(ErrorTypeNotFound,
		fmt.Sprintf("%s not found: %s", resourceType, identifier),
		nil)
	err.StatusCode = 404
	return err
}

// RateLimitError creates a rate limit error
func RateLimitError(retryAfter int) *CLIError {
	err := NewCLIError(ErrorTypeRateLimit,
		"Rate limit exceeded. Too many requests.",
		nil)
	err.StatusCode = 429
	err.RetryAfter = retryAfter
	err.Suggestion = fmt.Sprintf("Please wait %d seconds before trying again.", retryAfter)
	return err
}

// ConflictError creates a conflict error
func ConflictError(message string) *CLIError {
	err := NewCLIError(ErrorTypeConflict, message, nil)
	err.StatusCode = 409
	return err
}

// StateDesyncError describes a local invariant violation that was repaired.
func StateDesyncError(kind string, entityID int64, detail string) *CLIError {
	return NewCLIError(ErrorTypeStateDesync,
		fmt.Sprintf("%s state for %d out of sync: %s", kind, entityID, detail),
		nil)
}

// FromRequest classifies the failure of the API operation op. Errors that
// are already CLIErrors pass through unchanged.
func FromRequest(op string, err error) *CLIError {
	if err == nil {
		return nil
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}

	var coder StatusCoder
	if errors.As(err, &coder) {
		status := coder.HTTPStatus()
		var out *CLIError
		switch {
		case status == 401:
			out = UnauthenticatedError("Your session has expired")
		case status == 403:
			out = ForbiddenError()
		case status == 404:
			out = NotFoundError("Resource", op)
		case status == 409:
			out = ConflictError(err.Error())
		case status == 429:
			out = RateLimitError(60)
		default:
			out = ServerError(status, fmt.Sprintf("Failed to %s: %s", op, err.Error()))
		}
		out.Cause = err
		return out
	}

	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return TimeoutError(err)
	case errors.As(err, &netErr) && netErr.Timeout():
		return TimeoutError(err)
	case errors.Is(err, context.Canceled):
		return NetworkError(fmt.Sprintf("Failed to %s: request canceled", op), err)
	default:
		return NetworkError(fmt.Sprintf("Failed to %s: %s", op, err.Error()), err)
	}
}

// CategorizeError converts a standard error into a CLIError
func CategorizeError(err error) *CLIError {
	if err == nil {
		return nil
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}

	errMsg := err.Error()

	switch {
	case strings.Contains(errMsg, "connection refused"):
		return NetworkError("Could not connect to server. Make sure it's running.", err)
	case strings.Contains(errMsg, "timeout"), strings.Contains(errMsg, "context deadline exceeded"):
		return TimeoutError(err)
	default:
		return NewCLIError(ErrorTypeUnknown, errMsg, err)
	}
}

// FormatError returns a user-friendly error message
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	cliErr := CategorizeError(err)
	var sb strings.Builder

	sb.WriteString("Error")
	if cliErr.Type != ErrorTypeUnknown {
		sb.WriteString(" (")
		sb.WriteString(string(cliErr.Type))
		sb.WriteString(")")
	}
	sb.WriteString(": ")
	sb.WriteString(cliErr.Message)
	sb.WriteString("\n")

	if cliErr.HasSuggestion() {
		sb.WriteString("\nSuggestion: ")
		sb.WriteString(cliErr.Suggestion)
		sb.WriteString("\n")
	}

	if cliErr.Type == ErrorTypeRateLimit && cliErr.RetryAfter > 0 {
		sb.WriteString(fmt.Sprintf("\nRetry in: %d seconds\n", cliErr.RetryAfter))
	}

	return sb.String()
}
