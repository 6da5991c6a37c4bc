package upstream

import (
	"context"
	"fmt"
	"time"
)

// TimeoutError is returned when the call does not finish within its bound.
type TimeoutError struct {
	// Timeout is the bound that elapsed
	Timeout time.Duration
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("upstream request timed out after %s", e.Timeout)
}

// Unwrap lets errors.Is(err, context.DeadlineExceeded) match.
func (e *TimeoutError) Unwrap() error {
	return context.DeadlineExceeded
}

// APIError is a non-success response from the provider.
type APIError struct {
	// StatusCode is the HTTP status returned by the provider
	StatusCode int

	// Message is the provider's error message, or the status text when the body had none
	Message string

	// Cause is the SDK error
	Cause error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Message)
}

// Unwrap returns the underlying error for error chain support.
func (e *APIError) Unwrap() error {
	return e.Cause
}

// RequestError covers transport failures, cancellations and malformed responses.
type RequestError struct {
	Cause error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return fmt.Sprintf("upstream request failed: %v", e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *RequestError) Unwrap() error {
	return e.Cause
}
