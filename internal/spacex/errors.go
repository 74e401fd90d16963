package spacex

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the API. Prefer the predicate functions
// (IsNotFound, HasStatusCode) over asserting on this type.
type APIError struct {
	operation  string
	statusCode int
	message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: HTTP %d: %s", e.operation, e.statusCode, e.message)
}

func newAPIError(operation string, statusCode int, message string) *APIError {
	return &APIError{
		operation:  operation,
		statusCode: statusCode,
		message:    message,
	}
}

// StatusCode returns the HTTP status code from the response.
func (e *APIError) StatusCode() int { return e.statusCode }

// Message returns the response body or status text.
func (e *APIError) Message() string { return e.message }

// Operation returns a short description of the API call that failed.
func (e *APIError) Operation() string { return e.operation }

// Temporary reports whether repeating the request may succeed.
func (e *APIError) Temporary() bool {
	return e.statusCode == http.StatusTooManyRequests || e.statusCode >= 500
}

// DecodeError is a response body that does not match the expected record shape.
type DecodeError struct {
	operation string
	reason    string
	err       error
}

func (e *DecodeError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: decode response: %s: %v", e.operation, e.reason, e.err)
	}
	return fmt.Sprintf("%s: decode response: %s", e.operation, e.reason)
}

func (e *DecodeError) Unwrap() error { return e.err }

// Operation returns a short description of the API call that failed.
func (e *DecodeError) Operation() string { return e.operation }

func newDecodeError(operation, reason string, err error) *DecodeError {
	return &DecodeError{operation: operation, reason: reason, err: err}
}

// IsNotFound reports whether err is an API error with HTTP 404 status.
func IsNotFound(err error) bool { return HasStatusCode(err, http.StatusNotFound) }

// HasStatusCode reports whether err is an API error whose HTTP status code matches.
func HasStatusCode(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.statusCode == code
}

// IsDecodeError reports whether err came from a malformed or unexpected body.
func IsDecodeError(err error) bool {
	var decErr *DecodeError
	return errors.As(err, &decErr)
}
