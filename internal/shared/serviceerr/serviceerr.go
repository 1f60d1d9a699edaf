// Package serviceerr defines the uniform error raised by external service
// adapters. Every adapter failure is tagged with the originating service so
// callers can report which collaborator broke without inspecting transport
// details.
package serviceerr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error tags a failure with the external service that produced it.
// StatusCode is zero when the failure happened before an HTTP status was
// available (connection refused, timeout). Retryable is a hint for the
// caller; the orchestrator itself never retries.
type Error struct {
	Service    string
	StatusCode int
	Retryable  bool
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Service, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Service, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds a service error with no HTTP status. Transport-level failures
// (DNS, timeouts) are treated as retryable.
func New(service, message string, err error) *Error {
	return &Error{Service: service, Message: message, Retryable: true, Err: err}
}

// FromStatus builds a service error from an HTTP response status.
func FromStatus(service string, status int, message string) *Error {
	return &Error{
		Service:    service,
		StatusCode: status,
		Retryable:  retryableStatus(status),
		Message:    message,
	}
}

func retryableStatus(status int) bool {
	if status == http.StatusTooManyRequests {
		return true
	}
	return status >= 500
}

// ServiceOf returns the originating service tag, or "" when err is not a
// service error.
func ServiceOf(err error) string {
	var se *Error
	if errors.As(err, &se) {
		return se.Service
	}
	return ""
}

// IsRetryable reports whether err carries a retryable hint.
func IsRetryable(err error) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Retryable
	}
	return false
}
