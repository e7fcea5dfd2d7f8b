package client

import (
	"errors"
	"fmt"
	"time"

	"github.com/kbukum/fetchkit/engine"
)

// ErrorCode classifies client errors. Exactly one code applies per
// error instance.
type ErrorCode int

const (
	// ErrCodeTransport indicates a transport or protocol failure
	// reported asynchronously by the engine.
	ErrCodeTransport ErrorCode = iota
	// ErrCodeCanceled indicates cooperative or explicit cancellation.
	ErrCodeCanceled
	// ErrCodeEngine indicates a synchronous start or dispatch failure.
	ErrCodeEngine
	// ErrCodeTimeout indicates the client-side deadline expired.
	ErrCodeTimeout
	// ErrCodeValidation indicates invalid request arguments.
	ErrCodeValidation
	// ErrCodeDisposed indicates use of a closed client.
	ErrCodeDisposed
)

// String returns the error code name.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeTransport:
		return "transport"
	case ErrCodeCanceled:
		return "canceled"
	case ErrCodeEngine:
		return "engine"
	case ErrCodeTimeout:
		return "timeout"
	case ErrCodeValidation:
		return "validation"
	case ErrCodeDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// Error is a structured client error with classification.
type Error struct {
	// Code classifies the error.
	Code ErrorCode
	// Message describes the error.
	Message string
	// URL is the request URL, when known.
	URL string
	// EngineCode carries the synchronous engine result for ErrCodeEngine.
	EngineCode engine.StartResult
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("client: %s: %s (%s)", e.Code, e.Message, e.URL)
	}
	return fmt.Sprintf("client: %s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewTransportError wraps an engine-reported transport failure.
func NewTransportError(url string, err error) *Error {
	return &Error{
		Code:    ErrCodeTransport,
		Message: err.Error(),
		URL:     url,
		Err:     err,
	}
}

// NewCancelError creates a cancellation error.
func NewCancelError(err error) *Error {
	msg := "request canceled"
	if err != nil {
		msg = err.Error()
	}
	return &Error{
		Code:    ErrCodeCanceled,
		Message: msg,
		Err:     err,
	}
}

// NewEngineError wraps a synchronous engine start or dispatch failure.
func NewEngineError(url string, code engine.StartResult, err error) *Error {
	msg := fmt.Sprintf("engine start failed: %s", code)
	if err != nil {
		msg = err.Error()
	}
	return &Error{
		Code:       ErrCodeEngine,
		Message:    msg,
		URL:        url,
		EngineCode: code,
		Err:        err,
	}
}

// NewTimeoutError creates a client-side timeout error.
func NewTimeoutError(url string, timeout time.Duration) *Error {
	return &Error{
		Code:    ErrCodeTimeout,
		Message: fmt.Sprintf("no response within %s", timeout),
		URL:     url,
	}
}

// NewValidationError creates a request validation error.
func NewValidationError(msg string) *Error {
	return &Error{
		Code:    ErrCodeValidation,
		Message: msg,
	}
}

// NewDisposedError creates a use-after-close error.
func NewDisposedError() *Error {
	return &Error{
		Code:    ErrCodeDisposed,
		Message: "client is closed",
	}
}

// IsTransport checks if an error is an engine transport error.
func IsTransport(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeTransport
}

// IsCanceled checks if an error is a cancellation error.
func IsCanceled(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeCanceled
}

// IsEngine checks if an error is a synchronous engine failure.
func IsEngine(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeEngine
}

// IsTimeout checks if an error is a client-side timeout.
func IsTimeout(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeTimeout
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeValidation
}

// IsDisposed checks if an error came from a closed client.
func IsDisposed(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeDisposed
}
