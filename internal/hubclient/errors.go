package hubclient

import (
	"context"
	"errors"
	"fmt"
)

// ErrorType represents the category of a hub error
type ErrorType int

const (
	// ErrTypeNetwork indicates the connection could not be made or was lost
	ErrTypeNetwork ErrorType = iota
	// ErrTypeProtocol indicates a malformed or unexpected message
	ErrTypeProtocol
	// ErrTypeRejected indicates the hub answered but refused the request
	ErrTypeRejected
	// ErrTypeTimeout indicates no answer arrived before the deadline
	ErrTypeTimeout
	// ErrTypeClosed indicates the client was closed
	ErrTypeClosed
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeProtocol:
		return "Protocol Error"
	case ErrTypeRejected:
		return "Rejected"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeClosed:
		return "Connection Closed"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// HubError is an error raised while talking to the tracking hub
type HubError struct {
	Type      ErrorType
	Message   string
	Err       error
	Retryable bool
}

// Error implements the error interface
func (e *HubError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *HubError) Unwrap() error {
	return e.Err
}

// NewNetworkError wraps a transport failure
func NewNetworkError(message string, err error) *HubError {
	return &HubError{Type: ErrTypeNetwork, Message: message, Err: err, Retryable: true}
}

// NewProtocolError reports a message the client could not make sense of
func NewProtocolError(message string, err error) *HubError {
	return &HubError{Type: ErrTypeProtocol, Message: message, Err: err}
}

// NewRejectedError reports a request the hub refused
func NewRejectedError(message string) *HubError {
	return &HubError{Type: ErrTypeRejected, Message: message}
}

// fromContext converts a context error into a HubError
func fromContext(err error) *HubError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &HubError{Type: ErrTypeTimeout, Message: "hub did not answer in time", Err: err, Retryable: true}
	}
	return &HubError{Type: ErrTypeClosed, Message: "request cancelled", Err: err}
}

// IsRetryable reports whether err is a HubError worth retrying
func IsRetryable(err error) bool {
	var he *HubError
	if errors.As(err, &he) {
		return he.Retryable
	}
	return false
}

// IsRejected reports whether the hub refused the request
func IsRejected(err error) bool {
	var he *HubError
	return errors.As(err, &he) && he.Type == ErrTypeRejected
}
