package onboarding

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownStep is returned when navigating to a Step outside the enumeration
	ErrUnknownStep = errors.New("unknown onboarding step")

	// ErrFormInvalid is returned by WifiForm.Submit when field validation fails
	ErrFormInvalid = errors.New("wifi credentials form is invalid")

	// ErrNoSubmitter is returned by Flow.Advance when no CredentialSubmitter is configured
	ErrNoSubmitter = errors.New("no credential submitter configured")
)

// Field names used in ValidationError
const (
	FieldSSIDSelect = "ssidSelect"
	FieldSSID       = "ssid"
	FieldPassword   = "password"
)

// ValidationError reports a field that blocks submission.
// It is local and recoverable: views surface it by disabling submit.
type ValidationError struct {
	Field   string // One of the Field* constants
	Message string // Human-readable reason
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a validation error for a form field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError reports whether err (or anything it wraps) is a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// invalidFormError wraps the validation failures of a rejected submit so that
// both errors.Is(err, ErrFormInvalid) and errors.As(err, *ValidationError) work.
type invalidFormError struct {
	errs []error
}

func (e *invalidFormError) Error() string {
	return fmt.Sprintf("%v: %v", ErrFormInvalid, errors.Join(e.errs...))
}

func (e *invalidFormError) Unwrap() []error {
	return append([]error{ErrFormInvalid}, e.errs...)
}
