package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation matches every *ValidationError through errors.Is.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicateKey is joined to store errors caused by a unique index.
	ErrDuplicateKey = errors.New("duplicate key")
)

// ValidationError reports input the store refused or could not encode.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

// NewValidationError builds a ValidationError wrapping cause (may be nil).
func NewValidationError(field, reason string, cause error) *ValidationError {
	return &ValidationError{Field: field, Reason: reason, Err: cause}
}

func (e *ValidationError) Error() string {
	msg := e.Reason
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrValidation, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrValidation, msg)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
