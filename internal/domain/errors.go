package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrDumpUnavailable = errors.New("dump unavailable")
	ErrCorruptStore    = errors.New("corrupt lexicon store")
	ErrCorruptArtifact = errors.New("corrupt matcher artifact")
	ErrValidation      = errors.New("validation error")
	ErrUnknownLanguage = errors.New("unknown language")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// StoreError reports a malformed lexicon store row.
type StoreError struct {
	Row    int
	Reason string
}

func (e *StoreError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("lexicon store: %s", e.Reason)
	}
	return fmt.Sprintf("lexicon store: row %d: %s", e.Row, e.Reason)
}

func (e *StoreError) Unwrap() error { return ErrCorruptStore }
