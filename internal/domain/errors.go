package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrConflict      = errors.New("conflict")
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

// QueryFailedError is returned when a list query cannot be completed.
// The screen shows Message in place of its list.
type QueryFailedError struct {
	Operation string
	Message   string
	Err       error
}

func (e *QueryFailedError) Error() string {
	return fmt.Sprintf("query %s failed: %s", e.Operation, e.Message)
}

func (e *QueryFailedError) Unwrap() error { return e.Err }

// NewQueryFailed wraps err as a QueryFailedError for the given operation.
func NewQueryFailed(operation string, err error) *QueryFailedError {
	return &QueryFailedError{Operation: operation, Message: err.Error(), Err: err}
}

// MutationFailedError is returned when a create, update, delete or
// composite mutation is rejected. The form stays open with its draft intact.
type MutationFailedError struct {
	Operation string
	Message   string
	Err       error
}

func (e *MutationFailedError) Error() string {
	return fmt.Sprintf("mutation %s failed: %s", e.Operation, e.Message)
}

func (e *MutationFailedError) Unwrap() error { return e.Err }

// NewMutationFailed wraps err as a MutationFailedError for the given operation.
func NewMutationFailed(operation string, err error) *MutationFailedError {
	return &MutationFailedError{Operation: operation, Message: err.Error(), Err: err}
}

// UploadBatchFailedError aborts a chunked upload. Batches before BatchIndex
// stay committed on the server.
type UploadBatchFailedError struct {
	BatchIndex int
	Uploaded   int
	Message    string
	Err        error
}

func (e *UploadBatchFailedError) Error() string {
	return fmt.Sprintf("upload batch %d failed after %d records: %s", e.BatchIndex, e.Uploaded, e.Message)
}

func (e *UploadBatchFailedError) Unwrap() error { return e.Err }
