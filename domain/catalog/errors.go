package catalog

import (
	"errors"
	"fmt"
)

// Catalog domain errors.
var (
	// ErrValidation indicates a malformed catalog document.
	ErrValidation = errors.New("invalid catalog document")

	// ErrDuplicateTable indicates two entries share the same table name.
	ErrDuplicateTable = errors.New("duplicate table name")

	// ErrUnsupportedFormat indicates the catalog file extension is not
	// recognized.
	ErrUnsupportedFormat = errors.New("unsupported catalog file format")
)

// ValidationError names the missing or malformed field and the offending
// table. It matches ErrValidation with errors.Is.
type ValidationError struct {
	table  string
	field  string
	reason string
}

// NewValidationError creates a ValidationError.
func NewValidationError(table, field, reason string) *ValidationError {
	return &ValidationError{table: table, field: field, reason: reason}
}

// Table returns the offending table, or a positional label when the table
// has no usable name.
func (e *ValidationError) Table() string { return e.table }

// Field returns the missing or malformed field.
func (e *ValidationError) Field() string { return e.field }

// Error implements error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid catalog document: table %q, field %q: %s", e.table, e.field, e.reason)
}

// Unwrap allows errors.Is(err, ErrValidation).
func (e *ValidationError) Unwrap() error { return ErrValidation }
