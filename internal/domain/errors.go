package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidDefinition signals an invalid form definition.
	ErrInvalidDefinition = errors.New("invalid form definition")
	// ErrInvalidTask signals an invalid task payload.
	ErrInvalidTask = errors.New("invalid task")
	// ErrForbidden signals a caller without the required role.
	ErrForbidden = errors.New("forbidden")

	// ErrMissingRequiredField signals a required field with no value.
	ErrMissingRequiredField = errors.New("missing required field")
	// ErrLengthOutOfRange signals a text value outside its declared length bounds.
	ErrLengthOutOfRange = errors.New("length out of range")
	// ErrValueOutOfRange signals a numeric value outside its declared bounds.
	ErrValueOutOfRange = errors.New("value out of range")
	// ErrInvalidNumericInput signals editor input that does not parse as a number.
	ErrInvalidNumericInput = errors.New("invalid numeric input")
	// ErrUnknownFieldType signals a field type outside the closed vocabulary.
	ErrUnknownFieldType = errors.New("unknown field type")
	// ErrUnknownField signals a submission value for a field id absent from its definition.
	ErrUnknownField = errors.New("unknown field")
	// ErrValueShapeMismatch signals editor input whose shape does not match the declared field type.
	ErrValueShapeMismatch = errors.New("value shape does not match field type")
)

// FieldError ties a validation failure to the field that produced it,
// so callers can report it inline next to the originating field.
type FieldError struct {
	FieldID string
	Err     error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %s: %s", e.FieldID, e.Err.Error())
}

func (e *FieldError) Unwrap() error { return e.Err }

// NewFieldError wraps a validation sentinel with its field id.
func NewFieldError(fieldID string, err error) error {
	return &FieldError{FieldID: fieldID, Err: err}
}
