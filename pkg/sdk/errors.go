package taskdesk

import (
	"github.com/taskdesk/taskdesk/internal/domain"
	blobuc "github.com/taskdesk/taskdesk/internal/usecase/blob"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound             = domain.ErrNotFound
	ErrAlreadyExists        = domain.ErrAlreadyExists
	ErrInvalidDefinition    = domain.ErrInvalidDefinition
	ErrInvalidTask          = domain.ErrInvalidTask
	ErrMissingRequiredField = domain.ErrMissingRequiredField
	ErrLengthOutOfRange     = domain.ErrLengthOutOfRange
	ErrValueOutOfRange      = domain.ErrValueOutOfRange
	ErrInvalidNumericInput  = domain.ErrInvalidNumericInput
	ErrUnknownFieldType     = domain.ErrUnknownFieldType
	ErrUnknownField         = domain.ErrUnknownField
	ErrValueShapeMismatch   = domain.ErrValueShapeMismatch
	ErrBlobTooLarge         = blobuc.ErrTooLarge
)
