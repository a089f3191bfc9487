package entity

import (
	"errors"
	"fmt"
)

// Errors shared by the store, the use cases and the HTTP layer. Handlers map
// them to status codes in respond.DomainError.
var (
	ErrNotFound          = errors.New("document not found")
	ErrAlreadyExists     = errors.New("document already exists")
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrInvalidInput covers malformed requests that are not tied to one field.
	ErrInvalidInput = errors.New("invalid input")

	// ErrValidationFailed matches every *ValidationError via errors.Is.
	ErrValidationFailed = errors.New("validation failed")
)

// ValidationError names the field that was rejected.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}
