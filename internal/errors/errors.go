// internal/errors/errors.go
package appErrors

import (
	"errors"
	"fmt"
	"strings"
)

// NotFoundError is returned when no row matches the requested id
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %d not found", e.Resource, e.ID)
}

// Helper constructor
func NewNotFound(resource string, id int64) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationKind classifies a ValidationError
type ValidationKind string

const (
	MissingField ValidationKind = "missing-field"
	InvalidField ValidationKind = "invalid-field"
)

// ValidationError reports a request body that does not satisfy a resource schema
type ValidationError struct {
	Resource string
	Kind     ValidationKind
	Field    string
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case InvalidField:
		return fmt.Sprintf("Invalid %s: invalid %s", e.Resource, e.Field)
	default:
		return fmt.Sprintf("Invalid %s: missing %s", e.Resource, e.Field)
	}
}

func NewMissingField(resource, field string) error {
	return &ValidationError{Resource: resource, Kind: MissingField, Field: field}
}

func NewInvalidField(resource, field string) error {
	return &ValidationError{Resource: resource, Kind: InvalidField, Field: field}
}

// IsNotFound reports whether err carries a NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsValidation reports whether err carries a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// NotFoundMessage is the client-facing text for a missing resource, e.g. "Customer not found".
func NotFoundMessage(resource string) string {
	if resource == "" {
		return "Not found"
	}
	return strings.ToUpper(resource[:1]) + resource[1:] + " not found"
}
