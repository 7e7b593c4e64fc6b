package service

import (
	"errors"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/storefront/merchant-admin/internal/backend"
)

var ErrUnauthorized = errors.New("unauthorized: missing credentials")

// BackendError is a failed call to the external backend.
type BackendError = backend.Error

// ValidationError rejects a request before it reaches the backend. Fields
// maps offending field names to a reason.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid request"
	}

	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}

	return strings.Join(parts, "; ")
}

func fieldError(field, reason string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: reason}}
}

// asValidationError converts ozzo validation errors into a ValidationError.
// Other errors are returned unchanged.
func asValidationError(err error) error {
	if err == nil {
		return nil
	}

	var errs validation.Errors
	if !errors.As(err, &errs) {
		return err
	}

	ve := &ValidationError{Fields: make(map[string]string, len(errs))}
	for field, fieldErr := range errs {
		ve.Fields[field] = fieldErr.Error()
	}

	return ve
}
