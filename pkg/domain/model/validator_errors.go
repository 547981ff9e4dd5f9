package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Validation errors
var (
	ErrMissingField     = goerr.New("required field is missing")
	ErrOutOfRange       = goerr.New("value is out of range")
	ErrInvalidEnum      = goerr.New("value is not one of the allowed values")
	ErrInvalidFormat    = goerr.New("value has an invalid format")
	ErrUnknownReference = goerr.New("referenced record does not exist")
)

// Context keys for error values
const (
	FieldNameKey  = "field"
	FieldValueKey = "value"
)

// FieldError reports one invalid field. Kind is one of the validation sentinels above.
type FieldError struct {
	Kind  error
	Field string
	Value any
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Kind.Error())
}

func (e *FieldError) Unwrap() error {
	return e.Kind
}

// Code returns a stable machine readable name of the error kind
func (e *FieldError) Code() string {
	switch {
	case errors.Is(e.Kind, ErrMissingField):
		return "missing_field"
	case errors.Is(e.Kind, ErrOutOfRange):
		return "out_of_range"
	case errors.Is(e.Kind, ErrInvalidEnum):
		return "invalid_enum"
	case errors.Is(e.Kind, ErrUnknownReference):
		return "unknown_reference"
	default:
		return "invalid_format"
	}
}

// ValidationErrors collects every FieldError found in one input
type ValidationErrors []*FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (v ValidationErrors) Unwrap() []error {
	errs := make([]error, len(v))
	for i, e := range v {
		errs[i] = e
	}
	return errs
}

// Fields returns the names of the invalid fields in order
func (v ValidationErrors) Fields() []string {
	names := make([]string, len(v))
	for i, e := range v {
		names[i] = e.Field
	}
	return names
}

// NewFieldError returns a single field failure as ValidationErrors
func NewFieldError(kind error, field string, value any) ValidationErrors {
	return ValidationErrors{{Kind: kind, Field: field, Value: value}}
}
