package load

import (
	"errors"
	"fmt"
	"strings"
)

// ErrIntrospection is returned when a model declaration cannot be
// normalized into a descriptor.
var ErrIntrospection = errors.New("strawberry: introspection failed")

// IntrospectionError describes the declaration that failed to normalize.
type IntrospectionError struct {
	Model   string // model identity
	Field   string // offending field or relation, if any
	Message string
	Cause   error
}

// NewIntrospectionError creates a new IntrospectionError.
func NewIntrospectionError(model, field, message string, cause error) *IntrospectionError {
	return &IntrospectionError{Model: model, Field: field, Message: message, Cause: cause}
}

// Error implements the error interface.
func (e *IntrospectionError) Error() string {
	var b strings.Builder
	b.WriteString("strawberry: introspecting model ")
	fmt.Fprintf(&b, "%q", e.Model)
	if e.Field != "" {
		fmt.Fprintf(&b, " field %q", e.Field)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Is implements the errors.Is interface.
func (e *IntrospectionError) Is(target error) bool {
	return target == ErrIntrospection
}

// Unwrap implements the errors.Unwrap interface.
func (e *IntrospectionError) Unwrap() error { return e.Cause }

// IsIntrospectionError reports if the error is an IntrospectionError.
func IsIntrospectionError(err error) bool {
	if err == nil {
		return false
	}
	var e *IntrospectionError
	return errors.As(err, &e)
}
