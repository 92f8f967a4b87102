package gen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure cases.
var (
	// ErrDuplicateModel indicates a conflicting re-registration of a model identity.
	ErrDuplicateModel = errors.New("strawberry: duplicate model")
	// ErrUnknownModel indicates a lookup of an identity that was never registered.
	ErrUnknownModel = errors.New("strawberry: unknown model")
	// ErrUnresolvedReference indicates a reference to a model that was never registered.
	ErrUnresolvedReference = errors.New("strawberry: unresolved reference")
	// ErrDuplicateTypeName indicates two output types mapping to the same name.
	ErrDuplicateTypeName = errors.New("strawberry: duplicate type name")
	// ErrAssembly indicates a failed schema assembly.
	ErrAssembly = errors.New("strawberry: schema assembly failed")
)

// DuplicateModelError is returned when a model identity is registered twice
// with conflicting descriptors. Registering an equal descriptor is a no-op,
// not an error.
type DuplicateModelError struct {
	Name string // model identity
}

// NewDuplicateModelError creates a new DuplicateModelError.
func NewDuplicateModelError(name string) *DuplicateModelError {
	return &DuplicateModelError{Name: name}
}

// Error implements the error interface.
func (e *DuplicateModelError) Error() string {
	return fmt.Sprintf("strawberry: model %q already registered with a different descriptor", e.Name)
}

// Is reports whether the target matches the sentinel error for DuplicateModelError.
func (e *DuplicateModelError) Is(target error) bool {
	return target == ErrDuplicateModel
}

// IsDuplicateModelError reports if the error is a DuplicateModelError.
func IsDuplicateModelError(err error) bool {
	if err == nil {
		return false
	}
	var e *DuplicateModelError
	return errors.As(err, &e)
}

// UnknownModelError is returned when an operation names a model identity
// that was never registered.
type UnknownModelError struct {
	Name string // model identity
}

// NewUnknownModelError creates a new UnknownModelError.
func NewUnknownModelError(name string) *UnknownModelError {
	return &UnknownModelError{Name: name}
}

// Error implements the error interface.
func (e *UnknownModelError) Error() string {
	return fmt.Sprintf("strawberry: model %q is not registered", e.Name)
}

// Is reports whether the target matches the sentinel error for UnknownModelError.
func (e *UnknownModelError) Is(target error) bool {
	return target == ErrUnknownModel
}

// IsUnknownModelError reports if the error is an UnknownModelError.
func IsUnknownModelError(err error) bool {
	if err == nil {
		return false
	}
	var e *UnknownModelError
	return errors.As(err, &e)
}

// UnresolvedReferenceError is returned by assembly when a registered model
// references an identity that never got a descriptor. It names the target
// and every registered model/field pair that points at it.
type UnresolvedReferenceError struct {
	Target string   // unregistered identity
	Owners []string // "Model.field" pairs referencing the target
}

// NewUnresolvedReferenceError creates a new UnresolvedReferenceError.
func NewUnresolvedReferenceError(target string, owners ...string) *UnresolvedReferenceError {
	return &UnresolvedReferenceError{Target: target, Owners: owners}
}

// Error implements the error interface.
func (e *UnresolvedReferenceError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "strawberry: reference to unregistered model %q", e.Target)
	if len(e.Owners) > 0 {
		b.WriteString(" from ")
		b.WriteString(strings.Join(e.Owners, ", "))
	}
	return b.String()
}

// Is reports whether the target matches the sentinel error for UnresolvedReferenceError.
func (e *UnresolvedReferenceError) Is(target error) bool {
	return target == ErrUnresolvedReference
}

// IsUnresolvedReferenceError reports if the error is an UnresolvedReferenceError.
func IsUnresolvedReferenceError(err error) bool {
	if err == nil {
		return false
	}
	var e *UnresolvedReferenceError
	return errors.As(err, &e)
}

// DuplicateTypeNameError is returned by assembly when two distinct output
// types resolve to the same name, for example through TypeName remapping or
// a union whose generated name collides with an object type.
type DuplicateTypeNameError struct {
	TypeName string
	Models   []string // identities mapping to the name
}

// NewDuplicateTypeNameError creates a new DuplicateTypeNameError.
func NewDuplicateTypeNameError(typeName string, models ...string) *DuplicateTypeNameError {
	return &DuplicateTypeNameError{TypeName: typeName, Models: models}
}

// Error implements the error interface.
func (e *DuplicateTypeNameError) Error() string {
	return fmt.Sprintf("strawberry: type name %q produced by multiple types: %s",
		e.TypeName, strings.Join(e.Models, ", "))
}

// Is reports whether the target matches the sentinel error for DuplicateTypeNameError.
func (e *DuplicateTypeNameError) Is(target error) bool {
	return target == ErrDuplicateTypeName
}

// IsDuplicateTypeNameError reports if the error is a DuplicateTypeNameError.
func IsDuplicateTypeNameError(err error) bool {
	if err == nil {
		return false
	}
	var e *DuplicateTypeNameError
	return errors.As(err, &e)
}

// AssemblyError aggregates every failure collected during schema assembly.
// No partial graph is returned alongside it.
type AssemblyError struct {
	Errs []error
}

// NewAssemblyError creates a new AssemblyError.
func NewAssemblyError(errs ...error) *AssemblyError {
	return &AssemblyError{Errs: errs}
}

// Error implements the error interface.
func (e *AssemblyError) Error() string {
	var b strings.Builder
	b.WriteString("strawberry: schema assembly failed")
	for _, err := range e.Errs {
		b.WriteString("\n\t")
		b.WriteString(err.Error())
	}
	return b.String()
}

// Is reports whether the target matches the sentinel error for AssemblyError.
func (e *AssemblyError) Is(target error) bool {
	return target == ErrAssembly
}

// Unwrap returns the collected errors.
func (e *AssemblyError) Unwrap() []error {
	return e.Errs
}

// IsAssemblyError reports if the error is an AssemblyError.
func IsAssemblyError(err error) bool {
	if err == nil {
		return false
	}
	var e *AssemblyError
	return errors.As(err, &e)
}
