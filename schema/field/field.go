// Package field provides fluent builders for declaring model fields.
//
// Every field carries a type expression describing its shape:
//
//	field.String("name")                                  // string
//	field.String("bio").Optional()                        // string, nullable
//	field.List("tags", typeexpr.String())                 // [string]
//	field.Ref("author", "Author")                         // reference to Author
//	field.Union("pet", typeexpr.Ref("Cat"), typeexpr.Ref("Dog"))
//
// For shapes with no shorthand, use New with an explicit expression:
//
//	field.New("matrix", typeexpr.List(typeexpr.List(typeexpr.Float())))
//
// Builder errors are deferred into Descriptor.Err and surface during
// introspection, never as panics.
package field

import (
	"errors"

	"github.com/gazorby/strawberry/schema/typeexpr"
)

// Descriptor holds the declared state of a field. It is the normalized form
// consumed by introspection; user code builds it through the Builder.
type Descriptor struct {
	Name     string         `json:"name,omitempty"`
	Expr     *typeexpr.Expr `json:"expr,omitempty"`
	Optional bool           `json:"optional,omitempty"`
	Comment  string         `json:"comment,omitempty"`
	Tag      string         `json:"tag,omitempty"`
	Err      error          `json:"-"`
}

// Builder is the fluent builder for a field descriptor.
type Builder struct {
	desc *Descriptor
}

// New returns a field builder for the given name and type expression.
func New(name string, expr *typeexpr.Expr) *Builder {
	b := &Builder{desc: &Descriptor{Name: name, Expr: expr}}
	if expr == nil {
		b.desc.Err = errors.New("field: missing type expression")
	}
	return b
}

// String returns a string field builder.
func String(name string) *Builder { return New(name, typeexpr.String()) }

// Int returns an integer field builder.
func Int(name string) *Builder { return New(name, typeexpr.Int()) }

// Float returns a float field builder.
func Float(name string) *Builder { return New(name, typeexpr.Float()) }

// Bool returns a boolean field builder.
func Bool(name string) *Builder { return New(name, typeexpr.Bool()) }

// ID returns an identifier field builder.
func ID(name string) *Builder { return New(name, typeexpr.ID()) }

// UUID returns a UUID field builder.
func UUID(name string) *Builder { return New(name, typeexpr.UUID()) }

// Time returns a date/time field builder.
func Time(name string) *Builder { return New(name, typeexpr.Time()) }

// List returns a list field builder with the given element expression.
func List(name string, elem *typeexpr.Expr) *Builder {
	return New(name, typeexpr.List(elem))
}

// Ref returns a field builder referencing another model by identity.
// The target model does not need to be declared yet.
func Ref(name, target string) *Builder {
	return New(name, typeexpr.Ref(target))
}

// Union returns a union field builder. Member order is preserved in the
// derived output type.
func Union(name string, members ...*typeexpr.Expr) *Builder {
	return New(name, typeexpr.Union(members...))
}

// Optional marks the field as nullable at the source level. It is
// equivalent to wrapping the expression in typeexpr.Optional.
func (b *Builder) Optional() *Builder {
	b.desc.Optional = true
	return b
}

// Comment sets the field comment.
func (b *Builder) Comment(c string) *Builder {
	b.desc.Comment = c
	return b
}

// StructTag sets the struct tag of the field.
func (b *Builder) StructTag(tag string) *Builder {
	b.desc.Tag = tag
	return b
}

// Descriptor returns the field descriptor.
func (b *Builder) Descriptor() *Descriptor {
	return b.desc
}
