// Package strawberry derives a resolved schema type graph from declared
// data models. Models declare named, typed fields and relationships to
// other models; the compiler packages turn a set of such declarations,
// made in any order and possibly cyclic, into a deduplicated graph of
// output type definitions.
package strawberry

import (
	"github.com/gazorby/strawberry/schema"
	"github.com/gazorby/strawberry/schema/field"
	"github.com/gazorby/strawberry/schema/relation"
)

type (
	// Interface is the contract of a source model declaration. Embed Model
	// and implement the methods the model needs.
	Interface interface {
		// Fields returns the declared fields, in order.
		Fields() []Field
		// Relations returns the declared relationships, in order.
		Relations() []Relation
		// Policy returns the model's inclusion policy.
		Policy() schema.Policy
	}

	// Field is a field declaration.
	Field interface {
		Descriptor() *field.Descriptor
	}

	// Relation is a relationship declaration.
	Relation interface {
		Descriptor() *relation.Descriptor
	}

	// TypeNamer can be implemented by a model to remap its output type
	// name. Without it the output type is named after the model identity.
	TypeNamer interface {
		TypeName() string
	}
)

// Model is the embeddable default implementation of Interface: no fields,
// no relations, an all-fields policy.
type Model struct{}

// Fields of the model. Defaults to none.
func (Model) Fields() []Field { return nil }

// Relations of the model. Defaults to none.
func (Model) Relations() []Relation { return nil }

// Policy of the model. Defaults to including every declared field.
func (Model) Policy() schema.Policy { return schema.AllFields() }
