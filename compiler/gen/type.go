// Package gen implements the derivation engine: it turns normalized model
// descriptors into a resolved graph of output type definitions. Models may
// be registered in any order and may reference each other cyclically;
// references resolve through placeholder nodes that are finalized once the
// full set of descriptors is known.
package gen

import (
	"strings"

	"github.com/gazorby/strawberry/compiler/load"
	"github.com/gazorby/strawberry/schema/relation"
	"github.com/gazorby/strawberry/schema/typeexpr"
)

// Node is the output type derived for one model identity. A node starts as
// a placeholder created the first time anything references the identity,
// and is finalized once its descriptor is registered and resolved. There is
// at most one node per identity; every reference to it shares the same
// handle.
type Node struct {
	// Name is the model identity the node was derived from.
	Name string
	// TypeName is the output type name. Defaults to Name.
	TypeName string
	// Fields are the resolved output fields, declaration order preserved:
	// plain fields first, then relationship entries.
	Fields []*Field

	fields    map[string]*Field
	model     *load.Model
	finalized bool
}

// Placeholder reports if the node has no descriptor yet.
func (n *Node) Placeholder() bool { return n.model == nil }

// Finalized reports if the node's fields have been resolved.
func (n *Node) Finalized() bool { return n.finalized }

// Descriptor returns the descriptor the node was registered with, or nil
// for a placeholder.
func (n *Node) Descriptor() *load.Model { return n.model }

// Field returns the resolved field with the given name, or nil.
func (n *Node) Field(name string) *Field {
	return n.fields[name]
}

// name the node renders under. Placeholders fall back to the identity.
func (n *Node) displayName() string {
	if n.TypeName != "" {
		return n.TypeName
	}
	return n.Name
}

func (n *Node) addField(f *Field) {
	if n.fields == nil {
		n.fields = make(map[string]*Field)
	}
	n.Fields = append(n.Fields, f)
	n.fields[f.Name] = f
}

// Field is a resolved output field of a node.
type Field struct {
	// Name is the field name, as declared.
	Name string
	// Ref is the resolved, wrapper-annotated type of the field.
	Ref *Ref
	// Rel records the field's provenance: Unk for a plain field, FK, M2M
	// or Rev for relationship entries.
	Rel relation.Rel
	// Comment is the declared field comment, if any.
	Comment string
}

// IsRelation reports if the field was derived from a relationship.
func (f *Field) IsRelation() bool { return f.Rel != relation.Unk }

// Ref is a resolved type reference. Exactly one of Kind, Elem, Node or
// Union is set; Nullable marks the position as nullable. Node and Union are
// handles into the registry, never copies, so cyclic graphs stay cyclic.
type Ref struct {
	// Nullable reports if null is admitted at this position. A reference
	// whose expression chain carried no Optional is non-null.
	Nullable bool
	// Kind is the scalar kind, for scalar references.
	Kind typeexpr.Kind
	// Elem is the element reference, for list references.
	Elem *Ref
	// Node is the referenced output type, for model references.
	Node *Node
	// Union is the referenced union, for union references.
	Union *Union
}

// IsScalar reports if the reference is a scalar leaf.
func (r *Ref) IsScalar() bool { return r.Kind.Valid() }

// IsList reports if the reference is a list.
func (r *Ref) IsList() bool { return r.Elem != nil }

// IsNode reports if the reference points at an output type.
func (r *Ref) IsNode() bool { return r.Node != nil }

// IsUnion reports if the reference points at a union.
func (r *Ref) IsUnion() bool { return r.Union != nil }

// String returns a compact notation of the reference, in the same shape as
// typeexpr expressions: brackets for lists, a trailing "?" for nullable.
func (r *Ref) String() string {
	if r == nil {
		return "<nil>"
	}
	var s string
	switch {
	case r.IsScalar():
		s = r.Kind.String()
	case r.IsList():
		s = "[" + r.Elem.String() + "]"
	case r.IsNode():
		s = r.Node.displayName()
	case r.IsUnion():
		s = r.Union.Name
	default:
		s = "<invalid>"
	}
	if r.Nullable {
		s += "?"
	}
	return s
}

// Union is a named output union of two or more object types. Member order
// follows the declaration; the name is the concatenation of the member type
// names in that order.
type Union struct {
	// Name is the output type name of the union.
	Name string
	// Members are the member nodes, in declaration order.
	Members []*Node
}

// unionName derives the output name of a union from its members.
func unionName(members []*Node) string {
	var b strings.Builder
	for _, m := range members {
		b.WriteString(pascal(m.displayName()))
	}
	return b.String()
}

// sameMembers reports if both slices hold the same nodes in the same order.
func sameMembers(a, b []*Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
