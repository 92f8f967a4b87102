// Package schema provides the building blocks for declaring strawberry
// models: the per-model inclusion Policy, and the descriptor builders in
// its subpackages:
//
//   - [typeexpr]: the type-expression grammar for field shapes
//   - [field]: field descriptor builders
//   - [relation]: relationship descriptor builders
//
// A model embeds strawberry.Model and implements the methods it needs:
//
//	type Author struct{ strawberry.Model }
//
//	func (Author) Fields() []strawberry.Field {
//	    return []strawberry.Field{
//	        field.ID("id"),
//	        field.String("name"),
//	        field.String("bio").Optional(),
//	    }
//	}
//
//	func (Author) Relations() []strawberry.Relation {
//	    return []strawberry.Relation{
//	        relation.Reverse("posts", "Post").Ref("author"),
//	    }
//	}
//
//	func (Author) Policy() schema.Policy {
//	    return schema.AllFields().WithRelated("posts")
//	}
package schema

import "slices"

// SelectMode is the field-selection mode of a Policy.
type SelectMode uint8

// Field-selection modes, in precedence order: an explicit list wins over an
// exclusion set, which wins over take-all.
const (
	// SelectAll includes every declared field.
	SelectAll SelectMode = iota
	// SelectExcept includes every field not in Names.
	SelectExcept
	// SelectOnly includes exactly the fields in Names.
	SelectOnly
)

// String returns the mode name.
func (m SelectMode) String() string {
	switch m {
	case SelectAll:
		return "all"
	case SelectExcept:
		return "except"
	case SelectOnly:
		return "only"
	}
	return "invalid"
}

// Policy controls which of a model's fields and relationships are included
// in the derived type. The field-selection mode applies identically to plain
// fields and to forward relationship fields; Related is an orthogonal,
// always-additive opt-in for reverse relations.
type Policy struct {
	// Mode is the field-selection mode.
	Mode SelectMode `json:"mode"`
	// Names is the field-name set for SelectExcept and SelectOnly.
	Names []string `json:"names,omitempty"`
	// Related lists reverse-relation names to include. Entries here bypass
	// the field-selection filter entirely: they were explicitly requested.
	Related []string `json:"related,omitempty"`
}

// AllFields returns a policy that includes every declared field.
func AllFields() Policy {
	return Policy{Mode: SelectAll}
}

// Except returns a policy that includes every field except the given names.
func Except(names ...string) Policy {
	return Policy{Mode: SelectExcept, Names: names}
}

// Only returns a policy that includes exactly the given field names.
func Only(names ...string) Policy {
	return Policy{Mode: SelectOnly, Names: names}
}

// WithRelated returns a copy of the policy with the given reverse-relation
// names added to the opt-in set.
func (p Policy) WithRelated(names ...string) Policy {
	p.Related = append(slices.Clone(p.Related), names...)
	return p
}

// Selects reports if a field with the given name passes the field-selection
// filter. Reverse relations are not subject to this filter; see IsRelated.
func (p Policy) Selects(name string) bool {
	switch p.Mode {
	case SelectOnly:
		return slices.Contains(p.Names, name)
	case SelectExcept:
		return !slices.Contains(p.Names, name)
	default:
		return true
	}
}

// IsRelated reports if the given reverse-relation name was opted in.
func (p Policy) IsRelated(name string) bool {
	return slices.Contains(p.Related, name)
}
