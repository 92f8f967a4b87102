// Package load normalizes user model declarations into plain descriptors
// consumed by the derivation engine. Introspection is pure and per-model:
// it never consults another model and never touches the registry.
package load

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/gazorby/strawberry"
	"github.com/gazorby/strawberry/schema"
	"github.com/gazorby/strawberry/schema/relation"
	"github.com/gazorby/strawberry/schema/typeexpr"
)

// Model represents a strawberry.Interface that was introspected into its
// normalized form. It is immutable once produced.
type Model struct {
	Name      string        `json:"name,omitempty"`
	TypeName  string        `json:"type_name,omitempty"`
	Fields    []*Field      `json:"fields,omitempty"`
	Relations []*Relation   `json:"relations,omitempty"`
	Policy    schema.Policy `json:"policy,omitempty"`
}

// Field represents a declared field in its normalized form.
type Field struct {
	Name     string         `json:"name,omitempty"`
	Expr     *typeexpr.Expr `json:"expr,omitempty"`
	Optional bool           `json:"optional,omitempty"`
	Comment  string         `json:"comment,omitempty"`
	Tag      string         `json:"tag,omitempty"`
	Position int            `json:"position,omitempty"`
}

// Relation represents a declared relationship in its normalized form.
type Relation struct {
	Name     string       `json:"name,omitempty"`
	Type     string       `json:"type,omitempty"` // target model identity
	Kind     relation.Rel `json:"kind,omitempty"`
	RefName  string       `json:"ref_name,omitempty"`
	Optional bool         `json:"optional,omitempty"`
	Comment  string       `json:"comment,omitempty"`
}

// Introspect extracts the normalized descriptor of a single model. It fails
// with an IntrospectionError if a declared field or relationship does not
// conform to the type-expression grammar. Panics raised by user descriptor
// methods are recovered into errors.
func Introspect(m strawberry.Interface) (*Model, error) {
	name := indirect(reflect.TypeOf(m)).Name()
	if name == "" {
		return nil, NewIntrospectionError(name, "", "model identity cannot be empty", nil)
	}
	md := &Model{Name: name, TypeName: name}
	if tn, ok := m.(strawberry.TypeNamer); ok {
		if md.TypeName = tn.TypeName(); md.TypeName == "" {
			return nil, NewIntrospectionError(name, "", "TypeName cannot be empty", nil)
		}
	}
	if err := md.loadFields(m); err != nil {
		return nil, err
	}
	if err := md.loadRelations(m); err != nil {
		return nil, err
	}
	policy, err := safePolicy(m)
	if err != nil {
		return nil, NewIntrospectionError(name, "", "", err)
	}
	md.Policy = policy
	return md, nil
}

// Models introspects a batch of declarations, preserving order.
func Models(ms ...strawberry.Interface) ([]*Model, error) {
	models := make([]*Model, 0, len(ms))
	for _, m := range ms {
		md, err := Introspect(m)
		if err != nil {
			return nil, err
		}
		models = append(models, md)
	}
	return models, nil
}

// MarshalModel encodes a model declaration into JSON that can be decoded
// back with UnmarshalModel. It allows descriptors to be produced in one
// pass (or process) and registered in another.
func MarshalModel(m strawberry.Interface) ([]byte, error) {
	md, err := Introspect(m)
	if err != nil {
		return nil, err
	}
	return json.Marshal(md)
}

// UnmarshalModel decodes the given buffer into a normalized model.
func UnmarshalModel(buf []byte) (*Model, error) {
	md := &Model{}
	if err := json.Unmarshal(buf, md); err != nil {
		return nil, err
	}
	if md.TypeName == "" {
		md.TypeName = md.Name
	}
	return md, nil
}

// Equal reports if two descriptors are identical. Registration of the same
// identity with an equal descriptor is idempotent; a conflicting descriptor
// is an error.
func (m *Model) Equal(other *Model) bool {
	if m == nil || other == nil {
		return m == other
	}
	a, err := json.Marshal(m)
	if err != nil {
		return false
	}
	b, err := json.Marshal(other)
	if err != nil {
		return false
	}
	return bytes.Equal(a, b)
}

func (m *Model) loadFields(src strawberry.Interface) error {
	fields, err := safeFields(src)
	if err != nil {
		return NewIntrospectionError(m.Name, "", "", err)
	}
	seen := make(map[string]struct{}, len(fields))
	for i, f := range fields {
		fd := f.Descriptor()
		switch {
		case fd.Err != nil:
			return NewIntrospectionError(m.Name, fd.Name, "", fd.Err)
		case fd.Name == "":
			return NewIntrospectionError(m.Name, "", "field name cannot be empty", nil)
		}
		if _, ok := seen[fd.Name]; ok {
			return NewIntrospectionError(m.Name, fd.Name, "field declared twice", nil)
		}
		seen[fd.Name] = struct{}{}
		if err := fd.Expr.Validate(); err != nil {
			return NewIntrospectionError(m.Name, fd.Name, "", err)
		}
		m.Fields = append(m.Fields, &Field{
			Name:     fd.Name,
			Expr:     fd.Expr,
			Optional: fd.Optional,
			Comment:  fd.Comment,
			Tag:      fd.Tag,
			Position: i,
		})
	}
	return nil
}

func (m *Model) loadRelations(src strawberry.Interface) error {
	relations, err := safeRelations(src)
	if err != nil {
		return NewIntrospectionError(m.Name, "", "", err)
	}
	seen := make(map[string]struct{}, len(relations))
	for _, f := range m.Fields {
		seen[f.Name] = struct{}{}
	}
	for _, r := range relations {
		rd := r.Descriptor()
		switch {
		case rd.Err != nil:
			return NewIntrospectionError(m.Name, rd.Name, "", rd.Err)
		case rd.Name == "":
			return NewIntrospectionError(m.Name, "", "relation name cannot be empty", nil)
		case rd.Kind == relation.Unk:
			return NewIntrospectionError(m.Name, rd.Name, "unknown relationship kind", nil)
		case rd.Kind == relation.Rev && rd.RefName == "":
			return NewIntrospectionError(m.Name, rd.Name, "reverse relation requires Ref with the owning-side name", nil)
		}
		if _, ok := seen[rd.Name]; ok {
			return NewIntrospectionError(m.Name, rd.Name, "name collides with another field or relation", nil)
		}
		seen[rd.Name] = struct{}{}
		m.Relations = append(m.Relations, &Relation{
			Name:     rd.Name,
			Type:     rd.Type,
			Kind:     rd.Kind,
			RefName:  rd.RefName,
			Optional: rd.Optional,
			Comment:  rd.Comment,
		})
	}
	return nil
}

// safeFields wraps the model Fields method with recover to ensure no panics
// in introspection.
func safeFields(m strawberry.Interface) (fields []strawberry.Field, err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("%T.Fields panics: %v", m, v)
			fields = nil
		}
	}()
	return m.Fields(), nil
}

// safeRelations wraps the model Relations method with recover to ensure no
// panics in introspection.
func safeRelations(m strawberry.Interface) (relations []strawberry.Relation, err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("%T.Relations panics: %v", m, v)
			relations = nil
		}
	}()
	return m.Relations(), nil
}

// safePolicy wraps the model Policy method with recover to ensure no panics
// in introspection.
func safePolicy(m strawberry.Interface) (policy schema.Policy, err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("%T.Policy panics: %v", m, v)
			policy = schema.Policy{}
		}
	}()
	return m.Policy(), nil
}

func indirect(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
