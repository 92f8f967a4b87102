// Package typeexpr defines the type-expression grammar used to describe
// the shape of a model field: scalars, optional and list wrappers, unions,
// and named references to other models.
//
// Expressions are built with the package constructors and compose freely:
//
//	typeexpr.String()
//	typeexpr.Optional(typeexpr.List(typeexpr.Optional(typeexpr.String())))
//	typeexpr.Union(typeexpr.Ref("Cat"), typeexpr.Ref("Dog"))
//
// A Ref may name a model that has not been declared yet. Resolution of
// references is deferred to schema derivation; the grammar itself only
// checks structural validity.
package typeexpr

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind is the kind of a scalar leaf.
type Kind uint8

// Scalar kinds.
const (
	KindInvalid Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindID
	KindUUID
	KindTime
	endKinds
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindString:  "string",
	KindInt:     "int",
	KindFloat:   "float",
	KindBool:    "bool",
	KindID:      "id",
	KindUUID:    "uuid",
	KindTime:    "time",
}

// String returns the kind name.
func (k Kind) String() string {
	if k < endKinds {
		return kindNames[k]
	}
	return fmt.Sprintf("invalid(%d)", k)
}

// Valid reports if the kind is a known scalar kind.
func (k Kind) Valid() bool { return k > KindInvalid && k < endKinds }

// GoType returns the Go type backing the scalar kind.
func (k Kind) GoType() reflect.Type {
	switch k {
	case KindString, KindID:
		return reflect.TypeOf("")
	case KindInt:
		return reflect.TypeOf(int64(0))
	case KindFloat:
		return reflect.TypeOf(float64(0))
	case KindBool:
		return reflect.TypeOf(false)
	case KindUUID:
		return reflect.TypeOf(uuid.UUID{})
	case KindTime:
		return reflect.TypeOf(time.Time{})
	default:
		return nil
	}
}

// kindValues maps kind names back to kinds for decoding.
var kindValues = func() map[string]Kind {
	m := make(map[string]Kind, int(endKinds))
	for k := KindString; k < endKinds; k++ {
		m[kindNames[k]] = k
	}
	return m
}()

// Op is the operator at the root of an expression.
type Op uint8

// Expression operators.
const (
	OpInvalid Op = iota
	OpScalar
	OpList
	OpOptional
	OpUnion
	OpRef
	endOps
)

var opNames = [...]string{
	OpInvalid:  "invalid",
	OpScalar:   "scalar",
	OpList:     "list",
	OpOptional: "optional",
	OpUnion:    "union",
	OpRef:      "ref",
}

// String returns the operator name.
func (o Op) String() string {
	if o < endOps {
		return opNames[o]
	}
	return fmt.Sprintf("invalid(%d)", o)
}

var opValues = func() map[string]Op {
	m := make(map[string]Op, int(endOps))
	for o := OpScalar; o < endOps; o++ {
		m[opNames[o]] = o
	}
	return m
}()

// Expr is a type expression. The zero value is invalid; use the package
// constructors. Expressions are treated as immutable once attached to a
// field descriptor.
type Expr struct {
	// Op selects which of the following fields is meaningful.
	Op Op
	// Kind is the scalar kind for OpScalar expressions.
	Kind Kind
	// Elem is the element expression for OpList and OpOptional.
	Elem *Expr
	// Members holds union members for OpUnion, in declaration order.
	// Order is significant and preserved through derivation.
	Members []*Expr
	// Target is the referenced model identity for OpRef.
	Target string
}

// Scalar returns a scalar expression of the given kind.
func Scalar(k Kind) *Expr { return &Expr{Op: OpScalar, Kind: k} }

// String returns a string scalar expression.
func String() *Expr { return Scalar(KindString) }

// Int returns an integer scalar expression.
func Int() *Expr { return Scalar(KindInt) }

// Float returns a float scalar expression.
func Float() *Expr { return Scalar(KindFloat) }

// Bool returns a boolean scalar expression.
func Bool() *Expr { return Scalar(KindBool) }

// ID returns an identifier scalar expression.
func ID() *Expr { return Scalar(KindID) }

// UUID returns a UUID scalar expression.
func UUID() *Expr { return Scalar(KindUUID) }

// Time returns a date/time scalar expression.
func Time() *Expr { return Scalar(KindTime) }

// List returns a homogeneous list of the inner expression.
func List(inner *Expr) *Expr { return &Expr{Op: OpList, Elem: inner} }

// Optional marks the inner expression as nullable. An expression chain
// without Optional anywhere derives to a non-null output.
func Optional(inner *Expr) *Expr { return &Expr{Op: OpOptional, Elem: inner} }

// Union returns a union of the given members. Member order is preserved.
func Union(members ...*Expr) *Expr { return &Expr{Op: OpUnion, Members: members} }

// Ref returns a reference to the model with the given identity. The target
// does not need to be declared yet; it must be registered before the
// derivation finalization pass completes.
func Ref(target string) *Expr { return &Expr{Op: OpRef, Target: target} }

// Validate checks the expression against the grammar. It does not resolve
// references; a Ref to an unknown model passes validation.
func (e *Expr) Validate() error {
	switch {
	case e == nil:
		return fmt.Errorf("typeexpr: nil expression")
	case e.Op == OpScalar:
		if !e.Kind.Valid() {
			return fmt.Errorf("typeexpr: unsupported scalar kind %s", e.Kind)
		}
		return nil
	case e.Op == OpList, e.Op == OpOptional:
		if e.Elem == nil {
			return fmt.Errorf("typeexpr: %s requires an element expression", e.Op)
		}
		return e.Elem.Validate()
	case e.Op == OpUnion:
		if len(e.Members) < 2 {
			return fmt.Errorf("typeexpr: union requires at least 2 members (got %d)", len(e.Members))
		}
		for i, m := range e.Members {
			if err := m.Validate(); err != nil {
				return fmt.Errorf("typeexpr: union member %d: %w", i, err)
			}
		}
		return nil
	case e.Op == OpRef:
		if e.Target == "" {
			return fmt.Errorf("typeexpr: reference target cannot be empty")
		}
		return nil
	default:
		return fmt.Errorf("typeexpr: unsupported operator %s", e.Op)
	}
}

// Equal reports if two expressions are structurally identical.
func (e *Expr) Equal(other *Expr) bool {
	switch {
	case e == nil || other == nil:
		return e == other
	case e.Op != other.Op:
		return false
	}
	switch e.Op {
	case OpScalar:
		return e.Kind == other.Kind
	case OpList, OpOptional:
		return e.Elem.Equal(other.Elem)
	case OpUnion:
		if len(e.Members) != len(other.Members) {
			return false
		}
		for i := range e.Members {
			if !e.Members[i].Equal(other.Members[i]) {
				return false
			}
		}
		return true
	case OpRef:
		return e.Target == other.Target
	}
	return false
}

// String returns a compact notation for the expression. Lists are bracketed,
// nullability is a trailing "?", unions join members with "|".
func (e *Expr) String() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Op {
	case OpScalar:
		return e.Kind.String()
	case OpList:
		return "[" + e.Elem.String() + "]"
	case OpOptional:
		if e.Elem != nil && e.Elem.Op == OpUnion {
			return "(" + e.Elem.String() + ")?"
		}
		return e.Elem.String() + "?"
	case OpUnion:
		parts := make([]string, len(e.Members))
		for i, m := range e.Members {
			parts[i] = m.String()
		}
		return strings.Join(parts, " | ")
	case OpRef:
		return e.Target
	}
	return "<invalid>"
}

// jsonExpr is the wire form of Expr. Operators and kinds are encoded by
// name so descriptor dumps stay readable and stable across versions.
type jsonExpr struct {
	Op      string      `json:"op"`
	Kind    string      `json:"kind,omitempty"`
	Elem    *jsonExpr   `json:"elem,omitempty"`
	Members []*jsonExpr `json:"members,omitempty"`
	Target  string      `json:"target,omitempty"`
}

func encode(e *Expr) *jsonExpr {
	if e == nil {
		return nil
	}
	je := &jsonExpr{Op: e.Op.String(), Target: e.Target, Elem: encode(e.Elem)}
	if e.Op == OpScalar {
		je.Kind = e.Kind.String()
	}
	for _, m := range e.Members {
		je.Members = append(je.Members, encode(m))
	}
	return je
}

func decode(je *jsonExpr) (*Expr, error) {
	if je == nil {
		return nil, nil
	}
	op, ok := opValues[je.Op]
	if !ok {
		return nil, fmt.Errorf("typeexpr: unknown operator %q", je.Op)
	}
	e := &Expr{Op: op, Target: je.Target}
	if op == OpScalar {
		k, ok := kindValues[je.Kind]
		if !ok {
			return nil, fmt.Errorf("typeexpr: unknown scalar kind %q", je.Kind)
		}
		e.Kind = k
	}
	if je.Elem != nil {
		elem, err := decode(je.Elem)
		if err != nil {
			return nil, err
		}
		e.Elem = elem
	}
	for _, m := range je.Members {
		member, err := decode(m)
		if err != nil {
			return nil, err
		}
		e.Members = append(e.Members, member)
	}
	return e, nil
}

// MarshalJSON implements json.Marshaler.
func (e *Expr) MarshalJSON() ([]byte, error) {
	return json.Marshal(encode(e))
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *Expr) UnmarshalJSON(data []byte) error {
	var je jsonExpr
	if err := json.Unmarshal(data, &je); err != nil {
		return err
	}
	decoded, err := decode(&je)
	if err != nil {
		return err
	}
	*e = *decoded
	return nil
}
