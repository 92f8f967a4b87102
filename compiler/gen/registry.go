package gen

import (
	"fmt"
	"sort"

	"github.com/gazorby/strawberry/compiler/load"
	"github.com/gazorby/strawberry/schema/relation"
	"github.com/gazorby/strawberry/schema/typeexpr"
)

// Registry holds every node derived so far, keyed by model identity, plus
// the memoized unions. It is the single source of node handles: resolving
// the same identity twice always yields the same *Node. The registry is not
// safe for concurrent use.
type Registry struct {
	nodes  map[string]*Node
	order  []string // registration order of descriptor-backed nodes
	unions map[string]*Union
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		nodes:  make(map[string]*Node),
		unions: make(map[string]*Union),
	}
}

// Register attaches a descriptor to the node for its identity, creating the
// node if needed. Registering the same identity again with an equal
// descriptor is a no-op; a conflicting descriptor fails with
// DuplicateModelError. Registration never resolves fields; call Finalize
// once every model is registered.
func (r *Registry) Register(md *load.Model) error {
	n := r.Placeholder(md.Name)
	if n.model != nil {
		if n.model.Equal(md) {
			return nil
		}
		return NewDuplicateModelError(md.Name)
	}
	n.model = md
	n.TypeName = md.TypeName
	if n.TypeName == "" {
		n.TypeName = md.Name
	}
	r.order = append(r.order, md.Name)
	return nil
}

// Placeholder returns the node for the given identity, creating an empty
// placeholder if the identity was never seen. Placeholders let references
// resolve before their target is registered, and break reference cycles.
func (r *Registry) Placeholder(name string) *Node {
	if n, ok := r.nodes[name]; ok {
		return n
	}
	n := &Node{Name: name}
	r.nodes[name] = n
	return n
}

// Node returns the descriptor-backed node for the given identity. Looking
// up an identity that was never registered, or that only exists as a
// placeholder, fails with UnknownModelError.
func (r *Registry) Node(name string) (*Node, error) {
	n, ok := r.nodes[name]
	if !ok || n.model == nil {
		return nil, NewUnknownModelError(name)
	}
	return n, nil
}

// Nodes returns every descriptor-backed node, sorted by identity.
func (r *Registry) Nodes() []*Node {
	nodes := make([]*Node, 0, len(r.order))
	for _, name := range r.order {
		nodes = append(nodes, r.nodes[name])
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Name < nodes[j].Name })
	return nodes
}

// Unions returns every memoized union, sorted by name.
func (r *Registry) Unions() []*Union {
	unions := make([]*Union, 0, len(r.unions))
	for _, u := range r.unions {
		unions = append(unions, u)
	}
	sort.Slice(unions, func(i, j int) bool { return unions[i].Name < unions[j].Name })
	return unions
}

// Finalize resolves the fields of the node registered under the given
// identity. It is idempotent: a finalized node is returned as is. Targets
// of references and relationships are materialized as placeholders, never
// finalized recursively, so cyclic models terminate trivially.
func (r *Registry) Finalize(name string) (*Node, error) {
	n, err := r.Node(name)
	if err != nil {
		return nil, err
	}
	if n.finalized {
		return n, nil
	}
	// Mark before resolving so self-references observe the memoized node.
	n.finalized = true
	if err := r.resolveFields(n); err != nil {
		// Leave no partially resolved node behind; a retry fails again
		// instead of reporting the partial field list as finalized.
		n.finalized = false
		n.Fields = nil
		n.fields = nil
		return nil, err
	}
	return n, nil
}

func (r *Registry) resolveFields(n *Node) error {
	md := n.model
	for _, fd := range md.Fields {
		if !md.Policy.Selects(fd.Name) {
			continue
		}
		ref, err := r.resolveExpr(fd.Expr)
		if err != nil {
			return fmt.Errorf("strawberry: resolving %s.%s: %w", n.Name, fd.Name, err)
		}
		if fd.Optional {
			ref.Nullable = true
		}
		n.addField(&Field{Name: fd.Name, Ref: ref, Rel: relation.Unk, Comment: fd.Comment})
	}
	for _, rd := range md.Relations {
		f, err := r.relationField(md, rd)
		if err != nil {
			return err
		}
		if f != nil {
			n.addField(f)
		}
	}
	return nil
}

// resolveExpr maps a type expression to a resolved reference. References to
// models become placeholder handles; unions are deduplicated and memoized.
func (r *Registry) resolveExpr(e *typeexpr.Expr) (*Ref, error) {
	switch e.Op {
	case typeexpr.OpScalar:
		return &Ref{Kind: e.Kind}, nil
	case typeexpr.OpList:
		elem, err := r.resolveExpr(e.Elem)
		if err != nil {
			return nil, err
		}
		return &Ref{Elem: elem}, nil
	case typeexpr.OpOptional:
		ref, err := r.resolveExpr(e.Elem)
		if err != nil {
			return nil, err
		}
		// Nested Optionals collapse into one nullable position.
		ref.Nullable = true
		return ref, nil
	case typeexpr.OpRef:
		return &Ref{Node: r.Placeholder(e.Target)}, nil
	case typeexpr.OpUnion:
		return r.resolveUnion(e)
	default:
		return nil, fmt.Errorf("unsupported expression %s", e)
	}
}

// resolveUnion deduplicates the union members in declaration order. A union
// collapsing to one distinct member resolves to a plain reference to that
// member. A nullable member makes the whole union nullable.
func (r *Registry) resolveUnion(e *typeexpr.Expr) (*Ref, error) {
	var (
		nullable bool
		members  []*Node
		seen     = make(map[*Node]struct{})
	)
	for _, m := range e.Members {
		ref, err := r.resolveExpr(m)
		if err != nil {
			return nil, err
		}
		if !ref.IsNode() {
			return nil, fmt.Errorf("union member %s is not a model reference", m)
		}
		if ref.Nullable {
			nullable = true
		}
		if _, ok := seen[ref.Node]; ok {
			continue
		}
		seen[ref.Node] = struct{}{}
		members = append(members, ref.Node)
	}
	if len(members) == 1 {
		return &Ref{Node: members[0], Nullable: nullable}, nil
	}
	u, err := r.union(members)
	if err != nil {
		return nil, err
	}
	return &Ref{Union: u, Nullable: nullable}, nil
}

// union returns the memoized union for the given member sequence, creating
// it on first use. Two member sequences whose concatenated names collide
// fail with DuplicateTypeNameError.
func (r *Registry) union(members []*Node) (*Union, error) {
	name := unionName(members)
	if u, ok := r.unions[name]; ok {
		if !sameMembers(u.Members, members) {
			models := make([]string, 0, len(u.Members)+len(members))
			for _, m := range u.Members {
				models = append(models, m.Name)
			}
			for _, m := range members {
				models = append(models, m.Name)
			}
			return nil, NewDuplicateTypeNameError(name, models...)
		}
		return u, nil
	}
	u := &Union{Name: name, Members: members}
	r.unions[name] = u
	return u, nil
}

// relationField derives the output field of one relationship entry, or nil
// if the policy excludes it. Forward relationships pass through the field
// selection filter; reverse relations are included only on explicit opt-in
// and bypass the filter.
func (r *Registry) relationField(md *load.Model, rd *load.Relation) (*Field, error) {
	switch rd.Kind {
	case relation.FK:
		if !md.Policy.Selects(rd.Name) {
			return nil, nil
		}
		ref := &Ref{Node: r.Placeholder(rd.Type), Nullable: rd.Optional}
		return &Field{Name: rd.Name, Ref: ref, Rel: relation.FK, Comment: rd.Comment}, nil
	case relation.M2M:
		if !md.Policy.Selects(rd.Name) {
			return nil, nil
		}
		// A non-null list of nullable references.
		ref := &Ref{Elem: &Ref{Node: r.Placeholder(rd.Type), Nullable: true}}
		return &Field{Name: rd.Name, Ref: ref, Rel: relation.M2M, Comment: rd.Comment}, nil
	case relation.Rev:
		if !md.Policy.IsRelated(rd.Name) {
			return nil, nil
		}
		// Reverse entries are never required: the list itself is nullable too.
		ref := &Ref{
			Nullable: true,
			Elem:     &Ref{Node: r.Placeholder(rd.Type), Nullable: true},
		}
		return &Field{Name: rd.Name, Ref: ref, Rel: relation.Rev, Comment: rd.Comment}, nil
	default:
		return nil, fmt.Errorf("strawberry: resolving %s.%s: unknown relationship kind", md.Name, rd.Name)
	}
}
