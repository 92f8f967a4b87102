package gen

import (
	"fmt"
	"sort"

	"github.com/gazorby/strawberry/compiler/load"
)

// Config holds assembly settings.
type Config struct {
	// TypeNames remaps model identities to output type names, overriding
	// both the default (the identity itself) and the model's own TypeName.
	TypeNames map[string]string
}

// Option configures schema assembly.
type Option func(*Config) error

// WithTypeName remaps the output type name of the given model identity.
func WithTypeName(model, name string) Option {
	return func(c *Config) error {
		if model == "" || name == "" {
			return fmt.Errorf("strawberry: WithTypeName requires a model identity and a type name")
		}
		if c.TypeNames == nil {
			c.TypeNames = make(map[string]string)
		}
		c.TypeNames[model] = name
		return nil
	}
}

// NewConfig creates a Config from the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Graph is the fully assembled schema: one node per registered model and
// the unions their fields produced. A Graph is only ever returned complete;
// assembly failures return an AssemblyError and no graph.
type Graph struct {
	// Config the graph was assembled with.
	Config *Config
	// Nodes are the output types, sorted by model identity.
	Nodes []*Node
	// Unions are the output unions, sorted by name.
	Unions []*Union

	registry *Registry
}

// NewGraph assembles the graph for the given descriptors in two phases:
// every descriptor is registered first, then every node is finalized, so
// declaration order and reference cycles never matter. After finalization
// the graph is verified: a reference to an identity that was never
// registered, and two output types sharing a name, are assembly failures.
// All failures are collected and returned together as an AssemblyError.
func NewGraph(c *Config, models ...*load.Model) (*Graph, error) {
	if c == nil {
		c = &Config{}
	}
	var (
		errs     []error
		registry = NewRegistry()
	)
	for _, md := range models {
		if name, ok := c.TypeNames[md.Name]; ok {
			renamed := *md
			renamed.TypeName = name
			md = &renamed
		}
		if err := registry.Register(md); err != nil {
			errs = append(errs, err)
		}
	}
	for _, name := range registry.order {
		if _, err := registry.Finalize(name); err != nil {
			errs = append(errs, err)
		}
	}
	errs = append(errs, danglingRefs(registry)...)
	errs = append(errs, duplicateTypeNames(registry)...)
	if len(errs) > 0 {
		return nil, NewAssemblyError(errs...)
	}
	return &Graph{
		Config:   c,
		Nodes:    registry.Nodes(),
		Unions:   registry.Unions(),
		registry: registry,
	}, nil
}

// Schema returns the output types keyed by type name. This is the stable
// outbound contract consumed by renderers.
func (g *Graph) Schema() map[string]*Node {
	schema := make(map[string]*Node, len(g.Nodes))
	for _, n := range g.Nodes {
		schema[n.TypeName] = n
	}
	return schema
}

// Node returns the output type derived for the given model identity.
func (g *Graph) Node(name string) (*Node, error) {
	return g.registry.Node(name)
}

// Union returns the union with the given output name, or nil.
func (g *Graph) Union(name string) *Union {
	return g.registry.unions[name]
}

// danglingRefs reports every placeholder that never received a descriptor,
// with the model/field pairs referencing it.
func danglingRefs(r *Registry) []error {
	owners := make(map[string][]string)
	for _, name := range r.order {
		n := r.nodes[name]
		for _, f := range n.Fields {
			walkRefs(f.Ref, func(target *Node) {
				if target.model == nil {
					owners[target.Name] = append(owners[target.Name], n.Name+"."+f.Name)
				}
			})
		}
	}
	targets := make([]string, 0, len(owners))
	for target := range owners {
		targets = append(targets, target)
	}
	sort.Strings(targets)
	errs := make([]error, 0, len(targets))
	for _, target := range targets {
		errs = append(errs, NewUnresolvedReferenceError(target, owners[target]...))
	}
	return errs
}

// walkRefs visits every node handle reachable from the given reference,
// union members included.
func walkRefs(ref *Ref, visit func(*Node)) {
	switch {
	case ref == nil:
	case ref.IsNode():
		visit(ref.Node)
	case ref.IsList():
		walkRefs(ref.Elem, visit)
	case ref.IsUnion():
		for _, m := range ref.Union.Members {
			visit(m)
		}
	}
}

// duplicateTypeNames verifies output-name uniqueness across nodes and
// unions together.
func duplicateTypeNames(r *Registry) []error {
	byName := make(map[string][]string)
	for _, name := range r.order {
		n := r.nodes[name]
		byName[n.TypeName] = append(byName[n.TypeName], n.Name)
	}
	for name, u := range r.unions {
		byName[name] = append(byName[name], "union "+u.Name)
	}
	names := make([]string, 0, len(byName))
	for name, models := range byName {
		if len(models) > 1 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	errs := make([]error, 0, len(names))
	for _, name := range names {
		models := byName[name]
		sort.Strings(models)
		errs = append(errs, NewDuplicateTypeNameError(name, models...))
	}
	return errs
}
