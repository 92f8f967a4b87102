// Package graphql renders an assembled type graph at the query-language
// boundary: GraphQL SDL output and gqlgen configuration bindings. It emits
// the schema contract only; query execution is out of scope.
package graphql

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"

	"github.com/gazorby/strawberry/compiler/gen"
	"github.com/gazorby/strawberry/schema/typeexpr"
)

// Custom scalar type names declared on demand.
const (
	scalarUUID = "UUID"
	scalarTime = "Time"
)

// gqlScalar maps a scalar kind to its GraphQL type name.
func gqlScalar(k typeexpr.Kind) (string, error) {
	switch k {
	case typeexpr.KindString:
		return "String", nil
	case typeexpr.KindInt:
		return "Int", nil
	case typeexpr.KindFloat:
		return "Float", nil
	case typeexpr.KindBool:
		return "Boolean", nil
	case typeexpr.KindID:
		return "ID", nil
	case typeexpr.KindUUID:
		return scalarUUID, nil
	case typeexpr.KindTime:
		return scalarTime, nil
	}
	return "", fmt.Errorf("graphql: no scalar mapping for kind %s", k)
}

// Render builds the schema document for the graph: one object definition
// per node, one union definition per union, plus declarations for the
// custom scalars the fields actually use. Nullability inverts into NonNull.
func Render(g *gen.Graph) (*ast.SchemaDocument, error) {
	doc := &ast.SchemaDocument{}
	scalars, err := scalarDefs(g)
	if err != nil {
		return nil, err
	}
	doc.Definitions = append(doc.Definitions, scalars...)
	for _, n := range g.Nodes {
		def, err := objectDef(n)
		if err != nil {
			return nil, err
		}
		doc.Definitions = append(doc.Definitions, def)
	}
	for _, u := range g.Unions {
		doc.Definitions = append(doc.Definitions, unionDef(u))
	}
	return doc, nil
}

// SDL renders the graph to GraphQL schema definition language.
func SDL(g *gen.Graph) (string, error) {
	doc, err := Render(g)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	formatter.NewFormatter(&buf).FormatSchemaDocument(doc)
	return buf.String(), nil
}

func objectDef(n *gen.Node) (*ast.Definition, error) {
	def := &ast.Definition{
		Kind: ast.Object,
		Name: n.TypeName,
	}
	for _, f := range n.Fields {
		typ, err := gqlType(f.Ref)
		if err != nil {
			return nil, fmt.Errorf("graphql: field %s.%s: %w", n.TypeName, f.Name, err)
		}
		def.Fields = append(def.Fields, &ast.FieldDefinition{
			Name:        f.Name,
			Type:        typ,
			Description: f.Comment,
		})
	}
	return def, nil
}

func unionDef(u *gen.Union) *ast.Definition {
	def := &ast.Definition{
		Kind: ast.Union,
		Name: u.Name,
	}
	for _, m := range u.Members {
		def.Types = append(def.Types, m.TypeName)
	}
	return def
}

// gqlType converts a resolved reference into a GraphQL type reference.
// A non-nullable position becomes NonNull at the same depth.
func gqlType(ref *gen.Ref) (*ast.Type, error) {
	typ := &ast.Type{NonNull: !ref.Nullable}
	switch {
	case ref.IsScalar():
		name, err := gqlScalar(ref.Kind)
		if err != nil {
			return nil, err
		}
		typ.NamedType = name
	case ref.IsList():
		elem, err := gqlType(ref.Elem)
		if err != nil {
			return nil, err
		}
		typ.Elem = elem
	case ref.IsNode():
		typ.NamedType = ref.Node.TypeName
	case ref.IsUnion():
		typ.NamedType = ref.Union.Name
	default:
		return nil, fmt.Errorf("graphql: unsupported reference %s", ref)
	}
	return typ, nil
}

// scalarDefs declares the custom scalars used anywhere in the graph.
func scalarDefs(g *gen.Graph) (ast.DefinitionList, error) {
	used := make(map[string]bool)
	for _, n := range g.Nodes {
		for _, f := range n.Fields {
			collectScalars(f.Ref, used)
		}
	}
	names := make([]string, 0, len(used))
	for name := range used {
		names = append(names, name)
	}
	sort.Strings(names)
	defs := make(ast.DefinitionList, 0, len(names))
	for _, name := range names {
		defs = append(defs, &ast.Definition{Kind: ast.Scalar, Name: name})
	}
	return defs, nil
}

func collectScalars(ref *gen.Ref, used map[string]bool) {
	switch {
	case ref == nil:
	case ref.IsList():
		collectScalars(ref.Elem, used)
	case ref.Kind == typeexpr.KindUUID:
		used[scalarUUID] = true
	case ref.Kind == typeexpr.KindTime:
		used[scalarTime] = true
	}
}
