package graphql_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gazorby/strawberry/compiler/gen"
	"github.com/gazorby/strawberry/compiler/load"
	"github.com/gazorby/strawberry/contrib/graphql"
	"github.com/gazorby/strawberry/schema"
	"github.com/gazorby/strawberry/schema/relation"
	"github.com/gazorby/strawberry/schema/typeexpr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"
)

func testGraph(t *testing.T) *gen.Graph {
	t.Helper()
	user := &load.Model{
		Name:     "User",
		TypeName: "User",
		Fields: []*load.Field{
			{Name: "id", Expr: typeexpr.UUID()},
			{Name: "name", Expr: typeexpr.String(), Comment: "display name"},
			{Name: "joined", Expr: typeexpr.Time()},
			{Name: "bio", Expr: typeexpr.String(), Optional: true},
			{Name: "pet", Expr: typeexpr.Union(typeexpr.Ref("Cat"), typeexpr.Ref("Dog"))},
		},
		Relations: []*load.Relation{
			{Name: "posts", Type: "Post", Kind: relation.Rev, RefName: "author"},
		},
		Policy: schema.AllFields().WithRelated("posts"),
	}
	post := &load.Model{
		Name:     "Post",
		TypeName: "Post",
		Fields: []*load.Field{
			{Name: "title", Expr: typeexpr.String()},
		},
		Relations: []*load.Relation{
			{Name: "author", Type: "User", Kind: relation.FK},
			{Name: "tags", Type: "Tag", Kind: relation.M2M},
		},
	}
	named := func(name string) *load.Model {
		return &load.Model{
			Name:     name,
			TypeName: name,
			Fields:   []*load.Field{{Name: "name", Expr: typeexpr.String()}},
		}
	}
	g, err := gen.NewGraph(nil, user, post, named("Tag"), named("Cat"), named("Dog"))
	require.NoError(t, err)
	return g
}

func TestRender(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	doc, err := graphql.Render(testGraph(t))
	require.NoError(err)

	defs := make(map[string]*ast.Definition, len(doc.Definitions))
	for _, def := range doc.Definitions {
		defs[def.Name] = def
	}

	// Custom scalars are declared on demand.
	require.Equal(ast.Scalar, defs["UUID"].Kind)
	require.Equal(ast.Scalar, defs["Time"].Kind)

	user := defs["User"]
	require.Equal(ast.Object, user.Kind)

	// Non-null inverts from nullability at every depth.
	find := func(name string) *ast.FieldDefinition {
		for _, f := range user.Fields {
			if f.Name == name {
				return f
			}
		}
		return nil
	}
	require.True(find("name").Type.NonNull)
	require.Equal("String", find("name").Type.NamedType)
	require.Equal("display name", find("name").Description)
	require.False(find("bio").Type.NonNull)

	posts := find("posts").Type
	require.False(posts.NonNull)
	require.Equal("Post", posts.Elem.NamedType)
	require.False(posts.Elem.NonNull)

	union := defs["CatDog"]
	require.Equal(ast.Union, union.Kind)
	require.Equal([]string{"Cat", "Dog"}, union.Types)
	require.Equal("CatDog", find("pet").Type.NamedType)
}

func TestSDL(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	sdl, err := graphql.SDL(testGraph(t))
	require.NoError(err)

	assert.Contains(t, sdl, "scalar UUID")
	assert.Contains(t, sdl, "scalar Time")
	assert.Contains(t, sdl, "type User")
	assert.Contains(t, sdl, "name: String!")
	assert.Contains(t, sdl, "bio: String")
	assert.Contains(t, sdl, "author: User!")
	assert.Contains(t, sdl, "tags: [Tag]!")
	assert.Contains(t, sdl, "posts: [Post]")
	assert.Contains(t, sdl, "union CatDog = Cat | Dog")
}

func TestWriteSchema(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	dir := t.TempDir()
	require.NoError(graphql.WriteSchema(testGraph(t), dir))

	data, err := os.ReadFile(filepath.Join(dir, graphql.DefaultSchemaFile))
	require.NoError(err)
	require.Contains(string(data), "type Post")
}

func TestWriteSchemaSplit(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	dir := t.TempDir()
	require.NoError(graphql.WriteSchema(testGraph(t), dir, graphql.WithSplitFiles()))

	for _, name := range []string{"User", "Post", "Tag", "Cat", "Dog", "CatDog"} {
		data, err := os.ReadFile(filepath.Join(dir, name+".graphql"))
		require.NoError(err)
		require.Contains(string(data), name)
	}
	data, err := os.ReadFile(filepath.Join(dir, "scalars.graphql"))
	require.NoError(err)
	require.Contains(string(data), "scalar UUID")
	require.Contains(string(data), "scalar Time")
}
