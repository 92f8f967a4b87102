package gen

import (
	"testing"

	"github.com/gazorby/strawberry/compiler/load"
	"github.com/gazorby/strawberry/schema"
	"github.com/gazorby/strawberry/schema/relation"
	"github.com/gazorby/strawberry/schema/typeexpr"

	"github.com/stretchr/testify/require"
)

func blogModels() []*load.Model {
	user := model("User", strField("name"))
	user.Relations = []*load.Relation{
		{Name: "posts", Type: "Post", Kind: relation.Rev, RefName: "author"},
	}
	user.Policy = schema.AllFields().WithRelated("posts")

	post := model("Post", strField("title"))
	post.Relations = []*load.Relation{
		{Name: "author", Type: "User", Kind: relation.FK},
		{Name: "tags", Type: "Tag", Kind: relation.M2M},
	}

	tag := model("Tag", strField("label"))
	return []*load.Model{user, post, tag}
}

func TestNewGraph(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	g, err := NewGraph(nil, blogModels()...)
	require.NoError(err)
	require.Len(g.Nodes, 3)
	require.Empty(g.Unions)

	types := g.Schema()
	post := types["Post"]
	require.NotNil(post)
	user := types["User"]
	require.NotNil(user)

	// References are handles into the registry, never copies.
	require.Same(user, post.Field("author").Ref.Node)
	require.Same(post, user.Field("posts").Ref.Elem.Node)

	byName, err := g.Node("Tag")
	require.NoError(err)
	require.Same(types["Tag"], byName)
}

func TestGraphOrderIndependence(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	perms := [][]int{
		{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0},
	}
	var fingerprint string
	for _, perm := range perms {
		models := blogModels()
		ordered := make([]*load.Model, len(models))
		for i, j := range perm {
			ordered[i] = models[j]
		}
		g, err := NewGraph(nil, ordered...)
		require.NoError(err)
		require.Equal("User", g.Nodes[2].Name)
		require.Equal("[Tag?]", g.Nodes[0].Field("tags").Ref.String())

		fp, err := g.Fingerprint()
		require.NoError(err)
		if fingerprint == "" {
			fingerprint = fp
		}
		require.Equal(fingerprint, fp)
	}
}

func TestGraphCycles(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	// Self-reference.
	employee := model("Employee", strField("name"))
	employee.Relations = []*load.Relation{
		{Name: "manager", Type: "Employee", Kind: relation.FK, Optional: true},
	}
	g, err := NewGraph(nil, employee)
	require.NoError(err)
	n := g.Schema()["Employee"]
	require.Same(n, n.Field("manager").Ref.Node)

	// Mutual cycle.
	a := model("A", &load.Field{Name: "b", Expr: typeexpr.Ref("B")})
	b := model("B", &load.Field{Name: "a", Expr: typeexpr.Ref("A")})
	g, err = NewGraph(nil, a, b)
	require.NoError(err)
	na, nb := g.Schema()["A"], g.Schema()["B"]
	require.Same(nb, na.Field("b").Ref.Node)
	require.Same(na, nb.Field("a").Ref.Node)
}

func TestGraphUnions(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	owner := model("Owner",
		&load.Field{Name: "pet", Expr: typeexpr.Union(typeexpr.Ref("Cat"), typeexpr.Ref("Dog"))},
		&load.Field{Name: "buddy", Expr: typeexpr.Optional(typeexpr.Union(typeexpr.Ref("Cat"), typeexpr.Ref("Dog")))},
	)
	g, err := NewGraph(nil, owner, model("Cat", strField("name")), model("Dog", strField("name")))
	require.NoError(err)
	require.Len(g.Unions, 1)

	// Union name concatenates member type names in declaration order.
	u := g.Unions[0]
	require.Equal("CatDog", u.Name)
	require.Len(u.Members, 2)
	require.Equal("Cat", u.Members[0].Name)
	require.Equal("Dog", u.Members[1].Name)

	// Both fields share the memoized union.
	o := g.Schema()["Owner"]
	require.Same(u, o.Field("pet").Ref.Union)
	require.Same(u, o.Field("buddy").Ref.Union)
	require.False(o.Field("pet").Ref.Nullable)
	require.True(o.Field("buddy").Ref.Nullable)
	require.Same(u, g.Union("CatDog"))
}

func TestGraphUnionCollapse(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	// A union whose distinct members collapse to one resolves to a plain
	// reference; an optional member makes it nullable.
	owner := model("Owner",
		&load.Field{Name: "pet", Expr: typeexpr.Union(typeexpr.Ref("Cat"), typeexpr.Ref("Cat"))},
		&load.Field{Name: "stray", Expr: typeexpr.Union(typeexpr.Ref("Cat"), typeexpr.Optional(typeexpr.Ref("Cat")))},
	)
	g, err := NewGraph(nil, owner, model("Cat", strField("name")))
	require.NoError(err)
	require.Empty(g.Unions)

	o := g.Schema()["Owner"]
	require.Equal("Cat", o.Field("pet").Ref.String())
	require.Equal("Cat?", o.Field("stray").Ref.String())
}

func TestGraphUnresolvedReference(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	post := model("Post", &load.Field{Name: "author", Expr: typeexpr.Ref("User")})
	post.Relations = []*load.Relation{
		{Name: "tags", Type: "Tag", Kind: relation.M2M},
	}
	g, err := NewGraph(nil, post)
	require.Nil(g)
	require.Error(err)
	require.ErrorIs(err, ErrAssembly)
	require.True(IsAssemblyError(err))

	// Every dangling target is reported with its referencing fields.
	require.ErrorIs(err, ErrUnresolvedReference)
	require.Contains(err.Error(), `unregistered model "User" from Post.author`)
	require.Contains(err.Error(), `unregistered model "Tag" from Post.tags`)
}

func TestGraphDuplicateModel(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	// Equal re-registration is idempotent.
	g, err := NewGraph(nil, model("User", strField("name")), model("User", strField("name")))
	require.NoError(err)
	require.Len(g.Nodes, 1)

	// Conflicting descriptors fail assembly.
	_, err = NewGraph(nil, model("User", strField("name")), model("User", strField("email")))
	require.Error(err)
	require.ErrorIs(err, ErrAssembly)
	require.ErrorIs(err, ErrDuplicateModel)
}

func TestGraphDuplicateTypeName(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	// Two identities remapped onto the same output name.
	cfg, err := NewConfig(WithTypeName("Admin", "Account"), WithTypeName("Customer", "Account"))
	require.NoError(err)
	_, err = NewGraph(cfg, model("Admin", strField("name")), model("Customer", strField("name")))
	require.Error(err)
	require.ErrorIs(err, ErrDuplicateTypeName)
	require.True(IsDuplicateTypeNameError(err))

	// A union name colliding with an object type name is also a failure.
	owner := model("Owner",
		&load.Field{Name: "pet", Expr: typeexpr.Union(typeexpr.Ref("Cat"), typeexpr.Ref("Dog"))},
	)
	_, err = NewGraph(nil, owner,
		model("Cat", strField("name")),
		model("Dog", strField("name")),
		model("CatDog", strField("name")),
	)
	require.Error(err)
	require.ErrorIs(err, ErrDuplicateTypeName)
}

func TestGraphCollectsAllFailures(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	a := model("A", &load.Field{Name: "x", Expr: typeexpr.Ref("Missing")})
	_, err := NewGraph(nil, a, model("A", strField("y")))
	require.Error(err)

	var aggr *AssemblyError
	require.ErrorAs(err, &aggr)
	require.Len(aggr.Errs, 2)
	require.ErrorIs(err, ErrDuplicateModel)
	require.ErrorIs(err, ErrUnresolvedReference)
}

func TestConfigOptions(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	cfg, err := NewConfig(WithTypeName("User", "Person"))
	require.NoError(err)
	require.Equal("Person", cfg.TypeNames["User"])

	g, err := NewGraph(cfg, model("User", strField("name")))
	require.NoError(err)
	require.NotNil(g.Schema()["Person"])
	require.Nil(g.Schema()["User"])

	_, err = NewConfig(WithTypeName("", ""))
	require.Error(err)
}
