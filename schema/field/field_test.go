package field_test

import (
	"testing"

	"github.com/gazorby/strawberry/schema/field"
	"github.com/gazorby/strawberry/schema/typeexpr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBuilders tests the field builders with various configurations.
func TestBuilders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		build    func() *field.Descriptor
		validate func(t *testing.T, desc *field.Descriptor)
	}{
		{
			name: "string_field",
			build: func() *field.Descriptor {
				return field.String("name").Descriptor()
			},
			validate: func(t *testing.T, desc *field.Descriptor) {
				assert.Equal(t, "name", desc.Name)
				assert.Equal(t, "string", desc.Expr.String())
				assert.False(t, desc.Optional)
				assert.Empty(t, desc.Comment)
				assert.NoError(t, desc.Err)
			},
		},
		{
			name: "optional_field",
			build: func() *field.Descriptor {
				return field.String("bio").Optional().Descriptor()
			},
			validate: func(t *testing.T, desc *field.Descriptor) {
				assert.True(t, desc.Optional)
			},
		},
		{
			name: "scalar_shorthands",
			build: func() *field.Descriptor {
				return field.UUID("id").Descriptor()
			},
			validate: func(t *testing.T, desc *field.Descriptor) {
				assert.Equal(t, typeexpr.OpScalar, desc.Expr.Op)
				assert.Equal(t, typeexpr.KindUUID, desc.Expr.Kind)
			},
		},
		{
			name: "list_field",
			build: func() *field.Descriptor {
				return field.List("tags", typeexpr.String()).Descriptor()
			},
			validate: func(t *testing.T, desc *field.Descriptor) {
				assert.Equal(t, "[string]", desc.Expr.String())
			},
		},
		{
			name: "ref_field",
			build: func() *field.Descriptor {
				return field.Ref("author", "Author").Descriptor()
			},
			validate: func(t *testing.T, desc *field.Descriptor) {
				assert.Equal(t, typeexpr.OpRef, desc.Expr.Op)
				assert.Equal(t, "Author", desc.Expr.Target)
			},
		},
		{
			name: "union_field",
			build: func() *field.Descriptor {
				return field.Union("pet", typeexpr.Ref("Cat"), typeexpr.Ref("Dog")).Descriptor()
			},
			validate: func(t *testing.T, desc *field.Descriptor) {
				assert.Equal(t, "Cat | Dog", desc.Expr.String())
			},
		},
		{
			name: "comment_and_tag",
			build: func() *field.Descriptor {
				return field.Int("age").
					Comment("age in years").
					StructTag(`json:"age"`).
					Descriptor()
			},
			validate: func(t *testing.T, desc *field.Descriptor) {
				assert.Equal(t, "age in years", desc.Comment)
				assert.Equal(t, `json:"age"`, desc.Tag)
			},
		},
		{
			name: "missing_expression_is_deferred",
			build: func() *field.Descriptor {
				return field.New("broken", nil).Descriptor()
			},
			validate: func(t *testing.T, desc *field.Descriptor) {
				require.Error(t, desc.Err)
				assert.Contains(t, desc.Err.Error(), "missing type expression")
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tt.validate(t, tt.build())
		})
	}
}
