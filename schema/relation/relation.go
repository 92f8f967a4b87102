// Package relation provides fluent builders for declaring model
// relationships.
//
// There are three relationship kinds:
//
//	// Foreign key: a non-null reference to the target model.
//	relation.To("author", "Author")
//
//	// Nullable foreign key.
//	relation.To("editor", "Author").Optional()
//
//	// Many-to-many: a list of references to the target model.
//	relation.ManyToMany("tags", "Tag")
//
//	// Reverse relation: the non-owning side of a foreign key or
//	// many-to-many edge. Ref names the owning side's relationship.
//	relation.Reverse("posts", "Post").Ref("author")
//
// Forward relationships (To, ManyToMany) derive into fields by default.
// Reverse relations derive only when the model's inclusion policy opts in
// via schema.Policy.WithRelated; without the opt-in they are invisible,
// which keeps "include everything" policies from duplicating every edge on
// both sides.
package relation

import "errors"

// Rel is the relationship kind.
type Rel uint8

// Relationship kinds.
const (
	Unk Rel = iota // Unknown.
	FK             // Foreign key (forward, single reference).
	M2M            // Many to many (forward, list of references).
	Rev            // Reverse relation (non-owning side, opt-in).
)

// String returns the relationship kind name.
func (r Rel) String() string {
	switch r {
	case FK:
		return "FK"
	case M2M:
		return "M2M"
	case Rev:
		return "Reverse"
	}
	return "Unknown"
}

// Descriptor holds the declared state of a relationship. It is the
// normalized form consumed by introspection.
type Descriptor struct {
	Name     string `json:"name,omitempty"`
	Type     string `json:"type,omitempty"` // target model identity
	Kind     Rel    `json:"kind,omitempty"`
	RefName  string `json:"ref_name,omitempty"` // owning-side relationship name, reverse only
	Optional bool   `json:"optional,omitempty"`
	Comment  string `json:"comment,omitempty"`
	Err      error  `json:"-"`
}

// Builder is the fluent builder for a relationship descriptor.
type Builder struct {
	desc *Descriptor
}

// To returns a foreign-key relationship to the target model. The derived
// field is a non-null reference unless Optional is set.
func To(name, target string) *Builder {
	return newBuilder(name, target, FK)
}

// ManyToMany returns a many-to-many relationship to the target model. The
// derived field is a list of references.
func ManyToMany(name, target string) *Builder {
	return newBuilder(name, target, M2M)
}

// Reverse returns a reverse relation to the target model: the non-owning
// side of a forward edge declared on target. It derives into a field only
// when the model's policy lists its name in WithRelated.
func Reverse(name, target string) *Builder {
	return newBuilder(name, target, Rev)
}

func newBuilder(name, target string, kind Rel) *Builder {
	b := &Builder{desc: &Descriptor{Name: name, Type: target, Kind: kind}}
	switch {
	case name == "":
		b.desc.Err = errors.New("relation: name cannot be empty")
	case target == "":
		b.desc.Err = errors.New("relation: target model cannot be empty")
	}
	return b
}

// Ref names the owning side's relationship this reverse relation mirrors.
func (b *Builder) Ref(name string) *Builder {
	if b.desc.Kind != Rev && b.desc.Err == nil {
		b.desc.Err = errors.New("relation: Ref is valid only on reverse relations")
	}
	b.desc.RefName = name
	return b
}

// Optional makes a foreign-key reference nullable.
func (b *Builder) Optional() *Builder {
	if b.desc.Kind != FK && b.desc.Err == nil {
		b.desc.Err = errors.New("relation: Optional is valid only on foreign keys")
	}
	b.desc.Optional = true
	return b
}

// Comment sets the relationship comment.
func (b *Builder) Comment(c string) *Builder {
	b.desc.Comment = c
	return b
}

// Descriptor returns the relationship descriptor.
func (b *Builder) Descriptor() *Descriptor {
	return b.desc
}
