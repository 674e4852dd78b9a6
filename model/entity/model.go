package entity

import (
	"fmt"

	"github.com/m4gshm/gollections/slice"
)

// MaxDepth is the default number of ancestor levels loaded and walked.
const MaxDepth = 1

type Type string

const (
	TypeInteger  Type = "integer"
	TypeFloat    Type = "float"
	TypeDate     Type = "date"
	TypeDateTime Type = "datetime"
	TypeString   Type = "string"
	TypeRelation Type = "relation"
)

type RelationKind string

const (
	RelationNone RelationKind = "none"
	ManyToOne    RelationKind = "manyToOne"
	OneToOne     RelationKind = "oneToOne"
	OneToMany    RelationKind = "oneToMany"
	ManyToMany   RelationKind = "manyToMany"
)

func ParseRelationKind(s string) (RelationKind, bool) {
	switch k := RelationKind(s); k {
	case ManyToOne, OneToOne, OneToMany, ManyToMany:
		return k, true
	}
	return "", false
}

// Ref identifies an entity type.
type Ref struct {
	Name    string
	PkgPath string
}

func (r Ref) FullName() string {
	if len(r.PkgPath) == 0 {
		return r.Name
	}
	return r.PkgPath + "." + r.Name
}

// Field describes one entity field.
type Field struct {
	Name        string
	Type        Type
	Relation    RelationKind
	Related     *Ref
	Referential bool
	Nullable    bool
	GoName      string
	GoType      string
}

func (f Field) IsNative() bool {
	return f.Type != TypeRelation
}

// Validate checks that Related is set only for relations.
func (f Field) Validate() error {
	isRelation := f.Relation != RelationNone && len(f.Relation) > 0
	if isRelation != (f.Related != nil) {
		return fmt.Errorf("field %s: related type must be set iff relation kind is not none, kind %s", f.Name, f.Relation)
	}
	if isRelation != (f.Type == TypeRelation) {
		return fmt.Errorf("field %s: type %s mismatches relation kind %s", f.Name, f.Type, f.Relation)
	}
	return nil
}

// Config is the normalized description of an entity.
type Config struct {
	EntityName  string
	ContextName string
	ModuleName  string
	PkgPath     string
	Fields      []Field
	Parent      *Config
}

func (c *Config) Ref() Ref {
	return Ref{Name: c.EntityName, PkgPath: c.PkgPath}
}

// Field finds a field by name in the entity, then in its ancestors.
func (c *Config) Field(name string) (Field, bool) {
	for cur := c; cur != nil; cur = cur.Parent {
		if f, ok := slice.First(cur.Fields, func(f Field) bool { return f.Name == name }); ok {
			return f, true
		}
	}
	return Field{}, false
}

func (c *Config) HasField(name string) bool {
	_, ok := c.Field(name)
	return ok
}

// NativeFieldNames returns non relation field names; parent fields go first when withParents.
func (c *Config) NativeFieldNames(withParents bool) []string {
	var names []string
	if withParents {
		ancestors := c.Ancestors(-1)
		for i := len(ancestors) - 1; i >= 0; i-- {
			names = append(names, nativeNames(ancestors[i].Fields)...)
		}
	}
	return append(names, nativeNames(c.Fields)...)
}

func nativeNames(fields []Field) []string {
	return slice.Convert(slice.Filter(fields, Field.IsNative), func(f Field) string { return f.Name })
}

// Ancestors returns up to depth ancestors starting from the direct parent; a negative depth means all.
func (c *Config) Ancestors(depth int) []*Config {
	var ancestors []*Config
	for cur := c.Parent; cur != nil && (depth < 0 || len(ancestors) < depth); cur = cur.Parent {
		ancestors = append(ancestors, cur)
	}
	return ancestors
}

// AllFields returns the fields of the ancestors bounded by depth, farthest first, followed by own fields.
func (c *Config) AllFields(depth int) []Field {
	var fields []Field
	ancestors := c.Ancestors(depth)
	for i := len(ancestors) - 1; i >= 0; i-- {
		fields = append(fields, ancestors[i].Fields...)
	}
	return append(fields, c.Fields...)
}
