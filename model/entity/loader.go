package entity

import (
	"fmt"
	"go/ast"
	"go/types"
	"strings"

	"github.com/m4gshm/gollections/collection/immutable"
	"github.com/m4gshm/gollections/collection/mutable"
	"github.com/m4gshm/gollections/expr/use"
	"github.com/m4gshm/gollections/slice"
	"golang.org/x/tools/go/packages"

	"github.com/m4gshm/crudr/logger"
	"github.com/m4gshm/crudr/model/util"
)

// Marker annotates entity types in a type doc comment, optionally followed by context=... and module=... args.
const Marker = "//crudr:entity"

type Option func(*Loader)

func WithModule(module string) Option {
	return func(l *Loader) { l.module = module }
}

func WithContext(context string) Option {
	return func(l *Loader) { l.context = context }
}

func WithDepth(depth int) Option {
	return func(l *Loader) { l.depth = depth }
}

// Loader builds entity configs from the types of loaded packages.
// Only struct types declared in the loaded packages are entities.
type Loader struct {
	pkgs     []*packages.Package
	pkgPaths immutable.Set[string]
	module   string
	context  string
	// depth limits the parent walk, negative is unbounded.
	depth int
	// lineage is the descendants chain of the currently built parent.
	lineage []*types.Named
}

func NewLoader(pkgs []*packages.Package, opts ...Option) *Loader {
	l := &Loader{
		pkgs:     pkgs,
		pkgPaths: immutable.NewSet(slice.Convert(pkgs, func(p *packages.Package) string { return p.PkgPath })...),
		depth:    MaxDepth,
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Load resolves the type by short name or by "pkg/path.Name" and builds its config.
func (l *Loader) Load(typeName string) (*Config, error) {
	named, err := l.lookup(typeName)
	if err != nil {
		return nil, err
	}
	return l.build(named, l.module, l.context)
}

// LoadAll builds configs of every struct type annotated with the Marker comment.
func (l *Loader) LoadAll() ([]*Config, error) {
	var configs []*Config
	for _, pkg := range l.pkgs {
		for _, file := range pkg.Syntax {
			for _, decl := range file.Decls {
				gd, ok := decl.(*ast.GenDecl)
				if !ok {
					continue
				}
				for _, spec := range gd.Specs {
					ts, ok := spec.(*ast.TypeSpec)
					if !ok {
						continue
					}
					doc := ts.Doc
					if doc == nil && len(gd.Specs) == 1 {
						doc = gd.Doc
					}
					args, marked := markerArgs(doc)
					if !marked {
						continue
					}
					obj := pkg.Types.Scope().Lookup(ts.Name.Name)
					named, err := namedOf(obj, ts.Name.Name)
					if err != nil {
						return nil, err
					}
					cfg, err := l.build(named, use.If(len(args["module"]) > 0, args["module"]).Else(l.module),
						use.If(len(args["context"]) > 0, args["context"]).Else(l.context))
					if err != nil {
						return nil, err
					}
					configs = append(configs, cfg)
				}
			}
		}
	}
	return configs, nil
}

func markerArgs(doc *ast.CommentGroup) (map[string]string, bool) {
	if doc == nil {
		return nil, false
	}
	for _, c := range doc.List {
		text, ok := strings.CutPrefix(c.Text, Marker)
		if !ok || (len(text) > 0 && text[0] != ' ' && text[0] != '\t') {
			continue
		}
		args := map[string]string{}
		for _, arg := range strings.Fields(text) {
			if k, v, ok := strings.Cut(arg, "="); ok {
				args[k] = v
			}
		}
		return args, true
	}
	return nil, false
}

func (l *Loader) lookup(typeName string) (*types.Named, error) {
	pkgPath, name := util.SplitTypeName(typeName)
	if len(name) == 0 {
		return nil, loadErr(typeName, "empty type name", nil)
	}
	for _, pkg := range l.pkgs {
		if pkg.Types == nil || (len(pkgPath) > 0 && pkg.PkgPath != pkgPath) {
			continue
		}
		if obj := pkg.Types.Scope().Lookup(name); obj != nil {
			return namedOf(obj, typeName)
		}
	}
	return nil, loadErr(typeName, "type not found", nil)
}

func namedOf(obj types.Object, typeName string) (*types.Named, error) {
	tn, ok := obj.(*types.TypeName)
	if !ok {
		return nil, loadErr(typeName, "not a type", nil)
	}
	named, _ := util.GetStructTypeNamed(tn.Type())
	if named == nil {
		return nil, loadErr(typeName, "not a struct type", nil)
	}
	return named, nil
}

func (l *Loader) build(named *types.Named, module, context string) (*Config, error) {
	obj := named.Obj()
	for _, descendant := range l.lineage {
		if descendant == named {
			return nil, loadErr(descendant.Obj().Name(), "recursive inheritance of "+obj.Name(), nil)
		}
	}
	var pkgPath string
	if pkg := obj.Pkg(); pkg != nil {
		pkgPath = pkg.Path()
	}
	b := &configBuilder{
		loader:  l,
		named:   named,
		pkgPath: pkgPath,
		names:   mutable.NewSet[string](),
		inlined: mutable.NewSet[*types.Named](),
		config: &Config{
			EntityName:  obj.Name(),
			ContextName: context,
			ModuleName:  use.If(len(module) > 0, module).ElseGet(func() string { return util.GetPackageName(pkgPath) }),
			PkgPath:     pkgPath,
		},
	}
	if err := b.populate(named, l.depth, module, context); err != nil {
		return nil, err
	}
	logger.Debugw("entity config loaded", "entity", b.config.EntityName, "fields", len(b.config.Fields))
	return b.config, nil
}

type configBuilder struct {
	loader     *Loader
	named      *types.Named
	pkgPath    string
	config     *Config
	names      *mutable.Set[string]
	inlined    *mutable.Set[*types.Named]
	parentSeen bool
}

func (b *configBuilder) populate(named *types.Named, depth int, module, context string) error {
	typeName := named.Obj().Name()
	typStruct, _ := util.GetTypeStruct(named)
	if typStruct == nil {
		return loadErr(typeName, "not a struct type", nil)
	}
	for i := 0; i < typStruct.NumFields(); i++ {
		fieldVar := typStruct.Field(i)
		rawTag := typStruct.Tag(i)
		tag, err := parseFieldTag(rawTag)
		if err != nil {
			return loadErr(typeName, "field "+fieldVar.Name(), err)
		}
		if tag.skip {
			continue
		}
		if fieldVar.Embedded() {
			if embedded, _ := util.GetStructTypeNamed(fieldVar.Type()); embedded != nil && !util.IsNamed(embedded, "time", "Time") {
				if err := b.embed(embedded, tag, depth, module, context); err != nil {
					return err
				}
				continue
			}
		}
		if !fieldVar.Exported() {
			continue
		}
		field, err := b.classify(fieldVar, rawTag, tag)
		if err != nil {
			return loadErr(typeName, "field "+fieldVar.Name(), err)
		}
		if !b.names.AddNew(field.Name) {
			return loadErr(typeName, "duplicated field "+field.Name, nil)
		}
		b.config.Fields = append(b.config.Fields, field)
	}
	return nil
}

// embed makes the first embedded struct the parent entity, other embedded structs are flattened.
func (b *configBuilder) embed(embedded *types.Named, tag fieldTag, depth int, module, context string) error {
	if !tag.inline && !b.parentSeen {
		b.parentSeen = true
		if depth == 0 {
			logger.Debugf("skip ancestor %s of %s: depth limit", embedded.Obj().Name(), b.config.EntityName)
			return nil
		}
		parent, err := b.loader.ancestorLoader(depth, b.named).build(embedded, module, context)
		if err != nil {
			return err
		}
		b.config.Parent = parent
		return nil
	}
	if !b.inlined.AddNew(embedded) {
		return loadErr(b.config.EntityName, "recursive embedding of "+embedded.Obj().Name(), nil)
	}
	return b.populate(embedded, depth, module, context)
}

// ancestorLoader builds the parent of the child, one level deeper.
func (l *Loader) ancestorLoader(depth int, child *types.Named) *Loader {
	c := *l
	if depth > 0 {
		c.depth = depth - 1
	}
	c.lineage = append(append([]*types.Named{}, l.lineage...), child)
	return &c
}

func (l *Loader) isEntity(named *types.Named) bool {
	pkg := named.Obj().Pkg()
	return pkg != nil && l.pkgPaths.Contains(pkg.Path())
}

func (b *configBuilder) classify(fieldVar *types.Var, rawTag string, tag fieldTag) (Field, error) {
	pkgPath := b.pkgPath
	field := Field{
		Name:        use.If(len(tag.name) > 0, tag.name).ElseGet(func() string { return util.LowerInitial(fieldVar.Name()) }),
		Relation:    RelationNone,
		Referential: tag.referential,
		Nullable:    tag.nullable,
		GoName:      fieldVar.Name(),
		GoType:      util.TypeString(fieldVar.Type(), pkgPath),
	}
	typ := types.Unalias(fieldVar.Type())
	if p, ok := typ.(*types.Pointer); ok {
		field.Nullable = true
		typ = types.Unalias(p.Elem())
	}
	if value, ok := b.nullableValue(typ); ok {
		field.Nullable = true
		typ = types.Unalias(value)
	}
	isTime := util.IsNamed(typ, "time", "Time")
	if (tag.date || tag.dateTime) && !isTime {
		return Field{}, fmt.Errorf("date options require time.Time, actual %s", field.GoType)
	}
	if isTime {
		field.Type = use.If(tag.date, TypeDate).Else(TypeDateTime)
		return field, noRelation(tag)
	}
	if elem, ok := collectionElem(typ); ok {
		if related := b.loader.entityRef(elem); related != nil {
			kind := use.If(isManyToManyGorm(rawTag), ManyToMany).Else(OneToMany)
			if len(tag.relation) > 0 {
				if tag.relation != OneToMany && tag.relation != ManyToMany {
					return Field{}, fmt.Errorf("relation %s is not applicable to collection", tag.relation)
				}
				kind = tag.relation
			}
			field.Type, field.Relation, field.Related = TypeRelation, kind, related
			return field, nil
		}
		field.Type = TypeString
		return field, noRelation(tag)
	}
	if related := b.loader.entityRef(typ); related != nil {
		kind := ManyToOne
		if len(tag.relation) > 0 {
			if tag.relation != ManyToOne && tag.relation != OneToOne {
				return Field{}, fmt.Errorf("relation %s is not applicable to single value", tag.relation)
			}
			kind = tag.relation
		}
		field.Type, field.Relation, field.Related = TypeRelation, kind, related
		return field, nil
	}
	field.Type = nativeType(typ)
	return field, noRelation(tag)
}

func noRelation(tag fieldTag) error {
	if len(tag.relation) > 0 {
		return fmt.Errorf("relation %s on non entity field", tag.relation)
	}
	return nil
}

func collectionElem(typ types.Type) (types.Type, bool) {
	switch t := typ.Underlying().(type) {
	case *types.Slice:
		return t.Elem(), true
	case *types.Array:
		return t.Elem(), true
	}
	return nil, false
}

func (l *Loader) entityRef(typ types.Type) *Ref {
	named, _ := util.GetStructTypeNamed(typ)
	if named == nil || !l.isEntity(named) {
		return nil
	}
	obj := named.Obj()
	ref := &Ref{Name: obj.Name()}
	if obj.Pkg() != nil {
		ref.PkgPath = obj.Pkg().Path()
	}
	return ref
}

// nullableValue returns the value type of a non entity wrapper like sql.NullFloat64 or sql.Null[T]:
// a struct of the value field followed by the Valid bool.
func (b *configBuilder) nullableValue(typ types.Type) (types.Type, bool) {
	if named, _ := util.GetStructTypeNamed(typ); named == nil || b.loader.isEntity(named) {
		return nil, false
	}
	st, _ := typ.Underlying().(*types.Struct)
	if st == nil || st.NumFields() != 2 || st.Field(1).Name() != "Valid" {
		return nil, false
	}
	if valid, _ := util.GetTypeBasic(st.Field(1).Type()); valid == nil || valid.Kind() != types.Bool {
		return nil, false
	}
	return st.Field(0).Type(), true
}

func nativeType(typ types.Type) Type {
	basic, _ := util.GetTypeBasic(typ)
	if basic == nil {
		return TypeString
	}
	switch info := basic.Info(); {
	case info&types.IsInteger != 0:
		return TypeInteger
	case info&types.IsFloat != 0:
		return TypeFloat
	default:
		return TypeString
	}
}
