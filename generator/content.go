package generator

import (
	"path"
	"strings"

	"github.com/m4gshm/gollections/slice"

	"github.com/m4gshm/crudr/filter"
	"github.com/m4gshm/crudr/model/entity"
	"github.com/m4gshm/crudr/model/util"
	"github.com/m4gshm/crudr/unique"
)

const (
	ControllerPackagePath = "github.com/m4gshm/crudr/controller"
	FilterPackagePath     = "github.com/m4gshm/crudr/filter"
)

// TypeRef is a Go type addressed by import path and name.
type TypeRef struct {
	Path string `yaml:"path"`
	Name string `yaml:"name"`
}

func (r TypeRef) String() string {
	return r.Path + "." + r.Name
}

// ParseTypeRef parses "import/path.Name".
func ParseTypeRef(s string) TypeRef {
	p, name := util.SplitTypeName(s)
	return TypeRef{Path: p, Name: name}
}

var DefaultBaseController = TypeRef{Path: ControllerPackagePath, Name: "Base"}

// Import is an import declaration of generated source.
type Import struct {
	Alias string
	Path  string
}

// importSet collects the imports of generated source under distinct aliases.
type importSet struct {
	names  *unique.Names
	list   []Import
	byPath map[string]string
}

func newImportSet(reserved ...string) *importSet {
	return &importSet{names: unique.NewNamesWith(unique.PreInit(reserved...)), byPath: map[string]string{}}
}

// add registers the import path and returns its distinct alias.
func (i *importSet) add(importPath string) string {
	if alias, ok := i.byPath[importPath]; ok {
		return alias
	}
	alias := i.names.Get(packageAlias(importPath))
	i.byPath[importPath] = alias
	i.list = append(i.list, Import{Alias: alias, Path: importPath})
	return alias
}

func packageAlias(importPath string) string {
	name := strings.Map(func(r rune) rune {
		if r == '-' || r == '.' {
			return -1
		}
		return r
	}, util.GetPackageName(importPath))
	if len(name) == 0 {
		return "pkg"
	}
	return strings.ToLower(name)
}

// Content builds the substitution map of all templates.
func (g *Generator) Content(cfg *entity.Config) map[string]any {
	var (
		base          = g.baseController()
		context       = contextPath(cfg.ContextName)
		pkg           = packageName(cfg.ContextName)
		imps          = newImportSet(pkg)
		controllerPkg = imps.add(ControllerPackagePath)
		basePkg       = imps.add(base.Path)
		filterPkg     = imps.add(FilterPackagePath)
		entityPkg     = imps.add(cfg.PkgPath)
		prefix        = RoutePrefix(cfg.ModuleName, cfg.ContextName)
		fields        = cfg.AllFields(entity.MaxDepth)
		sortFields    = slice.Convert(slice.Filter(fields, entity.Field.IsNative), fieldName)
		filterSchema  = filter.Build(cfg, slice.Convert(fields, fieldName), sortFields)
	)
	return map[string]any{
		"namespace":               path.Join(cfg.ModuleName, "Controller", context),
		"package":                 pkg,
		"parent":                  basePkg + "." + base.Name,
		"parent_field":            base.Name,
		"uses":                    imps.list,
		"controller_package":      controllerPkg,
		"filter_package":          filterPkg,
		"entity_type":             entityPkg + "." + cfg.EntityName,
		"entity_name":             cfg.EntityName,
		"entity_pascal_name":      util.Pascal(cfg.EntityName),
		"entity_route_name":       util.Snake(cfg.EntityName),
		"entity_url_name":         util.Kebab(cfg.EntityName),
		"bundle_name":             cfg.ModuleName,
		"context_name":            context,
		"route_name_prefix":       prefix,
		"route_name":              joinRoute(prefix, util.Snake(cfg.EntityName)),
		"routing_url":             path.Join("routing", context, cfg.EntityName+".yml"),
		"routing_controller_path": cfg.ModuleName + ":" + path.Join(context, cfg.EntityName),
		"serialization_groups":    SerializationGroups(cfg),
		"native_fields_names":     cfg.NativeFieldNames(false),
		"filter_fields":           filterSchema.Controls,
		"filter_sort_fields":      filterSchema.SortFields,
	}
}

func fieldName(f entity.Field) string { return f.Name }

func (g *Generator) baseController() TypeRef {
	if len(g.BaseController.Path) == 0 || len(g.BaseController.Name) == 0 {
		return DefaultBaseController
	}
	return g.BaseController
}
