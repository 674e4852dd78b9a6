package generator

import (
	"path/filepath"

	"github.com/m4gshm/gollections/collection/immutable"
	"github.com/pkg/errors"
	"golang.org/x/tools/imports"

	"github.com/m4gshm/crudr/logger"
	"github.com/m4gshm/crudr/model/entity"
)

// Part selects a generated artifact.
type Part string

const (
	PartController Part = "controller"
	PartRouting    Part = "routing"
	PartIndex      Part = "index"
)

var AllParts = []Part{PartController, PartRouting, PartIndex}

// Generator renders and writes the controller, the routing declaration and the bundle routing index entry of entities.
type Generator struct {
	Templates      *TemplateSet
	Root           string
	BaseController TypeRef
	// Overwrite allows replacing existing artifacts; the routing index is always merged.
	Overwrite bool
	Parts     []Part
}

type Option func(*Generator)

func WithTemplates(templates *TemplateSet) Option {
	return func(g *Generator) { g.Templates = templates }
}

func WithRoot(root string) Option {
	return func(g *Generator) { g.Root = root }
}

func WithBaseController(base TypeRef) Option {
	return func(g *Generator) { g.BaseController = base }
}

func WithOverwrite(overwrite bool) Option {
	return func(g *Generator) { g.Overwrite = overwrite }
}

func WithParts(parts ...Part) Option {
	return func(g *Generator) { g.Parts = parts }
}

func New(opts ...Option) (*Generator, error) {
	g := &Generator{BaseController: DefaultBaseController, Parts: AllParts}
	for _, o := range opts {
		o(g)
	}
	if g.Templates == nil {
		templates, err := DefaultTemplates()
		if err != nil {
			return nil, err
		}
		g.Templates = templates
	}
	return g, nil
}

// Result describes the outcome of one entity generation.
type Result struct {
	Controller   Artifact
	Routing      Artifact
	IndexPath    string
	IndexChanged bool
	// IndexErr is the swallowed routing index failure.
	IndexErr error
}

// Generate renders all artifacts first and writes them only when every template succeeds.
// A routing index failure is logged and does not fail the generation.
func (g *Generator) Generate(cfg *entity.Config) (*Result, error) {
	if cfg == nil {
		return nil, errors.New("nil entity config")
	}
	if len(cfg.PkgPath) == 0 {
		return nil, errors.Errorf("entity %s has no package path", cfg.EntityName)
	}
	var (
		content = g.Content(cfg)
		context = contextPath(cfg.ContextName)
		root    = g.root(cfg)
		parts   = immutable.NewSet(g.Parts...)
		result  = &Result{
			Controller: Artifact{Path: filepath.Join(root, "Controller", filepath.FromSlash(context), cfg.EntityName+"Controller.go")},
			Routing:    Artifact{Path: filepath.Join(root, "Resources", "config", "routing", filepath.FromSlash(context), cfg.EntityName+".yml")},
		}
	)
	if parts.Contains(PartController) {
		src, err := g.Templates.Render(TemplateController, content)
		if err != nil {
			return nil, err
		}
		if src, err = imports.Process(result.Controller.Path, src, nil); err != nil {
			return nil, &TemplateRenderError{Template: TemplateController, Err: err}
		}
		result.Controller.Content = src
	}
	if parts.Contains(PartRouting) {
		routing, err := g.Templates.Render(TemplateRouting, content)
		if err != nil {
			return nil, err
		}
		result.Routing.Content = routing
	}
	var (
		block    []byte
		blockErr error
	)
	if parts.Contains(PartIndex) {
		block, blockErr = g.Templates.Render(TemplateBundleRouting, content)
	}

	for _, a := range []*Artifact{&result.Controller, &result.Routing} {
		if a.Content == nil {
			continue
		}
		if err := a.write(g.Overwrite); err != nil {
			return nil, errors.Wrapf(err, "write artifact of %s", cfg.EntityName)
		}
		if !a.Written {
			logger.Infof("skip existing %s", a.Path)
		}
	}

	if parts.Contains(PartIndex) {
		route, _ := content["route_name"].(string)
		path, changed, err := g.updateIndex(root, route, block, blockErr)
		result.IndexPath, result.IndexChanged = path, changed
		if err != nil {
			logger.Warnf("%v", err)
			result.IndexErr = err
		}
	}
	return result, nil
}

// root is the bundle root, "src/<module>" by default.
func (g *Generator) root(cfg *entity.Config) string {
	if len(g.Root) > 0 {
		return g.Root
	}
	return filepath.Join("src", cfg.ModuleName)
}
