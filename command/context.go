package command

import (
	"go/token"
	"io"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/tools/go/packages"

	"github.com/m4gshm/crudr/logger"
	"github.com/m4gshm/crudr/model/entity"
	"github.com/m4gshm/crudr/model/util"
	"github.com/m4gshm/crudr/params"
	"github.com/m4gshm/crudr/use"
)

type Context struct {
	Config  *params.Config
	Project *params.Project
	FileSet *token.FileSet
	// Dir is the packages loading directory, the working directory when empty.
	Dir  string
	Out  io.Writer
	pkgs []*packages.Package
}

func NewContext(config *params.Config, project *params.Project) *Context {
	return &Context{Config: config, Project: project, FileSet: token.NewFileSet(), Out: os.Stdout}
}

// Packages loads the configured package pattern once.
func (c *Context) Packages() ([]*packages.Package, error) {
	if c.pkgs != nil {
		return c.pkgs, nil
	}
	var (
		pattern   = "."
		buildTags []string
	)
	if c.Config != nil {
		if c.Config.PackagePattern != nil && len(*c.Config.PackagePattern) > 0 {
			pattern = *c.Config.PackagePattern
		}
		if c.Config.BuildTags != nil {
			buildTags = *c.Config.BuildTags
		}
	}
	pkgs, err := util.LoadPackages(c.FileSet, buildTags, c.Dir, pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "load package %s", pattern)
	} else if len(pkgs) == 0 {
		return nil, use.Err("no packages found by " + pattern)
	}
	c.pkgs = pkgs
	return pkgs, nil
}

// Reset drops the loaded packages.
func (c *Context) Reset() {
	c.pkgs = nil
	c.FileSet = token.NewFileSet()
}

// Configs loads the configured types, or every marked type when all is set, and applies the select expression.
func (c *Context) Configs(project *params.Project, all bool) ([]*entity.Config, error) {
	typeNames := c.Config.TypeNames()
	if len(typeNames) == 0 && !all {
		return nil, use.Err("no type arg")
	}
	sel, err := newSelector(c.Config.SelectExpr())
	if err != nil {
		return nil, err
	}
	pkgs, err := c.Packages()
	if err != nil {
		return nil, err
	}
	var opts []entity.Option
	if project != nil {
		opts = append(opts, entity.WithModule(project.Module), entity.WithContext(project.Context))
	}
	loader := entity.NewLoader(pkgs, opts...)
	if all {
		configs, err := loader.LoadAll()
		if err != nil {
			return nil, err
		}
		logger.Debugf("found %d marked entities", len(configs))
		return sel.filter(configs)
	}
	configs := make([]*entity.Config, 0, len(typeNames))
	for _, typeName := range typeNames {
		cfg, err := loader.Load(typeName)
		if err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	return sel.filter(configs)
}
