package command

import (
	"flag"
	"fmt"

	"github.com/m4gshm/flag/flagenum"
	"github.com/m4gshm/gollections/slice"
	"github.com/pkg/errors"

	"github.com/m4gshm/crudr/generator"
	"github.com/m4gshm/crudr/model/entity"
	"github.com/m4gshm/crudr/params"
	"github.com/m4gshm/crudr/use"
)

func NewCrud() *Command {
	const name = "crud"
	var (
		flagSet      = flag.NewFlagSet(name, flag.ExitOnError)
		projectFlags = params.NewProjectFlags(flagSet)
		all          = allFlag(flagSet)
	)
	allParts := slice.Of(generator.PartController, generator.PartRouting, generator.PartIndex)
	parts, err := flagenum.Multiple(flagSet, "parts", allParts, allParts, fromString[generator.Part], toString[generator.Part], "generated artifacts")
	if err != nil {
		panic(err)
	}
	c := New(
		name, "generate the CRUD controller, the routing declaration and the bundle routing index entry of entities",
		flagSet,
		func(context *Context) error {
			_, err := generate(context, projectFlags.Apply(context.Project), *all, *parts)
			return err
		},
	)
	c.manual = `Examples:
	crudr -type Invoice ` + name + ` -module APIBundle -context Billing
	crudr ` + name + ` -all -parts controller -overwrite - regenerate controllers of every type marked by ` + entity.Marker
	return c
}

func allFlag(flagSet *flag.FlagSet) *bool {
	return flagSet.Bool("all", false, "use every type marked by "+entity.Marker+" instead of -type")
}

func newGenerator(project *params.Project, parts []generator.Part) (*generator.Generator, error) {
	templates, err := generator.LoadTemplates(project.Templates)
	if err != nil {
		return nil, err
	}
	opts := []generator.Option{
		generator.WithTemplates(templates),
		generator.WithRoot(project.Root),
		generator.WithOverwrite(project.Overwrite),
		generator.WithParts(parts...),
	}
	if len(project.ControllerBase) > 0 {
		base := generator.ParseTypeRef(project.ControllerBase)
		if len(base.Path) == 0 {
			return nil, use.Err("controller base must be <import path>.<Name>: " + project.ControllerBase)
		}
		opts = append(opts, generator.WithBaseController(base))
	}
	return generator.New(opts...)
}

func generate(context *Context, project *params.Project, all bool, parts []generator.Part) ([]*generator.Result, error) {
	configs, err := context.Configs(project, all)
	if err != nil {
		return nil, err
	}
	g, err := newGenerator(project, parts)
	if err != nil {
		return nil, err
	}
	results := make([]*generator.Result, 0, len(configs))
	for _, cfg := range configs {
		result, err := g.Generate(cfg)
		if err != nil {
			return nil, errors.Wrapf(err, "generate %s", cfg.EntityName)
		}
		report(context, result)
		results = append(results, result)
	}
	return results, nil
}

func report(context *Context, result *generator.Result) {
	for _, a := range []generator.Artifact{result.Controller, result.Routing} {
		if a.Written {
			_, _ = fmt.Fprintln(context.Out, a.Path)
		}
	}
	if result.IndexChanged {
		_, _ = fmt.Fprintln(context.Out, result.IndexPath)
	}
}
