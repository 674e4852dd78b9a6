package command

import (
	"flag"

	"github.com/m4gshm/crudr/params"
)

func NewConfig() *Command {
	const name = "config"
	var (
		flagSet      = flag.NewFlagSet(name, flag.ExitOnError)
		projectFlags = params.NewProjectFlags(flagSet)
	)
	return New(
		name, "print the effective project configuration as YAML",
		flagSet,
		func(context *Context) error {
			content, err := projectFlags.Apply(context.Project).Marshal()
			if err != nil {
				return err
			}
			_, err = context.Out.Write(content)
			return err
		},
	)
}
