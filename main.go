package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/pkg/errors"

	"github.com/m4gshm/crudr/command"
	"github.com/m4gshm/crudr/logger"
	"github.com/m4gshm/crudr/params"
	"github.com/m4gshm/crudr/use"
)

func usage() {
	out := flag.CommandLine.Output()
	_, _ = fmt.Fprintf(out, "Usage of "+params.Name+":\n")
	_, _ = fmt.Fprintf(out, "\t"+params.Name+" [flags] command [command flags] [command [command flags]]...\n")
	_, _ = fmt.Fprintf(out, "Flags:\n")
	flag.PrintDefaults()
	command.PrintUsage(out)
}

func main() {
	log.SetPrefix(params.Name + ": ")

	config := params.NewConfig(flag.CommandLine)
	flag.Usage = usage
	flag.Parse()

	logger.Init(*config.Debug)

	err := run(config, flag.Args())
	logger.Sync()
	var useErr *use.Error
	if errors.As(err, &useErr) {
		log.Print(err)
		flag.Usage()
		os.Exit(2)
	} else if err != nil {
		log.Fatal(err)
	}
}

// run executes the commands sequentially, every command consumes the arguments up to the next command name.
func run(config *params.Config, args []string) error {
	if len(args) == 0 {
		return use.Err("no command")
	}
	project, err := params.LoadProject(*config.ConfigFile)
	if err != nil {
		return err
	}
	logger.Debugw("using", "config", config, "project", project)
	context := command.NewContext(config, project)
	for len(args) > 0 {
		name := args[0]
		cmd := command.Get(name)
		if cmd == nil {
			return use.CmdErr(name, "unknown command")
		}
		if args, err = cmd.Parse(args[1:]); err != nil {
			return err
		}
		if err = cmd.Run(context); err != nil {
			return errors.Wrapf(err, "command %s", name)
		}
	}
	return nil
}
