package command

import (
	"encoding/json"
	"flag"

	"github.com/m4gshm/crudr/filter"
	"github.com/m4gshm/crudr/params"
)

func NewFilter() *Command {
	const name = "filter"
	var (
		flagSet = flag.NewFlagSet(name, flag.ExitOnError)
		fields  = params.MultiVal(flagSet, "fields", nil, "filtered field; all native fields by default")
		sort    = params.MultiVal(flagSet, "sort", nil, "sortable field")
	)
	return New(
		name, "print the filter form schema of entities as JSON",
		flagSet,
		func(context *Context) error {
			configs, err := context.Configs(context.Project, false)
			if err != nil {
				return err
			}
			encoder := json.NewEncoder(context.Out)
			encoder.SetIndent("", "  ")
			for _, cfg := range configs {
				filterFields := *fields
				if len(filterFields) == 0 {
					filterFields = cfg.NativeFieldNames(true)
				}
				if err := encoder.Encode(filter.Build(cfg, filterFields, *sort)); err != nil {
					return err
				}
			}
			return nil
		},
	)
}
