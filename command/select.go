package command

import (
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/pkg/errors"

	"github.com/m4gshm/crudr/model/entity"
)

// selector filters loaded entities by a boolean expression over the selectEnv variables.
type selector struct {
	code    string
	program *vm.Program
}

func newSelector(code string) (*selector, error) {
	if len(code) == 0 {
		return nil, nil
	}
	program, err := expr.Compile(code, expr.Env(selectEnv(&entity.Config{})), expr.AsBool())
	if err != nil {
		return nil, errors.Wrapf(err, "compile select expression '%s'", code)
	}
	return &selector{code: code, program: program}, nil
}

func (s *selector) match(cfg *entity.Config) (bool, error) {
	if s == nil {
		return true, nil
	}
	out, err := expr.Run(s.program, selectEnv(cfg))
	if err != nil {
		return false, errors.Wrapf(err, "select %s by '%s'", cfg.EntityName, s.code)
	}
	matched, _ := out.(bool)
	return matched, nil
}

func (s *selector) filter(configs []*entity.Config) ([]*entity.Config, error) {
	if s == nil {
		return configs, nil
	}
	var selected []*entity.Config
	for _, cfg := range configs {
		if ok, err := s.match(cfg); err != nil {
			return nil, err
		} else if ok {
			selected = append(selected, cfg)
		}
	}
	return selected, nil
}

func selectEnv(cfg *entity.Config) map[string]any {
	var parent string
	if cfg.Parent != nil {
		parent = cfg.Parent.EntityName
	}
	return map[string]any{
		"entity":  cfg.EntityName,
		"context": cfg.ContextName,
		"module":  cfg.ModuleName,
		"pkg":     cfg.PkgPath,
		"parent":  parent,
		"fields":  cfg.NativeFieldNames(true),
		"has":     cfg.HasField,
	}
}
