package params

import (
	"flag"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/m4gshm/crudr/logger"
)

const (
	EnvModule    = "CRUDR_MODULE"
	EnvContext   = "CRUDR_CONTEXT"
	EnvRoot      = "CRUDR_ROOT"
	EnvTemplates = "CRUDR_TEMPLATES"
	EnvOverwrite = "CRUDR_OVERWRITE"
)

// Project is the generation settings shared by commands.
type Project struct {
	// Module is the bundle name, like APIBundle.
	Module  string `yaml:"module"`
	Context string `yaml:"context,omitempty"`
	// Root is the bundle root directory, src/<module> when empty.
	Root      string `yaml:"root,omitempty"`
	Templates string `yaml:"templates,omitempty"`
	// ControllerBase is the "import/path.Name" of the generated controllers base type.
	ControllerBase string `yaml:"controllerBase,omitempty"`
	Overwrite      bool   `yaml:"overwrite"`
}

// LoadProject reads the file when it exists and then applies the environment.
func LoadProject(path string) (*Project, error) {
	p := &Project{}
	if len(path) > 0 {
		content, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(content, p); err != nil {
				return nil, errors.Wrapf(err, "parse project config %s", path)
			}
			logger.Debugf("project config loaded from %s", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrapf(err, "read project config %s", path)
		}
	}
	p.applyEnv()
	return p, nil
}

func (p *Project) applyEnv() {
	p.Module = getenv(EnvModule, p.Module)
	p.Context = getenv(EnvContext, p.Context)
	p.Root = getenv(EnvRoot, p.Root)
	p.Templates = getenv(EnvTemplates, p.Templates)
	p.Overwrite = getenvBool(EnvOverwrite, p.Overwrite)
}

func (p *Project) Marshal() ([]byte, error) {
	return yaml.Marshal(p)
}

// ProjectFlags overrides the project settings by the explicitly set flags only.
type ProjectFlags struct {
	flagSet        *flag.FlagSet
	Module         *string
	Context        *string
	Root           *string
	Templates      *string
	ControllerBase *string
	Overwrite      *bool
}

func NewProjectFlags(flagSet *flag.FlagSet) *ProjectFlags {
	return &ProjectFlags{
		flagSet:        flagSet,
		Module:         flagSet.String("module", "", "bundle name, overrides "+EnvModule),
		Context:        flagSet.String("context", "", "bounded context, may be nested like Sales/Billing"),
		Root:           flagSet.String("root", "", "bundle root directory; default src/<module>"),
		Templates:      flagSet.String("templates", "", "directory of the overriding <template>.tmpl files"),
		ControllerBase: flagSet.String("base", "", "controller base type, <import path>.<Name>"),
		Overwrite:      flagSet.Bool("overwrite", false, "replace existing generated files"),
	}
}

// Apply returns a copy of the project with the set flags values.
func (f *ProjectFlags) Apply(p *Project) *Project {
	result := &Project{}
	if p != nil {
		*result = *p
	}
	f.flagSet.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "module":
			result.Module = *f.Module
		case "context":
			result.Context = *f.Context
		case "root":
			result.Root = *f.Root
		case "templates":
			result.Templates = *f.Templates
		case "base":
			result.ControllerBase = *f.ControllerBase
		case "overwrite":
			result.Overwrite = *f.Overwrite
		}
	})
	return result
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes":
			return true
		case "0", "false", "no":
			return false
		}
	}
	return fallback
}
