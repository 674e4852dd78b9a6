package params

import (
	"flag"
)

const (
	Name              = "crudr"
	DefaultConfigFile = Name + ".yaml"
	DefaultBuildTag   = Name
)

// Config is the global command line configuration.
type Config struct {
	Types          *[]string
	PackagePattern *string
	BuildTags      *[]string
	ConfigFile     *string
	Select         *string
	Debug          *bool
}

func NewConfig(flagSet *flag.FlagSet) *Config {
	return &Config{
		Types:          MultiVal(flagSet, "type", []string{}, "entity type name, short or full (<package path>.<name>)"),
		PackagePattern: flagSet.String("package", ".", "used package"),
		BuildTags:      MultiVal(flagSet, "buildTag", []string{DefaultBuildTag}, "include build tag"),
		ConfigFile:     flagSet.String("config", DefaultConfigFile, "project configuration file"),
		Select:         flagSet.String("select", "", "entity selection expression, like 'context == \"Billing\" && \"amount\" in fields'"),
		Debug:          flagSet.Bool("debug", false, "enable debug logging"),
	}
}

func (c *Config) TypeNames() []string {
	if c == nil || c.Types == nil {
		return nil
	}
	return *c.Types
}

func (c *Config) SelectExpr() string {
	if c == nil || c.Select == nil {
		return ""
	}
	return *c.Select
}
