package generator

import (
	"strings"

	"github.com/m4gshm/crudr/model/entity"
	"github.com/m4gshm/crudr/model/util"
)

var prefixReplacer = strings.NewReplacer("API", "api_", "Bundle", "")

var contextReplacer = strings.NewReplacer("\\", "_", "/", "_")

// RoutePrefix namespaces route names by module and context: ("APIBundle", "Billing/Invoices") -> "api_billing_invoices".
func RoutePrefix(module, context string) string {
	prefix := prefixReplacer.Replace(module)
	if len(context) > 0 {
		prefix += "_" + contextReplacer.Replace(context)
	}
	// snake casing drops empty words, so separators never repeat
	return util.Snake(prefix)
}

// RouteName is the route name of the entity in the bundle routing index.
func RouteName(cfg *entity.Config) string {
	return joinRoute(RoutePrefix(cfg.ModuleName, cfg.ContextName), util.Snake(cfg.EntityName))
}

func joinRoute(prefix, name string) string {
	if len(prefix) == 0 {
		return name
	}
	return prefix + "_" + name
}

// contextPath converts a context to a slash separated path.
func contextPath(context string) string {
	return strings.Trim(strings.ReplaceAll(context, "\\", "/"), "/")
}

// packageName is the Go package name of the generated controller.
func packageName(context string) string {
	path := contextPath(context)
	if len(path) == 0 {
		return "controller"
	}
	return strings.ReplaceAll(util.Snake(path[strings.LastIndexByte(path, '/')+1:]), "_", "")
}
