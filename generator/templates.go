package generator

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"

	"github.com/m4gshm/gollections/slice"

	"github.com/m4gshm/crudr/logger"
	"github.com/m4gshm/crudr/model/util"
)

const (
	TemplateController    = "crud_controller"
	TemplateRouting       = "crud_routing"
	TemplateBundleRouting = "bundle_routing"

	templateExt = ".tmpl"
)

var TemplateNames = []string{TemplateController, TemplateRouting, TemplateBundleRouting}

//go:embed templates/*
var defaultTemplatesFS embed.FS

// TemplateSet is the named templates used to render artifacts.
type TemplateSet struct {
	templates map[string]*template.Template
}

// DefaultTemplates parses the embedded templates.
func DefaultTemplates() (*TemplateSet, error) {
	templates, err := fs.Sub(defaultTemplatesFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("templates directory: %w", err)
	}
	set := &TemplateSet{templates: map[string]*template.Template{}}
	for _, name := range TemplateNames {
		content, err := fs.ReadFile(templates, name+templateExt)
		if err != nil {
			return nil, &TemplateRenderError{Template: name, Err: err}
		}
		if err := set.Parse(name, string(content)); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// LoadTemplates returns the default set overridden by "<name>.tmpl" files of the directory.
func LoadTemplates(dir string) (*TemplateSet, error) {
	set, err := DefaultTemplates()
	if err != nil || len(dir) == 0 {
		return set, err
	}
	for _, name := range TemplateNames {
		path := filepath.Join(dir, name+templateExt)
		content, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		} else if err != nil {
			return nil, &TemplateRenderError{Template: name, Err: err}
		}
		logger.Debugf("template %s overridden by %s", name, path)
		if err := set.Parse(name, string(content)); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// Parse defines or replaces the named template.
func (s *TemplateSet) Parse(name, text string) error {
	t, err := template.New(name).Option("missingkey=error").Funcs(addCommonFuncs(template.FuncMap{})).Parse(text)
	if err != nil {
		return &TemplateRenderError{Template: name, Err: err}
	}
	if s.templates == nil {
		s.templates = map[string]*template.Template{}
	}
	s.templates[name] = t
	return nil
}

func (s *TemplateSet) Render(name string, content map[string]any) ([]byte, error) {
	t, ok := s.templates[name]
	if !ok {
		return nil, &TemplateRenderError{Template: name, Err: errors.New("undefined template")}
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, content); err != nil {
		return nil, &TemplateRenderError{Template: name, Err: err}
	}
	return buf.Bytes(), nil
}

func addCommonFuncs(funcs template.FuncMap) template.FuncMap {
	quote := func(s string) string { return strconv.Quote(s) }
	funcs["snake"] = util.Snake
	funcs["kebab"] = util.Kebab
	funcs["pascal"] = util.Pascal
	funcs["camel"] = util.Camel
	funcs["lower"] = strings.ToLower
	funcs["upper"] = strings.ToUpper
	funcs["quote"] = quote
	funcs["quoteAll"] = func(values []string) []string { return slice.Convert(values, quote) }
	funcs["join"] = func(values []string, sep string) string { return strings.Join(values, sep) }
	return funcs
}
