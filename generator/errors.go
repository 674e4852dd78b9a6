package generator

import "errors"

var (
	ErrTemplateRender = errors.New("template render")
	ErrIndexUpdate    = errors.New("routing index update")
)

// TemplateRenderError reports a malformed template, a missing content key or unformattable output.
type TemplateRenderError struct {
	Template string
	Err      error
}

func (e *TemplateRenderError) Error() string {
	return "render template " + e.Template + ": " + e.Err.Error()
}

func (e *TemplateRenderError) Unwrap() error { return e.Err }

func (e *TemplateRenderError) Is(target error) bool { return target == ErrTemplateRender }

// IndexUpdateError reports a failed bundle routing index update.
type IndexUpdateError struct {
	Path string
	Err  error
}

func (e *IndexUpdateError) Error() string {
	return "update routing index " + e.Path + ": " + e.Err.Error()
}

func (e *IndexUpdateError) Unwrap() error { return e.Err }

func (e *IndexUpdateError) Is(target error) bool { return target == ErrIndexUpdate }
