// Package render turns a form schema into an HTML document.
//
// Page chrome (document, heading, form element, submit button) comes from
// pongo2 templates rendered with autoescaping. Field markup is assembled in Go
// so that every configured field yields exactly one named control, in schema
// order, between its html_before and html_after fragments.
package render

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	rendertemplate "github.com/goliatone/go-formserve/pkg/render/template"
	"github.com/goliatone/go-formserve/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formserve/pkg/schema"
)

// ContentType is the media type of every rendered page.
const ContentType = "text/html; charset=utf-8"

// Option configures a Renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	logger           *slog.Logger
}

// WithLogger routes renderer diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithTemplatesFS supplies an alternate template bundle containing form.tpl
// and saved.tpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// Renderer renders forms and confirmation pages. It holds no per-request
// state and is safe for concurrent use.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	logger    *slog.Logger
}

// New constructs a renderer using the embedded templates unless overridden.
func New(options ...Option) (*Renderer, error) {
	cfg := config{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(cfg.templateFS, gotemplate.WithExtension(".tpl"))
		if err != nil {
			return nil, fmt.Errorf("render: configure template renderer: %w", err)
		}
		renderer = engine
	}
	return &Renderer{templates: renderer, logger: cfg.logger}, nil
}

// ContentType reports the media type of rendered output.
func (r *Renderer) ContentType() string {
	return ContentType
}

// Render produces the HTML document for form. Values, errors and hidden
// fields in options are applied on top of the schema.
func (r *Renderer) Render(ctx context.Context, form schema.FormSchema, options RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	known := func(name string) bool {
		_, ok := form.Field(name)
		return ok
	}
	fieldErrors, orphaned := splitErrors(known, options.Errors)

	fragment := verbatim
	if form.SanitizeFragments {
		fragment = sanitizeFragment
	}

	fields := make([]string, 0, len(form.Fields))
	for _, field := range form.Fields {
		state := fieldState{
			value:  field.DefaultValue(),
			errors: fieldErrors[field.Name],
			limit:  form.LimitFor(field),
		}
		if value, ok := options.Values[field.Name]; ok {
			state.value = value
		}
		fields = append(fields, buildFieldMarkup(field, state, fragment))
	}

	hidden, shadowed := normalizeHidden(options.Hidden, known)
	if len(shadowed) > 0 {
		r.logger.WarnContext(ctx, "render.hidden_field_dropped",
			slog.String("form", form.Title),
			slog.Any("names", shadowed),
		)
	}
	if hidden == nil {
		hidden = []HiddenField{}
	}

	data := map[string]any{
		"lang":         form.DocumentLang(),
		"title":        form.Title,
		"action":       options.Action,
		"submit_label": form.SubmitLabel(),
		"fields":       fields,
		"hidden":       hidden,
		"form_errors":  MergeFormErrors(options.FormErrors, orphaned...),
	}

	out, err := r.templates.RenderTemplate(formTemplate, data)
	if err != nil {
		return nil, fmt.Errorf("render: form %q: %w", form.Title, err)
	}
	return []byte(out), nil
}

// RenderSaved produces the confirmation page shown after a stored submission.
func (r *Renderer) RenderSaved(ctx context.Context, form schema.FormSchema, options SavedOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	back := strings.TrimSpace(options.BackURL)
	if back == "" {
		back = "/"
	}
	message := strings.TrimSpace(options.Message)
	if message == "" {
		message = "Saved."
	}

	data := map[string]any{
		"lang":     form.DocumentLang(),
		"title":    form.Title,
		"message":  message,
		"back_url": back,
	}
	out, err := r.templates.RenderTemplate(savedTemplate, data)
	if err != nil {
		return nil, fmt.Errorf("render: saved page: %w", err)
	}
	return []byte(out), nil
}
