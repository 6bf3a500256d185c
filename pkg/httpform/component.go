// Package httpform exposes a form as an embeddable chi router: one route
// renders the form, another accepts submissions and stores them.
package httpform

import (
	"fmt"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/goliatone/go-formserve/pkg/apidoc"
	"github.com/goliatone/go-formserve/pkg/render"
	"github.com/goliatone/go-formserve/pkg/schema"
	"github.com/goliatone/go-formserve/pkg/submission"
)

// Component bundles the form, its submission handler and the HTTP handlers
// serving them. It is safe for concurrent use.
type Component struct {
	opts     Options
	form     schema.FormSchema
	handler  *submission.Handler
	renderer *render.Renderer
	openapi  []byte
}

// New validates form and wires it to store. Routes are checked here so that a
// misconfigured component fails at startup rather than on first request.
func New(form schema.FormSchema, store submission.Appender, fns ...OptionFn) (*Component, error) {
	opts := NewOptions(fns...)
	if err := validateRoutes(opts); err != nil {
		return nil, err
	}

	handler, err := submission.New(form, store,
		submission.WithClock(opts.Clock),
		submission.WithLogger(opts.Logger),
	)
	if err != nil {
		return nil, err
	}

	renderer := opts.Renderer
	if renderer == nil {
		renderer, err = render.New(render.WithLogger(opts.Logger))
		if err != nil {
			return nil, fmt.Errorf("httpform: %w", err)
		}
	}

	c := &Component{
		opts:     opts,
		form:     handler.Form(),
		handler:  handler,
		renderer: renderer,
	}

	if opts.OpenAPIRoute != "" {
		doc, err := apidoc.Build(c.form, apidoc.Routes{Form: opts.FormRoute, Submit: opts.SubmitRoute})
		if err != nil {
			return nil, fmt.Errorf("httpform: build openapi document: %w", err)
		}
		raw, err := doc.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("httpform: encode openapi document: %w", err)
		}
		c.openapi = raw
	}
	return c, nil
}

// Options returns a copy of the component configuration.
func (c *Component) Options() Options {
	return c.opts
}

// Form returns a copy of the served schema.
func (c *Component) Form() schema.FormSchema {
	return c.form.Clone()
}

// Router returns a standalone router with panic recovery, request ids and
// access logging applied. Mount it as is, or call RegisterRoutes to attach
// the handlers to an existing router with its own middleware.
func (c *Component) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(RequestContext)
	r.Use(AccessLog(c.opts.Logger))
	c.RegisterRoutes(r)
	return r
}

// RegisterRoutes attaches the form handlers to r.
func (c *Component) RegisterRoutes(r chi.Router) {
	r.Get(c.opts.FormRoute, c.handleForm)
	r.Post(c.opts.SubmitRoute, c.handleSubmit)
	if c.opts.OpenAPIRoute != "" {
		r.Get(c.opts.OpenAPIRoute, c.handleOpenAPI)
	}
}

func validateRoutes(opts Options) error {
	routes := map[string]string{
		"form":   opts.FormRoute,
		"submit": opts.SubmitRoute,
	}
	if opts.OpenAPIRoute != "" {
		routes["openapi"] = opts.OpenAPIRoute
	}
	for name, route := range routes {
		if !strings.HasPrefix(route, "/") {
			return fmt.Errorf("httpform: %s route %q must start with /", name, route)
		}
	}
	if opts.OpenAPIRoute != "" && (opts.OpenAPIRoute == opts.FormRoute || opts.OpenAPIRoute == opts.SubmitRoute) {
		return fmt.Errorf("httpform: openapi route %q collides with a form route", opts.OpenAPIRoute)
	}
	return nil
}
