package httpform

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/goliatone/go-formserve/pkg/render"
)

const (
	DefaultFormRoute    = "/"
	DefaultSubmitRoute  = "/submit"
	DefaultMaxBodyBytes = 1 << 20
)

// HiddenFunc supplies hidden inputs per request, for example a CSRF token
// issued by the embedding server's middleware.
type HiddenFunc func(r *http.Request) []render.HiddenField

type Options struct {
	FormRoute    string
	SubmitRoute  string
	OpenAPIRoute string
	MaxBodyBytes int64

	Logger   *slog.Logger
	Clock    func() time.Time
	Renderer *render.Renderer
	Hidden   HiddenFunc
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		FormRoute:    DefaultFormRoute,
		SubmitRoute:  DefaultSubmitRoute,
		MaxBodyBytes: DefaultMaxBodyBytes,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.FormRoute == "" {
		opts.FormRoute = DefaultFormRoute
	}
	if opts.SubmitRoute == "" {
		opts.SubmitRoute = DefaultSubmitRoute
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return opts
}

func WithFormRoute(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.FormRoute = path
	}
}

func WithSubmitRoute(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.SubmitRoute = path
	}
}

// WithOpenAPIRoute serves the OpenAPI description of the form at path.
func WithOpenAPIRoute(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.OpenAPIRoute = path
	}
}

func WithMaxBodyBytes(n int64) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MaxBodyBytes = n
	}
}

func WithLogger(logger *slog.Logger) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Logger = logger
	}
}

// WithClock overrides the submission timestamp source.
func WithClock(now func() time.Time) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Clock = now
	}
}

// WithRenderer replaces the default embedded-template renderer.
func WithRenderer(r *render.Renderer) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Renderer = r
	}
}

func WithHiddenFields(fn HiddenFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Hidden = fn
	}
}
