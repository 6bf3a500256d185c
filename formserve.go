// Package formserve serves a configured form over HTTP and appends every
// accepted submission to a JSON response log.
//
// Most callers need only Open:
//
//	svc, err := formserve.Open("config.toml", "")
//	if err != nil {
//		return err
//	}
//	http.ListenAndServe(":8081", svc.Component.Router())
package formserve

import (
	"strings"

	"github.com/goliatone/go-formserve/pkg/config"
	"github.com/goliatone/go-formserve/pkg/httpform"
	"github.com/goliatone/go-formserve/pkg/render"
	"github.com/goliatone/go-formserve/pkg/schema"
	"github.com/goliatone/go-formserve/pkg/store"
)

// DefaultOutputPath is used when neither the caller nor the config names a
// response log.
const DefaultOutputPath = "answers.json"

// FormSchema is the ordered field list plus form-level metadata.
type FormSchema = schema.FormSchema

// FieldSchema describes one configured field.
type FieldSchema = schema.FieldSchema

// RenderOptions carries per-request values and errors for re-rendering.
type RenderOptions = render.RenderOptions

// LoadForm reads and validates a TOML or YAML form config.
func LoadForm(path string) (FormSchema, error) {
	return config.Load(path)
}

// OutputPath resolves the response log location: an explicit override wins
// over the config's json_output, which wins over DefaultOutputPath.
func OutputPath(form FormSchema, override string) string {
	if path := strings.TrimSpace(override); path != "" {
		return path
	}
	if path := strings.TrimSpace(form.OutputPath); path != "" {
		return path
	}
	return DefaultOutputPath
}

// Service is a loaded form together with its open response log and the HTTP
// component serving it.
type Service struct {
	Form      FormSchema
	Store     *store.Store
	Component *httpform.Component
}

// Open loads configPath, opens the response log and builds the HTTP component.
// A corrupt log or an invalid config is returned as an error; nothing is
// served in either case.
func Open(configPath, outputOverride string, options ...httpform.OptionFn) (*Service, error) {
	form, err := LoadForm(configPath)
	if err != nil {
		return nil, err
	}

	opts := httpform.NewOptions(options...)
	s, err := store.Open(OutputPath(form, outputOverride), store.WithLogger(opts.Logger))
	if err != nil {
		return nil, err
	}

	component, err := httpform.New(form, s, options...)
	if err != nil {
		return nil, err
	}
	return &Service{Form: form, Store: s, Component: component}, nil
}

// Drift lists keys present in stored records that the current schema no
// longer declares.
func (s *Service) Drift() []string {
	return s.Store.ForeignKeys(s.Form.Names())
}
