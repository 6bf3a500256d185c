// Package prompt fills a form interactively on a terminal. Answers pass the
// same validation as HTTP submissions before they are returned.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/goliatone/go-formserve/pkg/render"
	"github.com/goliatone/go-formserve/pkg/schema"
	"github.com/goliatone/go-formserve/pkg/validation"
)

// noneOption is offered first for optional selects without a default.
const noneOption = "(none)"

// Option configures a Filler.
type Option func(*Filler)

// WithLogger routes filler diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Filler) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithMaxAttempts caps how often a single field is asked again after an
// invalid answer. Zero keeps asking until the answer is valid.
func WithMaxAttempts(n int) Option {
	return func(f *Filler) {
		if n >= 0 {
			f.maxAttempts = n
		}
	}
}

// Filler asks for every field of a form in schema order.
type Filler struct {
	driver      PromptDriver
	logger      *slog.Logger
	maxAttempts int
}

// NewFiller returns a Filler using driver. A nil driver selects the survey
// backed terminal driver.
func NewFiller(driver PromptDriver, options ...Option) *Filler {
	if driver == nil {
		driver = NewSurveyDriver()
	}
	f := &Filler{
		driver: driver,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// Fill prompts for each field and returns the validated answers keyed by field
// name.
func (f *Filler) Fill(ctx context.Context, form schema.FormSchema) (map[string]string, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	if err := f.driver.Info(ctx, form.Title); err != nil {
		return nil, err
	}

	answers := make(map[string]string, len(form.Fields))
	for _, field := range form.Fields {
		value, err := f.fillField(ctx, form, field)
		if err != nil {
			return nil, err
		}
		answers[field.Name] = value
	}
	return answers, nil
}

func (f *Filler) fillField(ctx context.Context, form schema.FormSchema, field schema.FieldSchema) (string, error) {
	check := func(raw string) error {
		if _, ferr := validation.Value(form, field, raw); ferr != nil {
			return ferr
		}
		return nil
	}

	for attempt := 1; ; attempt++ {
		raw, err := f.ask(ctx, field, check)
		if err != nil {
			return "", err
		}
		value, ferr := validation.Value(form, field, raw)
		if ferr == nil {
			return value, nil
		}

		f.logger.DebugContext(ctx, "prompt.invalid_answer",
			slog.String("field", field.Name),
			slog.String("rule", ferr.Rule),
			slog.Int("attempt", attempt),
		)
		if f.maxAttempts > 0 && attempt >= f.maxAttempts {
			return "", fmt.Errorf("%w: %s", ErrTooManyAttempts, ferr.Message)
		}
		if err := f.driver.Info(ctx, ferr.Message); err != nil {
			return "", err
		}
	}
}

func (f *Filler) ask(ctx context.Context, field schema.FieldSchema, check func(string) error) (string, error) {
	message := field.Label()
	help := field.Description
	if help == "" {
		help = field.Placeholder
	}

	switch field.AnswerType {
	case schema.AnswerPassword:
		return f.driver.Password(ctx, InputConfig{Message: message, Help: help, Validator: check})
	case schema.AnswerTextarea:
		return f.driver.TextArea(ctx, TextAreaConfig{
			Message:   message,
			Default:   field.DefaultValue(),
			Help:      help,
			Validator: check,
		})
	case schema.AnswerCheckbox:
		yes, err := f.driver.Confirm(ctx, ConfirmConfig{
			Message: message,
			Default: field.DefaultValue() != "",
			Help:    help,
		})
		if err != nil || !yes {
			return "", err
		}
		return render.CheckboxValue(field), nil
	case schema.AnswerSelect:
		if len(field.Options) > 0 {
			return f.selectOption(ctx, field, message, help)
		}
	}
	return f.driver.Input(ctx, InputConfig{
		Message:   message,
		Default:   field.DefaultValue(),
		Help:      help,
		Validator: check,
	})
}

func (f *Filler) selectOption(ctx context.Context, field schema.FieldSchema, message, help string) (string, error) {
	options := append([]string(nil), field.Options...)
	offset := 0
	if !field.Required() && field.DefaultValue() == "" {
		options = append([]string{noneOption}, options...)
		offset = 1
	}

	defaultIndex := indexOf(options[offset:], field.DefaultValue())
	if defaultIndex >= 0 {
		defaultIndex += offset
	} else {
		defaultIndex = 0
	}

	idx, err := f.driver.Select(ctx, SelectConfig{
		Message:      message,
		Options:      options,
		DefaultIndex: defaultIndex,
		Help:         help,
	})
	if err != nil {
		return "", err
	}
	switch {
	case idx < 0 || idx >= len(options):
		return "", errors.New("prompt: select returned an unknown option")
	case idx < offset:
		return "", nil
	}
	return options[idx], nil
}
