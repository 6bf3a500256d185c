// Package submission turns raw submitted form values into stored response
// records. A submission is accepted as a whole or rejected as a whole: the
// store is only touched after every field passed validation.
package submission

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/goliatone/go-formserve/pkg/schema"
	"github.com/goliatone/go-formserve/pkg/store"
	"github.com/goliatone/go-formserve/pkg/validation"
)

// Appender is the slice of the response store the handler depends on.
type Appender interface {
	Append(ctx context.Context, rec store.Record) error
}

// Outcome describes an accepted submission.
type Outcome struct {
	Stored bool
	Record store.Record
}

// Option configures a Handler.
type Option func(*Handler)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) {
		if now != nil {
			h.now = now
		}
	}
}

// WithLogger routes handler diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// Handler validates and persists submissions for one form.
type Handler struct {
	form   schema.FormSchema
	store  Appender
	now    func() time.Time
	logger *slog.Logger
}

// New builds a handler for form backed by appender. The form is copied so later
// changes by the caller do not leak into request handling.
func New(form schema.FormSchema, appender Appender, options ...Option) (*Handler, error) {
	if appender == nil {
		return nil, errors.New("submission: store is required")
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}
	h := &Handler{
		form:   form.Clone(),
		store:  appender,
		now:    time.Now,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(h)
	}
	return h, nil
}

// Form returns a copy of the schema this handler validates against.
func (h *Handler) Form() schema.FormSchema {
	return h.form.Clone()
}

// Handle validates values against the schema and appends one record on
// success. Failures are returned as validation.Errors (nothing stored) or as
// the store's error (nothing stored). Success is reported only after the store
// confirmed the append.
func (h *Handler) Handle(ctx context.Context, values map[string]string) (Outcome, error) {
	for key := range values {
		if _, known := h.form.Field(key); !known {
			h.logger.DebugContext(ctx, "submission.unknown_field", slog.String("field", key))
		}
	}

	answers, errs := validation.Form(h.form, values)
	if len(errs) > 0 {
		h.logger.InfoContext(ctx, "submission.invalid", slog.Int("errors", len(errs)), slog.Any("fields", fieldNames(errs)))
		return Outcome{}, errs
	}

	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	rec := store.NewRecord(answers, h.now())
	if err := h.store.Append(ctx, rec); err != nil {
		return Outcome{}, err
	}

	h.logger.InfoContext(ctx, "submission.stored", slog.Time("timestamp", rec.Timestamp))
	return Outcome{Stored: true, Record: rec}, nil
}

func fieldNames(errs validation.Errors) []string {
	names := make([]string, 0, len(errs))
	for _, err := range errs {
		names = append(names, err.Field)
	}
	return names
}
