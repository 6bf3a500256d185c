package httpform

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/goliatone/go-formserve/pkg/render"
	"github.com/goliatone/go-formserve/pkg/schema"
	"github.com/goliatone/go-formserve/pkg/validation"
)

// StorageFailureMessage is returned to the submitter when the response log
// could not be written.
const StorageFailureMessage = "Failed to write storage file"

type storedResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

type invalidResponse struct {
	Status string              `json:"status"`
	Errors map[string][]string `json:"errors"`
}

type errorResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// badRequest marks body decoding problems caused by the client.
type badRequest struct {
	code int
	msg  string
}

func (e *badRequest) Error() string { return e.msg }

func (c *Component) handleForm(w http.ResponseWriter, r *http.Request) {
	prefix := c.mountPrefix(r, c.opts.FormRoute)
	body, err := c.renderer.Render(r.Context(), c.form, render.RenderOptions{
		Action: prefix + c.opts.SubmitRoute,
		Hidden: c.hidden(r),
	})
	if err != nil {
		c.opts.Logger.ErrorContext(r.Context(), "form.render.failed", slog.Any("error", err))
		http.Error(w, "Template render error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, http.StatusOK, body)
}

func (c *Component) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	asJSON := wantsJSON(r)

	values, err := c.decodeBody(w, r)
	if err != nil {
		code := http.StatusBadRequest
		var br *badRequest
		if errors.As(err, &br) {
			code = br.code
		}
		c.opts.Logger.InfoContext(ctx, "submission.rejected", slog.Int("status", code), slog.String("reason", err.Error()))
		c.writeError(w, asJSON, code, err.Error())
		return
	}

	outcome, err := c.handler.Handle(ctx, values)
	var errs validation.Errors
	switch {
	case err == nil:
		c.writeStored(w, r, asJSON, outcome.Record.Timestamp)
	case errors.As(err, &errs):
		c.writeInvalid(w, r, asJSON, values, errs)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.opts.Logger.WarnContext(ctx, "submission.aborted", slog.Any("error", err))
		c.writeError(w, asJSON, http.StatusServiceUnavailable, http.StatusText(http.StatusServiceUnavailable))
	default:
		c.opts.Logger.ErrorContext(ctx, "submission.store.failed", slog.Any("error", err))
		c.writeError(w, asJSON, http.StatusInternalServerError, StorageFailureMessage)
	}
}

func (c *Component) handleOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(c.openapi)
}

func (c *Component) writeStored(w http.ResponseWriter, r *http.Request, asJSON bool, ts time.Time) {
	if asJSON {
		writeJSON(w, http.StatusCreated, storedResponse{
			Status:    "stored",
			Timestamp: ts.UTC().Format(time.RFC3339Nano),
		})
		return
	}
	prefix := c.mountPrefix(r, c.opts.SubmitRoute)
	body, err := c.renderer.RenderSaved(r.Context(), c.form, render.SavedOptions{BackURL: prefix + c.opts.FormRoute})
	if err != nil {
		// The record is stored; fall back to a bare confirmation.
		c.opts.Logger.ErrorContext(r.Context(), "saved.render.failed", slog.Any("error", err))
		writeHTML(w, http.StatusOK, []byte("<p>Saved.</p>"))
		return
	}
	writeHTML(w, http.StatusOK, body)
}

func (c *Component) writeInvalid(w http.ResponseWriter, r *http.Request, asJSON bool, values map[string]string, errs validation.Errors) {
	if asJSON {
		writeJSON(w, http.StatusUnprocessableEntity, invalidResponse{Status: "invalid", Errors: errs.ByField()})
		return
	}
	prefix := c.mountPrefix(r, c.opts.SubmitRoute)
	body, err := c.renderer.Render(r.Context(), c.form, render.RenderOptions{
		Action: prefix + c.opts.SubmitRoute,
		Values: values,
		Errors: errs.ByField(),
		Hidden: c.hidden(r),
	})
	if err != nil {
		c.opts.Logger.ErrorContext(r.Context(), "form.render.failed", slog.Any("error", err))
		http.Error(w, errs.Error(), http.StatusUnprocessableEntity)
		return
	}
	writeHTML(w, http.StatusUnprocessableEntity, body)
}

func (c *Component) writeError(w http.ResponseWriter, asJSON bool, code int, msg string) {
	if asJSON {
		writeJSON(w, code, errorResponse{Status: "error", Error: msg})
		return
	}
	http.Error(w, msg, code)
}

func (c *Component) hidden(r *http.Request) []render.HiddenField {
	if c.opts.Hidden == nil {
		return nil
	}
	return c.opts.Hidden(r)
}

// mountPrefix recovers the path the router is mounted under from the matched
// chi pattern, so links and form actions work when the component is mounted
// below the root of a larger router.
func (c *Component) mountPrefix(r *http.Request, route string) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return ""
	}
	pattern := rctx.RoutePattern()
	trimmedRoute := strings.TrimSuffix(route, "/")
	trimmedPattern := strings.TrimSuffix(pattern, "/")
	if !strings.HasSuffix(trimmedPattern, trimmedRoute) {
		return ""
	}
	return strings.TrimSuffix(trimmedPattern, trimmedRoute)
}

func (c *Component) decodeBody(w http.ResponseWriter, r *http.Request) (map[string]string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, c.opts.MaxBodyBytes)

	switch requestBodyKind(r) {
	case bodyForm:
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, bodyReadError(err)
		}
		parsed, err := url.ParseQuery(string(data))
		if err != nil {
			return nil, &badRequest{code: http.StatusBadRequest, msg: "malformed form body"}
		}
		return firstValues(parsed), nil
	case bodyMultipart:
		if err := r.ParseMultipartForm(c.opts.MaxBodyBytes); err != nil {
			return nil, bodyReadError(err)
		}
		if r.MultipartForm != nil {
			defer func() { _ = r.MultipartForm.RemoveAll() }()
			return firstValues(r.MultipartForm.Value), nil
		}
		return map[string]string{}, nil
	case bodyJSON:
		return c.decodeJSON(r.Body)
	default:
		return nil, &badRequest{
			code: http.StatusUnsupportedMediaType,
			msg:  "content-type must be application/x-www-form-urlencoded, multipart/form-data or application/json",
		}
	}
}

// decodeJSON accepts an object whose values are strings, numbers, booleans
// or null. Numbers keep their literal text; true on a checkbox submits the
// checkbox value.
func (c *Component) decodeJSON(body io.Reader) (map[string]string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, bodyReadError(err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil || raw == nil {
		return nil, &badRequest{code: http.StatusBadRequest, msg: "request body must be a JSON object"}
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, &badRequest{code: http.StatusBadRequest, msg: "request body must hold a single JSON object"}
	}

	values := make(map[string]string, len(raw))
	for key, value := range raw {
		switch v := value.(type) {
		case nil:
		case string:
			values[key] = v
		case json.Number:
			values[key] = v.String()
		case bool:
			if v {
				values[key] = c.trueValue(key)
			}
		default:
			return nil, &badRequest{code: http.StatusBadRequest, msg: fmt.Sprintf("field %q must be a string", key)}
		}
	}
	return values, nil
}

func (c *Component) trueValue(key string) string {
	if field, ok := c.form.Field(key); ok && field.AnswerType == schema.AnswerCheckbox {
		return render.CheckboxValue(field)
	}
	return "true"
}

func bodyReadError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return &badRequest{code: http.StatusRequestEntityTooLarge, msg: "request body too large"}
	}
	return &badRequest{code: http.StatusBadRequest, msg: "malformed request body"}
}

func firstValues(in map[string][]string) map[string]string {
	out := make(map[string]string, len(in))
	for key, values := range in {
		if len(values) > 0 {
			out[key] = values[0]
		}
	}
	return out
}

func writeHTML(w http.ResponseWriter, code int, body []byte) {
	w.Header().Set("Content-Type", render.ContentType)
	w.WriteHeader(code)
	_, _ = w.Write(body)
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(payload)
}
