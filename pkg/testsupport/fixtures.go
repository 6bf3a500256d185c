package testsupport

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formserve/pkg/schema"
	"github.com/goliatone/go-formserve/pkg/store"
)

// ContactForm returns a small form covering the common answer types. Each
// call returns a fresh value so tests can mutate it freely.
func ContactForm() schema.FormSchema {
	return schema.FormSchema{
		Title:            "Contact us",
		SubmitButtonText: "Send",
		Fields: []schema.FieldSchema{
			{
				Name:       "name",
				Title:      "Your name",
				AnswerType: schema.AnswerText,
			},
			{
				Name:        "email",
				Title:       "Email",
				Description: "We reply within a day.",
				AnswerType:  schema.AnswerEmail,
				Placeholder: "you@example.com",
			},
			{
				Name:       "age",
				Title:      "Age",
				AnswerType: schema.AnswerNumber,
				Default:    schema.String(""),
			},
			{
				Name:       "topic",
				Title:      "Topic",
				AnswerType: schema.AnswerSelect,
				Options:    []string{"sales", "support"},
				Default:    schema.String("support"),
			},
			{
				Name:       "message",
				Title:      "Message",
				AnswerType: schema.AnswerTextarea,
				HTMLBefore: schema.String("<hr class=\"sep\">"),
			},
		},
	}
}

// ValidContactValues returns a submission ContactForm accepts.
func ValidContactValues() map[string]string {
	return map[string]string{
		"name":    "Ada",
		"email":   "ada@example.com",
		"age":     "36",
		"topic":   "sales",
		"message": "Hello there",
	}
}

// TempStore opens a store backed by a file in a per-test temporary directory.
func TempStore(t *testing.T, options ...store.Option) *store.Store {
	t.Helper()

	s, err := store.Open(filepath.Join(t.TempDir(), "answers.json"), options...)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return s
}

// WriteFile writes content under dir and returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// MustReadFile returns the content of path.
func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

// AssertDiff fails the test with a (-want +got) diff when values differ.
func AssertDiff(t *testing.T, label string, want, got any, opts ...cmp.Option) {
	t.Helper()
	if diff := cmp.Diff(want, got, opts...); diff != "" {
		t.Fatalf("%s mismatch (-want +got):\n%s", label, diff)
	}
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
