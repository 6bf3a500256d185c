package validation_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formserve/pkg/schema"
	"github.com/goliatone/go-formserve/pkg/validation"
)

func TestValueRules(t *testing.T) {
	form := schema.FormSchema{Title: "Rules"}

	tests := []struct {
		name     string
		field    schema.FieldSchema
		raw      string
		want     string
		wantRule string
	}{
		{name: "number integer", field: schema.FieldSchema{Name: "age", AnswerType: schema.AnswerNumber}, raw: "42", want: "42"},
		{name: "number float keeps text", field: schema.FieldSchema{Name: "age", AnswerType: schema.AnswerNumber}, raw: " 3.50 ", want: "3.50"},
		{name: "number exponent", field: schema.FieldSchema{Name: "age", AnswerType: schema.AnswerNumber}, raw: "-1e3", want: "-1e3"},
		{name: "number letters", field: schema.FieldSchema{Name: "age", AnswerType: schema.AnswerNumber}, raw: "abc", wantRule: validation.RuleNumber},
		{name: "number inf", field: schema.FieldSchema{Name: "age", AnswerType: schema.AnswerNumber}, raw: "Inf", wantRule: validation.RuleNumber},
		{name: "number hex", field: schema.FieldSchema{Name: "age", AnswerType: schema.AnswerNumber}, raw: "0x10", wantRule: validation.RuleNumber},
		{name: "number empty required", field: schema.FieldSchema{Name: "age", AnswerType: schema.AnswerNumber}, raw: "", wantRule: validation.RuleRequired},
		{name: "email ok", field: schema.FieldSchema{Name: "email", AnswerType: schema.AnswerEmail}, raw: "a@b.com", want: "a@b.com"},
		{name: "email no at", field: schema.FieldSchema{Name: "email", AnswerType: schema.AnswerEmail}, raw: "not-an-address", wantRule: validation.RuleEmail},
		{name: "email two ats", field: schema.FieldSchema{Name: "email", AnswerType: schema.AnswerEmail}, raw: "a@b@c", wantRule: validation.RuleEmail},
		{name: "email empty local", field: schema.FieldSchema{Name: "email", AnswerType: schema.AnswerEmail}, raw: "@b.com", wantRule: validation.RuleEmail},
		{name: "email empty domain", field: schema.FieldSchema{Name: "email", AnswerType: schema.AnswerEmail}, raw: "a@", wantRule: validation.RuleEmail},
		{name: "url ok", field: schema.FieldSchema{Name: "site", AnswerType: schema.AnswerURL}, raw: "https://example.com/x", want: "https://example.com/x"},
		{name: "url ftp", field: schema.FieldSchema{Name: "site", AnswerType: schema.AnswerURL}, raw: "ftp://example.com", wantRule: validation.RuleURL},
		{name: "url no host", field: schema.FieldSchema{Name: "site", AnswerType: schema.AnswerURL}, raw: "http://", wantRule: validation.RuleURL},
		{name: "tel", field: schema.FieldSchema{Name: "phone", AnswerType: schema.AnswerTel}, raw: "+1 555 0100", want: "+1 555 0100"},
		{name: "text control", field: schema.FieldSchema{Name: "name", AnswerType: schema.AnswerText}, raw: "a\x00b", wantRule: validation.RuleControlCharacters},
		{name: "text newline", field: schema.FieldSchema{Name: "name", AnswerType: schema.AnswerText}, raw: "a\nb", wantRule: validation.RuleControlCharacters},
		{name: "textarea newline", field: schema.FieldSchema{Name: "bio", AnswerType: schema.AnswerTextarea}, raw: "line one\nline two", want: "line one\nline two"},
		{name: "textarea bell", field: schema.FieldSchema{Name: "bio", AnswerType: schema.AnswerTextarea}, raw: "ring\a", wantRule: validation.RuleControlCharacters},
		{name: "password", field: schema.FieldSchema{Name: "secret", AnswerType: schema.AnswerPassword}, raw: "hunter2", want: "hunter2"},
		{name: "select member", field: schema.FieldSchema{Name: "color", AnswerType: schema.AnswerSelect, Options: []string{"red", "blue"}}, raw: "blue", want: "blue"},
		{name: "select outsider", field: schema.FieldSchema{Name: "color", AnswerType: schema.AnswerSelect, Options: []string{"red", "blue"}}, raw: "green", wantRule: validation.RuleOption},
		{name: "select without options", field: schema.FieldSchema{Name: "color", AnswerType: schema.AnswerSelect}, raw: "anything", want: "anything"},
		{name: "select without options empty", field: schema.FieldSchema{Name: "color", AnswerType: schema.AnswerSelect}, raw: "", wantRule: validation.RuleRequired},
		{name: "checkbox on", field: schema.FieldSchema{Name: "agree", AnswerType: schema.AnswerCheckbox}, raw: "on", want: "on"},
		{name: "checkbox unchecked optional", field: schema.FieldSchema{Name: "agree", AnswerType: schema.AnswerCheckbox, Default: schema.String("")}, raw: "", want: ""},
		{name: "date ok", field: schema.FieldSchema{Name: "day", AnswerType: schema.AnswerDate}, raw: "2024-02-29", want: "2024-02-29"},
		{name: "date invalid", field: schema.FieldSchema{Name: "day", AnswerType: schema.AnswerDate}, raw: "2023-02-29", wantRule: validation.RuleDate},
		{name: "default applied", field: schema.FieldSchema{Name: "count", AnswerType: schema.AnswerNumber, Default: schema.String("1")}, raw: "  ", want: "1"},
		{name: "default still validated", field: schema.FieldSchema{Name: "count", AnswerType: schema.AnswerNumber, Default: schema.String("one")}, raw: "", wantRule: validation.RuleNumber},
		{name: "field max length", field: schema.FieldSchema{Name: "code", AnswerType: schema.AnswerText, MaxLength: 3}, raw: "abcd", wantRule: validation.RuleMaxLength},
		{name: "invalid utf-8 text", field: schema.FieldSchema{Name: "name", AnswerType: schema.AnswerText}, raw: "ab\xffcd", wantRule: validation.RuleEncoding},
		{name: "invalid utf-8 textarea", field: schema.FieldSchema{Name: "bio", AnswerType: schema.AnswerTextarea}, raw: "\xc3(", wantRule: validation.RuleEncoding},
		{name: "invalid utf-8 select without options", field: schema.FieldSchema{Name: "color", AnswerType: schema.AnswerSelect}, raw: "\xed\xa0\x80", wantRule: validation.RuleEncoding},
		{name: "invalid utf-8 optional", field: schema.FieldSchema{Name: "note", AnswerType: schema.AnswerText, Default: schema.String("")}, raw: "\xff", wantRule: validation.RuleEncoding},
		{name: "multibyte text", field: schema.FieldSchema{Name: "name", AnswerType: schema.AnswerText}, raw: "Zoë 日本", want: "Zoë 日本"},
		{name: "max length counts runes", field: schema.FieldSchema{Name: "code", AnswerType: schema.AnswerText, MaxLength: 3}, raw: "äöü", want: "äöü"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := validation.Value(form, tt.field, tt.raw)
			if tt.wantRule != "" {
				if err == nil {
					t.Fatalf("expected %s failure, got value %q", tt.wantRule, got)
				}
				if err.Rule != tt.wantRule {
					t.Fatalf("rule mismatch: want %q got %q (%s)", tt.wantRule, err.Rule, err.Message)
				}
				if err.Field != tt.field.Name {
					t.Fatalf("field mismatch: want %q got %q", tt.field.Name, err.Field)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected failure: %v", err)
			}
			if got != tt.want {
				t.Fatalf("value mismatch: want %q got %q", tt.want, got)
			}
		})
	}
}

func TestValueFormMaxLength(t *testing.T) {
	form := schema.FormSchema{Title: "Limits", MaxLength: 5}
	field := schema.FieldSchema{Name: "bio", AnswerType: schema.AnswerTextarea}

	if _, err := validation.Value(form, field, strings.Repeat("x", 6)); err == nil || err.Rule != validation.RuleMaxLength {
		t.Fatalf("expected max_length failure, got %v", err)
	}
	if _, err := validation.Value(form, field, strings.Repeat("x", 5)); err != nil {
		t.Fatalf("unexpected failure at limit: %v", err)
	}
}

func TestFormCollectsAllErrors(t *testing.T) {
	form := schema.FormSchema{
		Title: "Signup",
		Fields: []schema.FieldSchema{
			{Name: "email", Title: "Email", AnswerType: schema.AnswerEmail},
			{Name: "age", Title: "Age", AnswerType: schema.AnswerNumber},
			{Name: "nick", Title: "Nickname", AnswerType: schema.AnswerText, Default: schema.String("")},
		},
	}

	values, errs := validation.Form(form, map[string]string{
		"email": "nope",
		"extra": "ignored",
	})
	if values != nil {
		t.Fatalf("expected no values on failure, got %#v", values)
	}

	want := validation.Errors{
		{Field: "email", Rule: validation.RuleEmail, Message: "Email must be a valid email address"},
		{Field: "age", Rule: validation.RuleRequired, Message: "Age is required"},
	}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	wantByField := map[string][]string{
		"email": {"Email must be a valid email address"},
		"age":   {"Age is required"},
	}
	if diff := cmp.Diff(wantByField, errs.ByField()); diff != "" {
		t.Fatalf("by field mismatch (-want +got):\n%s", diff)
	}

	var asErrs validation.Errors
	var err error = errs
	if !errors.As(err, &asErrs) || !asErrs.Has("age") {
		t.Fatalf("expected errors.As to recover validation.Errors")
	}
	if got := err.Error(); got != "validation: email at email; required at age" {
		t.Fatalf("unexpected summary %q", got)
	}
}

func TestFormSuccess(t *testing.T) {
	form := schema.FormSchema{
		Title: "Signup",
		Fields: []schema.FieldSchema{
			{Name: "email", AnswerType: schema.AnswerEmail},
			{Name: "nick", AnswerType: schema.AnswerText, Default: schema.String("anon")},
		},
	}

	values, errs := validation.Form(form, map[string]string{"email": " a@b.com "})
	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	want := map[string]string{"email": "a@b.com", "nick": "anon"}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}
