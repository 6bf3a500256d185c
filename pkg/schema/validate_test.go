package schema_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formserve/pkg/schema"
)

func TestFormSchemaValidate(t *testing.T) {
	base := func(fields ...schema.FieldSchema) schema.FormSchema {
		return schema.FormSchema{Title: "Survey", Fields: fields}
	}

	tests := []struct {
		name      string
		form      schema.FormSchema
		wantField string
		wantMsg   string
	}{
		{
			name: "valid form",
			form: base(
				schema.FieldSchema{Name: "email", AnswerType: schema.AnswerEmail},
				schema.FieldSchema{Name: "color", AnswerType: schema.AnswerSelect, Options: []string{"red", "blue"}, Default: schema.String("red")},
			),
		},
		{
			name:    "missing title",
			form:    schema.FormSchema{Fields: []schema.FieldSchema{{Name: "a", AnswerType: schema.AnswerText}}},
			wantMsg: "form title is required",
		},
		{
			name:    "empty name",
			form:    base(schema.FieldSchema{Name: "  ", AnswerType: schema.AnswerText}),
			wantMsg: "name is required",
		},
		{
			name: "duplicate name",
			form: base(
				schema.FieldSchema{Name: "age", AnswerType: schema.AnswerNumber},
				schema.FieldSchema{Name: "age", AnswerType: schema.AnswerText},
			),
			wantField: "age",
			wantMsg:   "duplicate field name",
		},
		{
			name:      "reserved name",
			form:      base(schema.FieldSchema{Name: "timestamp", AnswerType: schema.AnswerText}),
			wantField: "timestamp",
			wantMsg:   "reserved",
		},
		{
			name:      "unknown answer type",
			form:      base(schema.FieldSchema{Name: "when", AnswerType: "datetime"}),
			wantField: "when",
			wantMsg:   "unknown answer type",
		},
		{
			name:      "options on text field",
			form:      base(schema.FieldSchema{Name: "note", AnswerType: schema.AnswerText, Options: []string{"a"}}),
			wantField: "note",
			wantMsg:   "options are only supported",
		},
		{
			name:      "default outside options",
			form:      base(schema.FieldSchema{Name: "size", AnswerType: schema.AnswerSelect, Options: []string{"s", "m"}, Default: schema.String("xl")}),
			wantField: "size",
			wantMsg:   "not one of the options",
		},
		{
			name:      "duplicate option",
			form:      base(schema.FieldSchema{Name: "size", AnswerType: schema.AnswerSelect, Options: []string{"s", "s"}}),
			wantField: "size",
			wantMsg:   "duplicate option",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.form.Validate()
			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantMsg)
			}
			if !errors.Is(err, schema.ErrConfiguration) {
				t.Fatalf("expected ErrConfiguration, got %v", err)
			}
			var cfgErr *schema.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected *ConfigError, got %T", err)
			}
			if cfgErr.Field != tt.wantField {
				t.Fatalf("field mismatch: want %q got %q", tt.wantField, cfgErr.Field)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Fatalf("expected %q in %q", tt.wantMsg, err.Error())
			}
		})
	}
}

func TestParseAnswerType(t *testing.T) {
	got, err := schema.ParseAnswerType(" Email ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != schema.AnswerEmail {
		t.Fatalf("want email, got %q", got)
	}

	got, err = schema.ParseAnswerType("")
	if err != nil || got != schema.AnswerText {
		t.Fatalf("empty tag: want text, got %q (%v)", got, err)
	}

	if _, err := schema.ParseAnswerType("range"); err == nil {
		t.Fatalf("expected error for unknown tag")
	}
}

func TestAnswerTypeControls(t *testing.T) {
	got := make(map[schema.AnswerType]string)
	for _, answer := range schema.AnswerTypes() {
		got[answer] = string(answer.Control()) + ":" + answer.InputType()
	}
	want := map[schema.AnswerType]string{
		schema.AnswerText:     "input:text",
		schema.AnswerNumber:   "input:number",
		schema.AnswerEmail:    "input:email",
		schema.AnswerPassword: "input:password",
		schema.AnswerURL:      "input:url",
		schema.AnswerTel:      "input:tel",
		schema.AnswerTextarea: "textarea:",
		schema.AnswerSelect:   "select:",
		schema.AnswerCheckbox: "checkbox:checkbox",
		schema.AnswerDate:     "input:date",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("controls mismatch (-want +got):\n%s", diff)
	}
}

func TestFormSchemaCloneIsDeep(t *testing.T) {
	form := schema.FormSchema{
		Title: "Survey",
		Fields: []schema.FieldSchema{
			{Name: "color", AnswerType: schema.AnswerSelect, Options: []string{"red"}, HTMLBefore: schema.String("<hr>")},
		},
	}
	clone := form.Clone()
	clone.Fields[0].Options[0] = "blue"
	*clone.Fields[0].HTMLBefore = "<p>"

	if form.Fields[0].Options[0] != "red" {
		t.Fatalf("options shared with clone")
	}
	if *form.Fields[0].HTMLBefore != "<hr>" {
		t.Fatalf("fragment shared with clone")
	}
	if diff := cmp.Diff([]string{"color"}, form.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestLimitFor(t *testing.T) {
	form := schema.FormSchema{Title: "x"}
	field := schema.FieldSchema{Name: "a"}
	if got := form.LimitFor(field); got != schema.DefaultMaxLength {
		t.Fatalf("want default limit, got %d", got)
	}
	form.MaxLength = 20
	if got := form.LimitFor(field); got != 20 {
		t.Fatalf("want form limit, got %d", got)
	}
	field.MaxLength = 5
	if got := form.LimitFor(field); got != 5 {
		t.Fatalf("want field limit, got %d", got)
	}
}
