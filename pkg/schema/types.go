package schema

import "strings"

const (
	// TimestampKey is the response log key holding the submission time. Field
	// names may not collide with it.
	TimestampKey = "timestamp"

	// DefaultMaxLength bounds every stored value, in runes, when neither the
	// field nor the form configures a cap.
	DefaultMaxLength = 10000

	// DefaultLang is used for the document lang attribute.
	DefaultLang = "en"
)

// FieldSchema describes one configured field.
//
// HTMLBefore and HTMLAfter are operator-authored fragments. They are trusted
// and emitted verbatim by the renderer.
type FieldSchema struct {
	Name        string     `json:"name"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	AnswerType  AnswerType `json:"answerType"`
	HTMLBefore  *string    `json:"htmlBefore,omitempty"`
	HTMLAfter   *string    `json:"htmlAfter,omitempty"`
	Options     []string   `json:"options,omitempty"`
	Default     *string    `json:"default,omitempty"`
	Placeholder string     `json:"placeholder,omitempty"`
	MaxLength   int        `json:"maxLength,omitempty"`
}

// Required reports whether the field must be submitted with a value. Fields
// that declare a default are optional.
func (f FieldSchema) Required() bool {
	return f.Default == nil
}

// Label returns the display title, falling back to the field name.
func (f FieldSchema) Label() string {
	if title := strings.TrimSpace(f.Title); title != "" {
		return title
	}
	return f.Name
}

// DefaultValue returns the configured default or an empty string.
func (f FieldSchema) DefaultValue() string {
	if f.Default == nil {
		return ""
	}
	return *f.Default
}

// HasOption reports whether value is part of the configured option set.
func (f FieldSchema) HasOption(value string) bool {
	for _, option := range f.Options {
		if option == value {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the field.
func (f FieldSchema) Clone() FieldSchema {
	out := f
	out.HTMLBefore = cloneString(f.HTMLBefore)
	out.HTMLAfter = cloneString(f.HTMLAfter)
	out.Default = cloneString(f.Default)
	if f.Options != nil {
		out.Options = append([]string(nil), f.Options...)
	}
	return out
}

// FormSchema is the ordered field list plus form-level metadata.
type FormSchema struct {
	Title             string        `json:"title"`
	SubmitButtonText  string        `json:"submitButtonText"`
	Fields            []FieldSchema `json:"fields"`
	OutputPath        string        `json:"outputPath,omitempty"`
	MaxLength         int           `json:"maxLength,omitempty"`
	Lang              string        `json:"lang,omitempty"`
	SanitizeFragments bool          `json:"sanitizeFragments,omitempty"`
}

// Field looks up a field by name.
func (s FormSchema) Field(name string) (FieldSchema, bool) {
	for _, field := range s.Fields {
		if field.Name == name {
			return field.Clone(), true
		}
	}
	return FieldSchema{}, false
}

// Names returns the field names in schema order.
func (s FormSchema) Names() []string {
	names := make([]string, 0, len(s.Fields))
	for _, field := range s.Fields {
		names = append(names, field.Name)
	}
	return names
}

// SubmitLabel returns the submit button text with a fallback.
func (s FormSchema) SubmitLabel() string {
	if text := strings.TrimSpace(s.SubmitButtonText); text != "" {
		return text
	}
	return "Submit"
}

// DocumentLang returns the configured language or DefaultLang.
func (s FormSchema) DocumentLang() string {
	if lang := strings.TrimSpace(s.Lang); lang != "" {
		return lang
	}
	return DefaultLang
}

// LimitFor returns the effective maximum length, in runes, for a field.
func (s FormSchema) LimitFor(field FieldSchema) int {
	if field.MaxLength > 0 {
		return field.MaxLength
	}
	if s.MaxLength > 0 {
		return s.MaxLength
	}
	return DefaultMaxLength
}

// Clone returns a deep copy of the form.
func (s FormSchema) Clone() FormSchema {
	out := s
	if s.Fields != nil {
		out.Fields = make([]FieldSchema, len(s.Fields))
		for i, field := range s.Fields {
			out.Fields[i] = field.Clone()
		}
	}
	return out
}

// String is a convenience for building optional fragments and defaults.
func String(value string) *string {
	return &value
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}
