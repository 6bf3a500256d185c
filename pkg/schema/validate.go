package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConfiguration is the sentinel wrapped by every ConfigError.
var ErrConfiguration = errors.New("schema: invalid configuration")

// ConfigError reports a schema problem detected at load time. The process must
// not serve traffic with a schema that fails validation.
type ConfigError struct {
	// Field is the offending field name, or empty for form-level problems.
	Field string
	// Index is the zero-based position of the field, or -1.
	Index   int
	Message string
}

func (e *ConfigError) Error() string {
	switch {
	case e.Field != "":
		return fmt.Sprintf("schema: field %q: %s", e.Field, e.Message)
	case e.Index >= 0:
		return fmt.Sprintf("schema: field #%d: %s", e.Index+1, e.Message)
	default:
		return "schema: " + e.Message
	}
}

func (e *ConfigError) Unwrap() error { return ErrConfiguration }

// Validate checks the structural invariants of the form: field names are
// non-empty, unique and not reserved, answer types are known, and option sets
// are consistent with defaults.
func (s FormSchema) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return &ConfigError{Index: -1, Message: "form title is required"}
	}
	if s.MaxLength < 0 {
		return &ConfigError{Index: -1, Message: "max length must not be negative"}
	}

	seen := make(map[string]struct{}, len(s.Fields))
	for idx, field := range s.Fields {
		name := field.Name
		if strings.TrimSpace(name) == "" {
			return &ConfigError{Index: idx, Message: "name is required"}
		}
		if name != strings.TrimSpace(name) {
			return &ConfigError{Field: name, Index: idx, Message: "name must not have surrounding whitespace"}
		}
		if name == TimestampKey {
			return &ConfigError{Field: name, Index: idx, Message: "name is reserved for the submission timestamp"}
		}
		if _, dup := seen[name]; dup {
			return &ConfigError{Field: name, Index: idx, Message: "duplicate field name"}
		}
		seen[name] = struct{}{}

		if !field.AnswerType.Valid() {
			return &ConfigError{Field: name, Index: idx, Message: fmt.Sprintf("unknown answer type %q", field.AnswerType)}
		}
		if field.MaxLength < 0 {
			return &ConfigError{Field: name, Index: idx, Message: "max length must not be negative"}
		}
		if err := validateOptions(field); err != nil {
			return &ConfigError{Field: name, Index: idx, Message: err.Error()}
		}
	}
	return nil
}

func validateOptions(field FieldSchema) error {
	if len(field.Options) == 0 {
		return nil
	}
	if !field.AnswerType.UsesOptions() {
		return fmt.Errorf("options are only supported for %s and %s fields", AnswerSelect, AnswerCheckbox)
	}
	seen := make(map[string]struct{}, len(field.Options))
	for _, option := range field.Options {
		if option == "" {
			return errors.New("options must not be empty")
		}
		if _, dup := seen[option]; dup {
			return fmt.Errorf("duplicate option %q", option)
		}
		seen[option] = struct{}{}
	}
	if field.Default != nil && *field.Default != "" && !field.HasOption(*field.Default) {
		return fmt.Errorf("default %q is not one of the options", *field.Default)
	}
	return nil
}
