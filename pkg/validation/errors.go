package validation

import (
	"fmt"
	"strings"
)

// Rule codes reported in FieldError.Rule.
const (
	RuleRequired          = "required"
	RuleNumber            = "number"
	RuleEmail             = "email"
	RuleURL               = "url"
	RuleDate              = "date"
	RuleOption            = "option"
	RuleControlCharacters = "control_characters"
	RuleMaxLength         = "max_length"
	RuleAnswerType        = "answer_type"
	RuleEncoding          = "encoding"
)

// FieldError reports a single rejected field value.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Errors collects every field failure of one submission in schema order.
type Errors []FieldError

// Error summarises the first few failures.
func (errs Errors) Error() string {
	if len(errs) == 0 {
		return ""
	}
	const maxShown = 3
	var b strings.Builder
	b.WriteString("validation: ")
	for i, err := range errs {
		if i == maxShown {
			fmt.Fprintf(&b, "; ... (total %d)", len(errs))
			break
		}
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s at %s", err.Rule, err.Field)
	}
	return b.String()
}

// ByField groups messages by field name, the shape renderers and JSON
// responses consume.
func (errs Errors) ByField() map[string][]string {
	if len(errs) == 0 {
		return nil
	}
	out := make(map[string][]string, len(errs))
	for _, err := range errs {
		out[err.Field] = append(out[err.Field], err.Message)
	}
	return out
}

// Has reports whether name has at least one failure.
func (errs Errors) Has(name string) bool {
	for _, err := range errs {
		if err.Field == name {
			return true
		}
	}
	return false
}
