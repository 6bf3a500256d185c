package schema

import (
	"fmt"
	"strings"
)

// AnswerType is the closed set of input categories a field can declare. Each
// variant determines both the rendered control and the validation rule.
type AnswerType string

const (
	AnswerText     AnswerType = "text"
	AnswerNumber   AnswerType = "number"
	AnswerEmail    AnswerType = "email"
	AnswerPassword AnswerType = "password"
	AnswerURL      AnswerType = "url"
	AnswerTel      AnswerType = "tel"
	AnswerTextarea AnswerType = "textarea"
	AnswerSelect   AnswerType = "select"
	AnswerCheckbox AnswerType = "checkbox"
	AnswerDate     AnswerType = "date"
)

// AnswerTypes lists every supported variant in declaration order.
func AnswerTypes() []AnswerType {
	return []AnswerType{
		AnswerText,
		AnswerNumber,
		AnswerEmail,
		AnswerPassword,
		AnswerURL,
		AnswerTel,
		AnswerTextarea,
		AnswerSelect,
		AnswerCheckbox,
		AnswerDate,
	}
}

// ControlKind identifies the HTML element family used to render a field.
type ControlKind string

const (
	ControlInput    ControlKind = "input"
	ControlTextarea ControlKind = "textarea"
	ControlSelect   ControlKind = "select"
	ControlCheckbox ControlKind = "checkbox"
)

// ParseAnswerType normalises a configured tag. An empty tag means text.
func ParseAnswerType(raw string) (AnswerType, error) {
	tag := AnswerType(strings.ToLower(strings.TrimSpace(raw)))
	if tag == "" {
		return AnswerText, nil
	}
	if !tag.Valid() {
		return "", fmt.Errorf("unknown answer type %q", raw)
	}
	return tag, nil
}

// Valid reports whether t is one of the declared variants.
func (t AnswerType) Valid() bool {
	switch t {
	case AnswerText, AnswerNumber, AnswerEmail, AnswerPassword, AnswerURL,
		AnswerTel, AnswerTextarea, AnswerSelect, AnswerCheckbox, AnswerDate:
		return true
	default:
		return false
	}
}

// Control returns the element family for t.
func (t AnswerType) Control() ControlKind {
	switch t {
	case AnswerTextarea:
		return ControlTextarea
	case AnswerSelect:
		return ControlSelect
	case AnswerCheckbox:
		return ControlCheckbox
	default:
		return ControlInput
	}
}

// InputType returns the value of the HTML type attribute for input controls.
// Non-input controls return an empty string.
func (t AnswerType) InputType() string {
	switch t {
	case AnswerText:
		return "text"
	case AnswerNumber:
		return "number"
	case AnswerEmail:
		return "email"
	case AnswerPassword:
		return "password"
	case AnswerURL:
		return "url"
	case AnswerTel:
		return "tel"
	case AnswerDate:
		return "date"
	case AnswerCheckbox:
		return "checkbox"
	default:
		return ""
	}
}

// UsesOptions reports whether the variant validates against an option set.
func (t AnswerType) UsesOptions() bool {
	return t == AnswerSelect || t == AnswerCheckbox
}

func (t AnswerType) String() string {
	return string(t)
}
