// Package validation maps each answer type to its acceptance rule. Every
// function here is pure so request handlers can call it concurrently.
package validation

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/goliatone/go-formserve/pkg/schema"
)

const dateLayout = "2006-01-02"

// Value validates a single raw submission value against field. It returns the
// normalised value (surrounding whitespace trimmed) or the violated rule.
//
// Values that are not valid UTF-8 fail for every answer type. An empty value
// fails required fields. Optional fields fall back to their
// default; when that is empty too the value is accepted as is.
func Value(form schema.FormSchema, field schema.FieldSchema, raw string) (string, *FieldError) {
	if !utf8.ValidString(raw) {
		return "", fail(field, RuleEncoding, "must be valid UTF-8 text")
	}
	value := strings.TrimSpace(raw)
	if value == "" {
		if field.Required() {
			return "", fail(field, RuleRequired, "is required")
		}
		value = field.DefaultValue()
		if value == "" {
			return "", nil
		}
	}

	if limit := form.LimitFor(field); utf8.RuneCountInString(value) > limit {
		return "", fail(field, RuleMaxLength, fmt.Sprintf("must be at most %d characters", limit))
	}

	if err := checkType(field, value); err != nil {
		return "", err
	}
	return value, nil
}

// Form validates every field of form against raw, running to completion so the
// caller receives the full error set. Keys in raw that the schema does not
// declare are ignored.
func Form(form schema.FormSchema, raw map[string]string) (map[string]string, Errors) {
	values := make(map[string]string, len(form.Fields))
	var errs Errors
	for _, field := range form.Fields {
		value, err := Value(form, field, raw[field.Name])
		if err != nil {
			errs = append(errs, *err)
			continue
		}
		values[field.Name] = value
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return values, nil
}

func checkType(field schema.FieldSchema, value string) *FieldError {
	switch field.AnswerType {
	case schema.AnswerNumber:
		if !isDecimal(value) {
			return fail(field, RuleNumber, "must be a number")
		}
	case schema.AnswerEmail:
		if !isEmail(value) {
			return fail(field, RuleEmail, "must be a valid email address")
		}
	case schema.AnswerURL:
		if !isHTTPURL(value) {
			return fail(field, RuleURL, "must be an http or https URL")
		}
	case schema.AnswerDate:
		if _, err := time.Parse(dateLayout, value); err != nil {
			return fail(field, RuleDate, "must be a date formatted as YYYY-MM-DD")
		}
	case schema.AnswerTextarea:
		if hasControl(value, true) {
			return fail(field, RuleControlCharacters, "must not contain control characters")
		}
	case schema.AnswerSelect, schema.AnswerCheckbox:
		if len(field.Options) > 0 && !field.HasOption(value) {
			return fail(field, RuleOption, "must be one of the listed options")
		}
	case schema.AnswerText, schema.AnswerPassword, schema.AnswerTel:
		if hasControl(value, false) {
			return fail(field, RuleControlCharacters, "must not contain control characters")
		}
	default:
		return fail(field, RuleAnswerType, fmt.Sprintf("has unsupported answer type %q", field.AnswerType))
	}
	return nil
}

// isDecimal accepts integers and floats in plain or exponent notation. Hex,
// NaN, Inf and digit separators are rejected even though ParseFloat takes them.
func isDecimal(value string) bool {
	for _, r := range value {
		switch {
		case r >= '0' && r <= '9':
		case r == '.', r == '-', r == '+', r == 'e', r == 'E':
		default:
			return false
		}
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return false
	}
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func isEmail(value string) bool {
	if strings.Count(value, "@") != 1 {
		return false
	}
	local, domain, _ := strings.Cut(value, "@")
	if local == "" || domain == "" {
		return false
	}
	return !strings.ContainsFunc(value, unicode.IsSpace)
}

func isHTTPURL(value string) bool {
	parsed, err := url.Parse(value)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return false
	}
	return parsed.Hostname() != ""
}

func hasControl(value string, allowLineBreaks bool) bool {
	return strings.ContainsFunc(value, func(r rune) bool {
		if allowLineBreaks && (r == '\n' || r == '\r' || r == '\t') {
			return false
		}
		return unicode.IsControl(r)
	})
}

func fail(field schema.FieldSchema, rule, message string) *FieldError {
	return &FieldError{
		Field:   field.Name,
		Rule:    rule,
		Message: field.Label() + " " + message,
	}
}
