package render

import (
	"fmt"
	"strings"
)

// HiddenField represents a hidden form input emitted alongside the visible
// schema, for example a CSRF token supplied by an embedding server. Hidden
// fields are not part of the schema, so the submission handler ignores them.
type HiddenField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// CSRFToken constructs a hidden field carrying the provided token. Callers
// supply the input name their middleware expects (for example "_csrf").
func CSRFToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// normalizeHidden drops unnamed fields and keeps the last value per name,
// preserving first-seen order. Names claimed by a schema field are dropped
// and returned separately, since the hidden input would shadow the answer.
func normalizeHidden(fields []HiddenField, isField func(string) bool) (out []HiddenField, shadowed []string) {
	if len(fields) == 0 {
		return nil, nil
	}
	index := make(map[string]int, len(fields))
	out = make([]HiddenField, 0, len(fields))
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		if isField(name) {
			shadowed = append(shadowed, name)
			continue
		}
		if pos, ok := index[name]; ok {
			out[pos].Value = field.Value
			continue
		}
		index[name] = len(out)
		out = append(out, HiddenField{Name: name, Value: field.Value})
	}
	return out, shadowed
}
