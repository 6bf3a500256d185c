package render

import "strings"

// MergeFormErrors concatenates and normalises form-level error slices,
// trimming whitespace and removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// splitErrors separates messages for fields the form knows from messages keyed
// by unknown names. Unknown keys become form-level errors so they are not lost.
func splitErrors(known func(string) bool, payload map[string][]string) (fields map[string][]string, form []string) {
	if len(payload) == 0 {
		return nil, nil
	}
	fields = make(map[string][]string, len(payload))
	for name, messages := range payload {
		normalized := normalizeMessages(messages)
		if len(normalized) == 0 {
			continue
		}
		if !known(name) {
			form = append(form, normalized...)
			continue
		}
		fields[name] = normalized
	}
	if len(fields) == 0 {
		fields = nil
	}
	return fields, form
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
