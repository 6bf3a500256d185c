package render

import (
	"html"
	"strconv"
	"strings"

	"github.com/goliatone/go-formserve/pkg/schema"
)

// checkboxValue is submitted by a checkbox without an option set.
const checkboxValue = "on"

type fieldState struct {
	value  string
	errors []string
	limit  int
}

// CheckboxValue returns the value a checked checkbox submits for field.
func CheckboxValue(field schema.FieldSchema) string {
	if len(field.Options) > 0 {
		return field.Options[0]
	}
	return checkboxValue
}

// buildFieldMarkup emits html_before, the labelled control and html_after for
// one field. fragment decides how operator fragments are emitted.
func buildFieldMarkup(field schema.FieldSchema, state fieldState, fragment func(string) string) string {
	var builder strings.Builder
	builder.Grow(256)

	if field.HTMLBefore != nil {
		builder.WriteString(fragment(*field.HTMLBefore))
		builder.WriteByte('\n')
	}

	id := "field-" + field.Name
	invalid := len(state.errors) > 0

	builder.WriteString(`<div class="field field-`)
	builder.WriteString(html.EscapeString(field.AnswerType.String()))
	if invalid {
		builder.WriteString(" field-invalid")
	}
	builder.WriteString(`">`)
	builder.WriteByte('\n')

	builder.WriteString(`<label for="`)
	builder.WriteString(html.EscapeString(id))
	builder.WriteString(`">`)
	builder.WriteString(html.EscapeString(field.Label()))
	builder.WriteString("</label>\n")

	var describedBy []string
	if desc := strings.TrimSpace(field.Description); desc != "" {
		descID := id + "-description"
		describedBy = append(describedBy, descID)
		builder.WriteString(`<p class="field-description" id="`)
		builder.WriteString(html.EscapeString(descID))
		builder.WriteString(`">`)
		builder.WriteString(html.EscapeString(desc))
		builder.WriteString("</p>\n")
	}
	if invalid {
		describedBy = append(describedBy, id+"-errors")
	}

	attrs := controlAttributes(field, id, invalid, describedBy)
	switch field.AnswerType.Control() {
	case schema.ControlTextarea:
		writeTextarea(&builder, field, state, attrs)
	case schema.ControlSelect:
		writeSelect(&builder, field, state, attrs)
	case schema.ControlCheckbox:
		writeCheckbox(&builder, field, state, attrs)
	default:
		writeInput(&builder, field, state, attrs)
	}
	builder.WriteByte('\n')

	if invalid {
		builder.WriteString(`<ul class="field-errors" id="`)
		builder.WriteString(html.EscapeString(id + "-errors"))
		builder.WriteString(`">`)
		for _, message := range state.errors {
			builder.WriteString("<li>")
			builder.WriteString(html.EscapeString(message))
			builder.WriteString("</li>")
		}
		builder.WriteString("</ul>\n")
	}

	builder.WriteString("</div>")

	if field.HTMLAfter != nil {
		builder.WriteByte('\n')
		builder.WriteString(fragment(*field.HTMLAfter))
	}
	return builder.String()
}

func controlAttributes(field schema.FieldSchema, id string, invalid bool, describedBy []string) string {
	var builder strings.Builder
	writeAttr(&builder, "id", id)
	writeAttr(&builder, "name", field.Name)
	if field.Required() {
		builder.WriteString(" required")
	}
	if invalid {
		writeAttr(&builder, "aria-invalid", "true")
	}
	if len(describedBy) > 0 {
		writeAttr(&builder, "aria-describedby", strings.Join(describedBy, " "))
	}
	return builder.String()
}

func writeInput(builder *strings.Builder, field schema.FieldSchema, state fieldState, attrs string) {
	builder.WriteString("<input")
	writeAttr(builder, "type", field.AnswerType.InputType())
	builder.WriteString(attrs)
	if field.AnswerType != schema.AnswerPassword && state.value != "" {
		writeAttr(builder, "value", state.value)
	}
	if field.Placeholder != "" {
		writeAttr(builder, "placeholder", field.Placeholder)
	}
	switch field.AnswerType {
	case schema.AnswerNumber:
		writeAttr(builder, "step", "any")
	case schema.AnswerDate:
		// maxlength does not apply to date inputs.
	default:
		writeMaxLength(builder, state.limit)
	}
	builder.WriteString(">")
}

func writeTextarea(builder *strings.Builder, field schema.FieldSchema, state fieldState, attrs string) {
	builder.WriteString("<textarea")
	builder.WriteString(attrs)
	if field.Placeholder != "" {
		writeAttr(builder, "placeholder", field.Placeholder)
	}
	writeMaxLength(builder, state.limit)
	builder.WriteString(">")
	builder.WriteString(html.EscapeString(state.value))
	builder.WriteString("</textarea>")
}

func writeSelect(builder *strings.Builder, field schema.FieldSchema, state fieldState, attrs string) {
	builder.WriteString("<select")
	builder.WriteString(attrs)
	builder.WriteString(">")
	builder.WriteString(`<option value="">`)
	builder.WriteString(html.EscapeString(field.Placeholder))
	builder.WriteString("</option>")
	for _, option := range field.Options {
		builder.WriteString("<option")
		writeAttr(builder, "value", option)
		if option == state.value {
			builder.WriteString(" selected")
		}
		builder.WriteString(">")
		builder.WriteString(html.EscapeString(option))
		builder.WriteString("</option>")
	}
	builder.WriteString("</select>")
}

func writeCheckbox(builder *strings.Builder, field schema.FieldSchema, state fieldState, attrs string) {
	value := CheckboxValue(field)
	builder.WriteString("<input")
	writeAttr(builder, "type", "checkbox")
	builder.WriteString(attrs)
	writeAttr(builder, "value", value)
	if state.value == value {
		builder.WriteString(" checked")
	}
	builder.WriteString(">")
}

func writeMaxLength(builder *strings.Builder, limit int) {
	if limit > 0 {
		writeAttr(builder, "maxlength", strconv.Itoa(limit))
	}
}

func writeAttr(builder *strings.Builder, name, value string) {
	builder.WriteByte(' ')
	builder.WriteString(name)
	builder.WriteString(`="`)
	builder.WriteString(html.EscapeString(value))
	builder.WriteByte('"')
}
