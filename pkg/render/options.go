package render

// RenderOptions carry per-request data used to re-render a form after a
// failed submission. The zero value renders a blank form posting to "".
type RenderOptions struct {
	// Action is the form's submit URL.
	Action string
	// Values pre-populates controls keyed by field name. Password values are
	// never echoed back.
	Values map[string]string
	// Errors surfaces field-level validation messages keyed by field name.
	Errors map[string][]string
	// FormErrors are shown above the form, for failures not tied to a field.
	FormErrors []string
	// Hidden fields are emitted before the first visible control.
	Hidden []HiddenField
}

// SavedOptions configure the confirmation page.
type SavedOptions struct {
	// BackURL is the link target returning to the form. Defaults to "/".
	BackURL string
	// Message replaces the default "Saved." text.
	Message string
}
