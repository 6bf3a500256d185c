package render

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

const (
	formTemplate  = "form.tpl"
	savedTemplate = "saved.tpl"
)

// TemplatesFS exposes the embedded page templates so callers can copy and
// customise them before passing them back through WithTemplatesFS.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}
