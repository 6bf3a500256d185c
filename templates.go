package formserve

import (
	"io/fs"

	"github.com/goliatone/go-formserve/pkg/render"
)

// EmbeddedTemplates exposes the built-in page templates so callers can copy
// or extend them and pass the result back through render.WithTemplatesFS.
func EmbeddedTemplates() fs.FS {
	return render.TemplatesFS()
}
