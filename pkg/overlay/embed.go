package overlay

import (
	"embed"
	"io/fs"
)

//go:embed templates/*
var embeddedTemplates embed.FS

// DefaultPageTemplate is the template rendered into the overlay page.
const DefaultPageTemplate = "overlay.html.tpl"

// EmbeddedTemplates returns the bundled overlay page templates.
func EmbeddedTemplates() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		// The embed directive guarantees the subpath exists.
		panic(err)
	}
	return sub
}
