package layout

import (
	"embed"
	"io/fs"
)

//go:embed screens/*
var embeddedScreens embed.FS

// EmbeddedFS returns the bundled screen definitions. Callers may pass this
// filesystem to LoadFS to use the default screens.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedScreens, "screens")
	if err != nil {
		// The embed directive guarantees the subpath exists.
		panic(err)
	}
	return sub
}

// Default loads the embedded screens.
func Default() (*Catalog, error) {
	return LoadFS(EmbeddedFS())
}
