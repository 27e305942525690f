// Package overlay mirrors scoreboard values into plain text files for
// streaming software text sources and renders an HTML page from an embedded
// pongo2 template. Values are stripped of markup before they are written, and
// files whose content did not change are left alone so scene sources do not
// flicker. Register Exporter.Hook with the store so every save refreshes the
// overlay.
package overlay
