package web

import "embed"

// Content holds the embedded render assets: the SVG stylesheet and the
// gallery page template.
//
//go:embed styles.css gallery.html.tmpl
var Content embed.FS
