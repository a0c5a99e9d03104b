// Package web embeds the HTML templates and static assets so the binary ships as one file.
package web

import "embed"

//go:embed templates/*.html
var Templates embed.FS

//go:embed static
var Static embed.FS
