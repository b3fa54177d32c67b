package templates

import (
	"embed"
	"html/template"
)

//go:embed *.html
var files embed.FS

// Load parses every page template; names are the file names.
func Load() (*template.Template, error) {
	return template.ParseFS(files, "*.html")
}
