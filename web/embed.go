// Package web holds the page templates and static assets compiled into the
// server binary.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Funcs are available to every template.
var Funcs = template.FuncMap{
	"lower": strings.ToLower,
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"fieldError": func(errs map[string]string, field string) string {
		return errs[field]
	},
}

// Templates parses every page template. Pages are looked up by file name,
// e.g. "index.html".
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs).ParseFS(templateFS, "templates/*.html")
}

// Static is the asset tree served under /static.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
