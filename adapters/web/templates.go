package web

import (
	"embed"
	"html/template"
	"io/fs"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	TemplateEditor  = "editor.html"
	TemplatePreview = "preview.html"
	TemplateShare   = "share.html"
	TemplateLogin   = "login.html"
	TemplateSignup  = "signup.html"
	TemplateError   = "error.html"
)

var funcs = template.FuncMap{
	"fieldError": func(errs map[string]string, field string) string {
		return errs[field]
	},
}

// Templates parses every embedded view. gin renders them through
// SetHTMLTemplate.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}

func MustTemplates() *template.Template {
	return template.Must(Templates())
}

//go:embed assets/*.svg
var assetFS embed.FS

// Assets holds the platform icons served under /assets.
func Assets() fs.FS {
	sub, err := fs.Sub(assetFS, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}
