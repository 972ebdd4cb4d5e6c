package server

import (
	"embed"
	"html/template"
	"io"
)

//go:embed templates/form.html
var templatesFS embed.FS

var formTemplate = template.Must(template.ParseFS(templatesFS, "templates/form.html"))

type formData struct {
	Action      string
	Size        string
	Seed        string
	DefaultSize string
}

func renderForm(w io.Writer, data formData) error {
	return formTemplate.Execute(w, data)
}
