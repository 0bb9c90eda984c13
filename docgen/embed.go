package docgen

import (
	"embed"
	"html/template"
)

//go:embed templates
var templates embed.FS

//go:embed templates/main.css
var css string

var Template = template.Must(template.New("").ParseFS(templates, "templates/*.tmpl")).Lookup("main.tmpl")

type TemplateArguments struct {
	Title           string
	Stylesheet      string
	Index           string
	TableOfContents template.HTML
	Main            template.HTML
}
