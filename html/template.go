// Package html renders the server-side pages of the http module.
package html

import (
	"embed"
	"html/template"
	"io"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kendraSO/site/core/module"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template is the echo renderer for the embedded templates.
type Template struct {
	Templates *template.Template
}

func (t *Template) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return t.Templates.ExecuteTemplate(w, name, data)
}

var funcs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
	"join": func(caps []module.Capability) string {
		return strings.Join(module.Strings(caps), ", ")
	},
}

// NewTemplate parses the embedded templates.
func NewTemplate() (*Template, error) {
	t, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Template{Templates: t}, nil
}
