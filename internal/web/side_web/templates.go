package side_web

import (
	"bytes"
	"embed"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Renderer executes the embedded dashboard templates. html/template escapes
// names coming from the upstream API.
type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("root").ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	return &Renderer{tmpl: tmpl}, nil
}

// Render writes nothing unless the whole template executed, so a failing
// partial never reaches the browser half-written.
func (renderer *Renderer) Render(writer io.Writer, name string, data any) error {
	var buf bytes.Buffer
	if err := renderer.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}
	_, err := buf.WriteTo(writer)
	return err
}
