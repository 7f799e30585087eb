package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer turns page snapshots into HTML
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded page templates
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("page.html").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render writes the full catalog page for page
func (r *Renderer) Render(w io.Writer, page Page) error {
	if err := r.tmpl.ExecuteTemplate(w, "page.html", page); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	return nil
}
