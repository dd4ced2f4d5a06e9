package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fyrsmithlabs/holidaze/internal/itinerary"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// HTMLRenderer renders an itinerary as a single self-contained page with a
// timeline view and a by-category view.
type HTMLRenderer struct {
	tmpl *template.Template
}

// NewHTMLRenderer parses the embedded page template.
func NewHTMLRenderer() (*HTMLRenderer, error) {
	tmpl, err := template.New("itinerary.html.tmpl").Funcs(template.FuncMap{
		"join":      strings.Join,
		"dayHeader": dayHeader,
		"details":   detailRows,
	}).ParseFS(templateFS, "templates/itinerary.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing itinerary template: %w", err)
	}
	return &HTMLRenderer{tmpl: tmpl}, nil
}

// Render writes the page for it to w.
func (r *HTMLRenderer) Render(w io.Writer, it *itinerary.Itinerary) error {
	if err := r.tmpl.Execute(w, it); err != nil {
		return fmt.Errorf("rendering itinerary: %w", err)
	}
	return nil
}

// WriteFile renders it to path, creating parent directories.
func (r *HTMLRenderer) WriteFile(path string, it *itinerary.Itinerary) error {
	var buf bytes.Buffer
	if err := r.Render(&buf, it); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// dayHeader formats a timeline heading, e.g. "Saturday, March 14".
func dayHeader(d *itinerary.Date) string {
	if d == nil {
		return "Date to be confirmed"
	}
	return d.Format("Monday, January 02")
}
