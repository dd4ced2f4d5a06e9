package tripmap

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
)

//go:embed templates/map.html.tmpl
var templateFS embed.FS

// Line colours per segment type.
var lineColors = map[string]string{
	"flight":   "#e07b39",
	"ferry":    "#0891b2",
	"transfer": "#c9a227",
}

// Renderer renders the Leaflet map page.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded map template.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("map.html.tmpl").ParseFS(templateFS, "templates/map.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing map template: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

type page struct {
	Title      string
	Data       template.JS
	LineColors template.JS
}

// Render writes the page for m to w. The map data is embedded as a JSON
// literal and drawn client-side.
func (r *Renderer) Render(w io.Writer, m *Map) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encoding map data: %w", err)
	}
	colors, err := json.Marshal(lineColors)
	if err != nil {
		return fmt.Errorf("encoding line colours: %w", err)
	}
	title := m.Title
	if title == "" {
		title = "Trip Map"
	}
	// json.Marshal escapes <, > and & so the literal is safe inside a script.
	p := page{Title: title, Data: template.JS(data), LineColors: template.JS(colors)}
	if err := r.tmpl.Execute(w, p); err != nil {
		return fmt.Errorf("rendering map: %w", err)
	}
	return nil
}

// WriteFile renders m to path, creating parent directories.
func (r *Renderer) WriteFile(path string, m *Map) error {
	var buf bytes.Buffer
	if err := r.Render(&buf, m); err != nil {
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
