// Package view renders the server-side HTML pages from templates
// compiled into the binary via embed.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
)

//go:embed templates/*.html
var files embed.FS

// Data is the bag of values a handler passes to a template.
type Data map[string]any

// Renderer holds the parsed template set.
type Renderer struct {
	t *template.Template
}

// New parses every embedded template. Parsing happens once at startup,
// so a broken template fails the boot rather than the first request.
func New() (*Renderer, error) {
	t, err := template.ParseFS(files, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("view.New: parse templates: %w", err)
	}
	return &Renderer{t: t}, nil
}

// Render executes the named template and writes the result. Output is
// buffered so a mid-render failure answers with a clean 500 instead of
// half a page.
func (r *Renderer) Render(w http.ResponseWriter, name string, data Data) {
	var buf bytes.Buffer
	if err := r.t.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("error rendering template",
			slog.String("template", name),
			slog.String("error", err.Error()))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}
