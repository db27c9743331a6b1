// Package web renders the server-side HTML pages.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/hongminglow/lendsqr-admin/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	PageLogin         = "login"
	PageDashboard     = "dashboard"
	PageUsers         = "users"
	PageDetail        = "detail"
	PageDetailMissing = "detail_missing"
)

// standalone pages are rendered without the navigation chrome.
var standalone = map[string]bool{PageLogin: true}

var funcs = template.FuncMap{
	"na": func(s string) string {
		if strings.TrimSpace(s) == "" {
			return models.NotAvailable
		}
		return s
	},
}

// Renderer holds one parsed template set per page.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses every page template.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, name := range []string{PageLogin, PageDashboard, PageUsers, PageDetail, PageDetailMissing} {
		files := []string{"templates/" + name + ".html"}
		if !standalone[name] {
			files = append([]string{"templates/layout.html"}, files...)
		}
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS, files...)
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

// Render executes the named page into w with the given status. Nothing is
// written if execution fails.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data any) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	entry := "layout"
	if standalone[name] {
		entry = name
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, entry, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
