package web

import (
	"database/sql"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/erazemk/odprema/internal/backend"
	"github.com/erazemk/odprema/internal/model"
	"github.com/erazemk/odprema/internal/store"
	webembed "github.com/erazemk/odprema/web"
)

// Templates holds parsed HTML templates.
type Templates struct {
	templates map[string]*template.Template
}

// FuncMap returns the template function map.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"kindName": func(k model.Kind) string {
			switch k {
			case model.KindStore:
				return "Store"
			case model.KindSite:
				return "Site"
			case model.KindSpare:
				return "Spare"
			case model.KindLive:
				return "Live"
			default:
				return string(k)
			}
		},
		"refLabel": func(r *model.Ref) string {
			if r == nil {
				return "-"
			}
			return r.Label
		},
	}
}

// LoadTemplates parses all page templates with the layout.
func LoadTemplates() (*Templates, error) {
	tfs := webembed.TemplatesFS()

	layoutBytes, err := fs.ReadFile(tfs, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("reading layout template: %w", err)
	}

	pages := []string{
		"login.html",
		"home.html",
		"dispatch.html",
		"history.html",
	}

	ts := &Templates{templates: make(map[string]*template.Template)}

	for _, page := range pages {
		pageBytes, err := fs.ReadFile(tfs, page)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", page, err)
		}

		tmpl := template.New(page).Funcs(FuncMap())
		tmpl, err = tmpl.Parse(string(layoutBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing layout for %s: %w", page, err)
		}
		tmpl, err = tmpl.Parse(string(pageBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}

		ts.templates[page] = tmpl
	}

	return ts, nil
}

// Render renders a template with the given data.
func (ts *Templates) Render(w http.ResponseWriter, name string, data any) {
	tmpl, ok := ts.templates[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		slog.Error("failed to render template", "template", name, "error", err)
	}
}

// PageData is the base data passed to all templates.
type PageData struct {
	Title    string
	Username string
	Error    string
}

// Server holds all dependencies for page and action handlers.
type Server struct {
	DB         *sql.DB
	Templates  *Templates
	Backend    *backend.Client
	Sealer     *store.Sealer
	SessionTTL time.Duration
	Drafts     *Drafts

	mu       sync.Mutex
	runtimes map[string]*sessionRuntime
}
