package web

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/erazemk/odprema/internal/backend"
	"github.com/erazemk/odprema/internal/store"
	webembed "github.com/erazemk/odprema/web"
)

// RouterConfig carries the router's tunables.
type RouterConfig struct {
	SessionTTL  time.Duration
	LookupRPS   int
	LookupBurst int
}

// NewRouter creates the web router with all routes registered.
func NewRouter(db *sql.DB, client *backend.Client, sealer *store.Sealer, cfg RouterConfig) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		DB:         db,
		Templates:  templates,
		Backend:    client,
		Sealer:     sealer,
		SessionTTL: cfg.SessionTTL,
		Drafts:     NewDrafts(),
	}

	mux := http.NewServeMux()
	auth := s.RequireSession
	lookupLimit := newVisitorLimiter(cfg.LookupRPS, cfg.LookupBurst)

	// Static assets.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))

	// Public routes.
	mux.HandleFunc("GET /login", s.LoginPage)
	mux.HandleFunc("POST /login", s.LoginSubmit)
	mux.HandleFunc("POST /logout", s.Logout)

	// Pages.
	mux.Handle("GET /{$}", auth(http.HandlerFunc(s.HomePage)))
	mux.Handle("GET /history", auth(http.HandlerFunc(s.HistoryPage)))
	mux.Handle("GET /dispatch/{poID}", auth(http.HandlerFunc(s.DispatchPage)))

	// Draft actions.
	mux.Handle("POST /dispatch/{poID}/toggle", auth(http.HandlerFunc(s.ToggleAction)))
	mux.Handle("POST /dispatch/{poID}/toggle-all", auth(http.HandlerFunc(s.ToggleAllAction)))
	mux.Handle("POST /dispatch/{poID}/cut-all", auth(http.HandlerFunc(s.CutAllAction)))
	mux.Handle("POST /dispatch/{poID}/attribute", auth(http.HandlerFunc(s.AttributeAction)))
	mux.Handle("POST /dispatch/{poID}/propagate", auth(http.HandlerFunc(s.PropagateAction)))
	mux.Handle("POST /dispatch/{poID}/clusters", auth(http.HandlerFunc(s.ClustersAction)))
	mux.Handle("GET /dispatch/{poID}/state", auth(http.HandlerFunc(s.StateAction)))
	mux.Handle("POST /dispatch/{poID}/submit", auth(http.HandlerFunc(s.SubmitAction)))
	mux.Handle("POST /dispatch/{poID}/cancel", auth(http.HandlerFunc(s.CancelAction)))

	// Lookup proxy for the select widgets.
	mux.Handle("GET /lookup/{target}", auth(lookupLimit.Limit(http.HandlerFunc(s.LookupAction))))

	return mux, nil
}
