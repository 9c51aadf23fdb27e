package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/odprema/internal/backend"
	"github.com/erazemk/odprema/internal/store"
)

// LoginPage handles GET /login.
func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "login.html", &PageData{Title: "Login"})
}

// LoginSubmit handles POST /login. Credentials are exchanged with the
// backend for a token pair; this side never sees a password again after
// this request.
func (s *Server) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")
	if username == "" || password == "" {
		s.Templates.Render(w, "login.html", &PageData{Title: "Login", Error: "Username and password are required"})
		return
	}

	res, err := s.Backend.Login(r.Context(), username, password)
	if err != nil {
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			s.Templates.Render(w, "login.html", &PageData{Title: "Login", Error: "Invalid credentials"})
			return
		}
		slog.Error("login failed", "error", err)
		s.Templates.Render(w, "login.html", &PageData{Title: "Login", Error: "Backend unavailable, try again"})
		return
	}

	sess, err := store.CreateSession(r.Context(), s.DB, s.Sealer, username,
		res.AccessToken, res.RefreshToken, s.SessionTTL)
	if err != nil {
		slog.Error("failed to create session", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "session",
		Value:    sess.ID,
		Path:     "/",
		MaxAge:   int(s.SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout handles POST /logout. Open drafts are discarded, not saved.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie("session"); err == nil && cookie.Value != "" {
		if err := store.DeleteSession(r.Context(), s.DB, cookie.Value); err != nil {
			slog.Error("failed to delete session", "error", err)
		}
		s.Drafts.DiscardSession(cookie.Value)
		s.dropRuntime(cookie.Value)
	}
	clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
