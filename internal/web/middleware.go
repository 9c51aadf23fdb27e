package web

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/erazemk/odprema/internal/store"
)

type contextKey string

const sessionKey contextKey = "session"

// RequireSession validates the session cookie and adds the session to
// the request context. Browsers without a valid session are redirected
// to the login page.
func (s *Server) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("session")
		if err != nil || cookie.Value == "" {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		sess, err := store.GetSession(r.Context(), s.DB, s.Sealer, cookie.Value)
		if err != nil {
			slog.Error("failed to load session", "error", err)
			clearSessionCookie(w)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		if sess == nil {
			// Expired or deleted session: its drafts and backend
			// runtime would otherwise linger forever.
			s.Drafts.DiscardSession(cookie.Value)
			s.dropRuntime(cookie.Value)
			clearSessionCookie(w)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		ctx := context.WithValue(r.Context(), sessionKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// clearSessionCookie clears the session cookie with consistent attributes.
func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     "session",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// SessionFrom retrieves the session from the request context.
func SessionFrom(ctx context.Context) *store.Session {
	sess, _ := ctx.Value(sessionKey).(*store.Session)
	return sess
}

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware logs HTTP requests with method, path, status, and duration.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.Info("request",
			"method", r.Method,
			"path", r.URL.RequestURI(),
			"status", rec.status,
			"duration", time.Since(start).Round(time.Millisecond))
		observeHTTPRequest(r, rec.status, time.Since(start))
	})
}

// visitorIdleAfter is how long a client IP may stay idle before its
// limiter entry is dropped.
const visitorIdleAfter = 3 * time.Minute

// visitorLimiter rate-limits requests per client IP. Used on the lookup
// proxy so a fast typist cannot hammer the backend's search endpoints.
// Stale entries are swept inline on access, so the limiter owns no
// goroutine and needs no shutdown.
type visitorLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	rps       rate.Limit
	burst     int
	lastSweep time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newVisitorLimiter(rps, burst int) *visitorLimiter {
	return &visitorLimiter{
		visitors:  make(map[string]*visitor),
		rps:       rate.Limit(rps),
		burst:     burst,
		lastSweep: time.Now(),
	}
}

func (vl *visitorLimiter) get(ip string) *rate.Limiter {
	vl.mu.Lock()
	defer vl.mu.Unlock()

	now := time.Now()
	if now.Sub(vl.lastSweep) > visitorIdleAfter {
		for addr, v := range vl.visitors {
			if now.Sub(v.lastSeen) > visitorIdleAfter {
				delete(vl.visitors, addr)
			}
		}
		vl.lastSweep = now
	}

	v, ok := vl.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(vl.rps, vl.burst)}
		vl.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

// Limit wraps a handler with the per-IP rate limit.
func (vl *visitorLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if !vl.get(ip).Allow() {
			jsonError(w, http.StatusTooManyRequests, "too many lookup requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}
