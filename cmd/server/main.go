package main

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/erazemk/odprema/internal/backend"
	"github.com/erazemk/odprema/internal/config"
	"github.com/erazemk/odprema/internal/db"
	"github.com/erazemk/odprema/internal/store"
	"github.com/erazemk/odprema/internal/web"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	addr := flag.String("addr", "", "listen address (overrides config)")
	backendURL := flag.String("backend", "", "procurement backend base URL (overrides config)")
	dbPath := flag.String("db", "", "path to SQLite database file (overrides config)")
	sessionSecret := flag.String("session-secret", "", "session sealing secret (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *addr != "" {
		cfg.ListenAddr = *addr
	}
	if *backendURL != "" {
		cfg.BackendURL = *backendURL
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *sessionSecret != "" {
		cfg.SessionSecret = *sessionSecret
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	// Auto-generate session secret if not provided.
	if cfg.SessionSecret == "" {
		secret, err := generateSecret()
		if err != nil {
			log.Fatalf("Failed to generate session secret: %v", err)
		}
		cfg.SessionSecret = secret
		log.Println("Session secret auto-generated (sessions will be invalidated on restart)")
	}

	// Open database.
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	// Run migrations (idempotent).
	if err := db.Migrate(database); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	sealer := store.NewSealer(cfg.SessionSecret)
	client := backend.NewClient(cfg.BackendURL, nil)

	webRouter, err := web.NewRouter(database, client, sealer, web.RouterConfig{
		SessionTTL:  cfg.SessionTTL.Std(),
		LookupRPS:   cfg.Lookup.RPS,
		LookupBurst: cfg.Lookup.Burst,
	})
	if err != nil {
		log.Fatalf("Failed to set up web router: %v", err)
	}

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("/", webRouter)

	handler := web.LoggingMiddleware(mux)

	log.Printf("Server listening on %s (backend %s)", cfg.ListenAddr, cfg.BackendURL)
	if err := http.ListenAndServe(cfg.ListenAddr, handler); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// generateSecret creates a random hex-encoded secret.
func generateSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
