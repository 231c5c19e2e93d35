// Package server provides the HTTP server setup and wiring.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/mintdesk/mintdesk/internal/auth"
	"github.com/mintdesk/mintdesk/internal/config"
	deploymentsDomain "github.com/mintdesk/mintdesk/internal/deployments/domain"
	deploymentsTransport "github.com/mintdesk/mintdesk/internal/deployments/transport"
	metadataDomain "github.com/mintdesk/mintdesk/internal/metadata/domain"
	metadataTransport "github.com/mintdesk/mintdesk/internal/metadata/transport"
	"github.com/mintdesk/mintdesk/internal/middleware/logging"
	"github.com/mintdesk/mintdesk/internal/middleware/ratelimit"
	"github.com/mintdesk/mintdesk/internal/middleware/realip"
	"github.com/mintdesk/mintdesk/internal/middleware/security"
	"github.com/mintdesk/mintdesk/internal/networks"
	"github.com/mintdesk/mintdesk/internal/observability/metrics"
	"github.com/mintdesk/mintdesk/internal/storage"
)

// APIVersion is the served API generation, reported by /health and
// checked by clients for compatibility.
const APIVersion = "v1"

// Server is the HTTP server
type Server struct {
	cfg      *config.Config
	store    storage.Store
	logger   *slog.Logger
	router   *chi.Mux
	version  string
	registry *networks.Registry

	// Services typed via transport interfaces
	deploymentsSvc deploymentsTransport.Service
	metadataSvc    metadataTransport.Service
}

// New creates a new server
func New(cfg *config.Config, store storage.Store, logger *slog.Logger, version string) *Server {
	s := &Server{
		cfg:      cfg,
		store:    store,
		logger:   logger,
		router:   chi.NewRouter(),
		version:  version,
		registry: networks.DefaultRegistry(),
	}

	// Create domain services, wrapped with logging middleware
	deployImpl := deploymentsDomain.NewService(store, s.registry)
	metaImpl := metadataDomain.NewService(store, s.registry)

	s.deploymentsSvc = deploymentsDomain.LoggingMiddleware(logger)(deployImpl)
	s.metadataSvc = metadataDomain.LoggingMiddleware(logger)(metaImpl)

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// MetricsHandler returns the metrics HTTP handler for separate metrics server
func (s *Server) MetricsHandler() http.Handler {
	return metrics.Handler()
}

func (s *Server) setupMiddleware() {
	// Order matters! Security middleware runs first to block malicious requests early.

	// 1. Real IP extraction (must be first to set client IP for other middleware)
	s.router.Use(realip.Middleware(realip.Config{
		TrustProxy:     s.cfg.Proxy.TrustProxy,
		TrustedProxies: s.cfg.Proxy.TrustedProxies,
	}))

	// 2. Security filter (blocks malicious patterns, bypasses health checks)
	s.router.Use(security.FilterMiddleware(s.cfg.Security.FilterEnabled))

	// 3. Body size limit
	s.router.Use(security.MaxBodySizeMiddleware(s.cfg.Security.MaxBodySizeMB))

	// 4. Rate limiting (bypasses health checks)
	s.router.Use(ratelimit.Middleware(ratelimit.Config{
		Enabled:        s.cfg.RateLimit.Enabled,
		RequestsPerMin: s.cfg.RateLimit.RequestsPerMin,
		BurstSize:      s.cfg.RateLimit.BurstSize,
		CleanupMinutes: s.cfg.RateLimit.CleanupMinutes,
	}))

	// 5. Standard middleware
	s.router.Use(middleware.RequestID)
	s.router.Use(logging.Middleware(s.logger))
	s.router.Use(metrics.Middleware)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	// 6. CORS for the browser frontend
	s.router.Use(cors.New(cors.Options{
		AllowedOrigins: s.cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
	}).Handler)
}

func (s *Server) setupRoutes() {
	// Health checks
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/readyz", s.handleHealth)

	// Prometheus metrics (404 when disabled)
	s.router.Handle("/metrics", metrics.Handler())

	// Create HTTP handlers for each domain
	deploymentsHandler := deploymentsTransport.NewHandler(s.deploymentsSvc)
	metadataHandler := metadataTransport.NewHandler(s.metadataSvc)

	// Auth middleware for write operations
	requireAuth := func(r chi.Router) {
		if s.cfg.Auth.Type == "api-key" {
			r.Use(auth.Middleware(s.store, writeError))
		}
	}

	// API v1 routes
	s.router.Route("/api/v1", func(r chi.Router) {
		// Deployments - split read/write
		r.Route("/deployments", func(r chi.Router) {
			// Read operations - no auth required
			deploymentsHandler.RegisterReadRoutes(r)

			// Write operations - auth required
			r.Group(func(r chi.Router) {
				requireAuth(r)
				deploymentsHandler.RegisterWriteRoutes(r)
			})
		})

		// Metadata - split read/write
		r.Route("/metadata", func(r chi.Router) {
			// Read operations - no auth required
			metadataHandler.RegisterReadRoutes(r)

			// Write operations - auth required
			r.Group(func(r chi.Router) {
				requireAuth(r)
				metadataHandler.RegisterWriteRoutes(r)
			})
		})

		// Network catalog - read only (no auth)
		r.Get("/networks", s.handleNetworks)
	})
}

// Health check handler
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":     "ok",
		"version":    s.version,
		"apiVersion": APIVersion,
	})
}

// networkEntry is one catalog entry in the networks listing.
type networkEntry struct {
	Key             string `json:"key"`
	DisplayName     string `json:"displayName"`
	Kind            string `json:"kind"`
	ChainID         int64  `json:"chainId,omitempty"`
	Symbol          string `json:"symbol"`
	DefaultDecimals uint8  `json:"defaultDecimals"`
	ExplorerURL     string `json:"explorerUrl"`
	Testnet         bool   `json:"testnet"`
}

func (s *Server) handleNetworks(w http.ResponseWriter, r *http.Request) {
	list := s.registry.List()
	entries := make([]networkEntry, len(list))
	for i, n := range list {
		entries[i] = networkEntry{
			Key:             n.Key,
			DisplayName:     n.DisplayName,
			Kind:            string(n.Kind),
			ChainID:         n.ChainID,
			Symbol:          n.Symbol,
			DefaultDecimals: n.DefaultDecimals,
			ExplorerURL:     n.ExplorerURL,
			Testnet:         n.Testnet,
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": entries})
}

// Helper functions

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	})
}
