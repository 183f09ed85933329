// Package web serves the extraction service over HTTP: a JSON API under
// /api, HTML pages for pasting text and viewing results, a health check and
// Prometheus metrics.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/JonMunkholm/patternhive/internal/config"
	"github.com/JonMunkholm/patternhive/internal/core"
	mw "github.com/JonMunkholm/patternhive/internal/web/middleware"
	"github.com/JonMunkholm/patternhive/internal/web/templates"
	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	// multipartOverhead is allowed on top of the file size limit for form
	// boundaries and headers.
	multipartOverhead = 1 << 20

	// multipartMemory is how much of an upload is buffered in memory before
	// spilling to a temp file.
	multipartMemory = 8 << 20
)

// Server is the HTTP server for PatternHive.
type Server struct {
	service *core.Service
	cfg     *config.Config
	metrics *core.Metrics
	router  *chi.Mux
	server  *http.Server

	// stop ends the rate limiter cleanup goroutines.
	stop context.CancelFunc
}

// NewServer creates a Server. metrics may be nil, in which case no metrics
// route is mounted.
func NewServer(service *core.Service, cfg *config.Config, metrics *core.Metrics) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		service: service,
		cfg:     cfg,
		metrics: metrics,
		router:  chi.NewRouter(),
		stop:    cancel,
	}
	s.setupMiddleware(ctx)
	s.setupRoutes(ctx)
	return s
}

func (s *Server) setupMiddleware(ctx context.Context) {
	s.router.Use(middleware.RequestID)
	s.router.Use(mw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
	s.router.Use(securityHeaders(s.cfg.Security.EnableCSP))

	if s.cfg.Rate.Enabled {
		limiter := newRateLimiter(ctx, s.cfg.Rate.RequestsPerMinute, time.Minute)
		s.router.Use(s.rateLimit(limiter))
	}
}

func (s *Server) setupRoutes(ctx context.Context) {
	uploads := func(next http.Handler) http.Handler { return next }
	if s.cfg.Rate.Enabled {
		uploads = s.rateLimit(newRateLimiter(ctx, s.cfg.Rate.UploadLimit, time.Minute))
	}

	// Pages
	s.router.Method(http.MethodGet, "/", templ.Handler(templates.Index(s.cfg.Extract.MaxFileSize>>20)))
	s.router.Post("/extract", s.handleExtractForm)
	s.router.With(uploads).Post("/upload", s.handleUploadForm)
	s.router.Get("/results/{sessionID}", s.handleResultsPage)
	s.router.Get("/export/{format}/{sessionID}", s.handleExport)

	s.router.Get("/healthz", s.handleHealth)
	if s.metrics != nil && s.cfg.Metrics.Enabled {
		s.router.Method(http.MethodGet, s.cfg.Metrics.Path, s.metrics.Handler())
	}

	s.router.Route("/api", func(r chi.Router) {
		r.Use(mw.APIKeyAuth(s.cfg.Security))

		r.Post("/extract", s.handleExtract)
		r.With(uploads).Post("/upload", s.handleUpload)
		r.Get("/results/{sessionID}", s.handleResult)
		r.Get("/export/{format}/{sessionID}", s.handleExport)
	})
}

// Start listens on the configured address until Shutdown.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("starting server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown stops accepting requests and waits for active ones to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	s.stop()
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

const contentSecurityPolicy = "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; form-action 'self'; frame-ancestors 'none'"

// securityHeaders adds security headers to all responses.
func securityHeaders(enableCSP bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			if enableCSP {
				w.Header().Set("Content-Security-Policy", contentSecurityPolicy)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// writeJSON encodes v as JSON with a 200 status. Encoding errors are only
// logged since the header is already sent.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
