// Package server assembles the HTTP surface: pages, content API,
// generators, diagnostics and metrics behind one chi router.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ziadkadry99/youthsite/internal/content"
	"github.com/ziadkadry99/youthsite/internal/diagnostics"
	"github.com/ziadkadry99/youthsite/internal/generator"
	"github.com/ziadkadry99/youthsite/internal/logging"
	"github.com/ziadkadry99/youthsite/internal/metrics"
	"github.com/ziadkadry99/youthsite/internal/site"
)

// Config holds server configuration.
type Config struct {
	Port     int
	AllowAll bool // allow all CORS origins (dev mode)
}

// Deps are the feature components mounted on the router. Nil members are
// skipped, except Catalog which every page needs.
type Deps struct {
	Catalog     *content.Catalog
	Site        *site.Site
	Generator   *generator.Client
	Diagnostics *diagnostics.Store
	Metrics     *metrics.Manager
}

// Server is the youthsite HTTP server.
type Server struct {
	cfg        Config
	deps       Deps
	logger     *slog.Logger
	router     chi.Router
	httpServer *http.Server
}

// New creates a server with all routes registered.
func New(cfg Config, deps Deps, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Server{
		cfg:    cfg,
		deps:   deps,
		logger: logger.With(logging.Scope("server")),
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	if s.deps.Metrics != nil {
		r.Use(s.deps.Metrics.Middleware)
	}

	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"version": Version})
	})

	if s.deps.Metrics != nil {
		r.Handle("/metrics", s.deps.Metrics.Handler())
	}

	if s.deps.Generator != nil {
		generator.RegisterRoutes(r, s.deps.Generator, s.logger)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))
		if s.deps.Catalog != nil {
			content.RegisterRoutes(r, s.deps.Catalog)
		}
		if s.deps.Diagnostics != nil {
			diagnostics.RegisterRoutes(r, s.deps.Diagnostics)
		}
		if s.deps.Site != nil {
			s.deps.Site.RegisterRoutes(r)
		}
	})

	return r
}

// requestLogger logs one line per request through slog, in place of chi's
// stdlib-log Logger middleware.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Int("bytes", ww.BytesWritten()),
			slog.Duration("elapsed", time.Since(start)),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// Version is stamped at build time with -ldflags.
var Version = "dev"

// Router returns the chi router.
func (s *Server) Router() chi.Router { return s.router }

// Addr is the listen address derived from the configured port.
func (s *Server) Addr() string { return fmt.Sprintf(":%d", s.cfg.Port) }

// Start begins listening on the configured port. It returns
// http.ErrServerClosed after Shutdown.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.logger.Info("youthsite server listening", slog.String("addr", s.Addr()))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
