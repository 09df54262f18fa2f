// Package server implements the drawbridge HTTP API.
//
// The server exposes the conversion pipeline over HTTP for editor
// integrations and automation:
//
//	POST /convert            raw diagram source → artifact (?name=, ?format=)
//	POST /convert/combined   several sources → one multi-page document
//	GET  /healthz            liveness probe
//	POST /diagrams           convert and persist source + XML
//	GET  /diagrams           list stored diagrams
//	GET  /diagrams/{id}      fetch one stored diagram
//
// Stored diagrams live in MongoDB when configured, otherwise in memory.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/drawbridge/pkg/errors"
	"github.com/matzehuels/drawbridge/pkg/pipeline"
)

// Config holds server settings.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string
}

// Server wires the router, the conversion runner and the document store.
type Server struct {
	cfg    Config
	runner *pipeline.Runner
	store  Store
	logger *log.Logger
	router chi.Router
}

// New creates a server. A nil store falls back to in-memory storage and
// a nil logger to the default logger.
func New(cfg Config, runner *pipeline.Runner, store Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if store == nil {
		store = NewMemoryStore()
	}
	s := &Server{
		cfg:    cfg,
		runner: runner,
		store:  store,
		logger: logger,
	}
	s.router = s.routes()
	return s
}

// Handler returns the configured router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)
	r.Post("/convert", s.handleConvert)
	r.Post("/convert/combined", s.handleConvertCombined)

	r.Route("/diagrams", func(r chi.Router) {
		r.Post("/", s.handleSaveDiagram)
		r.Get("/", s.handleListDiagrams)
		r.Get("/{id}", s.handleGetDiagram)
	})

	return r
}

// Start runs the server until ctx is canceled, then shuts down
// gracefully with a 10 second drain window.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(errors.ErrCodeInternal, err, "server failed")
	case <-ctx.Done():
	}

	s.logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "shutdown")
	}
	return nil
}

// requestLogger logs one line per request through the application logger.
func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start))
		})
	}
}
