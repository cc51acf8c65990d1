// Package server exposes the layout pipeline over HTTP.
//
// The API is a thin shell around [pipeline.Runner]: requests either name a
// stored project or carry an inline snapshot, and responses are the layout
// engines' JSON output plus cache and timing metadata. All layout semantics
// live in the engines; the server never adjusts positions.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/hessam/chronos/pkg/buildinfo"
	"github.com/hessam/chronos/pkg/pipeline"
)

// Config holds server settings.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// ReadTimeout bounds request reads; zero means 15s.
	ReadTimeout time.Duration

	// WriteTimeout bounds response writes; zero means 60s. Renders of large
	// stories can take a while.
	WriteTimeout time.Duration
}

// Server is the HTTP API front end.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	cfg    Config
}

// New creates a server over the given runner.
func New(runner *pipeline.Runner, logger *log.Logger, cfg Config) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 15 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 60 * time.Second
	}
	return &Server{runner: runner, logger: logger, cfg: cfg}
}

// Router builds the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/layouts/graph", s.handleGraphLayout)
		r.Post("/layouts/timeline", s.handleTimelineLayout)
		r.Post("/resolve", s.handleResolve)
		r.Post("/render", s.handleRender)
		r.Get("/projects/{project}/snapshot", s.handleSnapshot)
	})

	return r
}

// ListenAndServe runs the server until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Router(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr, "version", buildinfo.Version)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
