// Package server exposes the layout engine over HTTP for browser-style
// presentation layers.
//
// The server is a thin consumer of the engine: it owns view sessions and
// request plumbing, while every layout decision stays in pkg/layout. Each
// session holds its capped graph, the parameters in effect, and display
// state; computing a layout or focusing a node runs through the same
// scheduler the CLI uses, with the request context cancelling a run
// between batches when the client disconnects.
//
// Endpoints:
//
//	POST   /api/sessions              create a view session
//	GET    /api/sessions/{id}         session info (generation, focus)
//	DELETE /api/sessions/{id}         drop a session
//	POST   /api/sessions/{id}/layout  compute a base layout
//	POST   /api/sessions/{id}/focus   focus a node
//	DELETE /api/sessions/{id}/focus   restore the base layout
//	POST   /api/stats                 graph summary without a session
//	GET    /healthz                   liveness probe
//
// Errors are JSON envelopes carrying pkg/errors codes.
package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/imran31415/forcefield/pkg/config"
	"github.com/imran31415/forcefield/pkg/layout"
	"github.com/imran31415/forcefield/pkg/observability"
	"github.com/imran31415/forcefield/pkg/view"
)

const (
	// sweepInterval is how often expired sessions are collected.
	sweepInterval = 5 * time.Minute

	// shutdownTimeout bounds graceful shutdown on context cancellation.
	shutdownTimeout = 10 * time.Second

	readHeaderTimeout = 10 * time.Second
)

// Server wires the layout engine, session store, and configuration into
// an HTTP handler.
type Server struct {
	config *config.Config
	engine *layout.Engine
	store  *view.Store
	logger *log.Logger
}

// New creates a Server. A nil config selects the built-in defaults and a
// nil logger discards all output.
func New(cfg *config.Config, logger *log.Logger) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Server{
		config: cfg,
		engine: layout.NewEngine(logger),
		store:  view.NewStore(cfg.Server.SessionTTL.Duration, logger),
		logger: logger,
	}
}

// Handler builds the chi router with the full middleware stack.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)
	r.Route("/api", func(r chi.Router) {
		r.Post("/stats", s.handleStats)
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)
			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", s.handleSessionInfo)
				r.Delete("/", s.handleDeleteSession)
				r.Post("/layout", s.handleLayout)
				r.Post("/focus", s.handleFocus)
				r.Delete("/focus", s.handleUnfocus)
			})
		})
	})
	return r
}

// ListenAndServe runs the server until ctx is cancelled, then shuts down
// gracefully. A background sweep keeps the session store from
// accumulating abandoned sessions.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Server.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go s.store.Sweep(ctx, sweepInterval)

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	s.logger.Info("server listening", "addr", s.config.Server.Addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "sessions", s.store.Len())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// requestLogger times each request, reports it to the server hooks, and
// writes one structured log line per response.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		observability.Server().OnRequest(r.Context(), r.Method, r.URL.Path)
		next.ServeHTTP(ww, r)
		duration := time.Since(start)
		observability.Server().OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), duration)

		s.logger.Info("request",
			"method", r.Method, "path", r.URL.Path,
			"status", ww.Status(), "bytes", ww.BytesWritten(),
			"duration", duration,
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// handleHealthz is a plain liveness probe.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodGet {
		_, _ = w.Write([]byte("OK"))
	}
}
