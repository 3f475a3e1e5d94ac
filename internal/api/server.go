// Package api serves the layout pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz                          liveness and version
//	POST /v1/layout                        lay out a JSON edge list
//	GET  /v1/runs/{runID}                  roots stored for a run
//	GET  /v1/runs/{runID}/trees/{root}     one stored tree, in any export format
//
// Every successful layout is saved in the runner's store under a fresh run
// id, returned in the X-Run-ID header.
package api

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/treelayout/pkg/observability"
	"github.com/matzehuels/treelayout/pkg/pipeline"
	"github.com/matzehuels/treelayout/pkg/store"
)

// HeaderRunID carries the run id of a layout response.
const HeaderRunID = "X-Run-ID"

// DefaultMaxBodyBytes bounds request bodies when Config leaves it unset.
const DefaultMaxBodyBytes = 32 << 20

// Config configures a [Server].
type Config struct {
	// Defaults seeds the pipeline options of every request (workers,
	// formats, scale). Request fields override it.
	Defaults pipeline.Options

	MaxBodyBytes    int64
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Server is the HTTP front end of a [pipeline.Runner].
type Server struct {
	runner *pipeline.Runner
	cfg    Config
	logger *log.Logger
}

// NewServer creates a server around runner. A runner without a store gets
// an in-memory one, since run lookups need somewhere to read from.
func NewServer(runner *pipeline.Runner, cfg Config, logger *log.Logger) *Server {
	if runner.Store == nil {
		runner.Store = store.NewMemoryStore()
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	if logger == nil {
		logger = runner.Logger
	}
	return &Server{runner: runner, cfg: cfg, logger: logger}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Group(func(r chi.Router) {
		// Group middleware runs after routing, so the route pattern is known.
		r.Use(observe)

		r.Get("/healthz", s.handleHealth)
		r.Post("/v1/layout", s.handleLayout)
		r.Get("/v1/runs/{runID}", s.handleRun)
		r.Get("/v1/runs/{runID}/trees/{root}", s.handleTree)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, notFound("no route for %s %s", r.Method, r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Code: "METHOD_NOT_ALLOWED", Message: r.Method + " not allowed"})
	})
	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.Server()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		// The pattern is only known once the router has matched.
		route := chi.RouteContext(r.Context()).RoutePattern()
		hooks.OnResponse(r.Context(), r.Method, route, status, time.Since(start))
	})
}
