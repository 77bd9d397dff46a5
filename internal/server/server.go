// Package server exposes detection, normalization, and splitting over HTTP.
package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/leapstack-labs/sqlnorm/pkg/normalize"
	"golang.org/x/sync/errgroup"
)

// Config holds configuration for the HTTP API.
type Config struct {
	Host string
	Port int
	// MaxBodyBytes caps a request body; larger bodies get 413.
	MaxBodyBytes int64
	// MaxStatements caps how many statements one request may carry; larger
	// scripts get 422.
	MaxStatements int
	Logger        *slog.Logger
}

// Server is the HTTP API server.
type Server struct {
	cfg      Config
	pipeline *normalize.Pipeline
	logger   *slog.Logger
}

// New creates a new API server instance.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{
		cfg:      cfg,
		pipeline: normalize.New(normalize.WithLogger(logger)),
		logger:   logger,
	}
}

// Routes builds the HTTP handler. Exposed separately so tests can drive it
// through httptest without a listener.
func (s *Server) Routes() http.Handler {
	r := chi.NewMux()
	r.Use(
		s.requestID,
		s.logRequests,
		middleware.Recoverer,
	)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/detect", s.handleDetect)
		r.Post("/normalize", s.handleNormalize)
		r.Post("/split", s.handleSplit)
	})

	return r
}

// Serve starts the API server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	s.logger.Info("starting API server", "addr", addr)

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: s.Routes(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down API server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

type requestIDKey struct{}

// requestID tags every request with a UUID, echoed in the response header
// and attached to log lines.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		id, _ := r.Context().Value(requestIDKey{}).(string)
		s.logger.Info("request",
			"id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}
