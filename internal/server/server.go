// Package server exposes the resume scorer over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/dotcommander/atscore/internal/config"
	"github.com/dotcommander/atscore/internal/logger"
	"github.com/dotcommander/atscore/internal/scoring"
)

const (
	// ServiceName is reported by the health endpoint.
	ServiceName = "atscore"

	shutdownTimeout      = 10 * time.Second
	limiterCleanupPeriod = 10 * time.Minute
)

// Server is the HTTP scoring service.
type Server struct {
	cfg     config.ServeConfig
	version string
	scorer  scoring.Scorer
	limiter *RateLimiter
	metrics *Metrics
	logger  *zap.Logger
	handler http.Handler
}

// New validates cfg and builds a Server.
func New(cfg config.ServeConfig, version string, log *zap.Logger) (*Server, error) {
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid serve configuration: %w", err)
	}

	s := &Server{
		cfg:     cfg,
		version: version,
		scorer:  scoring.NewATSScorer(),
		metrics: NewMetrics(),
		logger:  logger.OrNop(log),
	}

	if cfg.RateLimit.Enabled {
		s.limiter = NewRateLimiter(cfg.RateLimit.RequestsPerMin, cfg.RateLimit.Burst, limiterCleanupPeriod)
	}

	s.handler = s.routes()
	return s, nil
}

// routes configures all HTTP routes and middleware
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("POST /score", s.rateLimitMiddleware(s.requestSizeLimitMiddleware(http.HandlerFunc(s.scoreHandler))))
	mux.HandleFunc("GET /health", s.healthHandler)
	mux.Handle("GET /metrics", s.metrics.Handler())

	return requestIDMiddleware(s.instrumentMiddleware(mux))
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer s.Close()

	httpServer := &http.Server{
		Handler:           s.handler,
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		ErrorLog:          zap.NewStdLog(s.logger),
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", zap.String("address", ln.Addr().String()))
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
		close(serverErrors)
	}()

	select {
	case err := <-serverErrors:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// Close releases background resources.
func (s *Server) Close() {
	if s.limiter != nil {
		s.limiter.Close()
	}
}
