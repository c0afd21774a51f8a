package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/skillcoder/downscaler-controller/internal/infra/shutdown"
)

const defaultMetricsPort = "9090"

// MetricsServer serves Prometheus metrics on a dedicated port.
type MetricsServer struct {
	logger     *slog.Logger
	port       string
	server     *http.Server
	ready      chan struct{}
	inShutdown atomic.Bool
}

// NewMetricsServer creates a new metrics server that serves GET /metrics on the given port.
func NewMetricsServer(logger *slog.Logger, port string) *MetricsServer {
	if port == "" {
		port = defaultMetricsPort
	}

	return &MetricsServer{
		logger: logger,
		port:   port,
		ready:  make(chan struct{}),
	}
}

var _ shutdown.Shutdowner = (*MetricsServer)(nil)

func (s *MetricsServer) Name() string {
	return "metrics-server"
}

func (s *MetricsServer) Ping(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.ready:
		return nil
	default:
		return fmt.Errorf("metrics server is not ready")
	}
}

// PingerCritical marks the metrics server as non-critical for readiness.
func (s *MetricsServer) PingerCritical() bool {
	return false
}

func (s *MetricsServer) Start(ctx context.Context) error {
	if s.inShutdown.Load() {
		s.logger.InfoContext(ctx, "metrics server is shutting down, skipping start")

		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	addr := ":" + s.port
	s.server = newHTTPServer(addr, mux)

	listener, err := listen(ctx, addr)
	if err != nil {
		return fmt.Errorf("listen metrics tcp: %w", err)
	}

	s.logger.InfoContext(ctx, "metrics server listening", "addr", listener.Addr().String())

	go func() {
		close(s.ready)

		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.ErrorContext(ctx, "metrics server error", "reason", err)
		}
	}()

	return nil
}

func (s *MetricsServer) Ready() <-chan struct{} {
	return s.ready
}

func (s *MetricsServer) Shutdown(ctx context.Context) error {
	if !s.inShutdown.CompareAndSwap(false, true) {
		s.logger.ErrorContext(ctx, "metrics server is already shutting down, skipping shutdown")

		return nil
	}

	return shutdownHTTPServer(ctx, s.logger, s.Name(), s.server)
}
