package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/skillcoder/downscaler-controller/internal/infra/shutdown"
)

// Server serves the health, readiness and status endpoints.
type Server struct {
	logger     *slog.Logger
	appState   appStater
	checker    componentChecker
	passes     passReporter
	port       string
	server     *http.Server
	ready      chan struct{}
	inShutdown atomic.Bool
}

// New creates a new HTTP server instance
func New(
	logger *slog.Logger,
	port string,
	appState appStater,
	checker componentChecker,
	passes passReporter,
) *Server {
	if port == "" {
		port = defaultPort
	}

	return &Server{
		logger:   logger,
		appState: appState,
		checker:  checker,
		passes:   passes,
		port:     port,
		ready:    make(chan struct{}),
	}
}

var _ shutdown.Shutdowner = (*Server)(nil)

// Name returns the name of the server component
func (s *Server) Name() string {
	return "http-server"
}

// Ping returns nil when the server is ready to serve.
func (s *Server) Ping(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.ready:
		return nil
	default:
		return fmt.Errorf("http server is not ready")
	}
}

// Handler returns the router with all endpoints.
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)

	router.Get("/-/healthz", s.handleHealthz)
	router.Get("/-/readyz", s.handleReadyz)
	router.Get("/-/status", s.handleStatus)

	return router
}

// Start listens on the configured port and serves in a goroutine.
func (s *Server) Start(ctx context.Context) error {
	if s.inShutdown.Load() {
		s.logger.InfoContext(ctx, "http server is shutting down, skipping start")

		return nil
	}

	addr := ":" + s.port
	s.server = newHTTPServer(addr, s.Handler())

	listener, err := listen(ctx, addr)
	if err != nil {
		return fmt.Errorf("listen http tcp: %w", err)
	}

	s.logger.InfoContext(ctx, "http server listening", "addr", listener.Addr().String())

	go func() {
		close(s.ready)

		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.ErrorContext(ctx, "http server error", "reason", err)
		}
	}()

	return nil
}

// Ready returns a channel that is closed when the HTTP server is ready to serve requests
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	if !s.inShutdown.CompareAndSwap(false, true) {
		s.logger.ErrorContext(ctx, "http server is already shutting down, skipping shutdown")

		return nil
	}

	return shutdownHTTPServer(ctx, s.logger, s.Name(), s.server)
}

func newHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		MaxHeaderBytes:    maxHeaderBytes,
	}
}

func listen(ctx context.Context, addr string) (net.Listener, error) {
	lc := &net.ListenConfig{
		KeepAliveConfig: net.KeepAliveConfig{
			Enable: true,
		},
	}

	return lc.Listen(ctx, "tcp", addr)
}

func shutdownHTTPServer(ctx context.Context, logger *slog.Logger, name string, server *http.Server) error {
	logger.InfoContext(ctx, "shutting down", "component", name)

	if server == nil {
		return nil
	}

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("%s shutdown: %w", name, err)
	}

	logger.InfoContext(ctx, "closed properly", "component", name)

	return nil
}
