package pinger

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"sync/atomic"
	"time"

	"github.com/skillcoder/downscaler-controller/internal/infra/shutdown"
)

const defaultPingTimeout = time.Second

// Result is the outcome of the last ping of one component.
type Result struct {
	Critical bool          `json:"critical"`
	LastRun  time.Time     `json:"lastRun"`
	Latency  time.Duration `json:"latency"`
	Error    string        `json:"error,omitempty"`
}

// OK reports whether the component answered its last ping.
func (r Result) OK() bool {
	return !r.LastRun.IsZero() && r.Error == ""
}

type registration struct {
	pinger   Pinger
	critical bool
	timeout  time.Duration
}

// Service periodically pings registered components and keeps their last result.
type Service struct {
	logger     *slog.Logger
	interval   time.Duration
	mu         sync.RWMutex
	pingers    map[string]registration
	results    map[string]Result
	ready      chan struct{}
	inShutdown atomic.Bool
	doneCh     chan struct{}
}

// New creates a new pinger service with the specified interval
func New(logger *slog.Logger, interval time.Duration) *Service {
	return &Service{
		logger:   logger,
		interval: interval,
		pingers:  make(map[string]registration),
		results:  make(map[string]Result),
		ready:    make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

var _ shutdown.Shutdowner = (*Service)(nil)

func (s *Service) Name() string {
	return "pinger-service"
}

// Register adds a component. Components are critical unless they say otherwise.
func (s *Service) Register(p Pinger) error {
	if p == nil {
		return fmt.Errorf("register pinger: %w", ErrNilPinger)
	}

	reg := registration{
		pinger:   p,
		critical: true,
		timeout:  defaultPingTimeout,
	}

	if cp, ok := p.(criticalPinger); ok {
		reg.critical = cp.PingerCritical()
	}

	if tp, ok := p.(timeoutPinger); ok && tp.PingerTimeout() > 0 {
		reg.timeout = tp.PingerTimeout()
	}

	name := p.Name()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.pingers[name]; exists {
		return fmt.Errorf("register pinger %s: %w", name, ErrPingerAlreadyRegistered)
	}

	s.pingers[name] = reg
	s.results[name] = Result{Critical: reg.critical}

	s.logger.Info("pinger registered", "name", name, "critical", reg.critical, "timeout", reg.timeout)

	return nil
}

func (s *Service) Start(ctx context.Context) error {
	if s.inShutdown.Load() {
		s.logger.InfoContext(ctx, "pinger service is shutting down, skipping start")

		return nil
	}

	go s.run(ctx)

	return nil
}

// Ready is closed after the first round of pings.
func (s *Service) Ready() <-chan struct{} {
	return s.ready
}

func (s *Service) Shutdown(ctx context.Context) error {
	if !s.inShutdown.CompareAndSwap(false, true) {
		s.logger.ErrorContext(ctx, "pinger service is already shutting down, skipping shutdown")

		return nil
	}

	s.logger.InfoContext(ctx, "shutting down pinger service")

	select {
	case <-ctx.Done():
		return fmt.Errorf("shutdown context done before pinger loop exited: %w", ctx.Err())
	case <-s.doneCh:
		s.logger.InfoContext(ctx, "pinger loop exited")
	}

	return nil
}

// Results returns a copy of the last result of every component.
func (s *Service) Results() map[string]Result {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return maps.Clone(s.results)
}

// Healthy reports whether every critical component answered its last ping.
func (s *Service) Healthy() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.results {
		if r.Critical && !r.OK() {
			return false
		}
	}

	return true
}

func (s *Service) run(ctx context.Context) {
	defer close(s.doneCh)

	logger := s.logger.With("component", "pinger-run")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.pingAll(ctx, logger)
	close(s.ready)

	for {
		if s.inShutdown.Load() {
			logger.InfoContext(ctx, "terminating pinger loop")

			return
		}

		select {
		case <-ticker.C:
			s.pingAll(ctx, logger)
		case <-ctx.Done():
			logger.InfoContext(ctx, "terminating pinger loop")

			return
		}
	}
}

// pingAll pings all components in parallel and waits for them.
func (s *Service) pingAll(ctx context.Context, logger *slog.Logger) {
	s.mu.RLock()
	pingers := maps.Clone(s.pingers)
	s.mu.RUnlock()

	var wg sync.WaitGroup

	for name, reg := range pingers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			pingCtx, cancel := context.WithTimeout(ctx, reg.timeout)
			defer cancel()

			start := time.Now()
			err := reg.pinger.Ping(pingCtx)
			latency := time.Since(start)

			result := Result{
				Critical: reg.critical,
				LastRun:  start,
				Latency:  latency,
			}

			if err != nil {
				result.Error = err.Error()

				logger.DebugContext(ctx, "pinger error", "name", name, "latency", latency, "reason", err)
			}

			s.mu.Lock()
			s.results[name] = result
			s.mu.Unlock()
		}()
	}

	wg.Wait()
}
