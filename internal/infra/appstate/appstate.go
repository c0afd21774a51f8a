package appstate

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"syscall"
	"time"

	"github.com/skillcoder/downscaler-controller/internal/infra/shutdown"
)

// State represents the application state
type State string

const (
	StateInit        State = "init"
	StateStarting    State = "starting"
	StateRunning     State = "running"
	StateTerminating State = "terminating"
	StateTerminated  State = "terminated"
)

// AppState tracks the application lifecycle. Transitions only move forward:
// init, starting, running, terminating, terminated.
type AppState struct {
	mu                  sync.RWMutex
	logger              *slog.Logger
	startedAt           time.Time
	readyAt             time.Time
	terminatingAt       time.Time
	state               State
	terminationFilePath string
}

// New creates a new AppState. An empty terminationFilePath disables the
// termination file check.
func New(logger *slog.Logger, startedAt time.Time, terminationFilePath string) *AppState {
	return &AppState{
		logger:              logger,
		startedAt:           startedAt,
		state:               StateInit,
		terminationFilePath: terminationFilePath,
	}
}

// SetStarting transitions the state from Init to Starting
func (s *AppState) SetStarting(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.transition(StateInit, StateStarting)
}

// SetRunning transitions the state from Starting to Running. If the termination
// file appeared during startup the process signals itself to stop.
func (s *AppState) SetRunning(ctx context.Context) error {
	s.mu.Lock()

	err := s.transition(StateStarting, StateRunning)
	if err == nil {
		s.readyAt = time.Now()
	}

	s.mu.Unlock()

	if err != nil {
		return err
	}

	if shutdown.CheckTerminationFile(ctx, s.logger, s.terminationFilePath) {
		pid := os.Getpid()
		s.logger.InfoContext(ctx, "termination file found after initialization, sending SIGTERM", "pid", pid)

		if killErr := syscall.Kill(pid, syscall.SIGTERM); killErr != nil {
			s.logger.ErrorContext(ctx, "failed to send SIGTERM", "reason", killErr, "pid", pid)
		}
	}

	return nil
}

// SetTerminating moves any non-terminated state to Terminating.
func (s *AppState) SetTerminating(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateTerminated:
		return fmt.Errorf("set terminating: %w", ErrAlreadyTerminated)
	case StateTerminating:
		return nil
	case StateInit, StateStarting, StateRunning:
	}

	s.terminatingAt = time.Now()
	s.state = StateTerminating

	return nil
}

// SetTerminated transitions the state from Terminating to Terminated
func (s *AppState) SetTerminated(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.transition(StateTerminating, StateTerminated)
}

func (s *AppState) transition(from, to State) error {
	if s.state == StateTerminated {
		return fmt.Errorf("set %s: %w", to, ErrAlreadyTerminated)
	}

	if s.state != from {
		return fmt.Errorf("set %s from %s: %w", to, s.state, ErrInvalidStateTransition)
	}

	s.state = to

	return nil
}

func (s *AppState) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state
}

func (s *AppState) StartedAt() time.Time {
	return s.startedAt
}

func (s *AppState) Uptime() time.Duration {
	return time.Since(s.startedAt)
}

// ReadyAt returns when the application reached Running, zero before that.
func (s *AppState) ReadyAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.readyAt
}
