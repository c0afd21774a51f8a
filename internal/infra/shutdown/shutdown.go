package shutdown

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// DefaultTimeout bounds the whole graceful shutdown.
const DefaultTimeout = 10 * time.Second

// Notify returns a channel that will receive SIGTERM and SIGINT signals.
// This should be called as the first thing in main() before any other initialization.
func Notify() <-chan os.Signal {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGTERM, syscall.SIGINT)

	return signals
}

// CheckTerminationFile reports whether the termination file exists.
// An empty path disables the check.
func CheckTerminationFile(ctx context.Context, logger *slog.Logger, path string) bool {
	if path == "" {
		return false
	}

	_, err := os.Stat(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.ErrorContext(ctx, "error checking termination file", "reason", err, "path", path)
		}

		return false
	}

	logger.InfoContext(ctx, "termination file found", "path", path)

	return true
}

// GracefulShutdown shuts the components down in reverse order within timeout.
// All components are asked to shut down even if some of them fail.
func GracefulShutdown(
	originCtx context.Context,
	logger *slog.Logger,
	timeout time.Duration,
	shutdowners []Shutdowner,
) error {
	// shutdown must continue even if originCtx is cancelled
	ctx, cancel := context.WithTimeout(context.WithoutCancel(originCtx), timeout)
	defer cancel()

	var errs error

	for i := len(shutdowners) - 1; i >= 0; i-- {
		start := time.Now()
		shutdowner := shutdowners[i]
		name := shutdowner.Name()

		if err := shutdowner.Shutdown(ctx); err != nil {
			logger.ErrorContext(ctx, "component shutdown failed",
				"component", name,
				"duration", time.Since(start),
				"reason", err,
			)

			errs = errors.Join(errs, fmt.Errorf("%s: %w", name, err))

			continue
		}

		logger.InfoContext(ctx, "component shutdown completed",
			"component", name,
			"duration", time.Since(start),
		)
	}

	return errs
}
