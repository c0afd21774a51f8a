package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/skillcoder/downscaler-controller/internal/adapters/outbound/k8s"
	"github.com/skillcoder/downscaler-controller/internal/config"
	"github.com/skillcoder/downscaler-controller/internal/httpserver"
	"github.com/skillcoder/downscaler-controller/internal/infra/appstate"
	"github.com/skillcoder/downscaler-controller/internal/infra/pinger"
	"github.com/skillcoder/downscaler-controller/internal/infra/shutdown"
	"github.com/skillcoder/downscaler-controller/internal/infra/timespec"
	"github.com/skillcoder/downscaler-controller/internal/logic/downscaler"
)

var ErrStartupInterrupted = errors.New("startup interrupted")

type App struct {
	logger     *slog.Logger
	cfg        *config.Config
	appState   *appstate.AppState
	downscaler *downscaler.Service
	components []component
	started    []shutdown.Shutdowner
}

// New creates a new application instance with all dependencies wired.
func New(logger *slog.Logger, cfg *config.Config, appState *appstate.AppState) (*App, error) {
	kubeConfig, err := clientcmd.BuildConfigFromFlags(cfg.KubeMaster, cfg.KubeConfig)
	if err != nil {
		return nil, fmt.Errorf("build k8s config: %w", err)
	}

	clientset, err := kubernetes.NewForConfig(kubeConfig)
	if err != nil {
		return nil, fmt.Errorf("create clientset: %w", err)
	}

	dynamicClient, err := dynamic.NewForConfig(kubeConfig)
	if err != nil {
		return nil, fmt.Errorf("create dynamic client: %w", err)
	}

	repo := k8s.New(logger, clientset, dynamicClient)
	service := downscaler.New(logger, repo, timespec.New(), cfg.DownscalerOptions())

	pingers := pinger.New(logger, cfg.PingerInterval)
	metricsServer := httpserver.NewMetricsServer(logger, cfg.MetricsPort)
	httpServer := httpserver.New(logger, cfg.HTTPPort, appState, pingers, service)

	for _, p := range []pinger.Pinger{service, httpServer, metricsServer} {
		if err := pingers.Register(p); err != nil {
			return nil, fmt.Errorf("register pinger: %w", err)
		}
	}

	return &App{
		logger:     logger,
		cfg:        cfg,
		appState:   appState,
		downscaler: service,
		// started in order, shut down in reverse order
		components: []component{metricsServer, httpServer, service, pingers},
	}, nil
}

// Run starts the application and blocks until a signal arrives or ctx is done.
// In once mode a single pass runs and Run returns.
func (a *App) Run(ctx context.Context, signals <-chan os.Signal) error {
	if a.cfg.Once {
		return a.runOnce(ctx)
	}

	if err := a.appState.SetStarting(ctx); err != nil {
		return fmt.Errorf("set starting: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	err := a.start(runCtx, signals)
	if errors.Is(err, ErrStartupInterrupted) {
		a.logger.InfoContext(ctx, "terminating during startup", "reason", err)

		err = nil
	} else if err == nil {
		a.logger.InfoContext(ctx, "downscaler controller running",
			"dryRun", a.cfg.DryRun,
			"namespace", a.cfg.Namespace,
			"kinds", a.cfg.Kinds,
		)

		select {
		case sig := <-signals:
			a.logger.InfoContext(ctx, "received termination signal", "signal", sig.String())
		case <-ctx.Done():
			a.logger.InfoContext(ctx, "context done, terminating")
		}
	}

	if termErr := a.appState.SetTerminating(ctx); termErr != nil {
		a.logger.ErrorContext(ctx, "failed to set terminating state", "reason", termErr)
	}

	cancel()

	shutdownErr := shutdown.GracefulShutdown(ctx, a.logger, shutdown.DefaultTimeout, a.started)

	if termErr := a.appState.SetTerminated(ctx); termErr != nil {
		a.logger.ErrorContext(ctx, "failed to set terminated state", "reason", termErr)
	}

	return errors.Join(err, shutdownErr)
}

func (a *App) start(ctx context.Context, signals <-chan os.Signal) error {
	ready := make([]<-chan struct{}, 0, len(a.components))

	for _, c := range a.components {
		if err := c.Start(ctx); err != nil {
			return fmt.Errorf("start %s: %w", c.Name(), err)
		}

		a.started = append(a.started, c)
		ready = append(ready, c.Ready())
	}

	select {
	case <-allChannelsClose(ctx, a.logger, ready...):
	case sig := <-signals:
		return fmt.Errorf("%w: signal %s", ErrStartupInterrupted, sig)
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrStartupInterrupted, ctx.Err())
	}

	if err := a.appState.SetRunning(ctx); err != nil {
		return fmt.Errorf("set running: %w", err)
	}

	return nil
}

func (a *App) runOnce(ctx context.Context) error {
	a.logger.InfoContext(ctx, "running a single pass", "dryRun", a.cfg.DryRun)

	summary, err := a.downscaler.ReconcileCommand(ctx)
	if err != nil {
		return fmt.Errorf("reconcile: %w", err)
	}

	if summary.Failed > 0 {
		a.logger.WarnContext(ctx, "pass finished with failures", "failed", summary.Failed)
	}

	return nil
}

// allChannelsClose returns a channel that is closed once every input channel is closed.
// If ctx is done first, the remaining channels are still awaited in the background.
func allChannelsClose(ctx context.Context, logger *slog.Logger, chans ...<-chan struct{}) <-chan struct{} {
	out := make(chan struct{})

	var wg sync.WaitGroup

	for _, ch := range chans {
		wg.Add(1)

		go func() {
			defer wg.Done()

			select {
			case <-ch:
			case <-ctx.Done():
				logger.DebugContext(ctx, "context done while waiting for readiness")
				<-ch
			}
		}()
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}
