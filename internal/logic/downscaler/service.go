package downscaler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/skillcoder/downscaler-controller/internal/infra/metrics"
)

// Options configures a Service.
type Options struct {
	// Namespace limits the pass to one namespace; empty means all namespaces.
	Namespace         string
	Kinds             []Kind
	ExcludeNamespaces map[string]struct{}
	ExcludeNames      map[Kind]map[string]struct{}
	Defaults          Defaults
	DryRun            bool
	// Interval is the pause between passes and the staleness slack used by Ping.
	Interval time.Duration
	// Scheduler overrides Interval for pass start times when set.
	Scheduler Scheduler
	// Now is the clock; defaults to time.Now.
	Now func() time.Time
}

type Service struct {
	logger     *slog.Logger
	repo       Repository
	engine     *Engine
	opts       Options
	now        func() time.Time
	ready      chan struct{}
	doneCh     chan struct{}
	inShutdown atomic.Bool
	mu         sync.RWMutex
	lastPass   *PassSummary
	lastEnd    time.Time
}

// New creates a new downscaler service.
func New(
	logger *slog.Logger,
	repo Repository,
	matcher TimeMatcher,
	opts Options,
) *Service {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		logger: logger,
		repo:   repo,
		engine: NewEngine(matcher),
		opts:   opts,
		now:    now,
		ready:  make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

func (s *Service) Start(ctx context.Context) error {
	if s.inShutdown.Load() {
		s.logger.InfoContext(ctx, "downscaler service is shutting down, skipping start")

		return nil
	}

	go s.RunCommand(ctx)

	return nil
}

// Name returns the name of the component
func (s *Service) Name() string {
	return "downscaler-controller"
}

// Ping fails until the first pass started, and when no pass finished in time.
func (s *Service) Ping(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.ready:
	default:
		return fmt.Errorf("downscaler service is not ready")
	}

	s.mu.RLock()
	lastEnd := s.lastEnd
	s.mu.RUnlock()

	if lastEnd.IsZero() {
		return nil
	}

	deadline := s.nextPass(lastEnd).Add(s.opts.Interval)
	if now := s.now(); now.After(deadline) {
		return fmt.Errorf("last reconcile was too long ago: %s", now.Sub(lastEnd).Round(time.Second).String())
	}

	return nil
}

func (s *Service) Shutdown(ctx context.Context) error {
	if !s.inShutdown.CompareAndSwap(false, true) {
		s.logger.ErrorContext(ctx, "downscaler service is already shutting down, skipping shutdown")

		return nil
	}

	defer func() {
		s.logger.InfoContext(ctx, "downscaler service shut down")
	}()

	s.logger.InfoContext(ctx, "shutting down downscaler service")

	select {
	case <-ctx.Done():
		return fmt.Errorf("shutdown context done before downscaler loop exited: %w", ctx.Err())
	case <-s.doneCh:
		s.logger.InfoContext(ctx, "downscaler loop exited")
	}

	return nil
}

func (s *Service) Ready() <-chan struct{} {
	return s.ready
}

// LastPass returns a copy of the summary of the last finished pass, or nil.
func (s *Service) LastPass() *PassSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.lastPass == nil {
		return nil
	}

	out := *s.lastPass
	out.Actions = make(map[Action]int, len(s.lastPass.Actions))

	for k, v := range s.lastPass.Actions {
		out.Actions[k] = v
	}

	return &out
}

// RunCommand runs reconciliation passes until the context is cancelled.
func (s *Service) RunCommand(ctx context.Context) {
	defer close(s.doneCh)

	logger := s.logger.With("controller", "RunCommand")

	close(s.ready)

	for {
		_, err := s.ReconcileCommand(ctx)
		if err != nil {
			logger.ErrorContext(ctx, "reconcile error", "reason", err)
		}

		now := s.now()
		timer := time.NewTimer(s.nextPass(now).Sub(now))

		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			logger.InfoContext(ctx, "terminating main downscaler loop")

			return
		}
	}
}

func (s *Service) nextPass(after time.Time) time.Time {
	if s.opts.Scheduler != nil {
		if next := s.opts.Scheduler.Next(after); !next.IsZero() {
			return next
		}

		s.logger.Warn("schedule has no next activation, falling back to interval",
			"interval", s.opts.Interval)
	}

	return after.Add(s.opts.Interval)
}

// ReconcileCommand runs one reconciliation pass over all included kinds.
// Failures of single resources are logged and do not abort the pass.
func (s *Service) ReconcileCommand(ctx context.Context) (*PassSummary, error) {
	logger := s.logger.With("controller", "ReconcileCommand")
	start := time.Now()
	now := s.now()

	summary := &PassSummary{
		StartedAt: now,
		DryRun:    s.opts.DryRun,
		Actions:   make(map[Action]int),
	}

	// Without pods the forced uptime signal is unknown, so no resource is touched.
	pods, err := s.repo.ListPodsQuery(ctx, s.opts.Namespace)
	if err != nil {
		metrics.RecordAbortedPass()

		return nil, fmt.Errorf("%w: %w", ErrListPods, err)
	}

	forced, pod := ForcedUptime(pods)
	if forced {
		logger.InfoContext(ctx, "forced uptime", "pod", pod.Name, "namespace", pod.Namespace)
	}

	summary.ForcedUptime = forced
	metrics.SetForcedUptime(forced)

	namespaces := make(map[string]*Namespace)

	for _, kind := range s.opts.Kinds {
		if ctx.Err() != nil {
			logger.InfoContext(ctx, "context done, stopping reconciliation")

			break
		}

		s.reconcileKind(ctx, logger, kind, forced, now, namespaces, summary)
	}

	summary.Duration = time.Since(start)
	metrics.ObservePassDuration(summary.Duration)

	s.mu.Lock()
	s.lastPass = summary
	s.lastEnd = s.now()
	s.mu.Unlock()

	logger.InfoContext(ctx, "pass finished",
		"processed", summary.Processed,
		"failed", summary.Failed,
		"forcedUptime", summary.ForcedUptime,
		"dryRun", summary.DryRun,
		"duration", summary.Duration,
	)

	return summary, nil
}

func (s *Service) reconcileKind(
	ctx context.Context,
	logger *slog.Logger,
	kind Kind,
	forced bool,
	now time.Time,
	namespaces map[string]*Namespace,
	summary *PassSummary,
) {
	logger = logger.With("kind", kind)

	resources, err := s.repo.ListResourcesQuery(ctx, kind, s.opts.Namespace)
	if err != nil {
		logger.ErrorContext(ctx, "list resources error", "reason", fmt.Errorf("%w: %w", ErrListResources, err))
		metrics.RecordFailure(string(kind))

		summary.Failed++

		return
	}

	logger.DebugContext(ctx, "starting to process resources", "count", len(resources))

	for i := range resources {
		if ctx.Err() != nil {
			logger.InfoContext(ctx, "context done, stopping reconciliation")

			return
		}

		res := resources[i]

		if s.staticallyExcluded(res) {
			logger.DebugContext(ctx, "resource excluded by name or namespace",
				"name", res.Name,
				"namespace", res.Namespace,
			)

			continue
		}

		summary.Processed++

		action, err := s.processResource(ctx, logger, res, forced, now, namespaces)
		if err != nil {
			logger.ErrorContext(ctx, "process resource error",
				"name", res.Name,
				"namespace", res.Namespace,
				"reason", err,
			)
			metrics.RecordFailure(string(kind))

			summary.Failed++

			continue
		}

		summary.Actions[action]++
	}
}

func (s *Service) staticallyExcluded(res Resource) bool {
	if _, ok := s.opts.ExcludeNamespaces[res.Namespace]; ok {
		return true
	}

	_, ok := s.opts.ExcludeNames[res.Kind][res.Name]

	return ok
}

func (s *Service) processResource(
	ctx context.Context,
	logger *slog.Logger,
	res Resource,
	forced bool,
	now time.Time,
	namespaces map[string]*Namespace,
) (Action, error) {
	logger = logger.With("name", res.Name, "namespace", res.Namespace, "controller", "processResource")

	ns, err := s.namespace(ctx, res.Namespace, namespaces)
	if err != nil {
		return "", err
	}

	cfg, err := ResolveConfig(s.opts.Defaults, *ns, res, forced)
	if err != nil {
		return "", err
	}

	decision, err := s.engine.Decide(res, cfg, now)
	if err != nil {
		return "", err
	}

	logger = logger.With("mode", decision.Mode, "uptime", decision.Uptime, "downtime", decision.Downtime)

	switch decision.Action {
	case ActionNone:
		logger.DebugContext(ctx, "no action needed",
			"replicas", res.Replicas,
			"suspended", res.Suspended,
			"reason", decision.Reason,
		)

		return decision.Action, nil
	case ActionIgnore:
		logger.DebugContext(ctx, "ignored", "reason", decision.Reason)

		return decision.Action, nil
	case ActionDefer:
		logger.InfoContext(ctx, "deferred, not scaling down yet", "reason", decision.Reason)
		metrics.RecordAction(string(res.Kind), string(decision.Action))

		return decision.Action, nil
	case ActionScaleUp, ActionScaleDown, ActionSuspend, ActionUnsuspend:
	}

	logger.InfoContext(ctx, decision.Reason, "action", decision.Action)

	if s.opts.DryRun {
		logger.InfoContext(ctx, "dry run: would update",
			"action", decision.Action,
			"state", decision.Mutation.String(),
		)

		return decision.Action, nil
	}

	applied, err := s.patchResourceCommand(ctx, logger, res, decision.Mutation)
	if err != nil {
		return "", err
	}

	if !applied {
		return ActionNone, nil
	}

	metrics.RecordAction(string(res.Kind), string(decision.Action))

	return decision.Action, nil
}

func (s *Service) namespace(
	ctx context.Context,
	name string,
	cache map[string]*Namespace,
) (*Namespace, error) {
	if ns, ok := cache[name]; ok {
		return ns, nil
	}

	ns, err := s.repo.GetNamespaceQuery(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrGetNamespace, name, err)
	}

	cache[name] = ns

	return ns, nil
}

func (s *Service) patchResourceCommand(
	ctx context.Context,
	logger *slog.Logger,
	res Resource,
	mutation Mutation,
) (bool, error) {
	err := s.repo.PatchResourceCommand(ctx, res, mutation)
	if err != nil {
		var target notFound
		if errors.As(err, &target) {
			logger.DebugContext(ctx, "resource not found when patching")

			return false, nil
		}

		var conflictTarget conflict
		if errors.As(err, &conflictTarget) {
			logger.WarnContext(ctx, "resource changed concurrently, will retry next pass")

			return false, nil
		}

		return false, fmt.Errorf("%w: %w", ErrPatchResource, err)
	}

	return true, nil
}
