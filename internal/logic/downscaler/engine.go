package downscaler

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Engine decides, for one resource at a time, whether to leave it alone,
// scale it down or restore it. It performs no I/O.
type Engine struct {
	matcher TimeMatcher
}

// NewEngine creates a decision engine backed by the given time window matcher.
func NewEngine(matcher TimeMatcher) *Engine {
	return &Engine{
		matcher: matcher,
	}
}

type window int

const (
	windowIgnore window = iota
	windowUptime
	windowDowntime
)

// schedule is the resolved position of now relative to the resource's windows.
type schedule struct {
	mode     Mode
	window   window
	uptime   string
	downtime string
	reason   string
}

type ruleInput struct {
	cfg         EffectiveConfig
	hasOriginal bool
	now         time.Time
}

// modeRule selects how uptime is determined. Rules are evaluated top-down and
// the first one that applies wins.
type modeRule struct {
	mode    Mode
	applies func(in ruleInput) bool
	resolve func(e *Engine, in ruleInput) (schedule, error)
}

var modeRules = []modeRule{
	{
		// Forced uptime, or a resource excluded while it is still downscaled.
		mode: ModeForced,
		applies: func(in ruleInput) bool {
			return in.cfg.ForcedUptime || (in.cfg.Excluded && in.hasOriginal)
		},
		resolve: func(_ *Engine, _ ruleInput) (schedule, error) {
			return schedule{
				mode:     ModeForced,
				window:   windowUptime,
				uptime:   SpecForced,
				downtime: specIgnored,
			}, nil
		},
	},
	{
		mode: ModePeriod,
		applies: func(in ruleInput) bool {
			return in.cfg.UpscalePeriod != SpecNever || in.cfg.DownscalePeriod != SpecNever
		},
		resolve: (*Engine).resolvePeriods,
	},
	{
		mode: ModeSpec,
		applies: func(ruleInput) bool {
			return true
		},
		resolve: (*Engine).resolveSpecs,
	},
}

// Decide computes the decision for res under cfg at now.
func (e *Engine) Decide(res Resource, cfg EffectiveConfig, now time.Time) (Decision, error) {
	_, hasOriginal := originalValue(res)

	// Never touch an excluded resource that this controller did not downscale.
	if cfg.Excluded && !hasOriginal {
		return Decision{
			Action: ActionNone,
			Mode:   ModeExcluded,
			Reason: "excluded",
		}, nil
	}

	sched, err := e.resolveSchedule(ruleInput{
		cfg:         cfg,
		hasOriginal: hasOriginal,
		now:         now,
	})
	if err != nil {
		return Decision{}, err
	}

	if sched.window == windowIgnore {
		return Decision{
			Action:   ActionIgnore,
			Mode:     sched.mode,
			Reason:   sched.reason,
			Uptime:   sched.uptime,
			Downtime: sched.downtime,
		}, nil
	}

	if res.Kind.Suspendable() {
		return decideSuspend(res, cfg, sched, now)
	}

	return decideReplicas(res, cfg, sched, now)
}

func (e *Engine) resolveSchedule(in ruleInput) (schedule, error) {
	for _, rule := range modeRules {
		if rule.applies(in) {
			return rule.resolve(e, in)
		}
	}

	// unreachable: the last rule always applies
	return schedule{window: windowIgnore, reason: "no rule applies"}, nil
}

func (e *Engine) resolvePeriods(in ruleInput) (schedule, error) {
	sched := schedule{
		mode:     ModePeriod,
		uptime:   in.cfg.UpscalePeriod,
		downtime: in.cfg.DownscalePeriod,
	}

	up, err := e.matches(in.now, in.cfg.UpscalePeriod)
	if err != nil {
		return schedule{}, err
	}

	down, err := e.matches(in.now, in.cfg.DownscalePeriod)
	if err != nil {
		return schedule{}, err
	}

	switch {
	case up && down:
		sched.window = windowIgnore
		sched.reason = "upscale and downscale periods overlap"
	case up:
		sched.window = windowUptime
	case down:
		sched.window = windowDowntime
	default:
		sched.window = windowIgnore
		sched.reason = "outside upscale and downscale periods"
	}

	return sched, nil
}

func (e *Engine) resolveSpecs(in ruleInput) (schedule, error) {
	sched := schedule{
		mode:     ModeSpec,
		window:   windowDowntime,
		uptime:   in.cfg.Uptime,
		downtime: in.cfg.Downtime,
	}

	up, err := e.matches(in.now, in.cfg.Uptime)
	if err != nil {
		return schedule{}, err
	}

	if !up {
		return sched, nil
	}

	// uptime wins only when the downtime spec does not match as well
	down, err := e.matches(in.now, in.cfg.Downtime)
	if err != nil {
		return schedule{}, err
	}

	if !down {
		sched.window = windowUptime
	}

	return sched, nil
}

// matches handles the never and forced sentinels and delegates everything else.
func (e *Engine) matches(now time.Time, spec string) (bool, error) {
	switch spec {
	case SpecNever:
		return false, nil
	case SpecForced:
		return true, nil
	}

	ok, err := e.matcher.Matches(now, spec)
	if err != nil {
		return false, fmt.Errorf("%w: %q: %w", ErrInvalidTimeSpec, spec, err)
	}

	return ok, nil
}

func decideReplicas(res Resource, cfg EffectiveConfig, sched schedule, now time.Time) (Decision, error) {
	decision := newDecision(sched)
	original, hasOriginal := originalValue(res)

	if sched.window == windowUptime && hasOriginal && res.Replicas == cfg.DowntimeReplicas {
		replicas, err := parseOriginalReplicas(original)
		if err != nil {
			return Decision{}, err
		}

		if replicas > 0 {
			decision.Action = ActionScaleUp
			decision.Reason = fmt.Sprintf("scale up from %d to %d replicas", res.Replicas, replicas)
			decision.Mutation = Mutation{
				Replicas: &replicas,
				Annotations: map[string]*string{
					AnnotationOriginalReplicas: nil,
				},
			}

			return decision, nil
		}
	}

	if sched.window == windowDowntime && res.Replicas > 0 && res.Replicas > cfg.DowntimeReplicas {
		if withinGracePeriod(res, cfg.GracePeriod, now) {
			decision.Action = ActionDefer
			decision.Reason = fmt.Sprintf("within grace period %s", cfg.GracePeriod)

			return decision, nil
		}

		target := cfg.DowntimeReplicas
		current := strconv.Itoa(int(res.Replicas))

		decision.Action = ActionScaleDown
		decision.Reason = fmt.Sprintf("scale down from %d to %d replicas", res.Replicas, target)
		decision.Mutation = Mutation{
			Replicas: &target,
			Annotations: map[string]*string{
				AnnotationOriginalReplicas: &current,
			},
		}

		return decision, nil
	}

	return decision, nil
}

func decideSuspend(res Resource, cfg EffectiveConfig, sched schedule, now time.Time) (Decision, error) {
	decision := newDecision(sched)
	original, hasOriginal := originalValue(res)

	if sched.window == windowUptime && hasOriginal && res.Suspended == cfg.DowntimeSuspend {
		originalSuspend, err := strconv.ParseBool(strings.TrimSpace(original))
		if err != nil {
			return Decision{}, fmt.Errorf("%w: %s=%q: %w", ErrInvalidAnnotation, AnnotationOriginalCronStatus, original, err)
		}

		if originalSuspend == uptimeSuspend {
			suspend := uptimeSuspend

			decision.Action = ActionUnsuspend
			decision.Reason = fmt.Sprintf("set suspend from %t to %t", res.Suspended, suspend)
			decision.Mutation = Mutation{
				Suspend: &suspend,
				Annotations: map[string]*string{
					AnnotationOriginalCronStatus: nil,
				},
			}

			return decision, nil
		}
	}

	if sched.window == windowDowntime && res.Suspended == uptimeSuspend && res.Suspended != cfg.DowntimeSuspend {
		if withinGracePeriod(res, cfg.GracePeriod, now) {
			decision.Action = ActionDefer
			decision.Reason = fmt.Sprintf("within grace period %s", cfg.GracePeriod)

			return decision, nil
		}

		suspend := cfg.DowntimeSuspend
		recorded := strconv.FormatBool(res.Suspended)

		decision.Action = ActionSuspend
		decision.Reason = fmt.Sprintf("set suspend from %t to %t", res.Suspended, suspend)
		decision.Mutation = Mutation{
			Suspend: &suspend,
			Annotations: map[string]*string{
				AnnotationOriginalCronStatus: &recorded,
			},
		}

		return decision, nil
	}

	return decision, nil
}

func newDecision(sched schedule) Decision {
	return Decision{
		Action:   ActionNone,
		Mode:     sched.mode,
		Reason:   "already in desired state",
		Uptime:   sched.uptime,
		Downtime: sched.downtime,
	}
}

// originalValue returns the recorded pre-downtime value. An empty annotation
// counts as absent.
func originalValue(res Resource) (string, bool) {
	v, ok := res.annotation(res.Kind.originalAnnotation())
	if !ok || v == "" {
		return "", false
	}

	return v, true
}

func parseOriginalReplicas(raw string) (int32, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q: %w", ErrInvalidAnnotation, AnnotationOriginalReplicas, raw, err)
	}

	return int32(n), nil
}

func withinGracePeriod(res Resource, gracePeriod time.Duration, now time.Time) bool {
	return now.Sub(res.CreationTimestamp) <= gracePeriod
}
