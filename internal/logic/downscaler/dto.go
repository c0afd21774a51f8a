package downscaler

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"time"
)

// Kind is a workload kind the downscaler knows how to scale.
type Kind string

const (
	KindDeployment  Kind = "Deployment"
	KindStatefulSet Kind = "StatefulSet"
	KindStack       Kind = "Stack"
	KindCronJob     Kind = "CronJob"
)

// Suspendable reports whether the kind is scaled through its suspend flag
// instead of a replica count.
func (k Kind) Suspendable() bool {
	return k == KindCronJob
}

// originalAnnotation is the key holding the pre-downtime value for the kind.
func (k Kind) originalAnnotation() string {
	if k.Suspendable() {
		return AnnotationOriginalCronStatus
	}

	return AnnotationOriginalReplicas
}

// KindFromResourceName maps the plural resource names used in configuration
// (deployments, statefulsets, stacks, cronjobs) to kinds.
func KindFromResourceName(name string) (Kind, error) {
	switch name {
	case "deployments":
		return KindDeployment, nil
	case "statefulsets":
		return KindStatefulSet, nil
	case "stacks":
		return KindStack, nil
	case "cronjobs":
		return KindCronJob, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownResourceKind, name)
}

// Resource is one scalable workload in the domain layer.
type Resource struct {
	Kind              Kind
	Namespace         string
	Name              string
	ResourceVersion   string
	CreationTimestamp time.Time
	Replicas          int32
	Suspended         bool
	Annotations       map[string]string
	// OwnedByStack is set for Deployments managed by a Stack.
	OwnedByStack bool
}

func (r Resource) annotation(key string) (string, bool) {
	v, ok := r.Annotations[key]

	return v, ok
}

// Namespace carries the namespace-level annotation overrides.
type Namespace struct {
	Name        string
	Annotations map[string]string
}

// Pod is only used to compute the forced uptime signal.
type Pod struct {
	Name        string
	Namespace   string
	Phase       string
	Annotations map[string]string
}

// Defaults are the process-wide values used when neither the namespace nor the
// resource overrides them.
type Defaults struct {
	Uptime           string
	Downtime         string
	UpscalePeriod    string
	DownscalePeriod  string
	DowntimeReplicas int32
	GracePeriod      time.Duration
}

// EffectiveConfig is the flattened configuration for one resource in one pass.
type EffectiveConfig struct {
	UpscalePeriod    string
	DownscalePeriod  string
	Uptime           string
	Downtime         string
	DowntimeReplicas int32
	DowntimeSuspend  bool
	ForcedUptime     bool
	Excluded         bool
	GracePeriod      time.Duration
}

// Action is the outcome of a decision.
type Action string

const (
	ActionNone      Action = "none"
	ActionIgnore    Action = "ignore"
	ActionDefer     Action = "defer"
	ActionScaleUp   Action = "scale-up"
	ActionScaleDown Action = "scale-down"
	ActionSuspend   Action = "suspend"
	ActionUnsuspend Action = "unsuspend"
)

// Mutating reports whether the action changes the resource.
func (a Action) Mutating() bool {
	switch a {
	case ActionScaleUp, ActionScaleDown, ActionSuspend, ActionUnsuspend:
		return true
	case ActionNone, ActionIgnore, ActionDefer:
	}

	return false
}

// Mutation is the change to apply to a resource. A nil annotation value removes the key.
type Mutation struct {
	Replicas    *int32
	Suspend     *bool
	Annotations map[string]*string
}

// String renders the intended new state for logs.
func (m Mutation) String() string {
	out := ""

	if m.Replicas != nil {
		out = "replicas=" + strconv.Itoa(int(*m.Replicas))
	}

	if m.Suspend != nil {
		out = "suspend=" + strconv.FormatBool(*m.Suspend)
	}

	for _, k := range slices.Sorted(maps.Keys(m.Annotations)) {
		v := m.Annotations[k]
		if v == nil {
			out += " -" + k
		} else {
			out += " " + k + "=" + *v
		}
	}

	return out
}

// Mode is the schedule mode the engine resolved for a resource.
type Mode string

const (
	ModeExcluded Mode = "excluded"
	ModeForced   Mode = "forced-uptime"
	ModePeriod   Mode = "period"
	ModeSpec     Mode = "uptime-downtime"
)

// Decision is what the engine wants to happen to one resource.
type Decision struct {
	Action   Action
	Mode     Mode
	Reason   string
	Uptime   string
	Downtime string
	Mutation Mutation
}

// PassSummary describes one reconciliation pass.
type PassSummary struct {
	StartedAt    time.Time      `json:"startedAt"`
	Duration     time.Duration  `json:"duration"`
	ForcedUptime bool           `json:"forcedUptime"`
	DryRun       bool           `json:"dryRun"`
	Processed    int            `json:"processed"`
	Failed       int            `json:"failed"`
	Actions      map[Action]int `json:"actions"`
}
