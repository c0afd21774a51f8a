package downscaler

import (
	"fmt"
	"strconv"
	"strings"
)

// ResolveConfig merges process defaults, namespace annotations and resource
// annotations (in increasing priority) into the effective configuration of res.
// forcedSignal is the cluster-wide forced uptime signal computed for the pass.
func ResolveConfig(
	defaults Defaults,
	ns Namespace,
	res Resource,
	forcedSignal bool,
) (EffectiveConfig, error) {
	cfg := EffectiveConfig{
		UpscalePeriod:   override(res.Annotations, ns.Annotations, AnnotationUpscalePeriod, defaults.UpscalePeriod),
		DownscalePeriod: override(res.Annotations, ns.Annotations, AnnotationDownscalePeriod, defaults.DownscalePeriod),
		Uptime:          override(res.Annotations, ns.Annotations, AnnotationUptime, defaults.Uptime),
		Downtime:        override(res.Annotations, ns.Annotations, AnnotationDowntime, defaults.Downtime),
		ForcedUptime:    resolveForcedUptime(ns, res, forcedSignal),
		Excluded:        isExcluded(ns.Annotations) || isExcluded(res.Annotations) || res.OwnedByStack,
		GracePeriod:     defaults.GracePeriod,
	}

	if res.Kind.Suspendable() {
		suspend, err := parseDowntimeSuspend(ns, res)
		if err != nil {
			return EffectiveConfig{}, err
		}

		cfg.DowntimeSuspend = suspend

		return cfg, nil
	}

	replicas, err := parseDowntimeReplicas(ns, res, defaults.DowntimeReplicas)
	if err != nil {
		return EffectiveConfig{}, err
	}

	cfg.DowntimeReplicas = replicas

	return cfg, nil
}

// override returns the resource value, else the namespace value, else def.
func override(resAnnotations, nsAnnotations map[string]string, key, def string) string {
	if v, ok := resAnnotations[key]; ok {
		return v
	}

	if v, ok := nsAnnotations[key]; ok {
		return v
	}

	return def
}

// isExcluded treats anything but an absent or "false" exclude annotation as excluded.
func isExcluded(annotations map[string]string) bool {
	v, ok := annotations[AnnotationExclude]
	if !ok {
		return false
	}

	return !strings.EqualFold(v, "false")
}

// resolveForcedUptime lets annotations switch forced uptime on, never off:
// the cluster-wide signal holds every workload at uptime.
func resolveForcedUptime(ns Namespace, res Resource, forcedSignal bool) bool {
	if forcedSignal {
		return true
	}

	return strings.EqualFold(override(res.Annotations, ns.Annotations, AnnotationForceUptime, ""), "true")
}

func parseDowntimeReplicas(ns Namespace, res Resource, def int32) (int32, error) {
	raw, ok := res.Annotations[AnnotationDowntimeReplicas]
	if !ok {
		raw, ok = ns.Annotations[AnnotationDowntimeReplicas]
	}

	if !ok {
		return def, nil
	}

	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q: %w", ErrInvalidAnnotation, AnnotationDowntimeReplicas, raw, err)
	}

	if n < 0 {
		return 0, fmt.Errorf("%w: %s=%q must not be negative", ErrInvalidAnnotation, AnnotationDowntimeReplicas, raw)
	}

	return int32(n), nil
}

func parseDowntimeSuspend(ns Namespace, res Resource) (bool, error) {
	raw, ok := res.Annotations[AnnotationDowntimeCronStatus]
	if !ok {
		raw, ok = ns.Annotations[AnnotationDowntimeCronStatus]
	}

	if !ok {
		return defaultDowntimeSuspend, nil
	}

	suspend, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false, fmt.Errorf("%w: %s=%q: %w", ErrInvalidAnnotation, AnnotationDowntimeCronStatus, raw, err)
	}

	return suspend, nil
}
