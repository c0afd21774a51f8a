package config

import "time"

// Env key constants. All controller configuration env vars use DOWNSCALER_ prefix;
// duration values support explicit units (e.g. 5m, 40s, 2h).

// Path to kubeconfig file. If unset, KUBECONFIG is used as fallback.
const envKeyKubeConfig = "DOWNSCALER_KUBECONFIG"

// Kubernetes API server URL. If unset, KUBERNETES_MASTER is used as fallback.
const envKeyKubeMaster = "DOWNSCALER_KUBE_MASTER"

// Log level: debug, info, warn, error.
const envKeyLogLevel = "DOWNSCALER_LOG_LEVEL"

// Log format: json or text.
const envKeyLogFormat = "DOWNSCALER_LOG_FORMAT"

// Port for health/readiness HTTP server.
const envKeyHTTPPort = "DOWNSCALER_HTTP_PORT"

// Port for Prometheus metrics (GET /metrics).
const envKeyMetricsPort = "DOWNSCALER_METRICS_PORT"

// Pause between reconciliation passes. Units: s, m, h (e.g. 60s, 5m).
const (
	envKeyInterval = "DOWNSCALER_INTERVAL"
	envMinInterval = 5 * time.Second
)

// Cron expression for pass start times; overrides the interval when set.
const envKeySchedule = "DOWNSCALER_SCHEDULE"

// Timezone (IANA) of the cron expression, UTC when unset.
const envKeyScheduleTZ = "DOWNSCALER_SCHEDULE_TZ"

// Pinger check interval. Units: s, m, h (e.g. 10s, 1m).
const (
	envKeyPingerInterval = "DOWNSCALER_PINGER_INTERVAL"
	envMinPingerInterval = time.Second
)

// Run a single pass and exit.
const envKeyOnce = "DOWNSCALER_ONCE"

// Log intended changes without applying them.
const envKeyDryRun = "DOWNSCALER_DRY_RUN"

// Restrict the controller to one namespace; all namespaces when unset.
const envKeyNamespace = "DOWNSCALER_NAMESPACE"

// Comma separated resource kinds: deployments, statefulsets, stacks, cronjobs.
const envKeyIncludeResources = "DOWNSCALER_INCLUDE_RESOURCES"

// Comma separated namespaces that are never touched.
const envKeyExcludeNamespaces = "DOWNSCALER_EXCLUDE_NAMESPACES"

// Comma separated names per kind that are never touched.
const (
	envKeyExcludeDeployments  = "DOWNSCALER_EXCLUDE_DEPLOYMENTS"
	envKeyExcludeStatefulSets = "DOWNSCALER_EXCLUDE_STATEFULSETS"
	envKeyExcludeStacks       = "DOWNSCALER_EXCLUDE_STACKS"
	envKeyExcludeCronJobs     = "DOWNSCALER_EXCLUDE_CRONJOBS"
)

// Default time specs, overridable per namespace and resource with annotations.
const (
	envKeyDefaultUptime   = "DOWNSCALER_DEFAULT_UPTIME"
	envKeyDefaultDowntime = "DOWNSCALER_DEFAULT_DOWNTIME"
	envKeyUpscalePeriod   = "DOWNSCALER_UPSCALE_PERIOD"
	envKeyDownscalePeriod = "DOWNSCALER_DOWNSCALE_PERIOD"
)

// Replica count during downtime.
const envKeyDowntimeReplicas = "DOWNSCALER_DOWNTIME_REPLICAS"

// Minimum resource age before its first scale down; 0 disables the check. Units: s, m, h (e.g. 15m).
const envKeyGracePeriod = "DOWNSCALER_GRACE_PERIOD"

// Standard k8s env keys used as fallback when DOWNSCALER_* are unset.
const (
	envKeyKubeConfigFallback = "KUBECONFIG"
	envKeyKubeMasterFallback = "KUBERNETES_MASTER"
)
