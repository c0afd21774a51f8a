package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/skillcoder/downscaler-controller/internal/infra/cronparser"
	"github.com/skillcoder/downscaler-controller/internal/infra/timespec"
	"github.com/skillcoder/downscaler-controller/internal/logic/downscaler"
)

// kindOrder is the order kinds are processed in within a pass.
var kindOrder = []downscaler.Kind{
	downscaler.KindDeployment,
	downscaler.KindStatefulSet,
	downscaler.KindStack,
	downscaler.KindCronJob,
}

type Config struct {
	KubeConfig     string
	KubeMaster     string
	LogLevel       string
	LogFormat      string
	HTTPPort       string
	MetricsPort    string
	Interval       time.Duration
	PingerInterval time.Duration
	Schedule       *cronparser.Schedule
	Once           bool
	DryRun         bool
	Namespace      string

	Kinds             []downscaler.Kind
	ExcludeNamespaces map[string]struct{}
	ExcludeNames      map[downscaler.Kind]map[string]struct{}
	Defaults          downscaler.Defaults
}

func Load() (*Config, error) {
	cfg := &Config{
		KubeConfig:  getEnvWithFallback(envKeyKubeConfig, envKeyKubeConfigFallback),
		KubeMaster:  getEnvWithFallback(envKeyKubeMaster, envKeyKubeMasterFallback),
		LogLevel:    getEnvOrDefault(envKeyLogLevel, "info"),
		LogFormat:   getEnvOrDefault(envKeyLogFormat, "json"),
		HTTPPort:    getEnvOrDefault(envKeyHTTPPort, "8080"),
		MetricsPort: getEnvOrDefault(envKeyMetricsPort, "9090"),
		Namespace:   os.Getenv(envKeyNamespace),
	}

	var err error

	cfg.Interval, err = parseDuration(envKeyInterval, "60s", envMinInterval)
	if err != nil {
		return nil, err
	}

	cfg.PingerInterval, err = parseDuration(envKeyPingerInterval, "10s", envMinPingerInterval)
	if err != nil {
		return nil, err
	}

	if spec := os.Getenv(envKeySchedule); spec != "" {
		cfg.Schedule, err = cronparser.New(spec, os.Getenv(envKeyScheduleTZ))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidSchedule, envKeySchedule, err)
		}
	}

	cfg.Once, err = parseBool(envKeyOnce)
	if err != nil {
		return nil, err
	}

	cfg.DryRun, err = parseBool(envKeyDryRun)
	if err != nil {
		return nil, err
	}

	cfg.Kinds, err = parseKinds(getEnvOrDefault(envKeyIncludeResources, "deployments"))
	if err != nil {
		return nil, err
	}

	cfg.ExcludeNamespaces = toSet(parseList(getEnvOrDefault(envKeyExcludeNamespaces, "kube-system")))
	cfg.ExcludeNames = map[downscaler.Kind]map[string]struct{}{
		downscaler.KindDeployment:  toSet(parseList(getEnvOrDefault(envKeyExcludeDeployments, "kube-downscaler,downscaler"))),
		downscaler.KindStatefulSet: toSet(parseList(os.Getenv(envKeyExcludeStatefulSets))),
		downscaler.KindStack:       toSet(parseList(os.Getenv(envKeyExcludeStacks))),
		downscaler.KindCronJob:     toSet(parseList(os.Getenv(envKeyExcludeCronJobs))),
	}

	cfg.Defaults, err = loadDefaults()
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// DownscalerOptions builds the service options from the loaded configuration.
func (c *Config) DownscalerOptions() downscaler.Options {
	opts := downscaler.Options{
		Namespace:         c.Namespace,
		Kinds:             c.Kinds,
		ExcludeNamespaces: c.ExcludeNamespaces,
		ExcludeNames:      c.ExcludeNames,
		Defaults:          c.Defaults,
		DryRun:            c.DryRun,
		Interval:          c.Interval,
	}

	if c.Schedule != nil {
		opts.Scheduler = c.Schedule
	}

	return opts
}

func loadDefaults() (downscaler.Defaults, error) {
	var defaults downscaler.Defaults

	matcher := timespec.New()
	specs := []struct {
		key string
		def string
		dst *string
	}{
		{key: envKeyDefaultUptime, def: downscaler.SpecAlways, dst: &defaults.Uptime},
		{key: envKeyDefaultDowntime, def: downscaler.SpecNever, dst: &defaults.Downtime},
		{key: envKeyUpscalePeriod, def: downscaler.SpecNever, dst: &defaults.UpscalePeriod},
		{key: envKeyDownscalePeriod, def: downscaler.SpecNever, dst: &defaults.DownscalePeriod},
	}

	for _, s := range specs {
		value := getEnvOrDefault(s.key, s.def)
		if err := matcher.Validate(value); err != nil {
			return downscaler.Defaults{}, fmt.Errorf("%w: %s=%q: %w", ErrInvalidSpec, s.key, value, err)
		}

		*s.dst = value
	}

	replicas, err := strconv.ParseInt(getEnvOrDefault(envKeyDowntimeReplicas, "0"), 10, 32)
	if err != nil || replicas < 0 {
		return downscaler.Defaults{}, fmt.Errorf("%w: %s", ErrInvalidInt, envKeyDowntimeReplicas)
	}

	defaults.DowntimeReplicas = int32(replicas)

	defaults.GracePeriod, err = parseDuration(envKeyGracePeriod, "15m", 0)
	if err != nil {
		return downscaler.Defaults{}, err
	}

	return defaults, nil
}

func parseKinds(raw string) ([]downscaler.Kind, error) {
	names := parseList(raw)

	included := make(map[downscaler.Kind]struct{}, len(names))

	for _, name := range names {
		kind, err := downscaler.KindFromResourceName(name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", envKeyIncludeResources, err)
		}

		included[kind] = struct{}{}
	}

	kinds := make([]downscaler.Kind, 0, len(included))

	for _, kind := range kindOrder {
		if _, ok := included[kind]; ok {
			kinds = append(kinds, kind)
		}
	}

	if len(kinds) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoResources, envKeyIncludeResources)
	}

	return kinds, nil
}

func parseDuration(key, def string, minimum time.Duration) (time.Duration, error) {
	raw := getEnvOrDefault(key, def)

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q: %w", ErrInvalidDuration, key, raw, err)
	}

	if d < minimum {
		return 0, fmt.Errorf("%w: %s=%s, minimum %s", ErrDurationTooLow, key, d, minimum)
	}

	return d, nil
}

func parseBool(key string) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return false, nil
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s=%q", ErrInvalidBool, key, raw)
	}

	return v, nil
}

func parseList(raw string) []string {
	var out []string

	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" && !slices.Contains(out, item) {
			out = append(out, item)
		}
	}

	return out
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}

	return set
}

func getEnvWithFallback(key, fallbackKey string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return os.Getenv(fallbackKey)
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	return value
}
