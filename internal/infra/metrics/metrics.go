package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var actionsTotal = promauto.With(prometheus.DefaultRegisterer).NewCounterVec(
	prometheus.CounterOpts{
		Name: "downscaler_actions_total",
		Help: "Total number of applied scaling actions (scale-up, scale-down, suspend, unsuspend) " +
			"and grace period deferrals.",
	},
	[]string{"kind", "action"},
)

var failuresTotal = promauto.With(prometheus.DefaultRegisterer).NewCounterVec(
	prometheus.CounterOpts{
		Name: "downscaler_failures_total",
		Help: "Total number of resources (or resource listings) that failed to process.",
	},
	[]string{"kind"},
)

var abortedPassesTotal = promauto.With(prometheus.DefaultRegisterer).NewCounter(
	prometheus.CounterOpts{
		Name: "downscaler_aborted_passes_total",
		Help: "Total number of passes aborted before touching any resource because pods could not be listed.",
	},
)

var forcedUptime = promauto.With(prometheus.DefaultRegisterer).NewGauge(
	prometheus.GaugeOpts{
		Name: "downscaler_forced_uptime",
		Help: "1 when a running pod forces uptime for all workloads in the last pass, otherwise 0.",
	},
)

var passDurationSeconds = promauto.With(prometheus.DefaultRegisterer).NewHistogram(
	prometheus.HistogramOpts{
		Name:    "downscaler_pass_duration_seconds",
		Help:    "Duration of a full reconciliation pass.",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
	},
)

// RecordAction increments the action counter for a kind.
func RecordAction(kind, action string) {
	actionsTotal.WithLabelValues(kind, action).Inc()
}

// RecordFailure increments the failure counter for a kind.
func RecordFailure(kind string) {
	failuresTotal.WithLabelValues(kind).Inc()
}

// RecordAbortedPass increments the aborted pass counter.
func RecordAbortedPass() {
	abortedPassesTotal.Inc()
}

func SetForcedUptime(forced bool) {
	if forced {
		forcedUptime.Set(1)

		return
	}

	forcedUptime.Set(0)
}

func ObservePassDuration(d time.Duration) {
	passDurationSeconds.Observe(d.Seconds())
}
