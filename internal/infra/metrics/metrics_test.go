package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"

	"github.com/skillcoder/downscaler-controller/internal/infra/metrics"
)

func gather(t *testing.T, name string) *dto.MetricFamily {
	t.Helper()

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	for _, f := range families {
		if f.GetName() == name {
			return f
		}
	}

	t.Fatalf("metric %s not found", name)

	return nil
}

func counterValue(t *testing.T, name string, labels map[string]string) float64 {
	t.Helper()

	for _, m := range gather(t, name).GetMetric() {
		matched := 0

		for _, l := range m.GetLabel() {
			if labels[l.GetName()] == l.GetValue() {
				matched++
			}
		}

		if matched == len(labels) {
			return m.GetCounter().GetValue()
		}
	}

	return 0
}

func TestRecordAction(t *testing.T) {
	labels := map[string]string{"kind": "StatefulSet", "action": "scale-down"}
	before := counterValue(t, "downscaler_actions_total", labels)

	metrics.RecordAction("StatefulSet", "scale-down")
	metrics.RecordAction("StatefulSet", "scale-down")

	require.InDelta(t, before+2, counterValue(t, "downscaler_actions_total", labels), 0.001)
}

func TestRecordFailure(t *testing.T) {
	labels := map[string]string{"kind": "Stack"}
	before := counterValue(t, "downscaler_failures_total", labels)

	metrics.RecordFailure("Stack")

	require.InDelta(t, before+1, counterValue(t, "downscaler_failures_total", labels), 0.001)
}

func TestRecordAbortedPass(t *testing.T) {
	before := counterValue(t, "downscaler_aborted_passes_total", nil)

	metrics.RecordAbortedPass()

	require.InDelta(t, before+1, counterValue(t, "downscaler_aborted_passes_total", nil), 0.001)
}

func TestSetForcedUptime(t *testing.T) {
	metrics.SetForcedUptime(true)
	require.InDelta(t, 1.0, gather(t, "downscaler_forced_uptime").GetMetric()[0].GetGauge().GetValue(), 0.001)

	metrics.SetForcedUptime(false)
	require.InDelta(t, 0.0, gather(t, "downscaler_forced_uptime").GetMetric()[0].GetGauge().GetValue(), 0.001)
}

func TestObservePassDuration(t *testing.T) {
	metrics.ObservePassDuration(150 * time.Millisecond)

	h := gather(t, "downscaler_pass_duration_seconds").GetMetric()[0].GetHistogram()
	require.Positive(t, h.GetSampleCount())
}
