package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, m *Metrics, name string, labels map[string]string) float64 {
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
	next:
		for _, metric := range f.GetMetric() {
			for _, l := range metric.GetLabel() {
				if labels[l.GetName()] != l.GetValue() {
					continue next
				}
			}
			return metric.GetCounter().GetValue()
		}
	}
	return 0
}

func TestMetrics_ObserveJob(t *testing.T) {
	m := NewMetrics()
	m.ObserveJob("code_deploy", "success", time.Second)
	m.ObserveJob("code_deploy", "success", time.Second)
	m.ObserveJob("code_deploy", "failed", time.Second)

	assert.Equal(t, float64(2), counterValue(t, m, "atlas_jobs_total", map[string]string{"job": "code_deploy", "status": "success"}))
	assert.Equal(t, float64(1), counterValue(t, m, "atlas_jobs_total", map[string]string{"job": "code_deploy", "status": "failed"}))
}

func TestMetrics_ObserveHostCall(t *testing.T) {
	m := NewMetrics()
	m.ObserveHostCall("symlink", true)
	m.ObserveHostCall("symlink", false)
	m.ObserveHostCall("symlink", false)

	assert.Equal(t, float64(1), counterValue(t, m, "atlas_fleet_host_calls_total", map[string]string{"primitive": "symlink", "outcome": "success"}))
	assert.Equal(t, float64(2), counterValue(t, m, "atlas_fleet_host_calls_total", map[string]string{"primitive": "symlink", "outcome": "failure"}))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveJob("x", "success", 0)
		m.ObserveHostCall("x", true)
		m.AddSweeperItems("x", 1)
	})
}
