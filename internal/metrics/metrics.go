package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 任务和主机调用的 prometheus 指标，每个进程一份独立 registry
type Metrics struct {
	registry     *prometheus.Registry
	jobs         *prometheus.CounterVec
	jobDuration  *prometheus.HistogramVec
	hostCalls    *prometheus.CounterVec
	sweeperItems *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		jobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "atlas_jobs_total",
			Help: "Completed jobs by name and final status.",
		}, []string{"job", "status"}),
		jobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "atlas_job_duration_seconds",
			Help:    "Wall-clock duration of jobs.",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600, 1200, 2400},
		}, []string{"job"}),
		hostCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "atlas_fleet_host_calls_total",
			Help: "Remote primitive calls by primitive and outcome.",
		}, []string{"primitive", "outcome"}),
		sweeperItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "atlas_sweeper_items_total",
			Help: "Records acted on by maintenance sweepers.",
		}, []string{"sweeper"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.jobs,
		m.jobDuration,
		m.hostCalls,
		m.sweeperItems,
	)
	return m
}

func (m *Metrics) ObserveJob(job, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.jobs.WithLabelValues(job, status).Inc()
	m.jobDuration.WithLabelValues(job).Observe(d.Seconds())
}

func (m *Metrics) ObserveHostCall(primitive string, ok bool) {
	if m == nil {
		return
	}
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	m.hostCalls.WithLabelValues(primitive, outcome).Inc()
}

func (m *Metrics) AddSweeperItems(sweeper string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.sweeperItems.WithLabelValues(sweeper).Add(float64(n))
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
