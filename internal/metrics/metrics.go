// Package metrics exposes Prometheus instruments for the background jobs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Job outcomes.
const (
	OutcomeOK     = "ok"
	OutcomeFailed = "failed"
)

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	registry         *prometheus.Registry
	jobRuns          *prometheus.CounterVec
	jobSkips         *prometheus.CounterVec
	jobDuration      *prometheus.HistogramVec
	remindersFired   *prometheus.CounterVec
	alertsEmitted    *prometheus.CounterVec
	alertsSuppressed *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		jobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "plantbuddy_job_runs_total",
			Help: "Completed job passes by job and outcome.",
		}, []string{"job", "outcome"}),
		jobSkips: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "plantbuddy_job_skipped_total",
			Help: "Ticks skipped because the previous pass was still running.",
		}, []string{"job"}),
		jobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "plantbuddy_job_duration_seconds",
			Help:    "Duration of job passes.",
			Buckets: prometheus.DefBuckets,
		}, []string{"job"}),
		remindersFired: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "plantbuddy_reminders_fired_total",
			Help: "Reminders fired by kind.",
		}, []string{"kind"}),
		alertsEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "plantbuddy_alerts_emitted_total",
			Help: "Alerts persisted by level.",
		}, []string{"level"}),
		alertsSuppressed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "plantbuddy_alerts_suppressed_total",
			Help: "Evaluations below the alert threshold by level.",
		}, []string{"level"}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.jobRuns,
		m.jobSkips,
		m.jobDuration,
		m.remindersFired,
		m.alertsEmitted,
		m.alertsSuppressed,
	)
	return m
}

// Handler serves this instance's registry.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) JobFinished(job, outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.jobRuns.WithLabelValues(job, outcome).Inc()
	m.jobDuration.WithLabelValues(job).Observe(took.Seconds())
}

func (m *Metrics) JobSkipped(job string) {
	if m == nil {
		return
	}
	m.jobSkips.WithLabelValues(job).Inc()
}

func (m *Metrics) ReminderFired(kind string) {
	if m == nil {
		return
	}
	m.remindersFired.WithLabelValues(kind).Inc()
}

func (m *Metrics) AlertEmitted(level string) {
	if m == nil {
		return
	}
	m.alertsEmitted.WithLabelValues(level).Inc()
}

func (m *Metrics) AlertSuppressed(level string) {
	if m == nil {
		return
	}
	m.alertsSuppressed.WithLabelValues(level).Inc()
}
