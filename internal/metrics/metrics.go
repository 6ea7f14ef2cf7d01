// Package metrics exposes Prometheus counters for reader fallbacks and job
// launches. A nil *Metrics is a valid no-op so components can take one
// unconditionally.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors registered by New
type Metrics struct {
	SourceFallbacks *prometheus.CounterVec
	JobLaunches     *prometheus.CounterVec
	StatusCollect   prometheus.Histogram
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SourceFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sysdash",
			Name:      "source_fallbacks_total",
			Help:      "Reads that fell back to a default value, by source.",
		}, []string{"source"}),
		JobLaunches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sysdash",
			Name:      "job_launches_total",
			Help:      "Maintenance job launch attempts, by job and result.",
		}, []string{"job", "result"}),
		StatusCollect: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sysdash",
			Name:      "status_collect_seconds",
			Help:      "Time spent collecting one status snapshot.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2, 5},
		}),
	}
	if reg != nil {
		reg.MustRegister(m.SourceFallbacks, m.JobLaunches, m.StatusCollect)
	}
	return m
}

// Fallback records that source resolved to its default
func (m *Metrics) Fallback(source string) {
	if m == nil {
		return
	}
	m.SourceFallbacks.WithLabelValues(source).Inc()
}

// JobLaunch records a launch attempt outcome (started, rejected, not_found, failed)
func (m *Metrics) JobLaunch(job, result string) {
	if m == nil {
		return
	}
	m.JobLaunches.WithLabelValues(job, result).Inc()
}

// ObserveStatus records how long a status collection took
func (m *Metrics) ObserveStatus(d time.Duration) {
	if m == nil {
		return
	}
	m.StatusCollect.Observe(d.Seconds())
}
