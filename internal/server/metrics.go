package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/roach88/eventdash/internal/session"
)

// Metrics holds the server's Prometheus collectors.
type Metrics struct {
	Registry *prometheus.Registry

	recomputeTotal    *prometheus.CounterVec
	recomputeDuration *prometheus.HistogramVec
	requestTotal      *prometheus.CounterVec
	sessions          prometheus.Gauge
}

// NewMetrics registers the collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		recomputeTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eventdash",
			Name:      "recomputations_total",
			Help:      "Artifact recomputations by artifact and outcome",
		}, []string{"artifact", "outcome"}),
		recomputeDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "eventdash",
			Name:      "recompute_duration_seconds",
			Help:      "Time spent recomputing one artifact",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"artifact"}),
		requestTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eventdash",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		sessions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "eventdash",
			Name:      "sessions",
			Help:      "Live sessions",
		}),
	}
}

// observeRecompute records one timed recomputation outcome ("ok" or an
// error code).
func (m *Metrics) observeRecompute(artifact, outcome string, d time.Duration) {
	m.recomputeTotal.WithLabelValues(artifact, outcome).Inc()
	m.recomputeDuration.WithLabelValues(artifact).Observe(d.Seconds())
}

// countUpdate records the outcomes of a session update.
func (m *Metrics) countUpdate(u *session.Update) {
	for _, name := range u.Recomputed {
		outcome := "ok"
		if f, failed := u.Failures[name]; failed {
			outcome = string(f.Code)
		}
		m.recomputeTotal.WithLabelValues(name, outcome).Inc()
	}
}
