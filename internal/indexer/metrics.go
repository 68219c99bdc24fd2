package indexer

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the indexer's Prometheus collectors. A nil *Metrics records
// nothing.
type Metrics struct {
	episodes  *prometheus.CounterVec
	subtitles *prometheus.CounterVec
	failures  *prometheus.CounterVec
	duration  prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg when it is
// not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		episodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "subarr_episodes_scanned_total",
			Help: "Episodes scanned, by result.",
		}, []string{"result"}),
		subtitles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "subarr_subtitles_indexed_total",
			Help: "Subtitle records indexed, by source.",
		}, []string{"source"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "subarr_index_side_failures_total",
			Help: "Reconciliations that abandoned one side, by source.",
		}, []string{"source"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "subarr_episode_scan_duration_seconds",
			Help:    "Time spent scanning a single episode.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.episodes, m.subtitles, m.failures, m.duration)
	}
	return m
}

func (m *Metrics) observeScan(err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	switch {
	case errors.Is(err, ErrFileUnavailable):
		result = "unavailable"
	case err != nil:
		result = "error"
	}
	m.episodes.WithLabelValues(result).Inc()
	m.duration.Observe(elapsed.Seconds())
}

func (m *Metrics) observeReconcile(res *ReconcileResult) {
	if m == nil {
		return
	}
	m.subtitles.WithLabelValues("embedded").Add(float64(res.Embedded))
	m.subtitles.WithLabelValues("external").Add(float64(res.External))
	m.subtitles.WithLabelValues("removed").Add(float64(res.Removed))
	if res.EmbeddedErr != nil {
		m.failures.WithLabelValues("embedded").Inc()
	}
	if res.ExternalErr != nil {
		m.failures.WithLabelValues("external").Inc()
	}
}
