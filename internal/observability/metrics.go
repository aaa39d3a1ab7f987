package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus instruments for the hazard pipeline. Upstream
// failure counters are the only way callers can distinguish a degraded
// snapshot from a genuinely quiet region; the response contract does not
// expose the difference.
type Metrics struct {
	SnapshotBuilds   prometheus.Counter
	SnapshotFailures prometheus.Counter
	BuildDuration    prometheus.Histogram

	UpstreamFailures *prometheus.CounterVec // labels: source={fire_feed,weather,county}
	RecordsDropped   *prometheus.CounterVec // labels: source, reason={malformed,out_of_bbox}
	SamplesFailed    prometheus.Counter
	SamplesCollected prometheus.Counter
}

// NewMetrics creates pipeline metrics registered with the default registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.SnapshotBuilds,
		m.SnapshotFailures,
		m.BuildDuration,
		m.UpstreamFailures,
		m.RecordsDropped,
		m.SamplesFailed,
		m.SamplesCollected,
	)
	return m
}

// NewMetricsForTesting creates unregistered metrics so parallel tests do not
// trip duplicate-registration panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		SnapshotBuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hazard_map",
			Name:      "snapshot_builds_total",
			Help:      "Total hazard snapshot builds attempted.",
		}),
		SnapshotFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hazard_map",
			Name:      "snapshot_failures_total",
			Help:      "Snapshot builds that failed outright (not degraded results).",
		}),
		BuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "hazard_map",
			Name:      "snapshot_build_duration_seconds",
			Help:      "Wall-clock duration of one snapshot build.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		UpstreamFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hazard_map",
			Name:      "upstream_failures_total",
			Help:      "Tolerated upstream failures by source.",
		}, []string{"source"}),
		RecordsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hazard_map",
			Name:      "records_dropped_total",
			Help:      "Upstream records dropped during parsing or filtering.",
		}, []string{"source", "reason"}),
		SamplesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hazard_map",
			Name:      "weather_samples_failed_total",
			Help:      "Weather sample points dropped after an upstream failure.",
		}),
		SamplesCollected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hazard_map",
			Name:      "weather_samples_collected_total",
			Help:      "Weather observations successfully collected.",
		}),
	}
}
