package download

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

// Metrics bundles Prometheus collectors for snapshot downloads.
type Metrics struct {
	Registry       *prometheus.Registry
	StartedTotal   prometheus.Counter
	DownloadsTotal *prometheus.CounterVec
	ErrorsTotal    *prometheus.CounterVec
	Inflight       prometheus.Gauge
	FetchDuration  prometheus.Histogram
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	started := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "noway_downloads_started_total",
			Help: "Total number of snapshot downloads admitted.",
		},
	)
	downloads := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "noway_downloads_total",
			Help: "Total number of finished snapshot downloads by outcome.",
		},
		[]string{"outcome"},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "noway_download_errors_total",
			Help: "Total number of download failures by stage.",
		},
		[]string{"stage"},
	)
	inflight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "noway_downloads_inflight",
			Help: "Number of snapshot downloads currently holding a slot.",
		},
	)
	fetchDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "noway_fetch_duration_seconds",
			Help:    "Latency of snapshot fetches.",
			Buckets: prometheus.DefBuckets,
		},
	)

	registry.MustRegister(started, downloads, errorsTotal, inflight, fetchDuration)

	return &Metrics{
		Registry:       registry,
		StartedTotal:   started,
		DownloadsTotal: downloads,
		ErrorsTotal:    errorsTotal,
		Inflight:       inflight,
		FetchDuration:  fetchDuration,
	}
}

// IncStarted increments the admitted downloads counter.
func (m *Metrics) IncStarted() {
	if m == nil {
		return
	}
	m.StartedTotal.Inc()
}

// IncOutcome increments the finished downloads counter for an outcome label.
func (m *Metrics) IncOutcome(outcome string) {
	if m == nil {
		return
	}
	m.DownloadsTotal.WithLabelValues(outcome).Inc()
}

// IncError increments the errors counter for a stage label.
func (m *Metrics) IncError(stage string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(stage).Inc()
}

// IncInflight marks a download as holding a slot.
func (m *Metrics) IncInflight() {
	if m == nil {
		return
	}
	m.Inflight.Inc()
}

// DecInflight releases a slot.
func (m *Metrics) DecInflight() {
	if m == nil {
		return
	}
	m.Inflight.Dec()
}

// ObserveFetch records a fetch duration.
func (m *Metrics) ObserveFetch(d time.Duration) {
	if m == nil {
		return
	}
	m.FetchDuration.Observe(d.Seconds())
}
