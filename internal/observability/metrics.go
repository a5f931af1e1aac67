package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// ingestion pipeline and icon resolution.
type Metrics struct {
	RecordsIngested prometheus.Counter
	RecordsDropped  prometheus.Counter
	IngestRuns      *prometheus.CounterVec // labels: outcome={success,error}
	IngestDuration  prometheus.Histogram
	IngestRunning   prometheus.Gauge

	// Icon resolution metrics.
	IconProbes *prometheus.CounterVec // labels: outcome={confirmed,failed}
	IconCache  *prometheus.CounterVec // labels: result={hit,miss,joined}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RecordsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "event_map",
			Name:      "records_ingested_total",
			Help:      "Total CSV rows turned into normalized events.",
		}),
		RecordsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "event_map",
			Name:      "records_dropped_total",
			Help:      "Total CSV rows dropped for non-finite coordinates.",
		}),
		IngestRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "event_map",
			Name:      "ingest_runs_total",
			Help:      "Ingestion cycles by outcome.",
		}, []string{"outcome"}),
		IngestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "event_map",
			Name:      "ingest_duration_seconds",
			Help:      "Duration of a complete fetch-classify-resolve-index cycle.",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		IngestRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "event_map",
			Name:      "ingest_running",
			Help:      "1 while an ingestion cycle is in progress.",
		}),
		IconProbes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "event_map",
			Name:      "icon_probes_total",
			Help:      "Icon existence probes by outcome.",
		}, []string{"outcome"}),
		IconCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "event_map",
			Name:      "icon_cache_total",
			Help:      "Icon resolver lookups by cache result.",
		}, []string{"result"}),
	}

	prometheus.MustRegister(
		m.RecordsIngested,
		m.RecordsDropped,
		m.IngestRuns,
		m.IngestDuration,
		m.IngestRunning,
		m.IconProbes,
		m.IconCache,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh, unregistered metric set
// to avoid "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RecordsIngested: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "event_map", Name: "records_ingested_total"}),
		RecordsDropped:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "event_map", Name: "records_dropped_total"}),
		IngestRuns:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "event_map", Name: "ingest_runs_total"}, []string{"outcome"}),
		IngestDuration:  prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "event_map", Name: "ingest_duration_seconds"}),
		IngestRunning:   prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "event_map", Name: "ingest_running"}),
		IconProbes:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "event_map", Name: "icon_probes_total"}, []string{"outcome"}),
		IconCache:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "event_map", Name: "icon_cache_total"}, []string{"result"}),
	}
}
