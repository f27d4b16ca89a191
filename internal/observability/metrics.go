package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "gridstat_etl"

// Metrics holds the Prometheus counters, histograms, and gauges for a batch run.
type Metrics struct {
	FilesParsed  *prometheus.CounterVec // labels: file_type
	FilesSkipped *prometheus.CounterVec // labels: reason={empty,duplicate_column,unreadable}
	RowsIngested *prometheus.CounterVec // labels: file_type
	RowsRejected *prometheus.CounterVec // labels: file_type

	Configurations *prometheus.CounterVec // labels: outcome={success,error,not_started}
	IngestDuration prometheus.Histogram

	BatchRunning prometheus.Gauge
	Workers      prometheus.Gauge
}

func newMetrics(help bool) *Metrics {
	h := func(s string) string {
		if help {
			return s
		}
		return ""
	}
	return &Metrics{
		FilesParsed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_parsed_total",
			Help:      h("Statistics files parsed and merged, by file type."),
		}, []string{"file_type"}),
		FilesSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_skipped_total",
			Help:      h("Statistics files skipped without contributing rows, by reason."),
		}, []string{"reason"}),
		RowsIngested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_ingested_total",
			Help:      h("Data rows appended to accumulated tables, by file type."),
		}, []string{"file_type"}),
		RowsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_rejected_total",
			Help:      h("Data rows dropped for having more fields than the header, by file type."),
		}, []string{"file_type"}),
		Configurations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "configurations_total",
			Help:      h("Finished ingestion configurations by outcome."),
		}, []string{"outcome"}),
		IngestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ingest_duration_seconds",
			Help:      h("Duration of a single configuration's ingestion."),
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 300, 900},
		}),
		BatchRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "batch_running",
			Help:      h("1 while a batch is dispatching configurations, 0 otherwise."),
		}),
		Workers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "workers",
			Help:      h("Size of the batch worker pool."),
		}),
	}
}

// NewMetrics creates and registers all batch metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics(true)
	prometheus.MustRegister(
		m.FilesParsed,
		m.FilesSkipped,
		m.RowsIngested,
		m.RowsRejected,
		m.Configurations,
		m.IngestDuration,
		m.BatchRunning,
		m.Workers,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics(false)
}
