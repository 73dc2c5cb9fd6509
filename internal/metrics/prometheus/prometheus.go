package prometheus

import (
	"net/http"
	"time"

	"github.com/SscSPs/recordsheet/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusCollector implements metrics.Collector for Prometheus.
type PrometheusCollector struct {
	postings       *prometheus.CounterVec
	postingLines   *prometheus.CounterVec
	postingLatency *prometheus.HistogramVec
	importRecords  *prometheus.CounterVec
	importErrors   *prometheus.CounterVec
	importLatency  *prometheus.HistogramVec
	circuitOpens   *prometheus.CounterVec
	circuitState   *prometheus.GaugeVec
}

// NewPrometheusCollector creates a collector whose metric names start with namespace.
func NewPrometheusCollector(namespace string) *PrometheusCollector {
	return &PrometheusCollector{
		postings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "journal_attempts_total",
				Help:      "Journal posting attempts by outcome",
			},
			[]string{"outcome"},
		),
		postingLines: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "postings_total",
				Help:      "Postings submitted with journal attempts, by outcome",
			},
			[]string{"outcome"},
		),
		postingLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "journal_duration_seconds",
				Help:      "Posting engine latency from validation to commit",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms to ~4s
			},
			[]string{"outcome"},
		),
		importRecords: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "import_records_total",
				Help:      "Imported records by format and result (inserted, duplicate)",
			},
			[]string{"format", "result"},
		),
		importErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "import_errors_total",
				Help:      "Import batches rejected by format",
			},
			[]string{"format"},
		),
		importLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "import_duration_seconds",
				Help:      "Import batch latency",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
			},
			[]string{"format"},
		),
		circuitOpens: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "circuit_opens_total",
				Help:      "Total number of circuit breaker opens",
			},
			[]string{"name"},
		),
		circuitState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "circuit_state",
				Help:      "Current circuit breaker state (0=closed, 1=open, 2=half-open)",
			},
			[]string{"name"},
		),
	}
}

// Register registers all metrics with the given Prometheus registry.
func (pc *PrometheusCollector) Register(registry *prometheus.Registry) error {
	collectors := []prometheus.Collector{
		pc.postings,
		pc.postingLines,
		pc.postingLatency,
		pc.importRecords,
		pc.importErrors,
		pc.importLatency,
		pc.circuitOpens,
		pc.circuitState,
	}
	for _, collector := range collectors {
		if err := registry.Register(collector); err != nil {
			return err
		}
	}
	return nil
}

// Handler serves the registry in the Prometheus text format.
func Handler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// RecordPosting records one posting engine call.
func (pc *PrometheusCollector) RecordPosting(outcome string, postings int, duration time.Duration) {
	pc.postings.WithLabelValues(outcome).Inc()
	pc.postingLines.WithLabelValues(outcome).Add(float64(postings))
	pc.postingLatency.WithLabelValues(outcome).Observe(duration.Seconds())
}

// RecordImport records a successful import batch.
func (pc *PrometheusCollector) RecordImport(format string, result metrics.ImportCounts, duration time.Duration) {
	pc.importRecords.WithLabelValues(format, "inserted").Add(float64(result.Inserted))
	pc.importRecords.WithLabelValues(format, "duplicate").Add(float64(result.Duplicates))
	pc.importLatency.WithLabelValues(format).Observe(duration.Seconds())
}

// RecordImportError records a rejected import batch.
func (pc *PrometheusCollector) RecordImportError(format string) {
	pc.importErrors.WithLabelValues(format).Inc()
}

// RecordCircuitState records the current circuit breaker state.
func (pc *PrometheusCollector) RecordCircuitState(name string, state metrics.CircuitState) {
	pc.circuitState.WithLabelValues(name).Set(float64(state))
	if state == metrics.CircuitOpen {
		pc.circuitOpens.WithLabelValues(name).Inc()
	}
}

var _ metrics.Collector = (*PrometheusCollector)(nil)
