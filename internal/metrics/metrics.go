// Package metrics instruments a pipeline run with Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the per-run collectors on a private registry so a batch
// run can dump them to a textfile for the node-exporter textfile
// collector instead of serving an endpoint.
type Metrics struct {
	registry *prometheus.Registry

	LinesRead     prometheus.Counter
	RecordsParsed prometheus.Counter
	LinesSkipped  prometheus.Counter
	QueryDuration prometheus.Histogram
	ReportsTotal  *prometheus.CounterVec
}

// New creates a metrics set with its own registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		LinesRead: factory.NewCounter(prometheus.CounterOpts{
			Name: "loglens_lines_read_total",
			Help: "Total number of raw log lines read",
		}),
		RecordsParsed: factory.NewCounter(prometheus.CounterOpts{
			Name: "loglens_records_parsed_total",
			Help: "Total number of successfully parsed records",
		}),
		LinesSkipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "loglens_lines_skipped_total",
			Help: "Total number of malformed lines skipped",
		}),
		QueryDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "loglens_query_duration_seconds",
			Help:    "Duration of the aggregate query phase in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		ReportsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "loglens_reports_total",
			Help: "Report export outcomes",
		}, []string{"report", "status"}),
	}
}

// WriteTextfile dumps the registry in the Prometheus text format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
