// Package diag implements an optional diagnostics surface: a Prometheus
// metrics endpoint, a liveness check, a JSON dump of post-pass overlap
// diagnostics, and the residual-overlap index that backs it. None of this
// participates in the core overlap-resolution engine; it is read-only
// reporting around a pass.
package diag

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the per-pass counters exposed at /metrics.
type Metrics struct {
	Registry *prometheus.Registry

	RecordsRead    prometheus.Counter
	RecordsRemoved prometheus.Counter
	RecordsTrimmed prometheus.Counter
	RecordsSplit   prometheus.Counter
	RecordsWritten prometheus.Counter
	BytesWritten   prometheus.Counter
}

// NewMetrics registers the dataselect_* counters with a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		RecordsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dataselect_records_read_total",
			Help: "Records read across all input files in the current pass.",
		}),
		RecordsRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dataselect_records_removed_total",
			Help: "Records the pruner marked deleted as fully redundant.",
		}),
		RecordsTrimmed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dataselect_records_trimmed_total",
			Help: "Records the pruner sample-trimmed.",
		}),
		RecordsSplit: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dataselect_records_split_total",
			Help: "Additional descriptors produced by the boundary splitter.",
		}),
		RecordsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dataselect_records_written_total",
			Help: "Records emitted to any configured sink.",
		}),
		BytesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dataselect_bytes_written_total",
			Help: "Output bytes emitted to any configured sink.",
		}),
	}
	m.Registry.MustRegister(
		m.RecordsRead, m.RecordsRemoved, m.RecordsTrimmed,
		m.RecordsSplit, m.RecordsWritten, m.BytesWritten,
	)
	return m
}

// ObserveFileStats folds one file's post-pass counters into the metrics:
// the /metrics counters are the pass-wide sum of the per-file counters the
// core already tracks.
func (m *Metrics) ObserveFileStats(recsRead int, removed, trimmed, split, recsWritten int, bytesWritten int64) {
	m.RecordsRead.Add(float64(recsRead))
	m.RecordsRemoved.Add(float64(removed))
	m.RecordsTrimmed.Add(float64(trimmed))
	m.RecordsSplit.Add(float64(split))
	m.RecordsWritten.Add(float64(recsWritten))
	m.BytesWritten.Add(float64(bytesWritten))
}
