package infrastructure

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// PipelineMetrics are the counters a pipeline run reports.
// Each instance owns its registry so runs and tests never collide.
type PipelineMetrics struct {
	Registry           *prometheus.Registry
	FilesDiscovered    prometheus.Counter
	FilesLoaded        prometheus.Counter
	FilesSkipped       *prometheus.CounterVec
	RowsLoaded         prometheus.Counter
	RowsDropped        prometheus.Counter
	ValuesInterpolated prometheus.Counter
	FileDuration       prometheus.Histogram
}

// NewPipelineMetrics creates and registers the pipeline collectors
func NewPipelineMetrics() *PipelineMetrics {
	m := &PipelineMetrics{
		Registry: prometheus.NewRegistry(),
		FilesDiscovered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "osccli",
			Name:      "files_discovered_total",
			Help:      "Source files handed to the loader.",
		}),
		FilesLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "osccli",
			Name:      "files_loaded_total",
			Help:      "Source files that contributed rows to the dataset.",
		}),
		FilesSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "osccli",
			Name:      "files_skipped_total",
			Help:      "Source files excluded from the dataset, by reason.",
		}, []string{"reason"}),
		RowsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "osccli",
			Name:      "rows_loaded_total",
			Help:      "Rows added to the dataset.",
		}),
		RowsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "osccli",
			Name:      "rows_dropped_total",
			Help:      "Rows dropped because their timestamp could not be parsed.",
		}),
		ValuesInterpolated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "osccli",
			Name:      "frequency_values_interpolated_total",
			Help:      "Missing frequency values filled by the cleaner.",
		}),
		FileDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "osccli",
			Name:      "file_processing_seconds",
			Help:      "Time spent loading, reconstructing and cleaning one file.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 4, 8),
		}),
	}

	m.Registry.MustRegister(
		m.FilesDiscovered,
		m.FilesLoaded,
		m.FilesSkipped,
		m.RowsLoaded,
		m.RowsDropped,
		m.ValuesInterpolated,
		m.FileDuration,
	)
	return m
}

// WriteTextfile writes the current values in the Prometheus text format,
// suitable for the node_exporter textfile collector.
func (m *PipelineMetrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
