// Package observability records conversion counters with the prometheus
// client and writes them in the text exposition format, for collection by
// node_exporter's textfile collector after a batch run.
package observability

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ginjaninja78/catalog-feed/internal/converter"
)

// Metrics holds the counters of one process. Each instance has its own
// registry so repeated runs in tests don't collide.
type Metrics struct {
	registry *prometheus.Registry

	RowsProcessed   prometheus.Counter
	EntitiesEmitted *prometheus.CounterVec
	Warnings        prometheus.Counter
	Failures        prometheus.Counter
	Duration        prometheus.Gauge
	LastSuccess     prometheus.Gauge
}

// New creates and registers the conversion metrics.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RowsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalogfeed_rows_processed_total",
			Help: "Data rows read from input files",
		}),
		EntitiesEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalogfeed_entities_emitted_total",
			Help: "Feed elements written, by entity kind",
		}, []string{"kind"}),
		Warnings: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalogfeed_warnings_total",
			Help: "Soft value problems logged during conversion",
		}),
		Failures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalogfeed_failures_total",
			Help: "Conversions that ended in an error",
		}),
		Duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "catalogfeed_last_duration_seconds",
			Help: "Duration of the last conversion",
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "catalogfeed_last_success_timestamp_seconds",
			Help: "Unix time of the last successful conversion",
		}),
	}

	m.registry.MustRegister(
		m.RowsProcessed,
		m.EntitiesEmitted,
		m.Warnings,
		m.Failures,
		m.Duration,
		m.LastSuccess,
	)

	return m
}

// Observe adds the outcome of one pipeline run.
func (m *Metrics) Observe(result converter.Result) {
	m.RowsProcessed.Add(float64(result.Stats.RowsProcessed))
	m.EntitiesEmitted.WithLabelValues("brand").Add(float64(result.Stats.Brands))
	m.EntitiesEmitted.WithLabelValues("category").Add(float64(result.Stats.Categories))
	m.EntitiesEmitted.WithLabelValues("product").Add(float64(result.Stats.Products))
	m.Warnings.Add(float64(result.Stats.Warnings))
	m.Duration.Set(result.ProcessingTime.Seconds())

	if result.Success {
		m.LastSuccess.Set(float64(time.Now().Unix()))
	} else {
		m.Failures.Inc()
	}
}

// WriteTextfile writes every metric to path atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
