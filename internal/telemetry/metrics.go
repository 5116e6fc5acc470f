package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the build metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "pagebake").
	Namespace string

	// ConstLabels are constant labels added to all metrics, such as the
	// site name.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for phase durations.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry receives the metrics. Default: a new private registry.
	Registry *prometheus.Registry
}

// MetricsOption configures the build metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry *prometheus.Registry) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "pagebake",
		Buckets:   prometheus.DefBuckets,
	}
}

// Metrics holds the counters and histograms of one build.
type Metrics struct {
	registry *prometheus.Registry

	entries       *prometheus.CounterVec
	listFiles     prometheus.Counter
	filesWritten  prometheus.Counter
	bytesWritten  prometheus.Counter
	writeFailures prometheus.Counter
	phaseDuration *prometheus.HistogramVec
	lastSuccess   prometheus.Gauge
}

// NewMetrics registers the build metrics.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.Registry == nil {
		config.Registry = prometheus.NewRegistry()
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		registry: config.Registry,

		entries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "entries_rendered_total",
			Help:        "Route table entries rendered, by source (route, redirect, fallback)",
			ConstLabels: config.ConstLabels,
		}, []string{"source"}),

		listFiles: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "list_files_total",
			Help:        "Redirect and route list files generated",
			ConstLabels: config.ConstLabels,
		}),

		filesWritten: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "files_written_total",
			Help:        "Files written to the publish target",
			ConstLabels: config.ConstLabels,
		}),

		bytesWritten: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "bytes_written_total",
			Help:        "Bytes written to the publish target",
			ConstLabels: config.ConstLabels,
		}),

		writeFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "write_failures_total",
			Help:        "Files that could not be written",
			ConstLabels: config.ConstLabels,
		}),

		phaseDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Name:        "phase_duration_seconds",
			Help:        "Build phase duration in seconds",
			Buckets:     config.Buckets,
			ConstLabels: config.ConstLabels,
		}, []string{"phase"}),

		lastSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Name:        "last_success_timestamp_seconds",
			Help:        "Unix time of the last successful build",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// Registry returns the registry holding the metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// AddEntries counts rendered table entries of one source.
func (m *Metrics) AddEntries(source string, n int) {
	m.entries.WithLabelValues(source).Add(float64(n))
}

// AddListFiles counts generated list files.
func (m *Metrics) AddListFiles(n int) {
	m.listFiles.Add(float64(n))
}

// ObserveWrite records one write attempt.
func (m *Metrics) ObserveWrite(size int, err error) {
	if err != nil {
		m.writeFailures.Inc()
		return
	}
	m.filesWritten.Inc()
	m.bytesWritten.Add(float64(size))
}

// ObservePhase records the duration of a build phase.
func (m *Metrics) ObservePhase(phase string, d time.Duration) {
	m.phaseDuration.WithLabelValues(phase).Observe(d.Seconds())
}

// MarkSuccess sets the last success timestamp.
func (m *Metrics) MarkSuccess(t time.Time) {
	m.lastSuccess.Set(float64(t.Unix()))
}

// WriteTextfile writes all metrics to path in the Prometheus text format.
// The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
