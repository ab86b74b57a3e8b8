package morph

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/morphonent/morphonent/pkg/dom"
)

// MetricsConfig configures the engine's Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "morphonent").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for render duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the engine's Prometheus metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
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
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

// Metrics holds the engine's collectors. A nil *Metrics records nothing.
type Metrics struct {
	renders        *prometheus.CounterVec
	renderDuration prometheus.Histogram
	hostWrites     *prometheus.CounterVec
	suspensions    *prometheus.CounterVec
	rejections     prometheus.Counter
	dispatches     *prometheus.CounterVec
	subscribers    prometheus.Gauge
	hydratedNodes  prometheus.Counter
}

// NewMetrics creates and registers the engine's collectors. Registering twice
// on the same registry panics, so share one *Metrics between engines.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := MetricsConfig{
		Namespace: "morphonent",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		renders: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   config.Namespace,
				Subsystem:   config.Subsystem,
				Name:        "renders_total",
				Help:        "Total number of renders by outcome.",
				ConstLabels: config.ConstLabels,
			},
			[]string{"status"},
		),
		renderDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace:   config.Namespace,
				Subsystem:   config.Subsystem,
				Name:        "render_duration_seconds",
				Help:        "Time spent in the synchronous part of a render.",
				ConstLabels: config.ConstLabels,
				Buckets:     config.Buckets,
			},
		),
		hostWrites: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   config.Namespace,
				Subsystem:   config.Subsystem,
				Name:        "host_writes_total",
				Help:        "Total number of writes applied to host documents by kind.",
				ConstLabels: config.ConstLabels,
			},
			[]string{"op"},
		),
		suspensions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   config.Namespace,
				Subsystem:   config.Subsystem,
				Name:        "suspensions_total",
				Help:        "Total number of positions suspended on a pending value.",
				ConstLabels: config.ConstLabels,
			},
			[]string{"kind"},
		),
		rejections: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace:   config.Namespace,
				Subsystem:   config.Subsystem,
				Name:        "unhandled_rejections_total",
				Help:        "Total number of suspended values that were rejected.",
				ConstLabels: config.ConstLabels,
			},
		),
		dispatches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   config.Namespace,
				Subsystem:   config.Subsystem,
				Name:        "bus_dispatches_total",
				Help:        "Total number of bus events dispatched, by name for events with listeners and \"other\" otherwise.",
				ConstLabels: config.ConstLabels,
			},
			[]string{"event"},
		),
		subscribers: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace:   config.Namespace,
				Subsystem:   config.Subsystem,
				Name:        "bus_subscriptions",
				Help:        "Number of (listener, event) subscriptions held by open engines.",
				ConstLabels: config.ConstLabels,
			},
		),
		hydratedNodes: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace:   config.Namespace,
				Subsystem:   config.Subsystem,
				Name:        "hydrated_nodes_total",
				Help:        "Total number of server-rendered nodes adopted by hydration.",
				ConstLabels: config.ConstLabels,
			},
		),
	}
}

func (m *Metrics) observeRender(d time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.renders.WithLabelValues(status).Inc()
	m.renderDuration.Observe(d.Seconds())
}

func (m *Metrics) wrote(op dom.WriteOp) {
	if m == nil {
		return
	}
	m.hostWrites.WithLabelValues(op.String()).Inc()
}

func (m *Metrics) suspended(kind string) {
	if m == nil {
		return
	}
	m.suspensions.WithLabelValues(kind).Inc()
}

func (m *Metrics) rejected() {
	if m == nil {
		return
	}
	m.rejections.Inc()
}

func (m *Metrics) dispatched(event string) {
	if m == nil {
		return
	}
	m.dispatches.WithLabelValues(event).Inc()
}

func (m *Metrics) subscriptions(delta int) {
	if m == nil {
		return
	}
	m.subscribers.Add(float64(delta))
}

func (m *Metrics) hydrated(n int) {
	if m == nil {
		return
	}
	m.hydratedNodes.Add(float64(n))
}
