// Package metrics exposes Prometheus instrumentation for a simulator
// session's lifecycle, wire throughput, driver state transitions, and the
// schema binder, following the same functional-options/promauto shape the
// teacher uses for its own middleware metrics.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config configures the metrics set.
type Config struct {
	Namespace   string
	ConstLabels prometheus.Labels
	Registry    prometheus.Registerer
}

// Option configures a Config.
type Option func(*Config)

// WithNamespace overrides the metrics namespace (default: "simlink").
func WithNamespace(ns string) Option {
	return func(c *Config) { c.Namespace = ns }
}

// WithConstLabels attaches constant labels to every metric.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) { c.ConstLabels = labels }
}

// WithRegistry overrides the Prometheus registerer (default: prometheus.DefaultRegisterer).
func WithRegistry(r prometheus.Registerer) Option {
	return func(c *Config) { c.Registry = r }
}

func defaultConfig() Config {
	return Config{
		Namespace: "simlink",
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics is the full set of counters/gauges/histograms a session reports
// into. All fields are safe for concurrent use across goroutines.
type Metrics struct {
	ConnectsTotal      prometheus.Counter
	ConnectFailures    prometheus.Counter
	SessionsActive     prometheus.Gauge
	MessagesSent       *prometheus.CounterVec
	MessagesReceived   *prometheus.CounterVec
	DriverTransitions  *prometheus.CounterVec
	DriverErrors       *prometheus.CounterVec
	SchemaBinds        prometheus.Counter
	SchemaBindErrors   prometheus.Counter
	RecorderQueueDepth prometheus.Gauge
}

var (
	instance *Metrics
	once     sync.Once
)

// New builds a Metrics set registered against the configured registerer.
// Intended to be called once per process; cmd/simlink holds the result.
func New(opts ...Option) *Metrics {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	factory := promauto.With(cfg.Registry)

	return &Metrics{
		ConnectsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Name:        "connects_total",
			Help:        "Total number of successful WebSocket connect attempts.",
			ConstLabels: cfg.ConstLabels,
		}),
		ConnectFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Name:        "connect_failures_total",
			Help:        "Total number of failed WebSocket connect attempts.",
			ConstLabels: cfg.ConstLabels,
		}),
		SessionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   cfg.Namespace,
			Name:        "sessions_active",
			Help:        "Number of sessions currently pumping messages.",
			ConstLabels: cfg.ConstLabels,
		}),
		MessagesSent: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Name:        "messages_sent_total",
			Help:        "Total SimulatorToServer messages sent, by type.",
			ConstLabels: cfg.ConstLabels,
		}, []string{"type"}),
		MessagesReceived: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Name:        "messages_received_total",
			Help:        "Total ServerToSimulator messages received, by type.",
			ConstLabels: cfg.ConstLabels,
		}, []string{"type"}),
		DriverTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Name:        "driver_transitions_total",
			Help:        "Total driver state transitions, by resulting state.",
			ConstLabels: cfg.ConstLabels,
		}, []string{"state"}),
		DriverErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Name:        "driver_errors_total",
			Help:        "Total fatal driver errors, by error kind.",
			ConstLabels: cfg.ConstLabels,
		}, []string{"kind"}),
		SchemaBinds: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Name:        "schema_binds_total",
			Help:        "Total descriptor binds that produced or reused a schema handle.",
			ConstLabels: cfg.ConstLabels,
		}),
		SchemaBindErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Name:        "schema_bind_errors_total",
			Help:        "Total descriptor binds that failed due to an unknown referenced type.",
			ConstLabels: cfg.ConstLabels,
		}),
		RecorderQueueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   cfg.Namespace,
			Name:        "recorder_queue_depth",
			Help:        "Current depth of the recorder's bounded entry queue.",
			ConstLabels: cfg.ConstLabels,
		}),
	}
}

// Default returns a process-wide Metrics instance, creating it against the
// default registerer on first call.
func Default() *Metrics {
	once.Do(func() {
		instance = New()
	})
	return instance
}
