// Package metrics exposes Prometheus collectors for router activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config configures the collectors.
type Config struct {
	// Namespace is the metrics namespace (default: "waypoint").
	Namespace string

	// Subsystem is the metrics subsystem (default: "router").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the collectors.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "waypoint",
		Subsystem: "router",
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the router collectors. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	navigations *prometheus.CounterVec
	matches     *prometheus.CounterVec
	misses      prometheus.Counter
	buildErrors *prometheus.CounterVec
	cleanups    prometheus.Counter
	subscribers prometheus.Gauge
}

// New registers the collectors.
func New(opts ...Option) *Metrics {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		navigations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigations_total",
			Help:        "Total number of history changes observed by the router",
			ConstLabels: config.ConstLabels,
		}, []string{"action"}),

		matches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "matches_total",
			Help:        "Total number of successful route matches by route",
			ConstLabels: config.ConstLabels,
		}, []string{"route"}),

		misses: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "match_misses_total",
			Help:        "Total number of locations that matched no route",
			ConstLabels: config.ConstLabels,
		}),

		buildErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "build_errors_total",
			Help:        "Total number of failed URL builds by route",
			ConstLabels: config.ConstLabels,
		}, []string{"route"}),

		cleanups: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "url_cleanups_total",
			Help:        "Total number of initial URLs replaced by their canonical form",
			ConstLabels: config.ConstLabels,
		}),

		subscribers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "subscribers",
			Help:        "Number of active location subscribers",
			ConstLabels: config.ConstLabels,
		}),
	}
}

func (m *Metrics) RecordNavigation(action string) {
	if m == nil {
		return
	}
	m.navigations.WithLabelValues(action).Inc()
}

func (m *Metrics) RecordMatch(route string, ok bool) {
	if m == nil {
		return
	}
	if !ok {
		m.misses.Inc()
		return
	}
	m.matches.WithLabelValues(route).Inc()
}

func (m *Metrics) RecordBuildError(route string) {
	if m == nil {
		return
	}
	m.buildErrors.WithLabelValues(route).Inc()
}

func (m *Metrics) RecordCleanup() {
	if m == nil {
		return
	}
	m.cleanups.Inc()
}

func (m *Metrics) SubscriberAdded() {
	if m == nil {
		return
	}
	m.subscribers.Inc()
}

func (m *Metrics) SubscriberRemoved() {
	if m == nil {
		return
	}
	m.subscribers.Dec()
}
