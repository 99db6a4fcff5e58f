package router

import (
	"waypoint/internal/logging"
	"waypoint/internal/metrics"
)

type config struct {
	basePath string
	history  History
	logger   *logging.Logger
	metrics  *metrics.Metrics
}

// Option configures a Router.
type Option func(*config)

// WithBasePath prefixes every route template with basePath.
func WithBasePath(basePath string) Option {
	return func(c *config) {
		c.basePath = basePath
	}
}

// WithHistory sets the session history. The default is an in-memory history
// starting at "/".
func WithHistory(h History) Option {
	return func(c *config) {
		c.history = h
	}
}

// WithLogger sets the logger used for navigation events.
func WithLogger(l *logging.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithMetrics enables Prometheus collectors for the router.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *config) {
		c.metrics = m
	}
}
