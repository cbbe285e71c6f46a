package mockserver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// Option configures the server.
type Option func(*Config)

// WithConfig applies all settings from a Config struct.
func WithConfig(cfg Config) Option {
	return func(c *Config) {
		*c = cfg
	}
}

// WithAddr sets the listen address. Use "127.0.0.1:0" to let the OS pick a port.
func WithAddr(addr string) Option {
	return func(c *Config) {
		c.Addr = addr
	}
}

// WithServiceName sets the name used in request logs and metrics.
func WithServiceName(name string) Option {
	return func(c *Config) {
		c.ServiceName = name
	}
}

// WithLogger sets the server logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

// WithRequestLogging logs one line per request.
func WithRequestLogging() Option {
	return func(c *Config) {
		c.LogRequests = true
	}
}

// WithRegistry sets the Prometheus registry for hit counters.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(c *Config) {
		c.Registry = reg
	}
}

// WithStore shares a mock store with the server, so mocks can be added
// while it runs.
func WithStore(s *Store) Option {
	return func(c *Config) {
		c.Store = s
	}
}

// WithMiddleware adds middleware around the router.
func WithMiddleware(ms ...Middleware) Option {
	return func(c *Config) {
		c.Middleware = append(c.Middleware, ms...)
	}
}
