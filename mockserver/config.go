package mockserver

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// DefaultAddr is where the mock server listens unless configured otherwise.
const DefaultAddr = "127.0.0.1:8888"

// Config holds the mock server configuration.
//
// Use DefaultConfig() or DevelopmentConfig() as a starting point:
//
//	cfg := mockserver.DefaultConfig()
//	cfg.Addr = "127.0.0.1:9999"
//
//	server := mockserver.New(mockserver.WithConfig(cfg))
type Config struct {
	// Addr is the TCP address to listen on.
	// Default: "127.0.0.1:8888"
	Addr string

	// ServiceName labels request logs and metrics.
	// Default: "mockserver"
	ServiceName string

	// ReadTimeout is the maximum duration for reading the entire request.
	//
	// Default: 15s
	ReadTimeout time.Duration

	// ReadHeaderTimeout is the maximum duration for reading request headers.
	//
	// Default: 10s
	ReadHeaderTimeout time.Duration

	// WriteTimeout is the maximum duration before timing out response writes.
	//
	// Default: 15s
	WriteTimeout time.Duration

	// IdleTimeout is the keep-alive idle timeout.
	//
	// Default: 60s
	IdleTimeout time.Duration

	// MaxHeaderBytes limits request header size.
	//
	// Default: 1MB
	MaxHeaderBytes int

	// ShutdownTimeout bounds graceful shutdown.
	//
	// Default: 10s
	ShutdownTimeout time.Duration

	// Logger receives lifecycle events and, when LogRequests is set, one
	// line per request.
	Logger zerolog.Logger

	// LogRequests enables the request logging middleware.
	LogRequests bool

	// Registry collects the hit counters served on /metrics.
	// Default: a fresh registry per server.
	Registry *prometheus.Registry

	// Store holds registered mock responses. Default: an empty store.
	Store *Store

	// Middleware wraps the router, outermost first, after the built-ins.
	Middleware []Middleware

	// Handler replaces the mock router entirely when set.
	Handler http.Handler
}

// DefaultConfig returns settings for running the mock server alongside tests
// or scripts.
func DefaultConfig() Config {
	return Config{
		Addr:              DefaultAddr,
		ServiceName:       "mockserver",
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
		ShutdownTimeout:   10 * time.Second,
	}
}

// DevelopmentConfig returns a lenient configuration with request logging
// and no read or write timeouts, so a debugger can pause handlers.
func DevelopmentConfig() Config {
	return Config{
		Addr:              DefaultAddr,
		ServiceName:       "mockserver",
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		ShutdownTimeout:   3 * time.Second,
		LogRequests:       true,
		ReadTimeout:       0,
		ReadHeaderTimeout: 0,
		WriteTimeout:      0,
	}
}
