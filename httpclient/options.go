package httpclient

import (
	"crypto/tls"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/kroma-labs/getman/version"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	// scope is the instrumentation scope name for OpenTelemetry.
	scope = "github.com/kroma-labs/getman/httpclient"
)

// defaultLogger is the zerolog logger used when none is supplied.
// It stays disabled unless WithDebug is set.
var defaultLogger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// =============================================================================
// Config - HTTP Transport Configuration
// =============================================================================

// Config holds connection pool and dial settings for the default transport.
// Request deadlines are not part of Config: every attempt is bounded by the
// client's Settings timeout instead.
type Config struct {
	// MaxIdleConns controls the maximum number of idle (keep-alive)
	// connections across all hosts.
	//
	// Default: 100
	MaxIdleConns int

	// MaxIdleConnsPerHost controls the maximum idle connections kept per host.
	//
	// Default: 20
	MaxIdleConnsPerHost int

	// MaxConnsPerHost limits idle plus active connections per host.
	// Zero means unlimited.
	//
	// Default: 100
	MaxConnsPerHost int

	// IdleConnTimeout is how long an idle connection remains in the pool.
	//
	// Default: 90s
	IdleConnTimeout time.Duration

	// TLSHandshakeTimeout is the maximum time to wait for a TLS handshake.
	//
	// Default: 10s
	TLSHandshakeTimeout time.Duration

	// ExpectContinueTimeout is how long to wait for "100 Continue".
	//
	// Default: 1s
	ExpectContinueTimeout time.Duration

	// DialTimeout is the maximum time to establish a TCP connection.
	//
	// Default: 5s
	DialTimeout time.Duration

	// KeepAlive specifies the TCP keep-alive probe interval.
	//
	// Default: 30s
	KeepAlive time.Duration

	// DisableKeepAlives disables connection reuse.
	DisableKeepAlives bool

	// DisableCompression disables transparent gzip.
	DisableCompression bool

	// ForceHTTP2 attempts HTTP/2 with a custom dialer or TLS config.
	ForceHTTP2 bool
}

// DefaultConfig returns balanced settings for general use.
func DefaultConfig() Config {
	return Config{
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   20,
		MaxConnsPerHost:       100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		DialTimeout:           5 * time.Second,
		KeepAlive:             30 * time.Second,
	}
}

// LowLatencyConfig fails fast on dial and handshake and prefers HTTP/2.
func LowLatencyConfig() Config {
	return Config{
		MaxIdleConns:          50,
		MaxIdleConnsPerHost:   25,
		MaxConnsPerHost:       50,
		IdleConnTimeout:       60 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 500 * time.Millisecond,
		DialTimeout:           2 * time.Second,
		KeepAlive:             15 * time.Second,
		ForceHTTP2:            true,
	}
}

// ConservativeConfig keeps few connections open, for constrained environments.
func ConservativeConfig() Config {
	return Config{
		MaxIdleConns:          20,
		MaxIdleConnsPerHost:   5,
		MaxConnsPerHost:       20,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		DialTimeout:           5 * time.Second,
		KeepAlive:             30 * time.Second,
	}
}

// =============================================================================
// Internal Configuration
// =============================================================================

type internalConfig struct {
	httpConfig Config

	// Transport replaces the default *http.Transport as the base of the chain.
	Transport http.RoundTripper

	TLSConfig            *tls.Config
	ProxyURL             *url.URL
	ProxyFromEnvironment bool

	// OpenTelemetry
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	Metrics        *metrics

	ServiceName string

	Version    string
	Token      string
	BearerAuth bool
	UserAgent  string

	Settings   *Settings
	Classifier TransientClassifier

	Logger  *zerolog.Logger
	Display Display

	Interceptors []RequestInterceptor

	RateLimit     *RateLimitConfig
	BreakerConfig *BreakerConfig

	Debug        bool
	GenerateCurl bool

	// Concurrency bounds the number of queued tasks run at once. Zero is unbounded.
	Concurrency int
}

func newConfig(opts ...Option) *internalConfig {
	cfg := &internalConfig{
		httpConfig:           DefaultConfig(),
		TracerProvider:       otel.GetTracerProvider(),
		MeterProvider:        otel.GetMeterProvider(),
		ProxyFromEnvironment: true,
		UserAgent:            version.UserAgent(),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.Settings == nil {
		cfg.Settings = DefaultSettings()
	}
	if cfg.Logger == nil {
		level := zerolog.Disabled
		if cfg.Debug {
			level = zerolog.DebugLevel
		}
		l := defaultLogger.Level(level)
		cfg.Logger = &l
	}
	if cfg.Display == nil {
		cfg.Display = NewConsoleDisplay(os.Stdout, cfg.Settings)
	}

	cfg.Tracer = cfg.TracerProvider.Tracer(scope)
	cfg.Meter = cfg.MeterProvider.Meter(scope)

	cfg.Metrics, _ = newMetrics(cfg.Meter)

	return cfg
}

// buildTransport returns the base of the transport chain.
func (cfg *internalConfig) buildTransport() http.RoundTripper {
	if cfg.Transport != nil {
		return cfg.Transport
	}

	hc := cfg.httpConfig

	dialer := &net.Dialer{
		Timeout:   hc.DialTimeout,
		KeepAlive: hc.KeepAlive,
	}

	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		MaxIdleConns:          hc.MaxIdleConns,
		MaxIdleConnsPerHost:   hc.MaxIdleConnsPerHost,
		MaxConnsPerHost:       hc.MaxConnsPerHost,
		IdleConnTimeout:       hc.IdleConnTimeout,
		TLSHandshakeTimeout:   hc.TLSHandshakeTimeout,
		ExpectContinueTimeout: hc.ExpectContinueTimeout,
		DisableKeepAlives:     hc.DisableKeepAlives,
		DisableCompression:    hc.DisableCompression,
		TLSClientConfig:       cfg.TLSConfig,
		ForceAttemptHTTP2:     hc.ForceHTTP2,
	}

	if cfg.ProxyURL != nil {
		transport.Proxy = http.ProxyURL(cfg.ProxyURL)
	} else if cfg.ProxyFromEnvironment {
		transport.Proxy = http.ProxyFromEnvironment
	}

	return transport
}

// baseAttributes returns the common metric attributes.
func (cfg *internalConfig) baseAttributes() []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 1)
	if cfg.ServiceName != "" {
		attrs = append(attrs, attribute.String("http.client.name", cfg.ServiceName))
	}
	return attrs
}

// requestInterceptors returns the interceptors applied to every request:
// User-Agent, then the bearer token when enabled, then user interceptors.
func (cfg *internalConfig) requestInterceptors() []RequestInterceptor {
	out := make([]RequestInterceptor, 0, len(cfg.Interceptors)+2)
	if cfg.UserAgent != "" {
		out = append(out, UserAgentInterceptor(cfg.UserAgent))
	}
	if cfg.BearerAuth && cfg.Token != "" {
		out = append(out, AuthBearerInterceptor(cfg.Token))
	}
	return append(out, cfg.Interceptors...)
}

// =============================================================================
// Options
// =============================================================================

// Option configures a Client.
type Option func(*internalConfig)

// WithConfig sets the transport configuration.
func WithConfig(c Config) Option {
	return func(cfg *internalConfig) {
		cfg.httpConfig = c
	}
}

// WithTransport replaces the base transport. Rate limiting, circuit breaking
// and instrumentation still wrap it.
func WithTransport(rt http.RoundTripper) Option {
	return func(cfg *internalConfig) {
		cfg.Transport = rt
	}
}

// WithTLSConfig sets the TLS configuration of the default transport.
func WithTLSConfig(tlsCfg *tls.Config) Option {
	return func(cfg *internalConfig) {
		cfg.TLSConfig = tlsCfg
	}
}

// WithProxyURL routes requests through a fixed proxy.
func WithProxyURL(proxyURL *url.URL) Option {
	return func(cfg *internalConfig) {
		cfg.ProxyURL = proxyURL
		cfg.ProxyFromEnvironment = false
	}
}

// WithProxyFromEnvironment toggles HTTP_PROXY/HTTPS_PROXY support.
func WithProxyFromEnvironment(enabled bool) Option {
	return func(cfg *internalConfig) {
		cfg.ProxyFromEnvironment = enabled
	}
}

// WithServiceName labels spans and metrics.
func WithServiceName(name string) Option {
	return func(cfg *internalConfig) {
		cfg.ServiceName = name
	}
}

// WithTracerProvider sets the OpenTelemetry tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(cfg *internalConfig) {
		cfg.TracerProvider = tp
	}
}

// WithMeterProvider sets the OpenTelemetry meter provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(cfg *internalConfig) {
		cfg.MeterProvider = mp
	}
}

// WithVersion sets the version segment placed between the base URL and
// route segments, e.g. "v1".
func WithVersion(v string) Option {
	return func(cfg *internalConfig) {
		cfg.Version = v
	}
}

// WithToken stores an API token on the client. It is only sent when
// WithBearerAuth is also set.
func WithToken(token string) Option {
	return func(cfg *internalConfig) {
		cfg.Token = token
	}
}

// WithBearerAuth sends the stored token as "Authorization: Bearer <token>".
func WithBearerAuth() Option {
	return func(cfg *internalConfig) {
		cfg.BearerAuth = true
	}
}

// WithUserAgent overrides the default User-Agent. Empty disables it.
func WithUserAgent(ua string) Option {
	return func(cfg *internalConfig) {
		cfg.UserAgent = ua
	}
}

// WithSettings shares s with the client. Timeout escalation from retries is
// written to s.
func WithSettings(s *Settings) Option {
	return func(cfg *internalConfig) {
		cfg.Settings = s
	}
}

// WithTransientClassifier replaces DefaultTransientClassifier.
func WithTransientClassifier(c TransientClassifier) Option {
	return func(cfg *internalConfig) {
		cfg.Classifier = c
	}
}

// WithLogger sets the zerolog logger.
func WithLogger(l zerolog.Logger) Option {
	return func(cfg *internalConfig) {
		cfg.Logger = &l
	}
}

// WithDisplay sets the sink for retry progress and reports.
func WithDisplay(d Display) Option {
	return func(cfg *internalConfig) {
		cfg.Display = d
	}
}

// WithInterceptor adds a request interceptor applied to every request.
func WithInterceptor(i RequestInterceptor) Option {
	return func(cfg *internalConfig) {
		cfg.Interceptors = append(cfg.Interceptors, i)
	}
}

// WithRateLimit limits the client's outgoing request rate.
func WithRateLimit(rl RateLimitConfig) Option {
	return func(cfg *internalConfig) {
		cfg.RateLimit = &rl
	}
}

// WithCircuitBreaker enables a circuit breaker around every attempt.
func WithCircuitBreaker(bc BreakerConfig) Option {
	return func(cfg *internalConfig) {
		cfg.BreakerConfig = &bc
	}
}

// WithDebug logs every request and response at debug level.
func WithDebug() Option {
	return func(cfg *internalConfig) {
		cfg.Debug = true
	}
}

// WithGenerateCurl records an equivalent cURL command on every Response.
func WithGenerateCurl() Option {
	return func(cfg *internalConfig) {
		cfg.GenerateCurl = true
	}
}

// WithConcurrency bounds how many queued tasks ExecuteQueue runs at once.
func WithConcurrency(n int) Option {
	return func(cfg *internalConfig) {
		cfg.Concurrency = n
	}
}
