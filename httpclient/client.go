package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Client issues requests against a base API.
//
// It resolves URLs from a base URL and optional version segment, sends
// requests through a RetryPolicy, keeps session cookies, and can defer
// requests into a TaskQueue for concurrent execution later.
//
//	client := httpclient.New("https://api.example.com", httpclient.WithVersion("v1"))
//	client.Routes("users", "42") // https://api.example.com/v1/users/42
//	resp, err := client.PerformRequest(ctx, httpclient.RequestSpec{Method: httpclient.MethodGet})
type Client struct {
	// httpClient is the underlying HTTP client with transport chain.
	httpClient *http.Client

	// config holds all client configuration.
	config *internalConfig

	baseURL string

	mu  sync.RWMutex
	url string

	settings   *Settings
	jar        *SessionJar
	queue      *TaskQueue
	dispatcher *dispatcher
	retry      *RetryPolicy
	logger     zerolog.Logger
	display    Display
}

// New creates a Client for baseURL.
//
// The transport chain is, from the outside in: OpenTelemetry instrumentation,
// circuit breaker (optional), rate limiter (optional), base transport.
func New(baseURL string, opts ...Option) *Client {
	cfg := newConfig(opts...)

	transport := cfg.buildTransport()
	withRateLimit := newRateLimitTransport(transport, cfg.RateLimit)
	withBreaker := newCircuitBreakerTransport(withRateLimit, cfg)
	instrumented := newOtelTransport(withBreaker, cfg)

	jar := NewSessionJar()
	httpClient := &http.Client{
		Transport: instrumented,
		Jar:       jar,
	}

	retry := NewRetryPolicy(cfg.Classifier, *cfg.Logger, cfg.Display)
	retry.metrics = cfg.Metrics
	retry.attrs = cfg.baseAttributes()

	c := &Client{
		httpClient: httpClient,
		config:     cfg,
		baseURL:    baseURL,
		settings:   cfg.Settings,
		jar:        jar,
		queue:      NewTaskQueue(),
		dispatcher: &dispatcher{
			httpClient:   httpClient,
			interceptors: cfg.requestInterceptors(),
			logger:       *cfg.Logger,
			debug:        cfg.Debug,
			generateCurl: cfg.GenerateCurl,
		},
		retry:   retry,
		logger:  *cfg.Logger,
		display: cfg.Display,
	}
	c.url = c.versionedBase()

	return c
}

func (c *Client) versionedBase() string {
	if c.config.Version == "" {
		return NormalizeURL(c.baseURL)
	}
	return NormalizeURL(c.baseURL, c.config.Version)
}

// HTTP returns the underlying *http.Client.
func (c *Client) HTTP() *http.Client {
	return c.httpClient
}

// BaseURL returns the base URL given to New.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Version returns the version segment, or "".
func (c *Client) Version() string {
	return c.config.Version
}

// Token returns the stored API token, or "".
func (c *Client) Token() string {
	return c.config.Token
}

// Settings returns the shared settings.
func (c *Client) Settings() *Settings {
	return c.settings
}

// Cookies returns the session cookie jar.
func (c *Client) Cookies() *SessionJar {
	return c.jar
}

// Queue returns the task queue used for deferred requests.
func (c *Client) Queue() *TaskQueue {
	return c.queue
}

// URL returns the current URL: the last Routes result, or base URL plus
// version before any call to Routes.
func (c *Client) URL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.url
}

// Routes joins the base URL, the version segment (when set) and segments,
// stores the result as the current URL and returns it.
func (c *Client) Routes(segments ...string) string {
	parts := make([]string, 0, len(segments)+2)
	parts = append(parts, c.baseURL)
	if c.config.Version != "" {
		parts = append(parts, c.config.Version)
	}
	parts = append(parts, segments...)

	u := NormalizeURL(parts...)

	c.mu.Lock()
	c.url = u
	c.mu.Unlock()

	return u
}

// Request creates a new RequestBuilder.
func (c *Client) Request() *RequestBuilder {
	return &RequestBuilder{
		client:     c,
		pathParams: make(map[string]string),
		headers:    NewHeaders(),
		params:     NewParams(),
	}
}

// PerformRequest sends spec, or defers it when spec.Queue is set.
//
// An unsupported method fails immediately without any network call, queued
// or not. A sent request returns the Response whatever its status code.
// When every attempt failed transiently the error matches ErrNoResponse.
// A deferred request returns (nil, nil).
func (c *Client) PerformRequest(ctx context.Context, spec RequestSpec) (*Response, error) {
	verb, err := c.dispatcher.verb(spec.Method)
	if err != nil {
		return nil, err
	}

	req, err := c.prepare(spec)
	if err != nil {
		return nil, err
	}

	if spec.Queue {
		c.queue.Enqueue(func(ctx context.Context) (*Response, error) {
			return c.send(ctx, verb, req)
		})
		c.config.Metrics.recordQueueEnqueued(ctx, c.config.baseAttributes())
		c.logger.Debug().
			Str("method", string(spec.Method)).
			Str("url", req.url).
			Int("queue_size", c.queue.Size()).
			Msg("request queued")
		return nil, nil
	}

	return c.send(ctx, verb, req)
}

func (c *Client) prepare(spec RequestSpec) (*call, error) {
	body, contentType, err := encodeBody(spec.Body)
	if err != nil {
		return nil, err
	}

	target := spec.URL
	if target == "" {
		target = c.URL()
	}

	return &call{
		url:         target,
		headers:     spec.Headers,
		params:      spec.Params,
		body:        body,
		contentType: contentType,
		extra:       spec.Extra,
	}, nil
}

func (c *Client) send(ctx context.Context, verb verbFunc, req *call) (*Response, error) {
	return c.retry.Do(ctx, c.settings, func(ctx context.Context) (*Response, error) {
		return verb(ctx, req, c.settings)
	})
}

// ExecuteQueue runs every queued request concurrently and returns their
// responses in enqueue order, whatever order they complete in.
//
// The queue is emptied before the requests start. An empty queue returns
// (nil, nil). A request whose retries were exhausted leaves a nil slot.
// Other request errors are joined into the returned error; the responses
// of the requests that succeeded are still returned.
func (c *Client) ExecuteQueue(ctx context.Context) ([]*Response, error) {
	tasks := c.queue.Drain()
	if len(tasks) == 0 {
		return nil, nil
	}

	attrs := c.config.baseAttributes()
	c.config.Metrics.recordQueueExecuted(ctx, attrs, len(tasks))

	c.logger.Debug().Int("tasks", len(tasks)).Msg("executing queue")

	results := make([]*Response, len(tasks))
	errs := make([]error, len(tasks))

	var g errgroup.Group
	if c.config.Concurrency > 0 {
		g.SetLimit(c.config.Concurrency)
	}

	for i, task := range tasks {
		g.Go(func() error {
			resp, err := task(ctx)
			results[i] = resp
			if err != nil && !errors.Is(err, ErrNoResponse) {
				errs[i] = fmt.Errorf("queued request %d: %w", i, err)
			}
			return nil
		})
	}
	_ = g.Wait()

	return results, errors.Join(errs...)
}
