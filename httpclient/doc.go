// Package httpclient is a small HTTP request client for exercising APIs.
//
// A Client is bound to a base URL and an optional version segment. Routes
// joins path segments onto them, PerformRequest sends a request to the
// resulting URL, and GetReport renders a readable summary of the response.
//
// # Quick Start
//
//	client := httpclient.New("https://api.example.com", httpclient.WithVersion("v1"))
//	client.Routes("users", "42") // https://api.example.com/v1/users/42
//
//	resp, err := client.PerformRequest(ctx, httpclient.RequestSpec{Method: httpclient.MethodGet})
//	if errors.Is(err, httpclient.ErrNoResponse) {
//	    // every attempt failed with a timeout or connection error
//	}
//
//	report, _ := client.GetReport(resp, httpclient.ReportOptions{ShowResponseHeader: true})
//
// The fluent builder covers the same ground:
//
//	resp, err := client.Request().
//	    Query("expand", "profile").
//	    Header("Accept", "application/json").
//	    Get(ctx, "users/{id}")
//
// # Retries and timeouts
//
// Every attempt is bounded by Settings.Timeout. When an attempt fails with a
// transient network error (timeout, refused or reset connection, DNS
// failure) the timeout grows by Settings.TimeoutIncrement and the next
// attempt starts after Settings.Delay, up to Settings.Retries attempts.
// HTTP error statuses are responses, not failures, and are never retried.
//
// Settings are shared by pointer and the escalated timeout is kept after the
// call returns:
//
//	settings := httpclient.NewSettings(
//	    httpclient.WithTimeout(time.Second),
//	    httpclient.WithRetries(3),
//	    httpclient.WithTimeoutIncrement(time.Second),
//	)
//	client := httpclient.New(baseURL, httpclient.WithSettings(settings))
//
// # Queued requests
//
// A request with RequestSpec.Queue set is not sent. It is stored in the
// client's TaskQueue and sent by ExecuteQueue, which runs every queued
// request concurrently and returns the responses in enqueue order:
//
//	client.PerformRequest(ctx, httpclient.RequestSpec{Method: httpclient.MethodGet, URL: a, Queue: true})
//	client.PerformRequest(ctx, httpclient.RequestSpec{Method: httpclient.MethodGet, URL: b, Queue: true})
//	responses, err := client.ExecuteQueue(ctx) // [response for a, response for b]
//
// # Observability
//
// Each attempt gets an OpenTelemetry client span and records request
// duration, body size and error metrics. Retry, queue and circuit breaker
// activity is recorded as well. Providers default to the otel globals; use
// WithTracerProvider and WithMeterProvider to override them.
//
// Logging goes through zerolog and is disabled unless WithDebug or
// WithLogger is given. Retry progress and reports are written to the
// client's Display, a coloured console writer by default.
//
// # Resilience
//
// WithRateLimit bounds the outgoing request rate and WithCircuitBreaker stops
// calling a failing host. Both reject with permanent errors (ErrRateLimited,
// ErrCircuitOpen) that are returned without further retries.
package httpclient
