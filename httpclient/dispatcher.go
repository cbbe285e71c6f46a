package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

// call is a prepared request: URL resolved and body encoded, ready to be
// sent any number of times.
type call struct {
	url         string
	headers     *Headers
	params      *Params
	body        []byte
	contentType string
	extra       []RequestInterceptor
}

// verbFunc sends one attempt of a prepared call.
type verbFunc func(ctx context.Context, c *call, settings *Settings) (*Response, error)

// dispatcher maps each Method to its send operation. It performs exactly one
// network exchange per invocation; retries are applied by RetryPolicy.
type dispatcher struct {
	httpClient   *http.Client
	interceptors []RequestInterceptor
	logger       zerolog.Logger
	debug        bool
	generateCurl bool
}

// verb returns the send operation for m.
func (d *dispatcher) verb(m Method) (verbFunc, error) {
	switch m {
	case MethodGet:
		return d.get, nil
	case MethodPost:
		return d.post, nil
	case MethodPut:
		return d.put, nil
	case MethodDelete:
		return d.delete, nil
	case MethodPatch:
		return d.patch, nil
	case MethodOptions:
		return d.options, nil
	default:
		return nil, &UnsupportedMethodError{Method: string(m)}
	}
}

func (d *dispatcher) get(ctx context.Context, c *call, s *Settings) (*Response, error) {
	return d.send(ctx, MethodGet, c, s)
}

func (d *dispatcher) post(ctx context.Context, c *call, s *Settings) (*Response, error) {
	return d.send(ctx, MethodPost, c, s)
}

func (d *dispatcher) put(ctx context.Context, c *call, s *Settings) (*Response, error) {
	return d.send(ctx, MethodPut, c, s)
}

func (d *dispatcher) delete(ctx context.Context, c *call, s *Settings) (*Response, error) {
	return d.send(ctx, MethodDelete, c, s)
}

func (d *dispatcher) patch(ctx context.Context, c *call, s *Settings) (*Response, error) {
	return d.send(ctx, MethodPatch, c, s)
}

func (d *dispatcher) options(ctx context.Context, c *call, s *Settings) (*Response, error) {
	return d.send(ctx, MethodOptions, c, s)
}

// send performs a single exchange bounded by the current Settings timeout.
// The body is read before returning so that a slow body counts against the
// same deadline.
func (d *dispatcher) send(ctx context.Context, method Method, c *call, settings *Settings) (*Response, error) {
	if timeout := settings.Timeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := d.newRequest(ctx, method, c)
	if err != nil {
		return nil, err
	}

	if d.debug {
		debugAttempt(d.logger, req, settings.Timeout(), len(c.body))
	}

	startTime := time.Now()

	httpResp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	duration := time.Since(startTime)

	if d.debug {
		debugResult(d.logger, httpResp, len(body), duration)
	}

	resp := newResponse(httpResp, req, method, body, duration)
	if d.generateCurl {
		resp.curlCommand = curlCommand(req, c.body)
	}
	return resp, nil
}

func (d *dispatcher) newRequest(ctx context.Context, method Method, c *call) (*http.Request, error) {
	u, err := url.Parse(c.url)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	applyParams(u, c.params)

	var body io.Reader
	if c.body != nil {
		body = bytes.NewReader(c.body)
	}

	req, err := http.NewRequestWithContext(ctx, string(method), u.String(), body)
	if err != nil {
		return nil, err
	}

	if c.contentType != "" {
		req.Header.Set("Content-Type", c.contentType)
	}
	applyHeaders(req.Header, c.headers)

	for _, interceptor := range d.interceptors {
		if err := interceptor(req); err != nil {
			return nil, fmt.Errorf("request interceptor: %w", err)
		}
	}
	for _, interceptor := range c.extra {
		if err := interceptor(req); err != nil {
			return nil, fmt.Errorf("request interceptor: %w", err)
		}
	}

	return req, nil
}
