package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	json "github.com/goccy/go-json"
)

// RequestSpec describes one request for Client.PerformRequest.
type RequestSpec struct {
	// Method must be one of AllowedMethods.
	Method Method

	// URL is the full target URL. Empty selects the client's current URL.
	URL string

	// Body is encoded by type:
	//   - string: text/plain
	//   - []byte: application/octet-stream
	//   - io.Reader: read once, no content type
	//   - url.Values: application/x-www-form-urlencoded
	//   - *MultipartBody: multipart/form-data
	//   - anything else: application/json
	Body any

	Headers *Headers
	Params  *Params

	// Queue defers the request until Client.ExecuteQueue.
	Queue bool

	// Extra interceptors run after the client's own, for this request only.
	Extra []RequestInterceptor
}

// encodeBody turns a body value into bytes and a content type.
func encodeBody(v any) ([]byte, string, error) {
	switch body := v.(type) {
	case nil:
		return nil, "", nil
	case *MultipartBody:
		return body.encode()
	case string:
		return []byte(body), "text/plain; charset=utf-8", nil
	case []byte:
		return body, "application/octet-stream", nil
	case io.Reader:
		data, err := io.ReadAll(body)
		if err != nil {
			return nil, "", fmt.Errorf("read request body: %w", err)
		}
		return data, "", nil
	case url.Values:
		return []byte(body.Encode()), "application/x-www-form-urlencoded", nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", fmt.Errorf("encode request body: %w", err)
		}
		return data, "application/json", nil
	}
}

// RequestBuilder provides a fluent API for building requests.
//
// Example:
//
//	resp, err := client.Request().
//	    Path("/users/{id}").
//	    PathParam("id", "123").
//	    Query("expand", "profile").
//	    Get(ctx)
type RequestBuilder struct {
	client     *Client
	path       string
	pathParams map[string]string
	headers    *Headers
	params     *Params
	body       any
	extra      []RequestInterceptor
	queue      bool
}

// Path sets the request path. A relative path is joined to the base URL and
// version, ignoring the current URL set by Routes; a path containing "://"
// is used as is.
func (rb *RequestBuilder) Path(path string) *RequestBuilder {
	rb.path = path
	return rb
}

// PathParam replaces {key} in the path with the escaped value.
func (rb *RequestBuilder) PathParam(key, value string) *RequestBuilder {
	rb.pathParams[key] = value
	return rb
}

// Query sets a query parameter.
func (rb *RequestBuilder) Query(key, value string) *RequestBuilder {
	rb.params.Set(key, value)
	return rb
}

// Queries sets multiple query parameters.
func (rb *RequestBuilder) Queries(params map[string]string) *RequestBuilder {
	for _, it := range MappingFrom(params).Items() {
		rb.params.Set(it.Key, it.Value)
	}
	return rb
}

// Header sets a request header.
func (rb *RequestBuilder) Header(key, value string) *RequestBuilder {
	rb.headers.Set(key, value)
	return rb
}

// Headers sets multiple request headers.
func (rb *RequestBuilder) Headers(headers map[string]string) *RequestBuilder {
	for _, it := range MappingFrom(headers).Items() {
		rb.headers.Set(it.Key, it.Value)
	}
	return rb
}

// Body sets the request body. See RequestSpec.Body for encoding rules.
func (rb *RequestBuilder) Body(v any) *RequestBuilder {
	rb.body = v
	return rb
}

// BodyForm sets a form-encoded body.
func (rb *RequestBuilder) BodyForm(data map[string]string) *RequestBuilder {
	values := make(url.Values)
	for k, v := range data {
		values.Set(k, v)
	}
	rb.body = values
	return rb
}

// Intercept adds an interceptor for this request only.
func (rb *RequestBuilder) Intercept(i RequestInterceptor) *RequestBuilder {
	rb.extra = append(rb.extra, i)
	return rb
}

// Queued defers the request: the verb methods enqueue it and return (nil, nil).
func (rb *RequestBuilder) Queued() *RequestBuilder {
	rb.queue = true
	return rb
}

// Get sends a GET request.
func (rb *RequestBuilder) Get(ctx context.Context, path ...string) (*Response, error) {
	return rb.Do(ctx, MethodGet, path...)
}

// Post sends a POST request.
func (rb *RequestBuilder) Post(ctx context.Context, path ...string) (*Response, error) {
	return rb.Do(ctx, MethodPost, path...)
}

// Put sends a PUT request.
func (rb *RequestBuilder) Put(ctx context.Context, path ...string) (*Response, error) {
	return rb.Do(ctx, MethodPut, path...)
}

// Patch sends a PATCH request.
func (rb *RequestBuilder) Patch(ctx context.Context, path ...string) (*Response, error) {
	return rb.Do(ctx, MethodPatch, path...)
}

// Delete sends a DELETE request.
func (rb *RequestBuilder) Delete(ctx context.Context, path ...string) (*Response, error) {
	return rb.Do(ctx, MethodDelete, path...)
}

// Options sends an OPTIONS request.
func (rb *RequestBuilder) Options(ctx context.Context, path ...string) (*Response, error) {
	return rb.Do(ctx, MethodOptions, path...)
}

// Do sends the request with the given method through Client.PerformRequest.
func (rb *RequestBuilder) Do(ctx context.Context, method Method, path ...string) (*Response, error) {
	if len(path) > 0 {
		rb.path = path[0]
	}

	return rb.client.PerformRequest(ctx, RequestSpec{
		Method:  method,
		URL:     rb.buildURL(),
		Body:    rb.body,
		Headers: rb.headers,
		Params:  rb.params,
		Queue:   rb.queue,
		Extra:   rb.extra,
	})
}

func (rb *RequestBuilder) buildURL() string {
	path := rb.path
	for k, v := range rb.pathParams {
		path = strings.ReplaceAll(path, "{"+k+"}", url.PathEscape(v))
	}

	if strings.Contains(path, schemeSeparator) {
		return path
	}
	return NormalizeURL(rb.client.versionedBase(), path)
}
