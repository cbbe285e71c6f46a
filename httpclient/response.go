package httpclient

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/kroma-labs/getman/model"
	"github.com/tidwall/gjson"
)

// Response wraps http.Response with a body that has already been read.
//
// The body is read inside the attempt that produced the response, so a
// Response is complete when it is returned and the underlying connection
// has been released.
type Response struct {
	*http.Response

	// request is the request that produced this response.
	request *http.Request

	method Method

	body []byte

	elapsed time.Duration

	// curlCommand is the equivalent cURL command (if generation is enabled).
	curlCommand string
}

func newResponse(httpResp *http.Response, req *http.Request, method Method, body []byte, elapsed time.Duration) *Response {
	return &Response{
		Response: httpResp,
		request:  req,
		method:   method,
		body:     body,
		elapsed:  elapsed,
	}
}

// Body returns the raw response body.
func (r *Response) Body() []byte {
	return r.body
}

// Text returns the response body as a string.
func (r *Response) Text() string {
	return string(r.body)
}

// JSON decodes the body into v.
func (r *Response) JSON(v any) error {
	return json.Unmarshal(r.body, v)
}

// Get looks up a gjson path in the body.
//
//	resp.Get("data.items.0.id").Int()
func (r *Response) Get(path string) gjson.Result {
	return gjson.GetBytes(r.body, path)
}

// Struct decodes the body into a navigable tree.
func (r *Response) Struct() (*model.Struct, error) {
	return model.Parse(r.body)
}

// Elapsed returns the time from sending the request to reading the whole body.
func (r *Response) Elapsed() time.Duration {
	return r.elapsed
}

// Method returns the request method.
func (r *Response) Method() Method {
	return r.method
}

// URL returns the final request URL, after redirects.
func (r *Response) URL() string {
	if r.Response != nil && r.Response.Request != nil && r.Response.Request.URL != nil {
		return r.Response.Request.URL.String()
	}
	if r.request != nil && r.request.URL != nil {
		return r.request.URL.String()
	}
	return ""
}

// Request returns the request that produced this response.
func (r *Response) Request() *http.Request {
	return r.request
}

// Reason returns the status reason phrase, e.g. "OK".
func (r *Response) Reason() string {
	code := strconv.Itoa(r.StatusCode)
	if reason, ok := strings.CutPrefix(r.Status, code+" "); ok && reason != "" {
		return reason
	}
	if r.Status != "" && r.Status != code {
		return r.Status
	}
	return http.StatusText(r.StatusCode)
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsError returns true if the status code is 4xx or 5xx.
func (r *Response) IsError() bool {
	return r.StatusCode >= 400
}

// CurlCommand returns the equivalent cURL command for debugging.
// Returns empty string if curl generation was not enabled.
func (r *Response) CurlCommand() string {
	return r.curlCommand
}
