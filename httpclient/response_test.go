package httpclient

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponse_Reason(t *testing.T) {
	tests := []struct {
		name   string
		code   int
		status string
		want   string
	}{
		{
			name:   "given standard status line, then strips the code",
			code:   http.StatusOK,
			status: "200 OK",
			want:   "OK",
		},
		{
			name:   "given custom reason, then keeps it",
			code:   http.StatusTeapot,
			status: "418 Short And Stout",
			want:   "Short And Stout",
		},
		{
			name: "given empty status, then falls back to status text",
			code: http.StatusNotFound,
			want: "Not Found",
		},
		{
			name:   "given bare code, then falls back to status text",
			code:   http.StatusBadGateway,
			status: "502",
			want:   "Bad Gateway",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &Response{Response: &http.Response{StatusCode: tt.code, Status: tt.status}}
			assert.Equal(t, tt.want, resp.Reason())
		})
	}
}

func TestResponse_StatusPredicates(t *testing.T) {
	tests := []struct {
		name        string
		code        int
		wantSuccess bool
		wantError   bool
	}{
		{name: "given 200, then success", code: 200, wantSuccess: true},
		{name: "given 204, then success", code: 204, wantSuccess: true},
		{name: "given 304, then neither", code: 304},
		{name: "given 404, then error", code: 404, wantError: true},
		{name: "given 503, then error", code: 503, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &Response{Response: &http.Response{StatusCode: tt.code}}
			assert.Equal(t, tt.wantSuccess, resp.IsSuccess())
			assert.Equal(t, tt.wantError, resp.IsError())
		})
	}
}

func TestResponse_Body(t *testing.T) {
	body := []byte(`{"user":{"name":"ada","tags":["x","y"]},"count":2}`)
	resp := newResponse(&http.Response{StatusCode: http.StatusOK}, nil, MethodGet, body, 0)

	t.Run("given text, then returns raw body", func(t *testing.T) {
		assert.Equal(t, string(body), resp.Text())
		assert.Equal(t, body, resp.Body())
	})

	t.Run("given gjson path, then returns value", func(t *testing.T) {
		assert.Equal(t, "ada", resp.Get("user.name").String())
		assert.Equal(t, "y", resp.Get("user.tags.1").String())
		assert.False(t, resp.Get("user.missing").Exists())
	})

	t.Run("given json target, then decodes", func(t *testing.T) {
		var out struct {
			Count int `json:"count"`
		}
		require.NoError(t, resp.JSON(&out))
		assert.Equal(t, 2, out.Count)
	})

	t.Run("given struct view, then navigates", func(t *testing.T) {
		s, err := resp.Struct()
		require.NoError(t, err)
		assert.Equal(t, "ada", s.Path("user.name").String())
		assert.Equal(t, 2, s.Get("user").Get("tags").Len())
	})
}

func TestResponse_URL(t *testing.T) {
	sent, err := http.NewRequest(http.MethodGet, "https://api.example.com/start", nil)
	require.NoError(t, err)
	final := &http.Request{URL: &url.URL{Scheme: "https", Host: "api.example.com", Path: "/end"}}

	tests := []struct {
		name string
		resp *Response
		want string
	}{
		{
			name: "given redirected response, then returns final url",
			resp: newResponse(&http.Response{Request: final}, sent, MethodGet, nil, 0),
			want: "https://api.example.com/end",
		},
		{
			name: "given no response request, then returns sent url",
			resp: newResponse(&http.Response{}, sent, MethodGet, nil, 0),
			want: "https://api.example.com/start",
		},
		{
			name: "given neither, then returns empty",
			resp: newResponse(&http.Response{}, nil, MethodGet, nil, 0),
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.resp.URL())
		})
	}
}
