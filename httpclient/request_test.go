package httpclient

import (
	"context"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeBody(t *testing.T) {
	tests := []struct {
		name            string
		body            any
		wantBody        string
		wantContentType string
		wantErr         assert.ErrorAssertionFunc
	}{
		{
			name:    "given nil, then no body",
			body:    nil,
			wantErr: assert.NoError,
		},
		{
			name:            "given string, then text/plain",
			body:            "hello",
			wantBody:        "hello",
			wantContentType: "text/plain; charset=utf-8",
			wantErr:         assert.NoError,
		},
		{
			name:            "given bytes, then octet-stream",
			body:            []byte{0x01, 0x02},
			wantBody:        "\x01\x02",
			wantContentType: "application/octet-stream",
			wantErr:         assert.NoError,
		},
		{
			name:     "given reader, then reads it without content type",
			body:     strings.NewReader("streamed"),
			wantBody: "streamed",
			wantErr:  assert.NoError,
		},
		{
			name:            "given url values, then form encoded",
			body:            url.Values{"a": {"1"}, "b": {"x y"}},
			wantBody:        "a=1&b=x+y",
			wantContentType: "application/x-www-form-urlencoded",
			wantErr:         assert.NoError,
		},
		{
			name:            "given struct, then json",
			body:            struct{ Name string }{Name: "ada"},
			wantBody:        `{"Name":"ada"}`,
			wantContentType: "application/json",
			wantErr:         assert.NoError,
		},
		{
			name:    "given unencodable value, then returns error",
			body:    map[string]any{"ch": make(chan int)},
			wantErr: assert.Error,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType, err := encodeBody(tt.body)
			tt.wantErr(t, err)
			assert.Equal(t, tt.wantBody, string(body))
			assert.Equal(t, tt.wantContentType, contentType)
		})
	}
}

func TestRequestBuilder(t *testing.T) {
	tests := []struct {
		name  string
		build func(c *Client) (*Response, error)
		check func(t *testing.T, req *http.Request)
	}{
		{
			name: "given path params and queries, then builds full url",
			build: func(c *Client) (*Response, error) {
				return c.Request().
					PathParam("id", "a b").
					Query("expand", "profile").
					Queries(map[string]string{"page": "2"}).
					Get(context.Background(), "users/{id}")
			},
			check: func(t *testing.T, req *http.Request) {
				assert.Equal(t, http.MethodGet, req.Method)
				assert.Equal(t, "/v1/users/a b", req.URL.Path)
				assert.Equal(t, "profile", req.URL.Query().Get("expand"))
				assert.Equal(t, "2", req.URL.Query().Get("page"))
			},
		},
		{
			name: "given absolute path, then ignores client url",
			build: func(c *Client) (*Response, error) {
				return c.Request().Delete(context.Background(), "https://other.example.com/x")
			},
			check: func(t *testing.T, req *http.Request) {
				assert.Equal(t, http.MethodDelete, req.Method)
				assert.Equal(t, "other.example.com", req.URL.Host)
				assert.Equal(t, "/x", req.URL.Path)
			},
		},
		{
			name: "given headers and json body, then sends both",
			build: func(c *Client) (*Response, error) {
				return c.Request().
					Header("X-One", "1").
					Headers(map[string]string{"X-Two": "2"}).
					Body(map[string]int{"n": 1}).
					Put(context.Background(), "items")
			},
			check: func(t *testing.T, req *http.Request) {
				assert.Equal(t, http.MethodPut, req.Method)
				assert.Equal(t, "1", req.Header.Get("X-One"))
				assert.Equal(t, "2", req.Header.Get("X-Two"))
				body, err := io.ReadAll(req.Body)
				require.NoError(t, err)
				assert.JSONEq(t, `{"n":1}`, string(body))
			},
		},
		{
			name: "given form body, then sends form encoding",
			build: func(c *Client) (*Response, error) {
				return c.Request().
					BodyForm(map[string]string{"user": "ada"}).
					Patch(context.Background(), "profile")
			},
			check: func(t *testing.T, req *http.Request) {
				assert.Equal(t, http.MethodPatch, req.Method)
				assert.Equal(t, "application/x-www-form-urlencoded", req.Header.Get("Content-Type"))
				body, err := io.ReadAll(req.Body)
				require.NoError(t, err)
				assert.Equal(t, "user=ada", string(body))
			},
		},
		{
			name: "given per-request interceptor, then applies it",
			build: func(c *Client) (*Response, error) {
				return c.Request().
					Intercept(APIKeyInterceptor("X-API-Key", "k")).
					Options(context.Background())
			},
			check: func(t *testing.T, req *http.Request) {
				assert.Equal(t, http.MethodOptions, req.Method)
				assert.Equal(t, "/v1", req.URL.Path)
				assert.Equal(t, "k", req.Header.Get("X-API-Key"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockTransport().StubResponse(http.StatusOK, "ok")
			client := newTestClient(mock, WithVersion("v1"))

			resp, err := tt.build(client)
			require.NoError(t, err)
			require.NotNil(t, resp)

			tt.check(t, mock.LastRequest())
		})
	}
}

func TestRequestBuilder_Queued(t *testing.T) {
	mock := NewMockTransport().StubResponse(http.StatusCreated, "created")
	client := newTestClient(mock)

	resp, err := client.Request().Body("x").Queued().Post(context.Background(), "items")
	require.NoError(t, err)
	assert.Nil(t, resp)
	assert.Equal(t, 0, mock.RequestCount())

	results, err := client.ExecuteQueue(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, http.StatusCreated, results[0].StatusCode)
}

func TestRequestBuilder_Multipart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("from disk"), 0o600))

	mock := NewMockTransport().StubResponse(http.StatusOK, "ok")
	client := newTestClient(mock)

	_, err := client.Request().
		FormField("title", "report").
		File("document", path).
		FileReader("inline", "inline.txt", strings.NewReader("from memory")).
		Post(context.Background(), "upload")
	require.NoError(t, err)

	req := mock.LastRequest()
	mediaType, params, err := mime.ParseMediaType(req.Header.Get("Content-Type"))
	require.NoError(t, err)
	assert.Equal(t, "multipart/form-data", mediaType)

	reader := multipart.NewReader(req.Body, params["boundary"])
	form, err := reader.ReadForm(1 << 20)
	require.NoError(t, err)

	assert.Equal(t, []string{"report"}, form.Value["title"])

	contents := map[string]string{}
	for field, headers := range form.File {
		f, err := headers[0].Open()
		require.NoError(t, err)
		data, err := io.ReadAll(f)
		require.NoError(t, err)
		_ = f.Close()
		contents[field] = headers[0].Filename + ":" + string(data)
	}
	assert.Equal(t, map[string]string{
		"document": "notes.txt:from disk",
		"inline":   "inline.txt:from memory",
	}, contents)
}

func TestMultipartBody_MissingFile(t *testing.T) {
	mock := NewMockTransport().StubResponse(http.StatusOK, "ok")
	client := newTestClient(mock)

	_, err := client.PerformRequest(context.Background(), RequestSpec{
		Method: MethodPost,
		Body:   NewMultipartBody().File("document", filepath.Join(t.TempDir(), "absent.txt")),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), `multipart file "document"`)
	assert.Equal(t, 0, mock.RequestCount())
}

func TestRequestBuilder_IgnoresCurrentURL(t *testing.T) {
	mock := NewMockTransport().StubResponse(http.StatusOK, "ok")
	client := newTestClient(mock, WithVersion("v2"))
	client.Routes("users", "42")

	_, err := client.Request().Get(context.Background(), "orders")
	require.NoError(t, err)

	assert.Equal(t, "/v2/orders", mock.LastRequest().URL.Path)
	assert.Equal(t, testBaseURL+"/v2/users/42", client.URL())
}
