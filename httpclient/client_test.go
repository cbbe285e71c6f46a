package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "https://api.example.com"

// fastSettings retries quickly so tests that exhaust retries stay short.
func fastSettings(opts ...SettingsOption) *Settings {
	base := []SettingsOption{
		WithTimeout(time.Second),
		WithRetries(1),
		WithDelay(time.Millisecond),
		WithTimeoutIncrement(0),
	}
	return NewSettings(append(base, opts...)...)
}

func newTestClient(mock *MockTransport, opts ...Option) *Client {
	base := []Option{
		WithMockTransport(mock),
		WithDisplay(DiscardDisplay{}),
		WithSettings(fastSettings()),
	}
	return New(testBaseURL, append(base, opts...)...)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		opts    []Option
		wantURL string
	}{
		{
			name:    "given base url only, then current url is the base",
			baseURL: "https://api.example.com/",
			wantURL: "https://api.example.com",
		},
		{
			name:    "given version, then current url includes version",
			baseURL: "https://api.example.com",
			opts:    []Option{WithVersion("v1")},
			wantURL: "https://api.example.com/v1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := New(tt.baseURL, tt.opts...)

			assert.Equal(t, tt.wantURL, client.URL())
			assert.Equal(t, tt.baseURL, client.BaseURL())
			assert.NotNil(t, client.HTTP())
			assert.Same(t, client.Cookies(), client.HTTP().Jar)
			assert.True(t, client.Queue().IsEmpty())
			assert.Equal(t, 20*time.Second, client.Settings().Timeout())
		})
	}
}

func TestClient_Routes(t *testing.T) {
	client := New("https://example.com/", WithVersion("/v1/"), WithToken("secret"))

	got := client.Routes("/users/", "123")

	assert.Equal(t, "https://example.com/v1/users/123", got)
	assert.Equal(t, got, client.URL())
	assert.Equal(t, "v1", NormalizeURL(client.Version()))
	assert.Equal(t, "secret", client.Token())

	assert.Equal(t, "https://example.com/v1/items", client.Routes("items"))
}

func TestClient_PerformRequest(t *testing.T) {
	mock := NewMockTransport().StubJSON(http.StatusOK, `{"id":1}`)
	client := newTestClient(mock)
	client.Routes("users")

	resp, err := client.PerformRequest(context.Background(), RequestSpec{
		Method:  MethodPost,
		Body:    map[string]string{"name": "ada"},
		Headers: NewHeaders("X-Request-Source", "test"),
		Params:  NewParams("dry_run", "true"),
	})

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, MethodPost, resp.Method())
	assert.Equal(t, int64(1), resp.Get("id").Int())

	req := mock.LastRequest()
	require.NotNil(t, req)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/users", req.URL.Path)
	assert.Equal(t, "true", req.URL.Query().Get("dry_run"))
	assert.Equal(t, "test", req.Header.Get("X-Request-Source"))
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.Equal(t, "getman/1.0.0", req.Header.Get("User-Agent"))
}

func TestClient_PerformRequest_ErrorStatusIsResponse(t *testing.T) {
	mock := NewMockTransport().StubResponse(http.StatusInternalServerError, "boom")
	client := newTestClient(mock, WithSettings(fastSettings(WithRetries(3))))

	resp, err := client.PerformRequest(context.Background(), RequestSpec{Method: MethodGet})

	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.True(t, resp.IsError())
	assert.Equal(t, 1, mock.RequestCount())
}

func TestClient_PerformRequest_UnsupportedMethod(t *testing.T) {
	tests := []struct {
		name  string
		queue bool
	}{
		{name: "given FETCH sent directly, then fails without network call", queue: false},
		{name: "given FETCH queued, then fails without enqueuing", queue: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockTransport().StubResponse(http.StatusOK, "ok")
			client := newTestClient(mock)

			resp, err := client.PerformRequest(context.Background(), RequestSpec{
				Method: Method("FETCH"),
				Queue:  tt.queue,
			})

			require.ErrorIs(t, err, ErrUnsupportedMethod)
			assert.Nil(t, resp)
			assert.Equal(t, 0, mock.RequestCount())
			assert.True(t, client.Queue().IsEmpty())
		})
	}
}

func TestClient_PerformRequest_RetriesTransientFailures(t *testing.T) {
	mock := NewMockTransport().
		StubErrorTimes(2, errTransient).
		StubResponse(http.StatusOK, "ok")
	settings := fastSettings(WithRetries(3), WithTimeoutIncrement(time.Second))
	display := &recordingDisplay{}
	client := newTestClient(mock, WithSettings(settings), WithDisplay(display))

	resp, err := client.PerformRequest(context.Background(), RequestSpec{Method: MethodGet})

	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text())
	assert.Equal(t, 3, mock.RequestCount())
	assert.Equal(t, 3*time.Second, settings.Timeout())
	assert.Len(t, display.lines, 2)
}

func TestClient_PerformRequest_AttemptTimeout(t *testing.T) {
	var deadlines []time.Duration
	mock := NewMockTransport().
		WithLatency(500 * time.Millisecond).
		StubResponse(http.StatusOK, "too late").
		OnRequest(func(req *http.Request) {
			if dl, ok := req.Context().Deadline(); ok {
				deadlines = append(deadlines, time.Until(dl).Round(10*time.Millisecond))
			}
		})
	settings := fastSettings(
		WithTimeout(20*time.Millisecond),
		WithTimeoutIncrement(20*time.Millisecond),
		WithRetries(2),
	)
	client := newTestClient(mock, WithSettings(settings))

	resp, err := client.PerformRequest(context.Background(), RequestSpec{Method: MethodGet})

	require.ErrorIs(t, err, ErrNoResponse)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Nil(t, resp)
	assert.Equal(t, 2, mock.RequestCount())
	assert.Equal(t, 60*time.Millisecond, settings.Timeout())
	require.Len(t, deadlines, 2)
	assert.LessOrEqual(t, deadlines[0], 20*time.Millisecond)
	assert.LessOrEqual(t, deadlines[1], 40*time.Millisecond)
	assert.Greater(t, deadlines[1], deadlines[0])
}

func TestClient_BearerToken(t *testing.T) {
	tests := []struct {
		name     string
		opts     []Option
		wantAuth string
	}{
		{
			name:     "given token only, then no authorization header",
			opts:     []Option{WithToken("t0k")},
			wantAuth: "",
		},
		{
			name:     "given token with bearer auth, then sends bearer header",
			opts:     []Option{WithToken("t0k"), WithBearerAuth()},
			wantAuth: "Bearer t0k",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockTransport().StubResponse(http.StatusOK, "ok")
			client := newTestClient(mock, tt.opts...)

			_, err := client.PerformRequest(context.Background(), RequestSpec{Method: MethodGet})
			require.NoError(t, err)

			assert.Equal(t, tt.wantAuth, mock.LastRequest().Header.Get("Authorization"))
		})
	}
}

func TestClient_SessionCookies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/login" {
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc", Path: "/"})
			return
		}
		c, err := r.Cookie("session")
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(c.Value))
	}))
	defer server.Close()

	client := New(server.URL, WithDisplay(DiscardDisplay{}), WithSettings(fastSettings()))
	ctx := context.Background()

	_, err := client.PerformRequest(ctx, RequestSpec{Method: MethodPost, URL: client.Routes("login")})
	require.NoError(t, err)

	v, err := client.Cookies().Get("session")
	require.NoError(t, err)
	assert.Equal(t, "abc", v)

	resp, err := client.PerformRequest(ctx, RequestSpec{Method: MethodGet, URL: client.Routes("me")})
	require.NoError(t, err)
	assert.Equal(t, "abc", resp.Text())

	require.NoError(t, client.Cookies().Update("session", "xyz"))
	resp, err = client.PerformRequest(ctx, RequestSpec{Method: MethodGet})
	require.NoError(t, err)
	assert.Equal(t, "xyz", resp.Text())
}

func TestClient_QueueDefersRequest(t *testing.T) {
	mock := NewMockTransport().StubResponse(http.StatusOK, "ok")
	client := newTestClient(mock)

	resp, err := client.PerformRequest(context.Background(), RequestSpec{Method: MethodGet, Queue: true})

	require.NoError(t, err)
	assert.Nil(t, resp)
	assert.Equal(t, 0, mock.RequestCount())
	assert.Equal(t, 1, client.Queue().Size())
}

func TestClient_ExecuteQueue_PreservesOrder(t *testing.T) {
	latency := map[string]time.Duration{
		"/a": 80 * time.Millisecond,
		"/b": 40 * time.Millisecond,
		"/c": 0,
	}
	mock := NewMockTransport().
		StubPath("/a", http.StatusOK, "A").
		StubPath("/b", http.StatusOK, "B").
		StubPath("/c", http.StatusOK, "C").
		WithLatencyFunc(func(req *http.Request) time.Duration { return latency[req.URL.Path] })
	client := newTestClient(mock)
	ctx := context.Background()

	for _, path := range []string{"a", "b", "c"} {
		_, err := client.PerformRequest(ctx, RequestSpec{
			Method: MethodGet,
			URL:    client.Routes(path),
			Queue:  true,
		})
		require.NoError(t, err)
	}

	start := time.Now()
	results, err := client.ExecuteQueue(ctx)
	elapsed := time.Since(start)

	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "A", results[0].Text())
	assert.Equal(t, "B", results[1].Text())
	assert.Equal(t, "C", results[2].Text())
	assert.Less(t, elapsed, 150*time.Millisecond, "queued requests run concurrently")
	assert.True(t, client.Queue().IsEmpty())
}

func TestClient_ExecuteQueue_ClearsQueueBeforeStart(t *testing.T) {
	var seen atomic.Int64
	mock := NewMockTransport().StubResponse(http.StatusOK, "ok")
	client := newTestClient(mock)
	mock.OnRequest(func(*http.Request) {
		seen.Add(int64(client.Queue().Size()))
	})
	ctx := context.Background()

	for range 3 {
		_, err := client.Request().Queued().Get(ctx, "items")
		require.NoError(t, err)
	}
	require.Equal(t, 3, client.Queue().Size())

	results, err := client.ExecuteQueue(ctx)

	require.NoError(t, err)
	assert.Len(t, results, 3)
	assert.Equal(t, int64(0), seen.Load(), "tasks observed a non-empty queue")
}

func TestClient_ExecuteQueue_Empty(t *testing.T) {
	client := newTestClient(NewMockTransport())

	results, err := client.ExecuteQueue(context.Background())

	require.NoError(t, err)
	assert.Nil(t, results)
}

func TestClient_ExecuteQueue_Failures(t *testing.T) {
	errBoom := errors.New("boom")
	mock := NewMockTransport().
		StubFuncError(func(r *http.Request) bool { return r.URL.Path == "/down" }, errTransient).
		StubFuncError(func(r *http.Request) bool { return r.URL.Path == "/broken" }, errBoom).
		StubResponse(http.StatusOK, "ok")
	client := newTestClient(mock)
	ctx := context.Background()

	for _, path := range []string{"up", "down", "broken"} {
		_, err := client.PerformRequest(ctx, RequestSpec{Method: MethodGet, URL: client.Routes(path), Queue: true})
		require.NoError(t, err)
	}

	results, err := client.ExecuteQueue(ctx)

	require.Len(t, results, 3)
	assert.Equal(t, "ok", results[0].Text())
	assert.Nil(t, results[1], "exhausted request leaves a nil slot")
	assert.Nil(t, results[2])

	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)
	assert.NotErrorIs(t, err, ErrNoResponse)
}

func TestClient_ExecuteQueue_ConcurrencyLimit(t *testing.T) {
	var inFlight, peak atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		inFlight.Add(-1)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := New(server.URL,
		WithDisplay(DiscardDisplay{}),
		WithSettings(fastSettings()),
		WithConcurrency(1),
	)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, err := client.PerformRequest(ctx, RequestSpec{Method: MethodGet, Queue: true})
		require.NoError(t, err)
	}

	results, err := client.ExecuteQueue(ctx)

	require.NoError(t, err)
	assert.Len(t, results, 4)
	assert.Equal(t, int32(1), peak.Load())
}
