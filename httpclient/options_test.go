package httpclient

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestConfigPresets(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		check  func(t *testing.T, c Config)
	}{
		{
			name:   "given default config, then balanced pool",
			config: DefaultConfig(),
			check: func(t *testing.T, c Config) {
				assert.Equal(t, 100, c.MaxIdleConns)
				assert.Equal(t, 20, c.MaxIdleConnsPerHost)
				assert.Equal(t, 5*time.Second, c.DialTimeout)
				assert.False(t, c.ForceHTTP2)
			},
		},
		{
			name:   "given low latency config, then short dial and http2",
			config: LowLatencyConfig(),
			check: func(t *testing.T, c Config) {
				assert.Equal(t, 2*time.Second, c.DialTimeout)
				assert.True(t, c.ForceHTTP2)
			},
		},
		{
			name:   "given conservative config, then small pool",
			config: ConservativeConfig(),
			check: func(t *testing.T, c Config) {
				assert.Equal(t, 20, c.MaxIdleConns)
				assert.Equal(t, 5, c.MaxIdleConnsPerHost)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, tt.config)
		})
	}
}

func TestNewConfig_Defaults(t *testing.T) {
	cfg := newConfig()

	assert.NotNil(t, cfg.Settings)
	assert.Equal(t, DefaultSettings().Timeout(), cfg.Settings.Timeout())
	assert.NotNil(t, cfg.Logger)
	assert.Equal(t, zerolog.Disabled, cfg.Logger.GetLevel())
	assert.NotNil(t, cfg.Display)
	assert.NotNil(t, cfg.Tracer)
	assert.NotNil(t, cfg.Metrics)
	assert.True(t, cfg.ProxyFromEnvironment)
	assert.Equal(t, "getman/1.0.0", cfg.UserAgent)
	assert.Empty(t, cfg.baseAttributes())
}

func TestNewConfig_Options(t *testing.T) {
	proxy, err := url.Parse("http://proxy.local:3128")
	require.NoError(t, err)

	settings := NewSettings(WithRetries(7))
	cfg := newConfig(
		WithConfig(LowLatencyConfig()),
		WithProxyURL(proxy),
		WithServiceName("users-api"),
		WithVersion("v2"),
		WithToken("t"),
		WithBearerAuth(),
		WithUserAgent("custom/1"),
		WithSettings(settings),
		WithDebug(),
		WithGenerateCurl(),
		WithConcurrency(3),
	)

	assert.True(t, cfg.httpConfig.ForceHTTP2)
	assert.Equal(t, proxy, cfg.ProxyURL)
	assert.False(t, cfg.ProxyFromEnvironment)
	assert.Equal(t, "v2", cfg.Version)
	assert.Same(t, settings, cfg.Settings)
	assert.Equal(t, zerolog.DebugLevel, cfg.Logger.GetLevel())
	assert.True(t, cfg.GenerateCurl)
	assert.Equal(t, 3, cfg.Concurrency)
	assert.Equal(t, []attribute.KeyValue{attribute.String("http.client.name", "users-api")}, cfg.baseAttributes())
	assert.Len(t, cfg.requestInterceptors(), 2)
}

func TestBuildTransport(t *testing.T) {
	t.Run("given custom transport, then uses it", func(t *testing.T) {
		mock := NewMockTransport()
		cfg := newConfig(WithTransport(mock))

		assert.Same(t, mock, cfg.buildTransport())
	})

	t.Run("given http config, then builds http transport", func(t *testing.T) {
		cfg := newConfig(WithConfig(ConservativeConfig()), WithProxyFromEnvironment(false))

		transport, ok := cfg.buildTransport().(*http.Transport)
		require.True(t, ok)
		assert.Equal(t, 20, transport.MaxIdleConns)
		assert.Equal(t, 5, transport.MaxIdleConnsPerHost)
		assert.Nil(t, transport.Proxy)
	})
}

func TestWithUserAgent_Empty(t *testing.T) {
	mock := NewMockTransport().StubResponse(http.StatusOK, "ok")
	client := newTestClient(mock, WithUserAgent(""))

	_, err := client.PerformRequest(context.Background(), RequestSpec{Method: MethodGet})
	require.NoError(t, err)

	assert.Empty(t, mock.LastRequest().Header.Get("User-Agent"))
}

func TestWithDebug_LogsExchange(t *testing.T) {
	var buf bytes.Buffer
	mock := NewMockTransport().StubResponse(http.StatusOK, "ok")
	client := newTestClient(mock,
		WithDebug(),
		WithLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)),
		WithGenerateCurl(),
	)

	resp, err := client.PerformRequest(context.Background(), RequestSpec{
		Method: MethodPost,
		Body:   "payload",
	})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `"method":"POST"`)
	assert.Contains(t, resp.CurlCommand(), "curl -X POST")
	assert.Contains(t, resp.CurlCommand(), "-d 'payload'")
}
