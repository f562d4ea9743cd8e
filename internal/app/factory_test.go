package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"streamstats/internal/config"
	"streamstats/internal/handler"
)

func testConfig() *config.Config {
	return &config.Config{
		LogLevel: "info",
		HTTPClientConfig: config.HTTPClientConfig{
			MaxIdleConns:          10,
			MaxIdleConnsPerHost:   2,
			IdleConnTimeout:       time.Second,
			TLSHandshakeTimeout:   time.Second,
			ResponseHeaderTimeout: time.Second,
		},
		ScraperConfig: config.ScraperConfig{
			RequestTimeout: time.Second,
			PageRetry:      config.RetryConfig{MaxRetries: 1, InitialDelay: time.Millisecond, BackoffMultiplier: 1},
		},
		MyStreamCountBaseURL: "https://www.mystreamcount.com",
		KworbBaseURL:         "https://kworb.net",
		ChartConfig: config.ChartConfig{
			MaxAttempts:         3,
			ProcessingBackoff:   time.Millisecond,
			TransportRetryDelay: time.Millisecond,
		},
		VideoConfig: config.VideoConfig{
			SearchTimeout:   time.Second,
			MaxResults:      5,
			FallbackEnabled: true,
		},
		ServerPort:     8080,
		MetricsEnabled: true,
	}
}

func TestCreateApp_WithoutOptionalComponents(t *testing.T) {
	app, err := New(context.Background(), testConfig(), zap.NewNop())
	require.NoError(t, err)
	defer func() { assert.NoError(t, app.Close()) }()

	assert.Nil(t, app.Archive)
	assert.NotNil(t, app.StreamCount)
	assert.NotNil(t, app.Kworb)
	assert.Equal(t, "https://kworb.net/spotify/track/abc.html", app.Kworb.TrackURL("abc"))
	assert.Equal(t, "https://www.mystreamcount.com/track/abc", app.StreamCount.TrackURL("abc"))

	resp := app.Handler.Handle(context.Background(), handler.Request{
		Method: http.MethodGet,
		Query:  map[string]string{"action": "videos", "artist": "Adele", "track": "Hello"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Body, `"source":"generated"`)
}

func TestApp_RouterExposesMetrics(t *testing.T) {
	tests := []struct {
		name       string
		enabled    bool
		wantStatus int
	}{
		{name: "метрики включены", enabled: true, wantStatus: http.StatusOK},
		{name: "метрики выключены", enabled: false, wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.MetricsEnabled = tt.enabled
			app, err := New(context.Background(), cfg, zap.NewNop())
			require.NoError(t, err)

			rec := httptest.NewRecorder()
			app.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
			assert.Equal(t, tt.wantStatus, rec.Code)

			rec = httptest.NewRecorder()
			app.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}

func TestCreateDatabase_RequiresURL(t *testing.T) {
	f := NewComponentFactory(testConfig(), zap.NewNop())
	_, err := f.CreateDatabase(context.Background())
	assert.Error(t, err)
}
