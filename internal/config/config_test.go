package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		MyStreamCountBaseURL: "https://www.mystreamcount.com",
		KworbBaseURL:         "https://kworb.net",
		ChartConfig: ChartConfig{
			MaxAttempts:         3,
			ProcessingBackoff:   3 * time.Second,
			TransportRetryDelay: 2 * time.Second,
		},
		VideoConfig: VideoConfig{
			InvidiousInstances: DefaultInvidiousInstances,
			MaxResults:         10,
		},
		ServerPort: 8080,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"валидная конфигурация", func(c *Config) {}, false},
		{"относительный base URL", func(c *Config) { c.KworbBaseURL = "kworb.net" }, true},
		{"ноль попыток chart API", func(c *Config) { c.ChartConfig.MaxAttempts = 0 }, true},
		{"отрицательная задержка", func(c *Config) { c.ChartConfig.ProcessingBackoff = -time.Second }, true},
		{"только client id", func(c *Config) { c.SpotifyClientID = "id" }, true},
		{"spotify полностью", func(c *Config) { c.SpotifyClientID = "id"; c.SpotifyClientSecret = "secret" }, false},
		{"архив без DSN", func(c *Config) { c.ArchiveEnabled = true }, true},
		{"архив с DSN", func(c *Config) { c.ArchiveEnabled = true; c.DatabaseURL = "postgres://localhost/db" }, false},
		{"неверный порт", func(c *Config) { c.ServerPort = 70000 }, true},
		{"неверный инстанс", func(c *Config) { c.VideoConfig.InvidiousInstances = []string{"ftp://x"} }, true},
		{"ноль результатов видео", func(c *Config) { c.VideoConfig.MaxResults = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"MYSTREAMCOUNT_BASE_URL", "KWORB_BASE_URL", "CHART_MAX_ATTEMPTS",
		"CHART_PROCESSING_BACKOFF", "CHART_TRANSPORT_RETRY_DELAY", "INVIDIOUS_INSTANCES",
		"SPOTIFY_CLIENT_ID", "SPOTIFY_CLIENT_SECRET", "ARCHIVE_ENABLED", "DB_DSN", "SERVER_PORT",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://www.mystreamcount.com", cfg.MyStreamCountBaseURL)
	assert.Equal(t, "https://kworb.net", cfg.KworbBaseURL)
	assert.Equal(t, 3, cfg.ChartConfig.MaxAttempts)
	assert.Equal(t, 3*time.Second, cfg.ChartConfig.ProcessingBackoff)
	assert.Equal(t, 2*time.Second, cfg.ChartConfig.TransportRetryDelay)
	assert.Equal(t, DefaultInvidiousInstances, cfg.VideoConfig.InvidiousInstances)
	assert.False(t, cfg.SpotifyEnabled())
	assert.False(t, cfg.ArchiveEnabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("KWORB_BASE_URL", "http://localhost:9000/")
	t.Setenv("CHART_MAX_ATTEMPTS", "5")
	t.Setenv("CHART_PROCESSING_BACKOFF", "250ms")
	t.Setenv("INVIDIOUS_INSTANCES", "https://a.example/, https://b.example")
	t.Setenv("SPOTIFY_CLIENT_ID", "id")
	t.Setenv("SPOTIFY_CLIENT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000", cfg.KworbBaseURL)
	assert.Equal(t, 5, cfg.ChartConfig.MaxAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.ChartConfig.ProcessingBackoff)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.VideoConfig.InvidiousInstances)
	assert.True(t, cfg.SpotifyEnabled())
}

func TestLoad_InvalidFails(t *testing.T) {
	t.Setenv("CHART_MAX_ATTEMPTS", "0")
	_, err := Load()
	assert.Error(t, err)
}
