// Package config содержит загрузку и валидацию конфигурации.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultInvidiousInstances публичные инстансы Invidious для поиска видео
var DefaultInvidiousInstances = []string{
	"https://invidious.io",
	"https://y.com.sb",
	"https://invidious.lunar.icu",
	"https://inv.riverside.rocks",
	"https://invidious.flokinet.to",
}

// Config представляет конфигурацию приложения
type Config struct {
	// Logging
	LogLevel string

	// HTTP Client
	HTTPClientConfig HTTPClientConfig

	// Scraper
	ScraperConfig ScraperConfig

	// Источники
	MyStreamCountBaseURL string
	KworbBaseURL         string

	// Chart API
	ChartConfig ChartConfig

	// Видео
	VideoConfig VideoConfig

	// Spotify
	SpotifyClientID     string
	SpotifyClientSecret string

	// Database
	DatabaseURL    string
	ArchiveEnabled bool

	// Server
	ServerPort     int
	MetricsEnabled bool
}

// HTTPClientConfig представляет конфигурацию HTTP клиента
type HTTPClientConfig struct {
	MaxIdleConns          int
	MaxIdleConnsPerHost   int
	IdleConnTimeout       time.Duration
	TLSHandshakeTimeout   time.Duration
	ResponseHeaderTimeout time.Duration
	DisableKeepAlives     bool
}

// RetryConfig представляет конфигурацию retry механизма
type RetryConfig struct {
	MaxRetries        int
	InitialDelay      time.Duration
	MaxDelay          time.Duration
	BackoffMultiplier float64
}

// ScraperConfig представляет конфигурацию загрузки страниц
type ScraperConfig struct {
	UserAgent      string
	RequestTimeout time.Duration
	// RequestDelay пауза между независимыми треками в пакетном режиме
	RequestDelay time.Duration
	PageRetry    RetryConfig
}

// ChartConfig параметры опроса асинхронного chart API
type ChartConfig struct {
	MaxAttempts         int
	ProcessingBackoff   time.Duration
	TransportRetryDelay time.Duration
}

// VideoConfig параметры поиска видео
type VideoConfig struct {
	InvidiousInstances []string
	SearchTimeout      time.Duration
	MaxResults         int
	FallbackEnabled    bool
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	// .env необязателен
	_ = godotenv.Load()

	config := &Config{
		LogLevel: getEnv("LOG_LEVEL", "info"),
		HTTPClientConfig: HTTPClientConfig{
			MaxIdleConns:          getEnvInt("HTTP_MAX_IDLE_CONNS", 100),
			MaxIdleConnsPerHost:   getEnvInt("HTTP_MAX_IDLE_CONNS_PER_HOST", 10),
			IdleConnTimeout:       getEnvDuration("HTTP_IDLE_CONN_TIMEOUT", 90*time.Second),
			TLSHandshakeTimeout:   getEnvDuration("HTTP_TLS_HANDSHAKE_TIMEOUT", 10*time.Second),
			ResponseHeaderTimeout: getEnvDuration("HTTP_RESPONSE_HEADER_TIMEOUT", 30*time.Second),
			DisableKeepAlives:     getEnvBool("HTTP_DISABLE_KEEP_ALIVES", false),
		},
		ScraperConfig: ScraperConfig{
			UserAgent:      getEnv("USER_AGENT", ""),
			RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
			RequestDelay:   getEnvDuration("REQUEST_DELAY", 1500*time.Millisecond),
			PageRetry: RetryConfig{
				MaxRetries:        getEnvInt("PAGE_MAX_RETRIES", 1),
				InitialDelay:      getEnvDuration("PAGE_RETRY_DELAY", 1*time.Second),
				MaxDelay:          getEnvDuration("PAGE_RETRY_MAX_DELAY", 10*time.Second),
				BackoffMultiplier: getEnvFloat("PAGE_RETRY_BACKOFF_MULTIPLIER", 2.0),
			},
		},
		MyStreamCountBaseURL: strings.TrimRight(getEnv("MYSTREAMCOUNT_BASE_URL", "https://www.mystreamcount.com"), "/"),
		KworbBaseURL:         strings.TrimRight(getEnv("KWORB_BASE_URL", "https://kworb.net"), "/"),
		ChartConfig: ChartConfig{
			MaxAttempts:         getEnvInt("CHART_MAX_ATTEMPTS", 3),
			ProcessingBackoff:   getEnvDuration("CHART_PROCESSING_BACKOFF", 3*time.Second),
			TransportRetryDelay: getEnvDuration("CHART_TRANSPORT_RETRY_DELAY", 2*time.Second),
		},
		VideoConfig: VideoConfig{
			InvidiousInstances: getEnvList("INVIDIOUS_INSTANCES", DefaultInvidiousInstances),
			SearchTimeout:      getEnvDuration("VIDEO_SEARCH_TIMEOUT", 10*time.Second),
			MaxResults:         getEnvInt("VIDEO_MAX_RESULTS", 10),
			FallbackEnabled:    getEnvBool("VIDEO_FALLBACK_ENABLED", true),
		},
		SpotifyClientID:     getEnv("SPOTIFY_CLIENT_ID", ""),
		SpotifyClientSecret: getEnv("SPOTIFY_CLIENT_SECRET", ""),
		DatabaseURL:         getEnv("DB_DSN", ""),
		ArchiveEnabled:      getEnvBool("ARCHIVE_ENABLED", false),
		ServerPort:          getEnvInt("SERVER_PORT", 8080),
		MetricsEnabled:      getEnvBool("METRICS_ENABLED", true),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Validate проверяет конфигурацию. Обязательных полей нет:
// без Spotify и базы данных соответствующие функции просто отключены.
func (c *Config) Validate() error {
	if err := validateBaseURL("MYSTREAMCOUNT_BASE_URL", c.MyStreamCountBaseURL); err != nil {
		return err
	}
	if err := validateBaseURL("KWORB_BASE_URL", c.KworbBaseURL); err != nil {
		return err
	}

	if c.ChartConfig.MaxAttempts < 1 {
		return fmt.Errorf("CHART_MAX_ATTEMPTS must be at least 1, got %d", c.ChartConfig.MaxAttempts)
	}
	if c.ChartConfig.ProcessingBackoff < 0 || c.ChartConfig.TransportRetryDelay < 0 {
		return fmt.Errorf("chart delays must not be negative")
	}

	if c.ScraperConfig.PageRetry.MaxRetries < 0 {
		return fmt.Errorf("PAGE_MAX_RETRIES must not be negative")
	}
	if c.ScraperConfig.RequestDelay < 0 {
		return fmt.Errorf("REQUEST_DELAY must not be negative")
	}

	if c.VideoConfig.MaxResults < 1 {
		return fmt.Errorf("VIDEO_MAX_RESULTS must be at least 1, got %d", c.VideoConfig.MaxResults)
	}
	for _, instance := range c.VideoConfig.InvidiousInstances {
		if err := validateBaseURL("INVIDIOUS_INSTANCES", instance); err != nil {
			return err
		}
	}

	if (c.SpotifyClientID == "") != (c.SpotifyClientSecret == "") {
		return fmt.Errorf("SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET must be set together")
	}

	if c.ArchiveEnabled && c.DatabaseURL == "" {
		return fmt.Errorf("DB_DSN is required when ARCHIVE_ENABLED is set")
	}

	if c.ServerPort < 1 || c.ServerPort > 65535 {
		return fmt.Errorf("SERVER_PORT out of range: %d", c.ServerPort)
	}

	return nil
}

// SpotifyEnabled сообщает, заданы ли учетные данные Spotify
func (c *Config) SpotifyEnabled() bool {
	return c.SpotifyClientID != "" && c.SpotifyClientSecret != ""
}

func validateBaseURL(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", key, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) URL, got %q", key, raw)
	}
	return nil
}

// getEnv получает переменную окружения с значением по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает переменную окружения как int
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvDuration получает переменную окружения как time.Duration
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvBool получает переменную окружения как bool
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvFloat получает переменную окружения как float64
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvList получает список через запятую
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return append([]string(nil), defaultValue...)
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimRight(strings.TrimSpace(item), "/"); item != "" {
			items = append(items, item)
		}
	}
	return items
}
