// Package scraper реализует HTTP-транспорт и сессии для загрузки страниц со статистикой.
package scraper

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// HTTPClientConfig конфигурация HTTP клиента
type HTTPClientConfig struct {
	MaxIdleConns          int
	MaxIdleConnsPerHost   int
	IdleConnTimeout       time.Duration
	TLSHandshakeTimeout   time.Duration
	ResponseHeaderTimeout time.Duration
	DisableKeepAlives     bool
}

// NewTransport создает транспорт с пулом соединений.
// Транспорт общий для процесса, а cookie и заголовки живут в Session.
func NewTransport(config HTTPClientConfig, logger *zap.Logger) *http.Transport {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          config.MaxIdleConns,
		MaxIdleConnsPerHost:   config.MaxIdleConnsPerHost,
		IdleConnTimeout:       config.IdleConnTimeout,
		TLSHandshakeTimeout:   config.TLSHandshakeTimeout,
		ResponseHeaderTimeout: config.ResponseHeaderTimeout,
		DisableKeepAlives:     config.DisableKeepAlives,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}

	logger.Info("HTTP transport created with connection pooling",
		zap.Int("max_idle_conns", config.MaxIdleConns),
		zap.Int("max_idle_conns_per_host", config.MaxIdleConnsPerHost),
		zap.Duration("idle_conn_timeout", config.IdleConnTimeout),
		zap.Duration("tls_handshake_timeout", config.TLSHandshakeTimeout),
		zap.Duration("response_header_timeout", config.ResponseHeaderTimeout),
		zap.Bool("disable_keep_alives", config.DisableKeepAlives))

	return transport
}

// NewHTTPClient создает HTTP клиент поверх общего транспорта без cookie jar
func NewHTTPClient(transport http.RoundTripper, timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}
