package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
	"go.uber.org/zap"
)

const namespace = "streamstats"

// Metrics реализация Interface поверх отдельного Prometheus registry
type Metrics struct {
	registry *prometheus.Registry

	scrapesTotal     *prometheus.CounterVec
	scrapeDuration   *prometheus.HistogramVec
	chartAttempts    *prometheus.CounterVec
	videoSearches    *prometheus.CounterVec
	requestsTotal    *prometheus.CounterVec
	requestDurations *prometheus.HistogramVec

	startTime time.Time
	logger    *zap.Logger
}

var _ Interface = (*Metrics)(nil)

// NewMetrics создает метрики. Каждый экземпляр использует свой registry.
func NewMetrics(logger *zap.Logger) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		scrapesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scrapes_total",
			Help:      "Total number of scrapes by source and outcome",
		}, []string{"source", "outcome"}),
		scrapeDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scrape_duration_seconds",
			Help:      "Scrape duration by source",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40},
		}, []string{"source"}),
		chartAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chart_attempts_total",
			Help:      "Chart API polling attempts by response status",
		}, []string{"status"}),
		videoSearches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "video_searches_total",
			Help:      "Video searches by provider and outcome",
		}, []string{"provider", "outcome"}),
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Handled requests by action and status code",
		}, []string{"action", "code"}),
		requestDurations: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Request duration by action",
			Buckets:   prometheus.DefBuckets,
		}, []string{"action"}),
		startTime: time.Now(),
		logger:    logger,
	}
}

// RecordScrape записывает результат скрейпинга источника
func (m *Metrics) RecordScrape(source string, success bool, duration time.Duration) {
	m.scrapesTotal.WithLabelValues(source, outcome(success)).Inc()
	m.scrapeDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordChartAttempt записывает один запрос к chart API
func (m *Metrics) RecordChartAttempt(status string) {
	m.chartAttempts.WithLabelValues(status).Inc()
}

// RecordVideoSearch записывает результат поиска видео
func (m *Metrics) RecordVideoSearch(provider string, success bool) {
	m.videoSearches.WithLabelValues(provider, outcome(success)).Inc()
}

// RecordRequest записывает обработанный запрос
func (m *Metrics) RecordRequest(action string, statusCode int, duration time.Duration) {
	if action == "" {
		action = "health"
	}
	m.requestsTotal.WithLabelValues(action, strconv.Itoa(statusCode)).Inc()
	m.requestDurations.WithLabelValues(action).Observe(duration.Seconds())
}

// Handler возвращает HTTP обработчик для /metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// GetStats возвращает суммы счетчиков приложения и uptime
func (m *Metrics) GetStats() map[string]interface{} {
	counters := make(map[string]float64)

	families, err := m.registry.Gather()
	if err != nil {
		m.logger.Warn("Failed to gather metrics", zap.Error(err))
	}
	for _, family := range families {
		if family.GetType() != dto.MetricType_COUNTER || !strings.HasPrefix(family.GetName(), namespace+"_") {
			continue
		}
		var total float64
		for _, metric := range family.GetMetric() {
			total += metric.GetCounter().GetValue()
		}
		counters[strings.TrimPrefix(family.GetName(), namespace+"_")] = total
	}

	return map[string]interface{}{
		"uptime":   formatDuration(time.Since(m.startTime)),
		"counters": counters,
	}
}

func outcome(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

// formatDuration форматирует duration в читаемый вид
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
