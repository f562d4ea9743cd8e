// Package metrics содержит метрики скрейпинга.
package metrics

import (
	"net/http"
	"time"
)

// Interface определяет интерфейс для системы метрик
type Interface interface {
	// RecordScrape записывает результат скрейпинга источника
	RecordScrape(source string, success bool, duration time.Duration)

	// RecordChartAttempt записывает один запрос к chart API
	RecordChartAttempt(status string)

	// RecordVideoSearch записывает результат поиска видео
	RecordVideoSearch(provider string, success bool)

	// RecordRequest записывает обработанный запрос к обработчику
	RecordRequest(action string, statusCode int, duration time.Duration)

	// Handler возвращает HTTP обработчик для /metrics
	Handler() http.Handler

	// GetStats возвращает сводку метрик в виде map
	GetStats() map[string]interface{}
}
