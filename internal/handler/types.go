// Package handler обрабатывает запросы к сервису независимо от транспорта.
package handler

import (
	"context"
	"strings"
	"time"

	"streamstats/internal/domain/track"
	"streamstats/internal/features/kworb"
	"streamstats/internal/features/videos"
	"streamstats/internal/gateway/spotify"
	"streamstats/internal/infrastructure/health"
	"streamstats/internal/model"
)

// Имена действий параметра action
const (
	ActionHealth      = "health"
	ActionStreamCount = "stream_count"
	ActionChartData   = "chart_data"
	ActionKworb       = "kworb"
	ActionVideos      = "videos"
	ActionHistory     = "history"
)

// AvailableActions порядок действий в ответах
var AvailableActions = []string{ActionHealth, ActionStreamCount, ActionKworb, ActionChartData, ActionVideos, ActionHistory}

// Сведения о сервисе в ответе health
const (
	ServiceName    = "songstats-lambda-scraper"
	ServiceVersion = "1.0.0"
)

// Request запрос к обработчику
type Request struct {
	Method    string
	Query     map[string]string
	RequestID string
}

// Param возвращает параметр запроса без пробелов по краям
func (r Request) Param(name string) string {
	if r.Query == nil {
		return ""
	}
	return strings.TrimSpace(r.Query[name])
}

// Response ответ обработчика с JSON телом
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       string
}

// StreamCounter скрейпер страницы трека и chart API
type StreamCounter interface {
	ScrapeTrack(ctx context.Context, trackID string) track.Record
	ChartOnly(ctx context.Context, trackID string, maxAttempts int) track.ChartResult
}

// CountryRanker скрейпер стран kworb.net
type CountryRanker interface {
	TopCountry(ctx context.Context, trackID string) kworb.Result
}

// VideoSearcher поиск видео
type VideoSearcher interface {
	Search(ctx context.Context, q videos.Query, maxResults int) videos.Result
}

// TrackResolver определяет название и исполнителя по идентификатору трека
type TrackResolver interface {
	GetTrack(ctx context.Context, trackID string) (*spotify.Track, error)
}

// Archiver сохраняет результаты
type Archiver interface {
	Archive(ctx context.Context, source, trackID string, success bool, result interface{}) error
}

// HistoryReader читает архив
type HistoryReader interface {
	History(ctx context.Context, trackID string, limit int) ([]model.ScrapeRecord, error)
}

// RequestRecorder метрики обработчика
type RequestRecorder interface {
	RecordRequest(action string, statusCode int, duration time.Duration)
}

// Dependencies компоненты обработчика. Spotify, Archive, History и Health необязательны.
type Dependencies struct {
	StreamCount StreamCounter
	Kworb       CountryRanker
	Videos      VideoSearcher
	Spotify     TrackResolver
	Archive     Archiver
	History     HistoryReader
	Health      health.Reporter
	Metrics     RequestRecorder

	ChartMaxAttempts int
	VideoMaxResults  int
}

type envelope struct {
	Success          bool        `json:"success"`
	TrackID          string      `json:"track_id,omitempty"`
	Data             interface{} `json:"data,omitempty"`
	ChartData        interface{} `json:"chart_data,omitempty"`
	Error            string      `json:"error,omitempty"`
	AvailableActions []string    `json:"available_actions,omitempty"`
}

type healthBody struct {
	Status           string            `json:"status"`
	Service          string            `json:"service"`
	Version          string            `json:"version"`
	AvailableActions []string          `json:"available_actions"`
	Uptime           string            `json:"uptime,omitempty"`
	Components       map[string]string `json:"components,omitempty"`
}
