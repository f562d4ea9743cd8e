package streamcount

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"streamstats/internal/domain/track"
	"streamstats/internal/gateway/scraper"
)

// Сообщения терминальных ошибок chart API
const (
	ErrMsgTokenMissing       = "CSRF token not found"
	ErrMsgMaxRetriesExceeded = "Max retries exceeded"
	errMsgUnknown            = "Unknown error"
)

// ChartRecorder метрики попыток опроса
type ChartRecorder interface {
	RecordChartAttempt(status string)
}

// RetrieverConfig параметры опроса
type RetrieverConfig struct {
	BaseURL string
	// ProcessingBackoff постоянная пауза после ответа "processing"
	ProcessingBackoff time.Duration
	// TransportRetryDelay пауза после сетевой ошибки
	TransportRetryDelay time.Duration
}

// Retriever опрашивает асинхронный chart API до готовности данных
type Retriever struct {
	config  RetrieverConfig
	metrics ChartRecorder
	logger  *zap.Logger
	sleep   func(ctx context.Context, d time.Duration) error
}

// NewRetriever создает Retriever
func NewRetriever(config RetrieverConfig, metrics ChartRecorder, logger *zap.Logger) *Retriever {
	return &Retriever{
		config:  config,
		metrics: metrics,
		logger:  logger,
		sleep:   scraper.Sleep,
	}
}

type chartResponse struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  json.RawMessage `json:"error"`
}

// Endpoint возвращает URL chart API для трека
func (r *Retriever) Endpoint(trackID string) string {
	return fmt.Sprintf("%s/api/track/%s/streams", r.config.BaseURL, url.PathEscape(trackID))
}

// Retrieve выполняет опрос в вызывающей горутине. Без токена сразу возвращает ошибку
// без сетевых запросов. Пауза после последней попытки не делается.
func (r *Retriever) Retrieve(ctx context.Context, poster scraper.FormPoster, trackID, token string, maxAttempts int) track.ChartResult {
	if token == "" {
		return r.failure(trackID, ErrMsgTokenMissing, 0, 0)
	}
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	endpoint := r.Endpoint(trackID)
	form := url.Values{"_token": {token}}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		status, body, err := poster.PostForm(ctx, endpoint, form)
		if err != nil {
			r.metrics.RecordChartAttempt("transport_error")
			if ctx.Err() != nil || attempt == maxAttempts {
				return r.failure(trackID, err.Error(), 0, attempt)
			}
			r.logger.Warn("Chart API request failed, retrying",
				zap.String("track_id", trackID),
				zap.Int("attempt", attempt),
				zap.Duration("delay", r.config.TransportRetryDelay),
				zap.Error(err))
			if err := r.sleep(ctx, r.config.TransportRetryDelay); err != nil {
				return r.failure(trackID, err.Error(), 0, attempt)
			}
			continue
		}

		if status != http.StatusOK {
			r.metrics.RecordChartAttempt("http_error")
			return r.failure(trackID, fmt.Sprintf("HTTP %d", status), status, attempt)
		}

		var resp chartResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			r.metrics.RecordChartAttempt("invalid_response")
			return r.failure(trackID, fmt.Sprintf("invalid chart API response: %v", err), status, attempt)
		}

		r.metrics.RecordChartAttempt(chartStatusLabel(resp.Status))

		switch resp.Status {
		case track.ChartStatusReady:
			r.logger.Info("Chart data ready",
				zap.String("track_id", trackID),
				zap.Int("attempt", attempt))
			return track.ChartResult{
				TrackID:   trackID,
				Status:    track.ChartStatusReady,
				ChartData: resp.Data,
				Attempts:  attempt,
			}
		case track.ChartStatusProcessing:
			if attempt == maxAttempts {
				continue
			}
			r.logger.Debug("Chart data still processing",
				zap.String("track_id", trackID),
				zap.Int("attempt", attempt),
				zap.Duration("backoff", r.config.ProcessingBackoff))
			if err := r.sleep(ctx, r.config.ProcessingBackoff); err != nil {
				return r.failure(trackID, err.Error(), 0, attempt)
			}
		default:
			return r.failure(trackID, remoteError(resp.Error), 0, attempt)
		}
	}

	return r.failure(trackID, ErrMsgMaxRetriesExceeded, 0, maxAttempts)
}

func (r *Retriever) failure(trackID, message string, statusCode, attempts int) track.ChartResult {
	r.logger.Warn("Chart retrieval failed",
		zap.String("track_id", trackID),
		zap.String("error", message),
		zap.Int("attempts", attempts))
	return track.ChartResult{
		TrackID:    trackID,
		Status:     track.ChartStatusError,
		Error:      message,
		StatusCode: statusCode,
		Attempts:   attempts,
	}
}

// remoteError возвращает сообщение об ошибке из тела ответа как есть
func remoteError(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return errMsgUnknown
	}
	var msg string
	if err := json.Unmarshal(raw, &msg); err == nil {
		if msg == "" {
			return errMsgUnknown
		}
		return msg
	}
	return string(raw)
}

// chartStatusLabel ограничивает набор значений метки статуса
func chartStatusLabel(status string) string {
	switch status {
	case track.ChartStatusReady, track.ChartStatusProcessing:
		return status
	default:
		return "other"
	}
}
