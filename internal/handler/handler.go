package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"streamstats/internal/domain/track"
	"streamstats/internal/features/videos"
	"streamstats/internal/model"
)

const (
	errMsgTrackIDRequired = "track_id parameter is required"
	errMsgVideoQuery      = "artist and track parameters are required"
	errMsgArchiveDisabled = "archive is not enabled"
	defaultHistoryLimit   = 20
	maxHistoryLimit       = 100
	maxChartAttempts      = 10
)

// Handler разбирает action и вызывает соответствующий скрейпер
type Handler struct {
	deps   Dependencies
	logger *zap.Logger
}

// New создает обработчик
func New(deps Dependencies, logger *zap.Logger) *Handler {
	if deps.Metrics == nil {
		deps.Metrics = noopRecorder{}
	}
	if deps.ChartMaxAttempts < 1 {
		deps.ChartMaxAttempts = 3
	}
	if deps.VideoMaxResults < 1 {
		deps.VideoMaxResults = 10
	}
	return &Handler{
		deps:   deps,
		logger: logger,
	}
}

// Handle обрабатывает запрос. Ошибки скрейпинга возвращаются с кодом 200
// и success=false, панику обработчик превращает в 500.
func (h *Handler) Handle(ctx context.Context, req Request) (resp Response) {
	start := time.Now()
	action := strings.ToLower(req.Param("action"))
	logger := h.logger.With(
		zap.String("request_id", req.RequestID),
		zap.String("method", req.Method),
		zap.String("action", action))

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic recovered in handler",
				zap.Any("panic", r),
				zap.String("stack", string(debug.Stack())))
			resp = jsonResponse(http.StatusInternalServerError, envelope{
				Error: fmt.Sprintf("Internal server error: %v", r),
			})
		}
		h.deps.Metrics.RecordRequest(metricLabel(req.Method, action), resp.StatusCode, time.Since(start))
		logger.Info("Request handled",
			zap.Int("status_code", resp.StatusCode),
			zap.Duration("duration", time.Since(start)))
	}()

	if strings.EqualFold(req.Method, http.MethodOptions) {
		logger.Debug("Handling CORS preflight request")
		return preflightResponse()
	}

	switch action {
	case "", ActionHealth:
		return h.health(ctx)
	case ActionStreamCount:
		return h.streamCount(ctx, req, logger)
	case ActionChartData:
		return h.chartData(ctx, req, logger)
	case ActionKworb:
		return h.kworb(ctx, req, logger)
	case ActionVideos:
		return h.videos(ctx, req, logger)
	case ActionHistory:
		return h.history(ctx, req, logger)
	default:
		return jsonResponse(http.StatusBadRequest, envelope{
			Error:            fmt.Sprintf("Unknown action: %s", action),
			AvailableActions: AvailableActions,
		})
	}
}

func (h *Handler) health(ctx context.Context) Response {
	body := healthBody{
		Status:           "healthy",
		Service:          ServiceName,
		Version:          ServiceVersion,
		AvailableActions: AvailableActions,
	}
	if h.deps.Health != nil {
		status := h.deps.Health.Status(ctx)
		body.Status = status.Status
		body.Uptime = status.Uptime
		body.Components = status.Components
	}
	return jsonResponse(http.StatusOK, body)
}

func (h *Handler) streamCount(ctx context.Context, req Request, logger *zap.Logger) Response {
	trackID, errResp, ok := resolveTrackID(req)
	if !ok {
		return errResp
	}

	logger.Info("Scraping stream count", zap.String("track_id", trackID))
	rec := h.deps.StreamCount.ScrapeTrack(ctx, trackID)
	h.archive(ctx, model.SourceMyStreamCount, trackID, rec.Success, rec, logger)

	return jsonResponse(http.StatusOK, envelope{
		Success: rec.Success,
		TrackID: trackID,
		Data:    rec,
		Error:   rec.Error,
	})
}

func (h *Handler) chartData(ctx context.Context, req Request, logger *zap.Logger) Response {
	trackID, errResp, ok := resolveTrackID(req)
	if !ok {
		return errResp
	}

	maxAttempts := h.deps.ChartMaxAttempts
	if raw := req.Param("max_retries"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxChartAttempts {
			return jsonResponse(http.StatusBadRequest, envelope{
				Error: fmt.Sprintf("max_retries must be an integer between 1 and %d", maxChartAttempts),
			})
		}
		maxAttempts = n
	}

	logger.Info("Retrieving chart data", zap.String("track_id", trackID), zap.Int("max_attempts", maxAttempts))
	result := h.deps.StreamCount.ChartOnly(ctx, trackID, maxAttempts)
	h.archive(ctx, model.SourceChart, trackID, result.Ready(), result, logger)

	return jsonResponse(http.StatusOK, envelope{
		Success:   result.Ready(),
		TrackID:   trackID,
		ChartData: result,
		Error:     result.Error,
	})
}

func (h *Handler) kworb(ctx context.Context, req Request, logger *zap.Logger) Response {
	trackID, errResp, ok := resolveTrackID(req)
	if !ok {
		return errResp
	}

	logger.Info("Scraping kworb data", zap.String("track_id", trackID))
	result := h.deps.Kworb.TopCountry(ctx, trackID)
	h.archive(ctx, model.SourceKworb, trackID, result.Success, result, logger)

	return jsonResponse(http.StatusOK, envelope{
		Success: result.Success,
		TrackID: trackID,
		Data:    result,
		Error:   result.Error,
	})
}

func (h *Handler) videos(ctx context.Context, req Request, logger *zap.Logger) Response {
	q := videos.Query{
		Song:   firstNonEmpty(req.Param("track"), req.Param("song")),
		Artist: req.Param("artist"),
	}
	trackID := req.Param("track_id")

	if !q.Valid() {
		if trackID == "" || h.deps.Spotify == nil {
			return jsonResponse(http.StatusBadRequest, envelope{Error: errMsgVideoQuery})
		}

		t, err := h.deps.Spotify.GetTrack(ctx, trackID)
		if err != nil {
			logger.Warn("Failed to resolve track via Spotify", zap.String("track_id", trackID), zap.Error(err))
			return jsonResponse(http.StatusOK, envelope{
				TrackID: trackID,
				Error:   fmt.Sprintf("Track lookup failed: %v", err),
			})
		}
		q = videos.Query{Song: t.Title, Artist: t.PrimaryArtist()}
	}

	maxResults := h.deps.VideoMaxResults
	if raw := req.Param("max_results"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			maxResults = n
		}
	}

	logger.Info("Searching videos", zap.String("query", q.String()), zap.Int("max_results", maxResults))
	result := h.deps.Videos.Search(ctx, q, maxResults)
	success := result.Error == ""
	if trackID != "" {
		h.archive(ctx, model.SourceVideos, trackID, success, result, logger)
	}

	return jsonResponse(http.StatusOK, envelope{
		Success: success,
		TrackID: trackID,
		Data:    result,
		Error:   result.Error,
	})
}

func (h *Handler) history(ctx context.Context, req Request, logger *zap.Logger) Response {
	trackID, errResp, ok := resolveTrackID(req)
	if !ok {
		return errResp
	}
	if h.deps.History == nil {
		return jsonResponse(http.StatusBadRequest, envelope{TrackID: trackID, Error: errMsgArchiveDisabled})
	}

	limit := defaultHistoryLimit
	if raw := req.Param("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = min(n, maxHistoryLimit)
		}
	}

	records, err := h.deps.History.History(ctx, trackID, limit)
	if err != nil {
		logger.Error("Failed to read archive history", zap.String("track_id", trackID), zap.Error(err))
		return jsonResponse(http.StatusInternalServerError, envelope{
			TrackID: trackID,
			Error:   fmt.Sprintf("Internal server error: %v", err),
		})
	}
	if records == nil {
		records = []model.ScrapeRecord{}
	}

	return jsonResponse(http.StatusOK, envelope{
		Success: true,
		TrackID: trackID,
		Data:    records,
	})
}

// archive пишет результат в архив, если он подключен. Ошибка архива не влияет на ответ.
func (h *Handler) archive(ctx context.Context, source, trackID string, success bool, result interface{}, logger *zap.Logger) {
	if h.deps.Archive == nil {
		return
	}
	if err := h.deps.Archive.Archive(ctx, source, trackID, success, result); err != nil {
		logger.Warn("Failed to archive result", zap.String("source", source), zap.Error(err))
	}
}

// resolveTrackID берет track_id или извлекает его из track_url
func resolveTrackID(req Request) (string, Response, bool) {
	if trackID := req.Param("track_id"); trackID != "" {
		return trackID, Response{}, true
	}

	trackURL := req.Param("track_url")
	if trackURL == "" {
		return "", jsonResponse(http.StatusBadRequest, envelope{Error: errMsgTrackIDRequired}), false
	}

	trackID, err := track.ExtractID(trackURL)
	if err != nil {
		return "", jsonResponse(http.StatusBadRequest, envelope{Error: err.Error()}), false
	}
	return trackID, Response{}, true
}

func metricLabel(method, action string) string {
	if strings.EqualFold(method, http.MethodOptions) {
		return "options"
	}
	switch action {
	case "":
		return ActionHealth
	case ActionHealth, ActionStreamCount, ActionChartData, ActionKworb, ActionVideos, ActionHistory:
		return action
	default:
		return "unknown"
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func jsonResponse(statusCode int, body interface{}) Response {
	data, err := json.Marshal(body)
	if err != nil {
		statusCode = http.StatusInternalServerError
		data = []byte(`{"success":false,"error":"Internal server error: failed to encode response"}`)
	}
	return Response{
		StatusCode: statusCode,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(data),
	}
}

func preflightResponse() Response {
	resp := jsonResponse(http.StatusOK, map[string]string{"message": "CORS preflight successful"})
	resp.Headers["Access-Control-Allow-Origin"] = "*"
	resp.Headers["Access-Control-Allow-Methods"] = "GET, POST, OPTIONS"
	resp.Headers["Access-Control-Allow-Headers"] = "Content-Type, Authorization, X-Requested-With"
	resp.Headers["Access-Control-Max-Age"] = "86400"
	return resp
}

type noopRecorder struct{}

func (noopRecorder) RecordRequest(string, int, time.Duration) {}
