package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"streamstats/internal/infrastructure/health"
)

// RouterOptions дополнительные маршруты локального сервера
type RouterOptions struct {
	Metrics http.Handler
	Stats   func() map[string]interface{}
	Health  health.Reporter
}

// NewRouter создает маршруты HTTP сервера поверх Handler
func NewRouter(h *Handler, opts RouterOptions, logger *zap.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(requestLogging(logger))

	r.HandleFunc("/", h.ServeHTTP).Methods(http.MethodGet, http.MethodPost, http.MethodOptions)
	r.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		request := fromHTTP(req)
		request.Query["action"] = ActionHealth
		writeResponse(w, h.Handle(req.Context(), request), logger)
	}).Methods(http.MethodGet)

	if opts.Health != nil {
		r.HandleFunc("/ready", func(w http.ResponseWriter, req *http.Request) {
			status := opts.Health.Status(req.Context())
			code := http.StatusOK
			if !status.Healthy() {
				code = http.StatusServiceUnavailable
			}
			writeJSON(w, code, status, logger)
		}).Methods(http.MethodGet)
	}
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics).Methods(http.MethodGet)
	}
	if opts.Stats != nil {
		r.HandleFunc("/stats", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, opts.Stats(), logger)
		}).Methods(http.MethodGet)
	}

	return r
}

// ServeHTTP обрабатывает запрос с параметрами в query string или форме
func (h *Handler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	writeResponse(w, h.Handle(req.Context(), fromHTTP(req)), h.logger)
}

func fromHTTP(req *http.Request) Request {
	query := make(map[string]string)
	if err := req.ParseForm(); err == nil {
		for key, values := range req.Form {
			if len(values) > 0 {
				query[key] = values[0]
			}
		}
	} else {
		for key, values := range req.URL.Query() {
			if len(values) > 0 {
				query[key] = values[0]
			}
		}
	}

	requestID := req.Header.Get("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}

	return Request{
		Method:    req.Method,
		Query:     query,
		RequestID: requestID,
	}
}

func writeResponse(w http.ResponseWriter, resp Response, logger *zap.Logger) {
	for key, value := range resp.Headers {
		w.Header().Set(key, value)
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := w.Write([]byte(resp.Body)); err != nil {
		logger.Warn("Failed to write response", zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, body interface{}, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", zap.Error(err))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogging(logger *zap.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, req)
			logger.Debug("HTTP request",
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("duration", time.Since(start)))
		})
	}
}
