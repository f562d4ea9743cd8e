package handler

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/url"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
)

// HandleFunctionURL обрабатывает событие AWS Lambda Function URL
func (h *Handler) HandleFunctionURL(ctx context.Context, event events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	resp := h.Handle(ctx, FromFunctionURL(event, h.logger))
	return events.LambdaFunctionURLResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       resp.Body,
	}, nil
}

// FromFunctionURL преобразует событие Function URL в Request.
// Параметры формы из тела POST дополняют query string, но не перекрывают ее.
func FromFunctionURL(event events.LambdaFunctionURLRequest, logger *zap.Logger) Request {
	method := event.RequestContext.HTTP.Method
	if method == "" {
		method = http.MethodGet
	}

	query := make(map[string]string, len(event.QueryStringParameters))
	for key, value := range event.QueryStringParameters {
		query[key] = value
	}

	if method == http.MethodPost && event.Body != "" {
		body := event.Body
		if event.IsBase64Encoded {
			decoded, err := base64.StdEncoding.DecodeString(body)
			if err != nil {
				logger.Warn("Failed to decode request body", zap.Error(err))
				body = ""
			} else {
				body = string(decoded)
			}
		}
		if form, err := url.ParseQuery(body); err == nil {
			for key, values := range form {
				if _, exists := query[key]; !exists && len(values) > 0 {
					query[key] = values[0]
				}
			}
		}
	}

	return Request{
		Method:    method,
		Query:     query,
		RequestID: event.RequestContext.RequestID,
	}
}
