// Package invidious реализует клиент поиска видео через API Invidious.
package invidious

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// SearchItem элемент ответа /api/v1/search
type SearchItem struct {
	Type          string `json:"type"`
	VideoID       string `json:"videoId"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	LengthSeconds int64  `json:"lengthSeconds"`
	ViewCount     int64  `json:"viewCount"`
}

// Client клиент Invidious API
type Client struct {
	httpClient *http.Client
	userAgent  string
	logger     *zap.Logger
}

// NewClient создает клиент
func NewClient(httpClient *http.Client, userAgent string, logger *zap.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		userAgent:  userAgent,
		logger:     logger,
	}
}

// Search выполняет поиск видео на одном инстансе
func (c *Client) Search(ctx context.Context, instance, query string) ([]SearchItem, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "video")
	params.Set("sort_by", "relevance")
	endpoint := strings.TrimRight(instance, "/") + "/api/v1/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("invidious request to %s failed: %w", instance, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("Failed to close response body", zap.Error(closeErr))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("invidious instance %s returned HTTP %d", instance, resp.StatusCode)
	}

	var items []SearchItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to decode invidious response from %s: %w", instance, err)
	}

	return items, nil
}
