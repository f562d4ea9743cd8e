package videos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"streamstats/internal/gateway/invidious"
)

// InvidiousSearcher поиск на одном инстансе
type InvidiousSearcher interface {
	Search(ctx context.Context, instance, query string) ([]invidious.SearchItem, error)
}

// InvidiousProvider перебирает инстансы до первого непустого ответа
type InvidiousProvider struct {
	client    InvidiousSearcher
	instances []string
	timeout   time.Duration
	logger    *zap.Logger
}

// NewInvidiousProvider создает провайдер
func NewInvidiousProvider(client InvidiousSearcher, instances []string, timeout time.Duration, logger *zap.Logger) *InvidiousProvider {
	return &InvidiousProvider{
		client:    client,
		instances: instances,
		timeout:   timeout,
		logger:    logger,
	}
}

// Name имя провайдера
func (p *InvidiousProvider) Name() string { return "invidious" }

// Search ищет видео
func (p *InvidiousProvider) Search(ctx context.Context, q Query, maxResults int) ([]Video, error) {
	var errs []error

	for _, instance := range p.instances {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		videos, err := p.searchInstance(ctx, instance, q, maxResults)
		if err != nil {
			p.logger.Debug("Invidious instance failed", zap.String("instance", instance), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		if len(videos) > 0 {
			p.logger.Info("Invidious search succeeded",
				zap.String("instance", instance),
				zap.Int("videos", len(videos)))
			return videos, nil
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("all invidious instances failed: %w", errors.Join(errs...))
	}
	return nil, nil
}

func (p *InvidiousProvider) searchInstance(ctx context.Context, instance string, q Query, maxResults int) ([]Video, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	items, err := p.client.Search(ctx, instance, q.Terms())
	if err != nil {
		return nil, err
	}

	var videos []Video
	for _, item := range items {
		if len(videos) >= maxResults {
			break
		}
		if item.VideoID == "" {
			continue
		}
		videos = append(videos, Video{
			Title:     orUnknown(item.Title),
			URL:       WatchURL(item.VideoID),
			Channel:   orUnknown(item.Author),
			Duration:  FormatDuration(item.LengthSeconds),
			Views:     FormatViews(item.ViewCount),
			Thumbnail: ThumbnailURL(item.VideoID),
			VideoID:   item.VideoID,
		})
	}
	return videos, nil
}

func orUnknown(s string) string {
	if s == "" {
		return unknown
	}
	return s
}
