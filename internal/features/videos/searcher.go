package videos

import (
	"context"
	"time"

	"go.uber.org/zap"
	"streamstats/internal/domain/track"
)

const errMsgNoVideos = "no videos found"

// Recorder метрики поиска
type Recorder interface {
	RecordVideoSearch(provider string, success bool)
}

// Searcher опрашивает провайдеров по порядку до первого непустого результата
type Searcher struct {
	providers []Provider
	metrics   Recorder
	logger    *zap.Logger
	now       func() time.Time
}

// NewSearcher создает Searcher
func NewSearcher(providers []Provider, metrics Recorder, logger *zap.Logger) *Searcher {
	return &Searcher{
		providers: providers,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// Search ищет видео. Ошибки провайдеров не прерывают цепочку.
func (s *Searcher) Search(ctx context.Context, q Query, maxResults int) Result {
	result := Result{
		Query:     q.String(),
		Videos:    []Video{},
		Timestamp: track.Timestamp(s.now()),
	}
	if maxResults < 1 {
		maxResults = 1
	}

	s.logger.Info("Searching videos", zap.String("query", result.Query), zap.Int("max_results", maxResults))

	for _, provider := range s.providers {
		videos, err := provider.Search(ctx, q, maxResults)
		if err != nil {
			s.metrics.RecordVideoSearch(provider.Name(), false)
			s.logger.Warn("Video provider failed",
				zap.String("provider", provider.Name()),
				zap.Error(err))
			continue
		}
		if len(videos) == 0 {
			s.metrics.RecordVideoSearch(provider.Name(), false)
			continue
		}

		s.metrics.RecordVideoSearch(provider.Name(), true)
		result.Videos = videos
		result.TotalResults = len(videos)
		result.Source = provider.Name()
		return result
	}

	result.Source = "none"
	result.Error = errMsgNoVideos
	return result
}
