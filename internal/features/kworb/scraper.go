package kworb

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"
	"streamstats/internal/domain/track"
	"streamstats/internal/gateway/scraper"
)

// Source имя источника в метриках и архиве
const Source = "kworb"

const errMsgNoCountryData = "No country data found"

// SessionFunc создает новую сессию на каждый вызов
type SessionFunc func() (scraper.DocumentFetcher, error)

// Recorder метрики скрейпера
type Recorder interface {
	RecordScrape(source string, success bool, duration time.Duration)
}

// Result ответ операции TopCountry
type Result struct {
	Success             bool                   `json:"success"`
	TrackID             string                 `json:"track_id"`
	URL                 string                 `json:"url"`
	TopStreamsByCountry *string                `json:"topStreamsByCountry"`
	TopStreamCount      *int64                 `json:"topStreamCount,omitempty"`
	AllCountries        []track.CountryStreams `json:"allCountries,omitempty"`
	Error               string                 `json:"error,omitempty"`
}

// Scraper загружает страницу трека kworb.net
type Scraper struct {
	baseURL    string
	newSession SessionFunc
	metrics    Recorder
	logger     *zap.Logger
}

// NewScraper создает скрейпер kworb.net
func NewScraper(baseURL string, newSession SessionFunc, metrics Recorder, logger *zap.Logger) *Scraper {
	return &Scraper{
		baseURL:    baseURL,
		newSession: newSession,
		metrics:    metrics,
		logger:     logger,
	}
}

// TrackURL возвращает адрес страницы трека
func (s *Scraper) TrackURL(trackID string) string {
	return fmt.Sprintf("%s/spotify/track/%s.html", s.baseURL, url.PathEscape(trackID))
}

// TopCountry возвращает страну с максимумом прослушиваний и полный список стран
func (s *Scraper) TopCountry(ctx context.Context, trackID string) Result {
	start := time.Now()
	result := Result{
		TrackID: trackID,
		URL:     s.TrackURL(trackID),
	}

	session, err := s.newSession()
	if err != nil {
		return s.fail(result, start, fmt.Sprintf("Scraping failed: %v", err))
	}

	doc, err := session.FetchDocument(ctx, result.URL)
	if err != nil {
		s.logger.Error("Failed to fetch kworb page", zap.String("track_id", trackID), zap.Error(err))
		return s.fail(result, start, fmt.Sprintf("Request failed: %v", err))
	}

	entries := Aggregate(doc)
	top, ok := Top(entries)
	if !ok {
		return s.fail(result, start, errMsgNoCountryData)
	}

	result.Success = true
	result.TopStreamsByCountry = &top.Country
	result.TopStreamCount = &top.Streams
	result.AllCountries = entries

	s.metrics.RecordScrape(Source, true, time.Since(start))
	s.logger.Info("Top streaming country found",
		zap.String("track_id", trackID),
		zap.String("country", top.Country),
		zap.Int64("streams", top.Streams),
		zap.Int("countries", len(entries)))

	return result
}

func (s *Scraper) fail(result Result, start time.Time, message string) Result {
	s.metrics.RecordScrape(Source, false, time.Since(start))
	result.Error = message
	return result
}
