package streamcount

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"streamstats/internal/domain/track"
	"streamstats/internal/gateway/scraper"
)

// Source имя источника в метриках и архиве
const Source = "mystreamcount"

// Browser сессия, в рамках которой загружается страница и вызывается chart API
type Browser interface {
	scraper.DocumentFetcher
	scraper.FormPoster
}

// SessionFunc создает новую независимую сессию на каждый вызов
type SessionFunc func() (Browser, error)

// Recorder метрики скрейпера
type Recorder interface {
	ChartRecorder
	RecordScrape(source string, success bool, duration time.Duration)
}

// Config параметры скрейпера
type Config struct {
	BaseURL     string
	MaxAttempts int
	Chart       RetrieverConfig
}

// Scraper собирает track.Record из страницы трека и chart API
type Scraper struct {
	config     Config
	newSession SessionFunc
	retriever  *Retriever
	pacer      *scraper.Pacer
	metrics    Recorder
	logger     *zap.Logger
	now        func() time.Time
}

// NewScraper создает скрейпер
func NewScraper(config Config, newSession SessionFunc, pacer *scraper.Pacer, metrics Recorder, logger *zap.Logger) *Scraper {
	if config.Chart.BaseURL == "" {
		config.Chart.BaseURL = config.BaseURL
	}
	return &Scraper{
		config:     config,
		newSession: newSession,
		retriever:  NewRetriever(config.Chart, metrics, logger),
		pacer:      pacer,
		metrics:    metrics,
		logger:     logger,
		now:        time.Now,
	}
}

// TrackURL возвращает адрес страницы трека
func (s *Scraper) TrackURL(trackID string) string {
	return fmt.Sprintf("%s/track/%s", s.config.BaseURL, url.PathEscape(trackID))
}

// ScrapeTrack загружает страницу и собирает запись. Неудачей считается только
// ошибка загрузки самой страницы: остальные части заполняются по возможности.
func (s *Scraper) ScrapeTrack(ctx context.Context, trackID string) track.Record {
	start := time.Now()
	rec := track.Record{
		TrackID: trackID,
		URL:     s.TrackURL(trackID),
	}

	s.logger.Info("Scraping track", zap.String("track_id", trackID), zap.String("url", rec.URL))

	session, doc, err := s.openPage(ctx, rec.URL)
	if err != nil {
		s.logger.Error("Failed to fetch track page",
			zap.String("track_id", trackID),
			zap.Error(err))
		s.metrics.RecordScrape(Source, false, time.Since(start))
		rec.ScrapedAt = track.Timestamp(s.now())
		rec.Error = err.Error()
		return rec
	}

	rec.TrackInfo = ExtractInfo(doc)
	rec.StreamingData = ExtractStreaming(doc)
	chart := s.retriever.Retrieve(ctx, session, trackID, rec.StreamingData.CSRFToken, s.config.MaxAttempts)
	rec.ChartData = &chart
	rec.RelatedTracks = ExtractRelated(doc)
	rec.ScrapedAt = track.Timestamp(s.now())
	rec.Success = true

	s.metrics.RecordScrape(Source, true, time.Since(start))
	s.logger.Info("Track scraped",
		zap.String("track_id", trackID),
		zap.String("title", rec.TrackInfo.Title),
		zap.String("chart_status", chart.Status),
		zap.Int("related_tracks", len(rec.RelatedTracks)))

	return rec
}

// ScrapeURL извлекает идентификатор из URL и скрейпит трек.
// Для URL без идентификатора возвращает track.ErrNoTrackID без запросов.
func (s *Scraper) ScrapeURL(ctx context.Context, rawURL string) (track.Record, error) {
	trackID, err := track.ExtractID(rawURL)
	if err != nil {
		return track.Record{}, err
	}
	return s.ScrapeTrack(ctx, trackID), nil
}

// ChartOnly загружает страницу ради токена и опрашивает только chart API
func (s *Scraper) ChartOnly(ctx context.Context, trackID string, maxAttempts int) track.ChartResult {
	if maxAttempts < 1 {
		maxAttempts = s.config.MaxAttempts
	}

	session, doc, err := s.openPage(ctx, s.TrackURL(trackID))
	if err != nil {
		s.logger.Error("Failed to fetch track page for chart data",
			zap.String("track_id", trackID),
			zap.Error(err))
		return track.ChartResult{
			TrackID: trackID,
			Status:  track.ChartStatusError,
			Error:   err.Error(),
		}
	}

	result := s.retriever.Retrieve(ctx, session, trackID, ExtractToken(doc), maxAttempts)
	if result.Ready() {
		result.RetrievedAt = track.Timestamp(s.now())
	}
	return result
}

// ScrapeMany последовательно скрейпит треки с паузой между ними
func (s *Scraper) ScrapeMany(ctx context.Context, trackIDs []string) []track.Record {
	records := make([]track.Record, 0, len(trackIDs))

	for i, trackID := range trackIDs {
		index := i
		var rec track.Record
		if err := s.pacer.Wait(ctx); err != nil {
			rec = track.Record{
				TrackID:   trackID,
				URL:       s.TrackURL(trackID),
				ScrapedAt: track.Timestamp(s.now()),
				Error:     err.Error(),
			}
		} else {
			rec = s.ScrapeTrack(ctx, trackID)
		}
		rec.BatchIndex = &index
		records = append(records, rec)
	}

	return records
}

func (s *Scraper) openPage(ctx context.Context, pageURL string) (Browser, *goquery.Document, error) {
	session, err := s.newSession()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open session: %w", err)
	}
	doc, err := session.FetchDocument(ctx, pageURL)
	if err != nil {
		return nil, nil, err
	}
	return session, doc, nil
}
