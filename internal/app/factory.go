// Package app содержит фабрику компонентов приложения.
package app

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"streamstats/internal/config"
	"streamstats/internal/features/kworb"
	"streamstats/internal/features/streamcount"
	"streamstats/internal/features/videos"
	"streamstats/internal/gateway/invidious"
	"streamstats/internal/gateway/scraper"
	"streamstats/internal/gateway/spotify"
	"streamstats/internal/handler"
	"streamstats/internal/infrastructure/health"
	"streamstats/internal/infrastructure/metrics"
	"streamstats/internal/service"
	"streamstats/internal/storage"
)

// ComponentFactory создает компоненты приложения
type ComponentFactory struct {
	config    *config.Config
	logger    *zap.Logger
	transport *http.Transport
	metrics   *metrics.Metrics
}

// NewComponentFactory создает новую фабрику компонентов
func NewComponentFactory(config *config.Config, logger *zap.Logger) *ComponentFactory {
	if logger == nil {
		panic("Logger cannot be nil")
	}
	if config == nil {
		logger.Fatal("Config cannot be nil")
	}

	return &ComponentFactory{
		config: config,
		logger: logger,
	}
}

// Transport возвращает общий HTTP транспорт процесса
func (f *ComponentFactory) Transport() *http.Transport {
	if f.transport == nil {
		f.transport = scraper.NewTransport(scraper.HTTPClientConfig{
			MaxIdleConns:          f.config.HTTPClientConfig.MaxIdleConns,
			MaxIdleConnsPerHost:   f.config.HTTPClientConfig.MaxIdleConnsPerHost,
			IdleConnTimeout:       f.config.HTTPClientConfig.IdleConnTimeout,
			TLSHandshakeTimeout:   f.config.HTTPClientConfig.TLSHandshakeTimeout,
			ResponseHeaderTimeout: f.config.HTTPClientConfig.ResponseHeaderTimeout,
			DisableKeepAlives:     f.config.HTTPClientConfig.DisableKeepAlives,
		}, f.logger)
	}
	return f.transport
}

// Metrics возвращает метрики процесса
func (f *ComponentFactory) Metrics() *metrics.Metrics {
	if f.metrics == nil {
		f.metrics = metrics.NewMetrics(f.logger)
	}
	return f.metrics
}

// CreateSessionFactory создает фабрику браузерных сессий
func (f *ComponentFactory) CreateSessionFactory() *scraper.Factory {
	pageRetry := f.config.ScraperConfig.PageRetry
	return scraper.NewFactory(f.Transport(), scraper.SessionConfig{
		Profile:        scraper.DefaultBrowserProfile(f.config.ScraperConfig.UserAgent),
		RequestTimeout: f.config.ScraperConfig.RequestTimeout,
		Retry: scraper.RetryConfig{
			MaxRetries:        pageRetry.MaxRetries,
			InitialDelay:      pageRetry.InitialDelay,
			MaxDelay:          pageRetry.MaxDelay,
			BackoffMultiplier: pageRetry.BackoffMultiplier,
		},
	}, f.logger)
}

// CreateStreamCountScraper создает скрейпер mystreamcount.com
func (f *ComponentFactory) CreateStreamCountScraper(sessions *scraper.Factory) *streamcount.Scraper {
	s := streamcount.NewScraper(streamcount.Config{
		BaseURL:     f.config.MyStreamCountBaseURL,
		MaxAttempts: f.config.ChartConfig.MaxAttempts,
		Chart: streamcount.RetrieverConfig{
			ProcessingBackoff:   f.config.ChartConfig.ProcessingBackoff,
			TransportRetryDelay: f.config.ChartConfig.TransportRetryDelay,
		},
	}, func() (streamcount.Browser, error) {
		return sessions.NewSession()
	}, scraper.NewPacer(f.config.ScraperConfig.RequestDelay), f.Metrics(), f.logger)

	f.logger.Info("Stream count scraper created", zap.String("base_url", f.config.MyStreamCountBaseURL))
	return s
}

// CreateKworbScraper создает скрейпер kworb.net
func (f *ComponentFactory) CreateKworbScraper(sessions *scraper.Factory) *kworb.Scraper {
	s := kworb.NewScraper(f.config.KworbBaseURL, func() (scraper.DocumentFetcher, error) {
		return sessions.NewSession()
	}, f.Metrics(), f.logger)

	f.logger.Info("Kworb scraper created", zap.String("base_url", f.config.KworbBaseURL))
	return s
}

// CreateSpotifyClient создает Spotify клиент, если заданы учетные данные
func (f *ComponentFactory) CreateSpotifyClient(ctx context.Context) (*spotify.Client, error) {
	if !f.config.SpotifyEnabled() {
		f.logger.Info("Spotify credentials not provided, track lookup is disabled")
		return nil, nil
	}

	client, err := spotify.NewClient(ctx, f.config.SpotifyClientID, f.config.SpotifyClientSecret, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create spotify client: %w", err)
	}
	return client, nil
}

// CreateVideoSearcher создает цепочку провайдеров поиска видео
func (f *ComponentFactory) CreateVideoSearcher() *videos.Searcher {
	videoConfig := f.config.VideoConfig
	var providers []videos.Provider

	if len(videoConfig.InvidiousInstances) > 0 {
		client := invidious.NewClient(
			scraper.NewHTTPClient(f.Transport(), videoConfig.SearchTimeout),
			scraper.DefaultBrowserProfile(f.config.ScraperConfig.UserAgent).UserAgent,
			f.logger)
		providers = append(providers, videos.NewInvidiousProvider(client, videoConfig.InvidiousInstances, videoConfig.SearchTimeout, f.logger))
	}
	if videoConfig.FallbackEnabled {
		providers = append(providers, videos.GeneratedProvider{})
	}

	f.logger.Info("Video searcher created", zap.Int("providers", len(providers)))
	return videos.NewSearcher(providers, f.Metrics(), f.logger)
}

// CreateDatabase создает подключение к базе данных и применяет схему
func (f *ComponentFactory) CreateDatabase(ctx context.Context) (*storage.Postgres, error) {
	if f.config.DatabaseURL == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	db, err := storage.NewPostgres(ctx, f.config.DatabaseURL, storage.DefaultConnectOptions, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection: %w", err)
	}

	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	f.logger.Info("Database connection created successfully")
	return db, nil
}

// CreateServices создает сервисы поверх базы данных
func (f *ComponentFactory) CreateServices(db *storage.Postgres) (*service.Services, error) {
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	services := service.NewServices(db, f.logger)
	f.logger.Info("Services created successfully")
	return services, nil
}

// CreateHealthChecker создает проверку состояния компонентов
func (f *ComponentFactory) CreateHealthChecker(db *storage.Postgres) *health.Checker {
	checker := health.NewChecker(handler.ServiceVersion, f.logger)
	if db != nil {
		checker.Register("database", func(ctx context.Context) error {
			return db.GetDB().PingContext(ctx)
		})
	}
	return checker
}

// CreateApp создает приложение со всеми зависимостями.
// Архив подключается только при ARCHIVE_ENABLED.
func (f *ComponentFactory) CreateApp(ctx context.Context) (*App, error) {
	app := &App{
		config:  f.config,
		logger:  f.logger,
		Metrics: f.Metrics(),
	}

	sessions := f.CreateSessionFactory()
	app.StreamCount = f.CreateStreamCountScraper(sessions)
	app.Kworb = f.CreateKworbScraper(sessions)

	spotifyClient, err := f.CreateSpotifyClient(ctx)
	if err != nil {
		return nil, err
	}

	if f.config.ArchiveEnabled {
		db, err := f.CreateDatabase(ctx)
		if err != nil {
			return nil, err
		}
		services, err := f.CreateServices(db)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		app.db = db
		app.Archive = services.Archive
	}

	app.Health = f.CreateHealthChecker(app.db)

	deps := handler.Dependencies{
		StreamCount:      app.StreamCount,
		Kworb:            app.Kworb,
		Videos:           f.CreateVideoSearcher(),
		Health:           app.Health,
		Metrics:          app.Metrics,
		ChartMaxAttempts: f.config.ChartConfig.MaxAttempts,
		VideoMaxResults:  f.config.VideoConfig.MaxResults,
	}
	if spotifyClient != nil {
		deps.Spotify = spotifyClient
	}
	if app.Archive != nil {
		deps.Archive = app.Archive
		deps.History = app.Archive
	}
	app.Handler = handler.New(deps, f.logger)

	f.logger.Info("Application created successfully",
		zap.Bool("archive_enabled", app.Archive != nil),
		zap.Bool("spotify_enabled", spotifyClient != nil))
	return app, nil
}
