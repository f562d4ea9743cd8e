package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"streamstats/internal/config"
	"streamstats/internal/features/kworb"
	"streamstats/internal/features/streamcount"
	"streamstats/internal/handler"
	"streamstats/internal/infrastructure/health"
	"streamstats/internal/infrastructure/metrics"
	"streamstats/internal/service"
	"streamstats/internal/storage"
)

// App собранные компоненты сервиса
type App struct {
	Handler     *handler.Handler
	StreamCount *streamcount.Scraper
	Kworb       *kworb.Scraper
	Archive     *service.ArchiveService
	Health      *health.Checker
	Metrics     *metrics.Metrics

	config *config.Config
	logger *zap.Logger
	db     *storage.Postgres
}

// New создает приложение через фабрику
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	return NewComponentFactory(cfg, logger).CreateApp(ctx)
}

// Router возвращает маршруты локального HTTP сервера
func (a *App) Router() http.Handler {
	opts := handler.RouterOptions{Health: a.Health}
	if a.config.MetricsEnabled {
		opts.Metrics = a.Metrics.Handler()
		opts.Stats = a.Metrics.GetStats
	}
	return handler.NewRouter(a.Handler, opts, a.logger)
}

// Serve запускает HTTP сервер и останавливает его при отмене ctx
func (a *App) Serve(ctx context.Context) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.config.ServerPort),
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server", zap.Int("port", a.config.ServerPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		a.logger.Info("Stopping HTTP server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown http server: %w", err)
	}
	return <-errCh
}

// Close освобождает ресурсы
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	if err := a.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	a.logger.Info("Database connection closed")
	return nil
}
