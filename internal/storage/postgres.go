// Package storage содержит работу с базой данных.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
	"go.uber.org/zap"
	"streamstats/internal/model"
	"streamstats/internal/storage/repository"
)

const schemaName = "streamstats"

// Postgres представляет подключение к PostgreSQL
type Postgres struct {
	db     *bun.DB
	logger *zap.Logger
}

// ConnectOptions параметры подключения
type ConnectOptions struct {
	MaxRetries int
	RetryDelay time.Duration
}

// DefaultConnectOptions параметры подключения по умолчанию
var DefaultConnectOptions = ConnectOptions{
	MaxRetries: 3,
	RetryDelay: 2 * time.Second,
}

// NewPostgres создает новое подключение к PostgreSQL с retry логикой
func NewPostgres(ctx context.Context, databaseURL string, opts ConnectOptions, logger *zap.Logger) (*Postgres, error) {
	if opts.MaxRetries < 1 {
		opts.MaxRetries = 1
	}

	var lastErr error
	for attempt := 1; attempt <= opts.MaxRetries; attempt++ {
		logger.Info("Attempting to connect to database",
			zap.Int("attempt", attempt),
			zap.Int("max_retries", opts.MaxRetries))

		// search_path для каждого соединения пула
		sqldb := sql.OpenDB(pgdriver.NewConnector(
			pgdriver.WithDSN(databaseURL),
			pgdriver.WithConnParams(map[string]interface{}{
				"search_path": schemaName + ", public",
			}),
		))

		// Пул небольшой: запись в архив одна на запрос
		sqldb.SetMaxOpenConns(5)
		sqldb.SetMaxIdleConns(2)
		sqldb.SetConnMaxLifetime(5 * time.Minute)
		sqldb.SetConnMaxIdleTime(1 * time.Minute)

		db := bun.NewDB(sqldb, pgdialect.New())

		if logger.Core().Enabled(zap.DebugLevel) {
			db.AddQueryHook(bundebug.NewQueryHook(
				bundebug.WithVerbose(true),
				bundebug.FromEnv("BUNDEBUG"),
			))
		}

		pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		lastErr = db.PingContext(pingCtx)
		cancel()

		if lastErr == nil {
			logger.Info("Connected to PostgreSQL database with Bun ORM", zap.Int("attempt", attempt))
			return &Postgres{db: db, logger: logger}, nil
		}

		logger.Warn("Failed to connect to database",
			zap.Int("attempt", attempt),
			zap.Error(lastErr))

		if err := db.Close(); err != nil {
			logger.Warn("Failed to close database connection", zap.Error(err))
		}

		if attempt == opts.MaxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(opts.RetryDelay):
		}
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", opts.MaxRetries, lastErr)
}

// Migrate создает схему и таблицу архива, если их нет
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, "CREATE SCHEMA IF NOT EXISTS "+schemaName); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	if _, err := p.db.NewCreateTable().
		Model((*model.ScrapeRecord)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to create scrape_records table: %w", err)
	}

	if _, err := p.db.NewCreateIndex().
		Model((*model.ScrapeRecord)(nil)).
		Index("scrape_records_track_source_idx").
		IfNotExists().
		Column("track_id", "source", "scraped_at").
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to create scrape_records index: %w", err)
	}

	p.logger.Info("Database schema is up to date", zap.String("schema", schemaName))
	return nil
}

// Close закрывает соединение с базой данных
func (p *Postgres) Close() error {
	return p.db.Close()
}

// GetDB возвращает подключение к базе данных
func (p *Postgres) GetDB() *bun.DB {
	return p.db
}

// GetScrapeRecordRepository возвращает репозиторий архива
func (p *Postgres) GetScrapeRecordRepository() model.ScrapeRecordRepository {
	return repository.NewScrapeRecordRepository(p.db, p.logger)
}
