// Package repository содержит репозитории для работы с базой данных.
package repository

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
	"go.uber.org/zap"
	"streamstats/internal/model"
)

// ScrapeRecordRepository реализует интерфейс для работы с архивом результатов
type ScrapeRecordRepository struct {
	db     *bun.DB
	logger *zap.Logger
}

var _ model.ScrapeRecordRepository = (*ScrapeRecordRepository)(nil)

// NewScrapeRecordRepository создает новый репозиторий архива
func NewScrapeRecordRepository(db *bun.DB, logger *zap.Logger) *ScrapeRecordRepository {
	return &ScrapeRecordRepository{
		db:     db,
		logger: logger,
	}
}

// Create сохраняет запись
func (r *ScrapeRecordRepository) Create(ctx context.Context, record *model.ScrapeRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("invalid scrape record: %w", err)
	}

	if _, err := r.db.NewInsert().Model(record).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert scrape record: %w", err)
	}

	r.logger.Debug("Scrape record archived",
		zap.String("id", record.ID.String()),
		zap.String("track_id", record.TrackID),
		zap.String("source", record.Source))
	return nil
}

// ListByTrack возвращает записи трека, новые первыми
func (r *ScrapeRecordRepository) ListByTrack(ctx context.Context, trackID string, limit int) ([]model.ScrapeRecord, error) {
	var records []model.ScrapeRecord

	if err := r.listByTrackQuery(&records, trackID, limit).Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to query scrape records: %w", err)
	}

	return records, nil
}

func (r *ScrapeRecordRepository) listByTrackQuery(dest *[]model.ScrapeRecord, trackID string, limit int) *bun.SelectQuery {
	q := r.db.NewSelect().
		Model(dest).
		Where("track_id = ?", trackID).
		Order("scraped_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	return q
}
