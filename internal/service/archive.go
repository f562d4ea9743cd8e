// Package service содержит сервисы, работающие поверх скрейперов.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"streamstats/internal/model"
)

// ArchiveService сохраняет уже сериализованные результаты в архив
type ArchiveService struct {
	repo   model.ScrapeRecordRepository
	logger *zap.Logger
	now    func() time.Time
	newID  func() uuid.UUID
}

// NewArchiveService создает сервис архива
func NewArchiveService(repo model.ScrapeRecordRepository, logger *zap.Logger) *ArchiveService {
	return &ArchiveService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
		newID:  uuid.New,
	}
}

// Archive сериализует результат и записывает его в архив
func (s *ArchiveService) Archive(ctx context.Context, source, trackID string, success bool, result interface{}) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal %s result: %w", source, err)
	}

	record := &model.ScrapeRecord{
		ID:        s.newID(),
		TrackID:   trackID,
		Source:    source,
		Success:   success,
		Payload:   payload,
		ScrapedAt: s.now().UTC(),
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return fmt.Errorf("failed to archive %s result for %s: %w", source, trackID, err)
	}

	s.logger.Info("Result archived",
		zap.String("id", record.ID.String()),
		zap.String("track_id", trackID),
		zap.String("source", source),
		zap.Bool("success", success))
	return nil
}

// History возвращает архивные результаты трека, новые первыми
func (s *ArchiveService) History(ctx context.Context, trackID string, limit int) ([]model.ScrapeRecord, error) {
	records, err := s.repo.ListByTrack(ctx, trackID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load archive history for %s: %w", trackID, err)
	}
	return records, nil
}
