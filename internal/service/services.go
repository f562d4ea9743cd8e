package service

import (
	"go.uber.org/zap"
	"streamstats/internal/storage"
)

// Services содержит сервисы, которым нужна база данных
type Services struct {
	Archive *ArchiveService
}

// NewServices создает все сервисы
func NewServices(db *storage.Postgres, logger *zap.Logger) *Services {
	return &Services{
		Archive: NewArchiveService(db.GetScrapeRecordRepository(), logger),
	}
}
