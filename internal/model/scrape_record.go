// Package model содержит модели данных.
//
// Группа: ENTITIES - Основные сущности
// Содержит: ScrapeRecord, ScrapeRecordRepository
package model

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Источники архивных записей
const (
	SourceMyStreamCount = "mystreamcount"
	SourceChart         = "chart"
	SourceKworb         = "kworb"
	SourceVideos        = "videos"
)

// ScrapeRecord сериализованный результат одного скрейпинга
type ScrapeRecord struct {
	bun.BaseModel `bun:"table:streamstats.scrape_records"`

	ID        uuid.UUID       `bun:"id,pk,type:uuid" json:"id"`
	TrackID   string          `bun:"track_id,notnull" json:"track_id"`
	Source    string          `bun:"source,notnull" json:"source"`
	Success   bool            `bun:"success,notnull" json:"success"`
	Payload   json.RawMessage `bun:"payload,type:jsonb,notnull" json:"payload"`
	ScrapedAt time.Time       `bun:"scraped_at,notnull" json:"scraped_at"`
	CreatedAt time.Time       `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

// Validate проверяет валидность записи
func (r *ScrapeRecord) Validate() error {
	if r.TrackID == "" {
		return fmt.Errorf("track_id is required")
	}
	switch r.Source {
	case SourceMyStreamCount, SourceChart, SourceKworb, SourceVideos:
	default:
		return fmt.Errorf("unknown source: %q", r.Source)
	}
	if !json.Valid(r.Payload) {
		return fmt.Errorf("payload must be valid JSON")
	}
	return nil
}

// ScrapeRecordRepository определяет интерфейс для работы с архивом
type ScrapeRecordRepository interface {
	Create(ctx context.Context, record *ScrapeRecord) error
	ListByTrack(ctx context.Context, trackID string, limit int) ([]ScrapeRecord, error)
}
