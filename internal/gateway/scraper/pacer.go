package scraper

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer выдерживает паузу между независимыми запросами к одному источнику
type Pacer struct {
	limiter *rate.Limiter
}

// NewPacer создает пейсер. Нулевая задержка отключает ожидание.
func NewPacer(delay time.Duration) *Pacer {
	if delay <= 0 {
		return &Pacer{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Pacer{limiter: rate.NewLimiter(rate.Every(delay), 1)}
}

// Wait блокируется до следующего разрешенного запроса
func (p *Pacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}
