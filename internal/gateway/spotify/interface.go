// Package spotify реализует клиент для работы с Spotify Web API.
package spotify

import "context"

// Interface определяет интерфейс для работы с Spotify API
type Interface interface {
	// GetTrack возвращает название и исполнителей трека
	GetTrack(ctx context.Context, trackID string) (*Track, error)
}
