// Package videos ищет музыкальные видео трека через цепочку провайдеров.
package videos

import (
	"context"
	"strings"
)

// Query запрос поиска
type Query struct {
	Song   string
	Artist string
}

// String возвращает запрос в виде "Artist - Song"
func (q Query) String() string {
	return q.Artist + " - " + q.Song
}

// Terms строка для полнотекстового поиска
func (q Query) Terms() string {
	return strings.TrimSpace(q.Artist + " " + q.Song)
}

// Valid сообщает, заданы ли песня и исполнитель
func (q Query) Valid() bool {
	return strings.TrimSpace(q.Song) != "" && strings.TrimSpace(q.Artist) != ""
}

// Video найденное видео
type Video struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	Channel   string `json:"channel"`
	Duration  string `json:"duration"`
	Views     string `json:"views"`
	Thumbnail string `json:"thumbnail"`
	VideoID   string `json:"video_id"`
}

// Result результат поиска
type Result struct {
	Query        string  `json:"query"`
	TotalResults int     `json:"total_results"`
	Videos       []Video `json:"videos"`
	Source       string  `json:"source"`
	Timestamp    string  `json:"timestamp"`
	Error        string  `json:"error,omitempty"`
}

// Provider один способ поиска видео
type Provider interface {
	Name() string
	Search(ctx context.Context, q Query, maxResults int) ([]Video, error)
}
