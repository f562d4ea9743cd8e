// Package track содержит доменные типы статистики прослушиваний трека.
package track

import (
	"encoding/json"
	"time"
)

// Статусы ответа chart API
const (
	ChartStatusReady      = "ready"
	ChartStatusProcessing = "processing"
	ChartStatusError      = "error"
)

// Record представляет полный результат скрейпинга одной страницы трека
type Record struct {
	TrackID       string         `json:"track_id"`
	URL           string         `json:"url"`
	ScrapedAt     string         `json:"scraped_at"`
	TrackInfo     *Info          `json:"track_info,omitempty"`
	StreamingData *StreamingMeta `json:"streaming_data,omitempty"`
	ChartData     *ChartResult   `json:"chart_data,omitempty"`
	RelatedTracks []RelatedTrack `json:"related_tracks,omitempty"`
	BatchIndex    *int           `json:"batch_index,omitempty"`
	Success       bool           `json:"success"`
	Error         string         `json:"error,omitempty"`
}

// Info метаданные трека со страницы
type Info struct {
	Title        string `json:"title,omitempty"`
	Artist       string `json:"artist,omitempty"`
	ArtistURL    string `json:"artist_url,omitempty"`
	ArtworkURL   string `json:"artwork_url,omitempty"`
	AlbumName    string `json:"album_name,omitempty"`
	SpotifyURL   string `json:"spotify_url,omitempty"`
	TotalStreams *int64 `json:"total_streams,omitempty"`
	StreamsText  string `json:"streams_text,omitempty"`
	ReleaseDate  string `json:"release_date,omitempty"`
}

// StreamingMeta данные, извлеченные из inline-скриптов страницы
type StreamingMeta struct {
	APIURL          string   `json:"api_url,omitempty"`
	CSRFToken       string   `json:"csrf_token,omitempty"`
	SampleTotalData []string `json:"sample_total_data,omitempty"`
	SampleDailyData []string `json:"sample_daily_data,omitempty"`
}

// ChartResult результат опроса асинхронного chart API
type ChartResult struct {
	TrackID     string          `json:"track_id,omitempty"`
	Status      string          `json:"status"`
	ChartData   json.RawMessage `json:"chart_data,omitempty"`
	Error       string          `json:"error,omitempty"`
	StatusCode  int             `json:"status_code,omitempty"`
	Attempts    int             `json:"attempts"`
	RetrievedAt string          `json:"retrieved_at,omitempty"`
}

// Ready сообщает, получены ли данные графика
func (c ChartResult) Ready() bool {
	return c.Status == ChartStatusReady
}

// CountryStreams количество прослушиваний в одной стране
type CountryStreams struct {
	Country    string `json:"country"`
	Streams    int64  `json:"streams"`
	RawCountry string `json:"raw_country"`
	RawStreams string `json:"raw_streams"`
}

// RelatedTrack ссылка на похожий трек
type RelatedTrack struct {
	Title      string `json:"title,omitempty"`
	URL        string `json:"url,omitempty"`
	TrackID    string `json:"track_id,omitempty"`
	ArtworkURL string `json:"artwork_url,omitempty"`
	AlbumName  string `json:"album_name,omitempty"`
	Artist     string `json:"artist,omitempty"`
}

// IsEmpty возвращает true, если ни одно поле не заполнено
func (r RelatedTrack) IsEmpty() bool {
	return r == RelatedTrack{}
}

// Timestamp форматирует время в ISO-8601 для полей scraped_at и retrieved_at
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
