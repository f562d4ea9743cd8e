package spotify

import "strings"

// Track метаданные трека из Spotify Web API
type Track struct {
	ID      string   // Spotify Track ID
	Title   string   // Название трека
	Artists []string // Исполнители в порядке Spotify
	Album   string
}

// Artist возвращает исполнителей через запятую
func (t *Track) Artist() string {
	return strings.Join(t.Artists, ", ")
}

// PrimaryArtist возвращает первого исполнителя
func (t *Track) PrimaryArtist() string {
	if len(t.Artists) == 0 {
		return ""
	}
	return t.Artists[0]
}
