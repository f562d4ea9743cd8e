package videos

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"
)

type videoTemplate struct {
	title    func(q Query) string
	channel  func(q Query) string
	duration string
	views    string
}

var videoTemplates = []videoTemplate{
	{
		title:    func(q Query) string { return fmt.Sprintf("%s - %s (Official Music Video)", q.Artist, q.Song) },
		channel:  func(q Query) string { return q.Artist },
		duration: "3:53", views: "1.2B views",
	},
	{
		title:    func(q Query) string { return fmt.Sprintf("%s - %s (Official Audio)", q.Artist, q.Song) },
		channel:  func(q Query) string { return q.Artist + " - Topic" },
		duration: "3:47", views: "890M views",
	},
	{
		title:    func(q Query) string { return fmt.Sprintf("%s - %s (Live Performance)", q.Artist, q.Song) },
		channel:  func(q Query) string { return q.Artist + "VEVO" },
		duration: "4:12", views: "245M views",
	},
	{
		title:    func(q Query) string { return fmt.Sprintf("%s - %s (Lyrics)", q.Song, q.Artist) },
		channel:  func(Query) string { return "LyricsVault" },
		duration: "3:49", views: "67M views",
	},
	{
		title:    func(q Query) string { return fmt.Sprintf("%s Cover by Various Artists", q.Song) },
		channel:  func(Query) string { return "Music Covers" },
		duration: "3:35", views: "23M views",
	},
	{
		title:    func(q Query) string { return fmt.Sprintf("%s - %s (Behind the Scenes)", q.Artist, q.Song) },
		channel:  func(q Query) string { return q.Artist },
		duration: "5:22", views: "34M views",
	},
	{
		title:    func(q Query) string { return fmt.Sprintf("%s - %s (Acoustic Version)", q.Song, q.Artist) },
		channel:  func(q Query) string { return q.Artist },
		duration: "3:28", views: "156M views",
	},
	{
		title:    func(q Query) string { return fmt.Sprintf("%s performs %s Live", q.Artist, q.Song) },
		channel:  func(Query) string { return "Late Night TV" },
		duration: "4:05", views: "12M views",
	},
}

// GeneratedProvider строит результаты по шаблонам, когда внешние источники недоступны.
// Идентификаторы детерминированы: одинаковый запрос дает одинаковые видео.
type GeneratedProvider struct{}

// Name имя провайдера
func (GeneratedProvider) Name() string { return "generated" }

// Search возвращает до len(videoTemplates) видео
func (GeneratedProvider) Search(_ context.Context, q Query, maxResults int) ([]Video, error) {
	var videos []Video
	for i, tmpl := range videoTemplates {
		if i >= maxResults {
			break
		}
		id := generatedVideoID(q, i)
		videos = append(videos, Video{
			Title:     tmpl.title(q),
			URL:       WatchURL(id),
			Channel:   tmpl.channel(q),
			Duration:  tmpl.duration,
			Views:     tmpl.views,
			Thumbnail: ThumbnailURL(id),
			VideoID:   id,
		})
	}
	return videos, nil
}

// generatedVideoID 11 символов из алфавита идентификаторов YouTube
func generatedVideoID(q Query, index int) string {
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte(fmt.Sprintf("%s|%s|%d", q.Artist, q.Song, index)))
	return base64.RawURLEncoding.EncodeToString(id[:])[:11]
}
