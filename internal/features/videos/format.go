package videos

import (
	"fmt"

	"streamstats/internal/domain/track"
)

const unknown = "Unknown"

// FormatDuration форматирует длительность в m:ss
func FormatDuration(seconds int64) string {
	if seconds <= 0 {
		return unknown
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// FormatViews форматирует число просмотров ("1,234 views")
func FormatViews(views int64) string {
	if views <= 0 {
		return unknown
	}
	return track.FormatCount(views) + " views"
}

// WatchURL ссылка на просмотр
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

// ThumbnailURL ссылка на превью
func ThumbnailURL(videoID string) string {
	return "https://i.ytimg.com/vi/" + videoID + "/maxresdefault.jpg"
}
