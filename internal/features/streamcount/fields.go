// Package streamcount извлекает статистику трека со страниц mystreamcount.com.
package streamcount

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"streamstats/internal/domain/track"
)

// Селекторы страницы трека
const (
	titleSelector       = "h1.text-xl.font-bold.text-gray-900"
	artistSelector      = "p.text-md.text-gray-500.font-medium.mt-1 a"
	artworkSelector     = "div.w-64.mx-auto img"
	spotifyLinkSelector = "div.w-64.mx-auto a"
	descriptionSelector = "p.text-md.text-gray-900.my-4.px-4"
)

var (
	streamsPattern = regexp.MustCompile(`(\d{1,3}(?:,\d{3})*)\s*times on Spotify`)
	releasePattern = regexp.MustCompile(`since its release on (.+?)\.`)
)

// ExtractInfo извлекает метаданные трека. Каждое правило независимо:
// не найденное поле просто отсутствует в результате.
func ExtractInfo(doc *goquery.Document) *track.Info {
	info := &track.Info{}

	if title := doc.Find(titleSelector).First(); title.Length() > 0 {
		info.Title = strings.TrimSpace(title.Text())
	}

	if artist := doc.Find(artistSelector).First(); artist.Length() > 0 {
		info.Artist = strings.TrimSpace(artist.Text())
		info.ArtistURL = artist.AttrOr("href", "")
	}

	if artwork := doc.Find(artworkSelector).First(); artwork.Length() > 0 {
		info.ArtworkURL = artwork.AttrOr("src", "")
		info.AlbumName = artwork.AttrOr("alt", "")
	}

	if link := doc.Find(spotifyLinkSelector).First(); link.Length() > 0 {
		info.SpotifyURL = link.AttrOr("href", "")
	}

	if desc := doc.Find(descriptionSelector).First(); desc.Length() > 0 {
		applyDescription(info, desc.Text())
	}

	return info
}

// applyDescription разбирает предложение вида
// "... has been played 1,234,567 times on Spotify since its release on March 3, 2023."
func applyDescription(info *track.Info, text string) {
	if m := streamsPattern.FindStringSubmatch(text); m != nil {
		if n, ok := track.ParseCount(m[1]); ok {
			info.TotalStreams = &n
			info.StreamsText = strings.TrimSpace(text)
		}
	}

	if m := releasePattern.FindStringSubmatch(text); m != nil {
		info.ReleaseDate = m[1]
	}
}
