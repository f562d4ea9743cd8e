package streamcount

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"streamstats/internal/domain/track"
)

const (
	relatedItemSelector   = "ul.divide-y.divide-gray-100 li"
	relatedTitleSelector  = "p.text-md.font-semibold a"
	relatedArtistSelector = "p.text-sm.text-gray-500"
)

// ExtractRelated извлекает список других треков исполнителя. Пустые элементы пропускаются.
func ExtractRelated(doc *goquery.Document) []track.RelatedTrack {
	var related []track.RelatedTrack

	doc.Find(relatedItemSelector).Each(func(_ int, item *goquery.Selection) {
		var rt track.RelatedTrack

		if img := item.Find("img").First(); img.Length() > 0 {
			rt.ArtworkURL = img.AttrOr("src", "")
			rt.AlbumName = img.AttrOr("alt", "")
		}

		if link := item.Find(relatedTitleSelector).First(); link.Length() > 0 {
			rt.Title = strings.TrimSpace(link.Text())
			rt.URL = link.AttrOr("href", "")
			rt.TrackID = track.IDFromHref(rt.URL)
		}

		if artist := item.Find(relatedArtistSelector).First(); artist.Length() > 0 {
			rt.Artist = strings.TrimSpace(artist.Text())
		}

		if !rt.IsEmpty() {
			related = append(related, rt)
		}
	})

	return related
}
