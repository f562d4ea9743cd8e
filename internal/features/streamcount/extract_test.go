package streamcount

import (
	"os"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T, name string) *goquery.Document {
	t.Helper()
	f, err := os.Open("testdata/" + name)
	require.NoError(t, err)
	defer f.Close()
	doc, err := goquery.NewDocumentFromReader(f)
	require.NoError(t, err)
	return doc
}

func parseHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestExtractInfo_FullPage(t *testing.T) {
	info := ExtractInfo(loadFixture(t, "track_page.html"))

	assert.Equal(t, "Blinding Lights", info.Title)
	assert.Equal(t, "The Weeknd", info.Artist)
	assert.Equal(t, "/artist/1Xyo4u8uXC1ZmMpatF05PJ", info.ArtistURL)
	assert.Equal(t, "https://i.scdn.co/image/ab67616d0000b273", info.ArtworkURL)
	assert.Equal(t, "After Hours", info.AlbumName)
	assert.Equal(t, "https://open.spotify.com/track/0VjIjW4GlUZAMYd2vXMi3b", info.SpotifyURL)
	require.NotNil(t, info.TotalStreams)
	assert.Equal(t, int64(4512345678), *info.TotalStreams)
	assert.True(t, strings.HasPrefix(info.StreamsText, "Blinding Lights by The Weeknd"))
	assert.Equal(t, "November 29, 2019", info.ReleaseDate)
}

func TestExtractInfo_NoReleaseClause(t *testing.T) {
	info := ExtractInfo(loadFixture(t, "minimal_page.html"))

	assert.Equal(t, "Untitled Demo", info.Title)
	require.NotNil(t, info.TotalStreams)
	assert.Equal(t, int64(1234), *info.TotalStreams)
	assert.Empty(t, info.ReleaseDate)
	assert.Empty(t, info.Artist)
	assert.Empty(t, info.SpotifyURL)
}

func TestExtractInfo_FieldsAreIndependent(t *testing.T) {
	tests := []struct {
		name  string
		html  string
		check func(t *testing.T, html string)
	}{
		{
			name: "нет описания",
			html: `<h1 class="text-xl font-bold text-gray-900">Only Title</h1>`,
			check: func(t *testing.T, html string) {
				info := ExtractInfo(parseHTML(t, html))
				assert.Equal(t, "Only Title", info.Title)
				assert.Nil(t, info.TotalStreams)
				assert.Empty(t, info.StreamsText)
			},
		},
		{
			name: "описание без числа",
			html: `<p class="text-md text-gray-900 my-4 px-4">Streamed many times on Spotify since its release on May 1, 2020.</p>`,
			check: func(t *testing.T, html string) {
				info := ExtractInfo(parseHTML(t, html))
				assert.Nil(t, info.TotalStreams)
				assert.Empty(t, info.StreamsText)
				assert.Equal(t, "May 1, 2020", info.ReleaseDate)
			},
		},
		{
			name: "пустая страница",
			html: `<html><body></body></html>`,
			check: func(t *testing.T, html string) {
				info := ExtractInfo(parseHTML(t, html))
				assert.Equal(t, "", info.Title)
				assert.Nil(t, info.TotalStreams)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, tt.html)
		})
	}
}

func TestExtractStreaming(t *testing.T) {
	meta := ExtractStreaming(loadFixture(t, "track_page.html"))

	assert.Equal(t, "https://www.mystreamcount.com/api/track/0VjIjW4GlUZAMYd2vXMi3b/streams", meta.APIURL)
	assert.Equal(t, "tok-first-123", meta.CSRFToken)
	assert.Equal(t, []string{"100", "250"}, meta.SampleTotalData)
	assert.Equal(t, []string{"150"}, meta.SampleDailyData)
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{"двойные кавычки", `<script>var d = {_token: "abc"};</script>`, "abc"},
		{"одинарные кавычки", `<script>var d = {_token:'xyz'};</script>`, "xyz"},
		{"первый блок выигрывает", `<script>x = {_token: "one"}</script><script>y = {_token: "two"}</script>`, "one"},
		{"нет токена", `<script>console.log("hi")</script>`, ""},
		{"внешний скрипт игнорируется", `<script src="/app.js">{_token: "ext"}</script>`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractToken(parseHTML(t, tt.html)))
		})
	}
}

func TestExtractStreaming_NoScripts(t *testing.T) {
	meta := ExtractStreaming(parseHTML(t, `<p>nothing</p>`))
	assert.Empty(t, meta.APIURL)
	assert.Empty(t, meta.CSRFToken)
	assert.Nil(t, meta.SampleTotalData)
}

func TestExtractRelated(t *testing.T) {
	related := ExtractRelated(loadFixture(t, "track_page.html"))
	require.Len(t, related, 2)

	assert.Equal(t, "Starboy", related[0].Title)
	assert.Equal(t, "/track/7MXVkk9YMctZqd1Srtv4MB", related[0].URL)
	assert.Equal(t, "7MXVkk9YMctZqd1Srtv4MB", related[0].TrackID)
	assert.Equal(t, "https://i.scdn.co/image/starboy", related[0].ArtworkURL)
	assert.Equal(t, "Starboy", related[0].AlbumName)
	assert.Equal(t, "The Weeknd, Daft Punk", related[0].Artist)

	assert.Equal(t, "5QO79kh1waicV47BqGRL3g", related[1].TrackID)
	assert.Empty(t, related[1].ArtworkURL)
}
