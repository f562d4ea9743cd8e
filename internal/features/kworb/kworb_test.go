package kworb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"streamstats/internal/domain/track"
	"streamstats/internal/gateway/scraper"
)

func parseHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestAggregate_BasicTable(t *testing.T) {
	doc := parseHTML(t, `<table>
		<tr><th>Date</th><th>US</th><th>GB</th><th>XYZ</th></tr>
		<tr><td>Total</td><td>1,000</td><td>2,500</td><td>abc</td></tr>
	</table>`)

	entries := Aggregate(doc)

	assert.Equal(t, []track.CountryStreams{
		{Country: "US", Streams: 1000, RawCountry: "US", RawStreams: "1,000"},
		{Country: "GB", Streams: 2500, RawCountry: "GB", RawStreams: "2,500"},
	}, entries)

	top, ok := Top(entries)
	require.True(t, ok)
	assert.Equal(t, "GB", top.Country)
	assert.Equal(t, int64(2500), top.Streams)
}

func TestAggregate_Fixture(t *testing.T) {
	f, err := os.Open("testdata/track.html")
	require.NoError(t, err)
	defer f.Close()
	doc, err := goquery.NewDocumentFromReader(f)
	require.NoError(t, err)

	entries := Aggregate(doc)

	var codes []string
	for _, e := range entries {
		codes = append(codes, e.Country)
	}
	assert.Equal(t, []string{"US", "GB", "SE"}, codes)
	assert.Equal(t, "2,500 (peak)", entries[1].RawStreams)
	assert.Equal(t, int64(2500), entries[1].Streams)

	top, ok := Top(entries)
	require.True(t, ok)
	assert.Equal(t, "GB", top.Country)
}

func TestAggregate_RejectedTables(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{"одна строка", `<table><tr><th>Date</th><th>US</th><th>GB</th></tr></table>`},
		{"мало колонок", `<table><tr><th>Date</th><th>US</th></tr><tr><td>Total</td><td>5</td></tr></table>`},
		{"нет кодов стран", `<table><tr><th>Date</th><th>Global</th><th>usa</th></tr><tr><td>Total</td><td>5</td><td>6</td></tr></table>`},
		{"нет строки Total", `<table><tr><th>Date</th><th>US</th><th>GB</th></tr><tr><td>2024</td><td>5</td><td>6</td></tr></table>`},
		{"короткая строка Total", `<table><tr><th>Date</th><th>US</th><th>GB</th></tr><tr><td>Total</td><td>5</td></tr></table>`},
		{"нет таблиц", `<p>nothing</p>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, Aggregate(parseHTML(t, tt.html)))
		})
	}
}

func TestAggregate_FallsThroughToLaterTable(t *testing.T) {
	doc := parseHTML(t, `
		<table><tr><th>Date</th><th>US</th><th>GB</th></tr><tr><td>2024</td><td>1</td><td>2</td></tr></table>
		<table><tr><th>Date</th><th>FR</th><th>DE</th></tr><tr><td>total</td><td>7</td><td>3</td></tr></table>`)

	entries := Aggregate(doc)
	require.Len(t, entries, 2)
	assert.Equal(t, "FR", entries[0].Country)
}

func TestAggregate_DuplicateCountryKeepsLastValue(t *testing.T) {
	doc := parseHTML(t, `<table>
		<tr><th>Date</th><th>US</th><th>GB</th><th>US</th></tr>
		<tr><td>Total</td><td>100</td><td>50</td><td>300</td></tr>
	</table>`)

	entries := Aggregate(doc)
	require.Len(t, entries, 2)
	assert.Equal(t, "US", entries[0].Country)
	assert.Equal(t, int64(300), entries[0].Streams)
	assert.Equal(t, "GB", entries[1].Country)
	assert.Equal(t, int64(50), entries[1].Streams)
}

func TestTop(t *testing.T) {
	_, ok := Top(nil)
	assert.False(t, ok)

	entries := []track.CountryStreams{
		{Country: "SE", Streams: 10},
		{Country: "BR", Streams: 10},
		{Country: "US", Streams: 3},
	}
	top, ok := Top(entries)
	require.True(t, ok)
	assert.Equal(t, "BR", top.Country)
	assert.Equal(t, "SE", entries[0].Country, "input order must not change")
}

type nopRecorder struct{ failures int }

func (r *nopRecorder) RecordScrape(_ string, success bool, _ time.Duration) {
	if !success {
		r.failures++
	}
}

func newTestScraper(baseURL string, rec Recorder) *Scraper {
	factory := scraper.NewFactory(http.DefaultTransport, scraper.SessionConfig{RequestTimeout: 5 * time.Second}, zap.NewNop())
	return NewScraper(baseURL, func() (scraper.DocumentFetcher, error) {
		return factory.NewSession()
	}, rec, zap.NewNop())
}

func TestScraper_TopCountry(t *testing.T) {
	page, err := os.ReadFile("testdata/track.html")
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/spotify/track/abc.html" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(page)
	}))
	defer srv.Close()

	rec := &nopRecorder{}
	s := newTestScraper(srv.URL, rec)

	result := s.TopCountry(context.Background(), "abc")
	require.True(t, result.Success, result.Error)
	assert.Equal(t, srv.URL+"/spotify/track/abc.html", result.URL)
	assert.Equal(t, "GB", *result.TopStreamsByCountry)
	assert.Equal(t, int64(2500), *result.TopStreamCount)
	assert.Len(t, result.AllCountries, 3)

	data, err := json.Marshal(result)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"topStreamsByCountry":"GB"`)
	assert.Contains(t, string(data), `"allCountries":[{"country":"US","streams":1000,"raw_country":"US","raw_streams":"1,000"}`)

	missing := s.TopCountry(context.Background(), "missing")
	assert.False(t, missing.Success)
	assert.Contains(t, missing.Error, "Request failed")
	assert.Nil(t, missing.TopStreamsByCountry)
	assert.Equal(t, 1, rec.failures)

	data, err = json.Marshal(missing)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"topStreamsByCountry":null`)
}

func TestScraper_TopCountry_NoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><p>Track not tracked yet</p></body></html>`))
	}))
	defer srv.Close()

	result := newTestScraper(srv.URL, &nopRecorder{}).TopCountry(context.Background(), "abc")
	assert.False(t, result.Success)
	assert.Equal(t, "No country data found", result.Error)
}
