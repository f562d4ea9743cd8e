package streamcount

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"streamstats/internal/domain/track"
)

const (
	pollingFunction = "loadStreams"
	graphFunction   = "createGraph"
)

var (
	apiURLPattern      = regexp.MustCompile(`url:\s*["']([^"']+)["']`)
	tokenPattern       = regexp.MustCompile(`_token:\s*["']([^"']+)["']`)
	totalSamplePattern = regexp.MustCompile(`total\.push\(\[new Date\([^)]+\)\.getTime\(\), ([^\]]+)\]\)`)
	dailySamplePattern = regexp.MustCompile(`daily\.push\(\[new Date\([^)]+\)\.getTime\(\), ([^\]]+)\]\)`)
)

// ExtractStreaming сканирует inline-скрипты как текст: URL опроса и токен
// берутся из первого подходящего блока, точки графика собираются по всем блокам.
// Отсутствие токена здесь не ошибка.
func ExtractStreaming(doc *goquery.Document) *track.StreamingMeta {
	meta := &track.StreamingMeta{}

	for _, script := range inlineScripts(doc) {
		if meta.APIURL == "" && strings.Contains(script, pollingFunction) {
			if m := apiURLPattern.FindStringSubmatch(script); m != nil {
				meta.APIURL = m[1]
			}
		}

		if meta.CSRFToken == "" {
			if m := tokenPattern.FindStringSubmatch(script); m != nil {
				meta.CSRFToken = m[1]
			}
		}

		if strings.Contains(script, graphFunction) {
			meta.SampleTotalData = append(meta.SampleTotalData, submatches(totalSamplePattern, script)...)
			meta.SampleDailyData = append(meta.SampleDailyData, submatches(dailySamplePattern, script)...)
		}
	}

	return meta
}

// ExtractToken возвращает первый найденный токен или пустую строку
func ExtractToken(doc *goquery.Document) string {
	for _, script := range inlineScripts(doc) {
		if m := tokenPattern.FindStringSubmatch(script); m != nil {
			return m[1]
		}
	}
	return ""
}

func inlineScripts(doc *goquery.Document) []string {
	var scripts []string
	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		if _, external := s.Attr("src"); external {
			return
		}
		if text := s.Text(); strings.TrimSpace(text) != "" {
			scripts = append(scripts, text)
		}
	})
	return scripts
}

func submatches(re *regexp.Regexp, text string) []string {
	var values []string
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		values = append(values, m[1])
	}
	return values
}
