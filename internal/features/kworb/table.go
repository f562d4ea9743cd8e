// Package kworb определяет страну с наибольшим числом прослушиваний по таблицам kworb.net.
package kworb

import (
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"streamstats/internal/domain/track"
)

const totalRowLabel = "total"

var (
	countryCodePattern = regexp.MustCompile(`^[A-Z]{2}$`)
	countPattern       = regexp.MustCompile(`[\d,]+`)
)

type countryColumn struct {
	index int
	code  string
}

// Aggregate ищет первую таблицу с колонками стран и строкой Total и возвращает
// прослушивания по странам в порядке колонок. Нечитаемые ячейки пропускаются.
// Повторный код страны перезаписывает значение, сохраняя позицию первого вхождения.
func Aggregate(doc *goquery.Document) []track.CountryStreams {
	var entries []track.CountryStreams

	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		rows := table.Find("tr")
		if rows.Length() < 2 {
			return true
		}

		headers := rows.First().Find("th, td")
		if headers.Length() < 3 {
			return true
		}

		columns := countryColumns(headers)
		if len(columns) == 0 {
			return true
		}

		consumed := false
		positions := make(map[string]int, len(columns))
		rows.EachWithBreak(func(_ int, row *goquery.Selection) bool {
			cells := row.Find("td, th")
			if cells.Length() < headers.Length() {
				return true
			}
			if !strings.EqualFold(strings.TrimSpace(cells.First().Text()), totalRowLabel) {
				return true
			}

			for _, col := range columns {
				raw := strings.TrimSpace(cells.Eq(col.index).Text())
				streams, ok := parseCell(raw)
				if !ok {
					continue
				}
				entry := track.CountryStreams{
					Country:    col.code,
					Streams:    streams,
					RawCountry: col.code,
					RawStreams: raw,
				}
				if pos, seen := positions[col.code]; seen {
					entries[pos] = entry
					continue
				}
				positions[col.code] = len(entries)
				entries = append(entries, entry)
			}
			consumed = true
			return false
		})

		return !consumed
	})

	return entries
}

// countryColumns первая колонка (дата) всегда пропускается
func countryColumns(headers *goquery.Selection) []countryColumn {
	var columns []countryColumn
	headers.Each(func(i int, cell *goquery.Selection) {
		if i == 0 {
			return
		}
		if code := strings.TrimSpace(cell.Text()); countryCodePattern.MatchString(code) {
			columns = append(columns, countryColumn{index: i, code: code})
		}
	})
	return columns
}

// parseCell допускает пояснительный текст после числа
func parseCell(raw string) (int64, bool) {
	m := countPattern.FindString(raw)
	if m == "" {
		return 0, false
	}
	return track.ParseCount(m)
}

// Top возвращает запись с максимумом прослушиваний.
// При равенстве побеждает код страны, меньший по алфавиту.
func Top(entries []track.CountryStreams) (track.CountryStreams, bool) {
	if len(entries) == 0 {
		return track.CountryStreams{}, false
	}
	sorted := append([]track.CountryStreams(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Streams != sorted[j].Streams {
			return sorted[i].Streams > sorted[j].Streams
		}
		return sorted[i].Country < sorted[j].Country
	})
	return sorted[0], true
}
