package track

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var countPrinter = message.NewPrinter(language.English)

// ParseCount разбирает число с разделителями тысяч ("1,234,567").
// Строка без цифр или с посторонними символами дает ok == false.
func ParseCount(s string) (int64, bool) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if cleaned == "" {
		return 0, false
	}
	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// FormatCount форматирует число с разделителями тысяч
func FormatCount(n int64) string {
	return countPrinter.Sprintf("%d", n)
}
