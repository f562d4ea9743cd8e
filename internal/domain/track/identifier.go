package track

import (
	"errors"
	"regexp"
)

// ErrNoTrackID возвращается, когда в URL нет идентификатора трека
var ErrNoTrackID = errors.New("could not extract track ID")

var trackIDPattern = regexp.MustCompile(`/track/([a-zA-Z0-9]+)`)

// ExtractID извлекает идентификатор трека из URL вида .../track/<id>
func ExtractID(rawURL string) (string, error) {
	m := trackIDPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return "", ErrNoTrackID
	}
	return m[1], nil
}

// IDFromHref как ExtractID, но возвращает пустую строку вместо ошибки
func IDFromHref(href string) string {
	id, err := ExtractID(href)
	if err != nil {
		return ""
	}
	return id
}
