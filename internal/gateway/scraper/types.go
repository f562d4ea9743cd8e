package scraper

import (
	"context"
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"
)

// DocumentFetcher загружает и разбирает HTML-страницу
type DocumentFetcher interface {
	FetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error)
}

// FormPoster отправляет form-urlencoded запрос и возвращает статус и тело ответа
type FormPoster interface {
	PostForm(ctx context.Context, endpoint string, form url.Values) (int, []byte, error)
}

// StatusError ответ сервера с кодом вне 2xx
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d fetching %s", e.StatusCode, e.URL)
}

// Retryable сообщает, имеет ли смысл повторять запрос
func (e *StatusError) Retryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}
