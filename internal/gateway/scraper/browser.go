package scraper

import "net/http"

// DefaultUserAgent десктопный Chrome, под который верстаются страницы источников
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// BrowserProfile набор заголовков, которыми сессия представляется браузером.
// Accept-Encoding не задается: распаковкой занимается транспорт.
type BrowserProfile struct {
	UserAgent      string
	Accept         string
	AcceptLanguage string
}

// DefaultBrowserProfile возвращает профиль с заданным User-Agent
func DefaultBrowserProfile(userAgent string) BrowserProfile {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return BrowserProfile{
		UserAgent:      userAgent,
		Accept:         "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
		AcceptLanguage: "en-US,en;q=0.5",
	}
}

// Apply выставляет заголовки профиля
func (p BrowserProfile) Apply(h http.Header) {
	h.Set("User-Agent", p.UserAgent)
	h.Set("Accept", p.Accept)
	h.Set("Accept-Language", p.AcceptLanguage)
	h.Set("Connection", "keep-alive")
	h.Set("Upgrade-Insecure-Requests", "1")
}
