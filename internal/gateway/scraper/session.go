package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"
)

const maxResponseBody = 10 << 20

// SessionConfig параметры сессии
type SessionConfig struct {
	Profile        BrowserProfile
	RequestTimeout time.Duration
	Retry          RetryConfig
}

// Session одна логическая браузерная сессия: общий cookie jar для GET страницы
// и последующего POST в API. Сессия принадлежит одному вызову и не переиспользуется.
type Session struct {
	transport http.RoundTripper
	jar       http.CookieJar
	client    *http.Client
	config    SessionConfig
	logger    *zap.Logger
}

var (
	_ DocumentFetcher = (*Session)(nil)
	_ FormPoster      = (*Session)(nil)
)

// NewSession создает сессию поверх общего транспорта
func NewSession(transport http.RoundTripper, config SessionConfig, logger *zap.Logger) (*Session, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	if config.Profile.UserAgent == "" {
		config.Profile = DefaultBrowserProfile("")
	}

	return &Session{
		transport: transport,
		jar:       jar,
		client: &http.Client{
			Transport: transport,
			Jar:       jar,
			Timeout:   config.RequestTimeout,
		},
		config: config,
		logger: logger,
	}, nil
}

// FetchDocument загружает страницу через colly и разбирает ее goquery.
// Ошибки 4xx не повторяются.
func (s *Session) FetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	var doc *goquery.Document

	err := WithRetry(ctx, s.logger, s.config.Retry, func() error {
		d, err := s.fetchOnce(ctx, pageURL)
		if err != nil {
			var statusErr *StatusError
			if errors.As(err, &statusErr) && !statusErr.Retryable() {
				return Permanent(err)
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return Permanent(err)
			}
			return err
		}
		doc = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *Session) fetchOnce(ctx context.Context, pageURL string) (*goquery.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := colly.NewCollector(
		colly.UserAgent(s.config.Profile.UserAgent),
		colly.AllowURLRevisit(),
		colly.MaxDepth(1),
		colly.StdlibContext(ctx),
	)
	c.WithTransport(s.transport)
	c.SetCookieJar(s.jar)
	if s.config.RequestTimeout > 0 {
		c.SetRequestTimeout(s.config.RequestTimeout)
	}

	var (
		body       []byte
		statusCode int
	)

	c.OnRequest(func(r *colly.Request) {
		s.config.Profile.Apply(*r.Headers)
		s.logger.Debug("Visiting page", zap.String("url", r.URL.String()))
	})
	c.OnResponse(func(r *colly.Response) {
		statusCode = r.StatusCode
		body = r.Body
		s.logger.Debug("Received response",
			zap.String("url", r.Request.URL.String()),
			zap.Int("status", r.StatusCode),
			zap.Int("bytes", len(r.Body)))
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			statusCode = r.StatusCode
		}
	})

	if err := c.Visit(pageURL); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", pageURL, ctxErr)
		}
		if statusCode >= 300 {
			return nil, &StatusError{URL: pageURL, StatusCode: statusCode}
		}
		return nil, fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML from %s: %w", pageURL, err)
	}
	return doc, nil
}

// PostForm отправляет форму в рамках сессии. Ответ с любым статусом
// возвращается без ошибки, ошибка означает сбой транспорта.
func (s *Session) PostForm(ctx context.Context, endpoint string, form url.Values) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	s.config.Profile.Apply(req.Header)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			s.logger.Warn("Failed to close response body", zap.Error(closeErr))
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return resp.StatusCode, body, nil
}

// Factory создает независимые сессии поверх общего транспорта
type Factory struct {
	transport http.RoundTripper
	config    SessionConfig
	logger    *zap.Logger
}

// NewFactory создает фабрику сессий
func NewFactory(transport http.RoundTripper, config SessionConfig, logger *zap.Logger) *Factory {
	return &Factory{
		transport: transport,
		config:    config,
		logger:    logger,
	}
}

// NewSession создает новую сессию с пустым cookie jar
func (f *Factory) NewSession() (*Session, error) {
	return NewSession(f.transport, f.config, f.logger)
}
