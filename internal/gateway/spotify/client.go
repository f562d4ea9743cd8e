package spotify

import (
	"context"
	"fmt"
	"net/http"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"go.uber.org/zap"
	"golang.org/x/oauth2/clientcredentials"
)

// Client представляет клиент для работы с Spotify API
type Client struct {
	client *spotify.Client
	logger *zap.Logger
}

var _ Interface = (*Client)(nil)

// NewClient создает клиент с Client Credentials Flow. Токен запрашивается
// при первом обращении и обновляется автоматически.
func NewClient(ctx context.Context, clientID, clientSecret string, logger *zap.Logger) (*Client, error) {
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("spotify client ID and secret are required")
	}

	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}

	logger.Info("Spotify client created successfully with client credentials flow")

	return NewClientWithHTTP(config.Client(ctx), logger), nil
}

// NewClientWithHTTP создает клиент поверх готового HTTP клиента
func NewClientWithHTTP(httpClient *http.Client, logger *zap.Logger, opts ...spotify.ClientOption) *Client {
	return &Client{
		client: spotify.New(httpClient, opts...),
		logger: logger,
	}
}

// GetTrack возвращает метаданные трека
func (c *Client) GetTrack(ctx context.Context, trackID string) (*Track, error) {
	full, err := c.client.GetTrack(ctx, spotify.ID(trackID))
	if err != nil {
		return nil, fmt.Errorf("failed to get spotify track %s: %w", trackID, err)
	}

	t := &Track{
		ID:    full.ID.String(),
		Title: full.Name,
		Album: full.Album.Name,
	}
	for _, artist := range full.Artists {
		t.Artists = append(t.Artists, artist.Name)
	}

	c.logger.Debug("Spotify track resolved",
		zap.String("track_id", trackID),
		zap.String("title", t.Title),
		zap.String("artist", t.Artist()))

	return t, nil
}
