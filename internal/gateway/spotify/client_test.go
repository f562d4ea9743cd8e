package spotify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zmb3/spotify/v2"
	"go.uber.org/zap"
)

func TestClient_GetTrack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tracks/0VjIjW4GlUZAMYd2vXMi3b" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"status":404,"message":"Not found"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "0VjIjW4GlUZAMYd2vXMi3b",
			"name": "Blinding Lights",
			"artists": [{"id": "1", "name": "The Weeknd"}, {"id": "2", "name": "Guest"}],
			"album": {"id": "a", "name": "After Hours"}
		}`))
	}))
	defer srv.Close()

	c := NewClientWithHTTP(srv.Client(), zap.NewNop(), spotify.WithBaseURL(srv.URL+"/"))

	tr, err := c.GetTrack(context.Background(), "0VjIjW4GlUZAMYd2vXMi3b")
	require.NoError(t, err)
	assert.Equal(t, "Blinding Lights", tr.Title)
	assert.Equal(t, "The Weeknd, Guest", tr.Artist())
	assert.Equal(t, "The Weeknd", tr.PrimaryArtist())
	assert.Equal(t, "After Hours", tr.Album)

	_, err = c.GetTrack(context.Background(), "missing")
	assert.Error(t, err)
}

func TestNewClient_RequiresCredentials(t *testing.T) {
	_, err := NewClient(context.Background(), "", "secret", zap.NewNop())
	assert.Error(t, err)
}

func TestTrack_EmptyArtists(t *testing.T) {
	tr := &Track{}
	assert.Equal(t, "", tr.Artist())
	assert.Equal(t, "", tr.PrimaryArtist())
}
