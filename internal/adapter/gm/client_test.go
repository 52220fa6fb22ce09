package gm

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cirruswx/pointcast/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-key"

func testClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     testAPIKey,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		logger:     slog.New(slog.DiscardHandler),
	}
}

func TestFetch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/onecall", r.URL.Path)
		assert.Equal(t, "35.5000", r.URL.Query().Get("lat"))
		assert.Equal(t, "-97.5000", r.URL.Query().Get("lon"))
		assert.Equal(t, testAPIKey, r.URL.Query().Get("appid"))

		w.Header().Set("Content-Type", "application/json")
		_, err := w.Write([]byte(`{
			"current": {"temp": 295.15, "humidity": 40},
			"hourly": [{"dt": 1767225600, "temp": 294.0}]
		}`))
		require.NoError(t, err)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	doc, err := c.Fetch(context.Background(), domain.Point{Lon: -97.5, Lat: 35.5})
	require.NoError(t, err)

	require.NotNil(t, doc.Current)
	require.NotNil(t, doc.Current.Temperature)
	assert.Equal(t, 295.15, *doc.Current.Temperature)
	require.Len(t, doc.Hourly, 1)
}

func TestFetch_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "server error", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Fetch(context.Background(), domain.Point{Lon: -97.5, Lat: 35.5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestFetch_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Fetch(context.Background(), domain.Point{Lon: -97.5, Lat: 35.5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestFetch_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(100 * time.Millisecond)
		_, _ = w.Write([]byte("{}"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := testClient(srv.URL)
	_, err := c.Fetch(ctx, domain.Point{Lon: -97.5, Lat: 35.5})
	require.Error(t, err)
}
