package openweather

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hanshin-OSS-Hub/capstone25-tripgpt/internal/place"
)

const testAPIKey = "test-weather-key"

func testClient(baseURL string) *Client {
	return &Client{
		apiKey:     testAPIKey,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestClient_Current_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/2.5/weather", r.URL.Path)
		assert.Equal(t, "37.5759", r.URL.Query().Get("lat"))
		assert.Equal(t, "126.9769", r.URL.Query().Get("lon"))
		assert.Equal(t, testAPIKey, r.URL.Query().Get("appid"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		assert.Equal(t, "kr", r.URL.Query().Get("lang"))

		_, err := w.Write([]byte(`{
			"name": "Seoul",
			"main": {"temp": 23.4},
			"weather": [{"description": "맑음"}]
		}`))
		require.NoError(t, err)
	}))
	defer srv.Close()

	got, err := testClient(srv.URL).Current(context.Background(), place.Coordinates{Lat: 37.5759, Lng: 126.9769})
	require.NoError(t, err)

	assert.Equal(t, "Seoul", got.Location)
	assert.InDelta(t, 23.4, got.TempC, 0.001)
	assert.Equal(t, "맑음", got.Description)
}

func TestClient_Current_NoConditions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, err := w.Write([]byte(`{"name": "Seoul", "main": {"temp": 10}, "weather": []}`))
		require.NoError(t, err)
	}))
	defer srv.Close()

	got, err := testClient(srv.URL).Current(context.Background(), place.Coordinates{Lat: 37.5, Lng: 127})
	require.NoError(t, err)
	assert.Empty(t, got.Description)
}

func TestClient_Current_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"cod":401}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Current(context.Background(), place.Coordinates{Lat: 37.5, Lng: 127})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestClient_Current_MissingKey(t *testing.T) {
	c := testClient("http://unused")
	c.apiKey = ""

	_, err := c.Current(context.Background(), place.Coordinates{Lat: 37.5, Lng: 127})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api key")
}
