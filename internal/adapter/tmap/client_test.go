package tmap

import (
	"context"
	"encoding/json"
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

const testAppKey = "test-app-key"

var (
	seoulStation = place.Coordinates{Lat: 37.554678, Lng: 126.970606}
	gangnam      = place.Coordinates{Lat: 37.497942, Lng: 127.027621}
)

func testClient(baseURL string) *Client {
	return &Client{
		appKey:     testAppKey,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestClient_CarRoute_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/tmap/routes", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("version"))
		assert.Equal(t, testAppKey, r.Header.Get("appKey"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "126.970606", body["startX"])
		assert.Equal(t, "37.554678", body["startY"])
		assert.Equal(t, "127.027621", body["endX"])
		assert.Equal(t, "37.497942", body["endY"])
		assert.Equal(t, "WGS84GEO", body["reqCoordType"])

		_, err := w.Write([]byte(`{
			"features": [
				{
					"properties": {"totalTime": 1860, "totalDistance": 11200},
					"geometry": {"type": "Point", "coordinates": [126.970606, 37.554678]}
				},
				{
					"properties": {},
					"geometry": {
						"type": "LineString",
						"coordinates": [[126.970606, 37.554678], [126.99, 37.53], [127.027621, 37.497942]]
					}
				}
			]
		}`))
		require.NoError(t, err)
	}))
	defer srv.Close()

	route, err := testClient(srv.URL).CarRoute(context.Background(), seoulStation, gangnam)
	require.NoError(t, err)

	assert.Equal(t, 1860, route.TotalSeconds)
	assert.Equal(t, 11200, route.TotalMeters)
	require.Len(t, route.Path, 3)
	assert.Equal(t, place.Coordinates{Lat: 37.554678, Lng: 126.970606}, route.Path[0])
	assert.Equal(t, place.Coordinates{Lat: 37.497942, Lng: 127.027621}, route.Path[2])
}

func TestClient_CarRoute_NoFeatures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, err := w.Write([]byte(`{"features": []}`))
		require.NoError(t, err)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).CarRoute(context.Background(), seoulStation, gangnam)
	assert.ErrorIs(t, err, ErrNoRoute)
}

func TestClient_TransitRoute_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transit/routes", r.URL.Path)
		assert.Equal(t, testAppKey, r.Header.Get("appKey"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "126.970606", body["startX"])
		assert.EqualValues(t, 1, body["count"])

		_, err := w.Write([]byte(`{
			"metaData": {
				"plan": {
					"itineraries": [
						{
							"totalTime": 2400,
							"totalDistance": 13000,
							"transferCount": 1,
							"pathType": 1,
							"legs": [
								{"mode": "WALK", "sectionTime": 300, "start": {"name": "출발지"}, "end": {"name": "서울역"}},
								{"mode": "SUBWAY", "sectionTime": 1800, "start": {"name": "서울역"}, "end": {"name": "강남역"}},
								{"mode": "WALK", "sectionTime": 300, "start": {"name": "강남역"}, "end": {"name": "도착지"}}
							]
						}
					]
				}
			}
		}`))
		require.NoError(t, err)
	}))
	defer srv.Close()

	route, err := testClient(srv.URL).TransitRoute(context.Background(), seoulStation, gangnam)
	require.NoError(t, err)

	assert.Equal(t, 2400, route.TotalSeconds)
	assert.Equal(t, 13000, route.TotalMeters)
	assert.Equal(t, 1, route.TransferCount)
	require.Len(t, route.Legs, 3)
	assert.Equal(t, "SUBWAY", route.Legs[1].Mode)
	assert.Equal(t, 1800, route.Legs[1].SectionSecs)
	assert.Equal(t, "서울역", route.Legs[1].StartName)
	assert.Equal(t, "강남역", route.Legs[1].EndName)
}

func TestClient_TransitRoute_NoItineraries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, err := w.Write([]byte(`{"metaData": {"plan": {"itineraries": []}}}`))
		require.NoError(t, err)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).TransitRoute(context.Background(), seoulStation, gangnam)
	assert.ErrorIs(t, err, ErrNoRoute)
}

func TestClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).CarRoute(context.Background(), seoulStation, gangnam)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestClient_MissingAppKey(t *testing.T) {
	c := testClient("http://unused")
	c.appKey = ""

	_, err := c.CarRoute(context.Background(), seoulStation, gangnam)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "app key")
}
