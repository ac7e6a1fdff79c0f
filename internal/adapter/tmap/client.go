// Package tmap calls the SK open API for car and transit routes.
package tmap

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Hanshin-OSS-Hub/capstone25-tripgpt/internal/place"
)

const defaultBaseURL = "https://apis.openapi.sk.com"

// ErrNoRoute indicates the provider answered but found no usable route.
var ErrNoRoute = errors.New("tmap: no route found")

// Client calls the Tmap car-route and transit-route APIs.
type Client struct {
	appKey     string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a Tmap route client.
func NewClient(appKey string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		appKey: appKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: defaultBaseURL,
		logger:  logger,
	}
}

// CarRoute is a driving route summary plus its polyline.
type CarRoute struct {
	TotalSeconds int
	TotalMeters  int
	Path         []place.Coordinates
}

// TransitLeg is one segment of a transit itinerary.
type TransitLeg struct {
	Mode        string // WALK, BUS, SUBWAY, ...
	SectionSecs int
	StartName   string
	EndName     string
}

// TransitRoute is the first itinerary of a transit search.
type TransitRoute struct {
	TotalSeconds  int
	TotalMeters   int
	TransferCount int
	PathType      int
	Legs          []TransitLeg
}

// CarRoute requests a driving route between two points.
func (c *Client) CarRoute(ctx context.Context, from, to place.Coordinates) (CarRoute, error) {
	// Tmap takes coordinates as strings, x is longitude.
	body := map[string]string{
		"startX":       formatCoord(from.Lng),
		"startY":       formatCoord(from.Lat),
		"endX":         formatCoord(to.Lng),
		"endY":         formatCoord(to.Lat),
		"reqCoordType": "WGS84GEO",
		"resCoordType": "WGS84GEO",
		"searchOption": "0",
	}

	var resp carResponse
	if err := c.post(ctx, "/tmap/routes?version=1", body, &resp); err != nil {
		return CarRoute{}, fmt.Errorf("car route: %w", err)
	}
	if len(resp.Features) == 0 {
		return CarRoute{}, ErrNoRoute
	}

	route := CarRoute{
		TotalSeconds: resp.Features[0].Properties.TotalTime,
		TotalMeters:  resp.Features[0].Properties.TotalDistance,
	}
	for _, f := range resp.Features {
		if f.Geometry.Type != "LineString" {
			continue
		}
		for _, pair := range f.Geometry.Coordinates {
			if len(pair) == 2 {
				route.Path = append(route.Path, place.Coordinates{Lat: pair[1], Lng: pair[0]})
			}
		}
	}
	return route, nil
}

// TransitRoute requests the best transit itinerary between two points.
func (c *Client) TransitRoute(ctx context.Context, from, to place.Coordinates) (TransitRoute, error) {
	body := map[string]any{
		"startX": formatCoord(from.Lng),
		"startY": formatCoord(from.Lat),
		"endX":   formatCoord(to.Lng),
		"endY":   formatCoord(to.Lat),
		"count":  1,
		"format": "json",
		"lang":   0,
	}

	var resp transitResponse
	if err := c.post(ctx, "/transit/routes", body, &resp); err != nil {
		return TransitRoute{}, fmt.Errorf("transit route: %w", err)
	}
	if len(resp.MetaData.Plan.Itineraries) == 0 {
		return TransitRoute{}, ErrNoRoute
	}

	it := resp.MetaData.Plan.Itineraries[0]
	route := TransitRoute{
		TotalSeconds:  it.TotalTime,
		TotalMeters:   it.TotalDistance,
		TransferCount: it.TransferCount,
		PathType:      it.PathType,
	}
	for _, leg := range it.Legs {
		route.Legs = append(route.Legs, TransitLeg{
			Mode:        leg.Mode,
			SectionSecs: leg.SectionTime,
			StartName:   leg.Start.Name,
			EndName:     leg.End.Name,
		})
	}
	return route, nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	if c.appKey == "" {
		return errors.New("tmap app key not configured")
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("appKey", c.appKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d: %s", resp.StatusCode, raw)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Tmap API response types.

type carResponse struct {
	Features []carFeature `json:"features"`
}

type carFeature struct {
	Properties struct {
		TotalTime     int `json:"totalTime"`     // seconds
		TotalDistance int `json:"totalDistance"` // meters
	} `json:"properties"`
	Geometry struct {
		Type        string      `json:"type"`
		Coordinates [][]float64 `json:"coordinates"` // [lng, lat]
	} `json:"geometry"`
}

type transitResponse struct {
	MetaData struct {
		Plan struct {
			Itineraries []itinerary `json:"itineraries"`
		} `json:"plan"`
	} `json:"metaData"`
}

type itinerary struct {
	TotalTime     int   `json:"totalTime"`
	TotalDistance int   `json:"totalDistance"`
	TransferCount int   `json:"transferCount"`
	PathType      int   `json:"pathType"`
	Legs          []leg `json:"legs"`
}

type leg struct {
	Mode        string `json:"mode"`
	SectionTime int    `json:"sectionTime"`
	Start       struct {
		Name string `json:"name"`
	} `json:"start"`
	End struct {
		Name string `json:"name"`
	} `json:"end"`
}
