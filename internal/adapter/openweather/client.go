// Package openweather fetches current weather for a coordinate.
package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Hanshin-OSS-Hub/capstone25-tripgpt/internal/place"
)

const defaultBaseURL = "https://api.openweathermap.org"

// Weather is the condition at a location when the lookup ran.
type Weather struct {
	Location    string  // station name reported by the provider
	TempC       float64 // celsius
	Description string  // localized, e.g. "맑음"
}

// Client calls the OpenWeather current-weather API.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates an OpenWeather client.
func NewClient(apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: defaultBaseURL,
		logger:  logger,
	}
}

// Current fetches the weather at a coordinate, with Korean descriptions.
func (c *Client) Current(ctx context.Context, coord place.Coordinates) (Weather, error) {
	if c.apiKey == "" {
		return Weather{}, errors.New("openweather api key not configured")
	}

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(coord.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(coord.Lng, 'f', -1, 64))
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")
	q.Set("lang", "kr")

	reqURL := c.baseURL + "/data/2.5/weather?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Weather{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Weather{}, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return Weather{}, fmt.Errorf("status %d: %s", resp.StatusCode, raw)
	}

	var body weatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Weather{}, fmt.Errorf("decode response: %w", err)
	}

	w := Weather{
		Location: body.Name,
		TempC:    body.Main.Temp,
	}
	if len(body.Weather) > 0 {
		w.Description = body.Weather[0].Description
	}
	return w, nil
}

type weatherResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
}
