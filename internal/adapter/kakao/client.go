// Package kakao implements place.Provider against the Kakao Local REST API.
package kakao

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Hanshin-OSS-Hub/capstone25-tripgpt/internal/observability"
	"github.com/Hanshin-OSS-Hub/capstone25-tripgpt/internal/place"
)

const defaultBaseURL = "https://dapi.kakao.com"

// Client implements place.Provider using the Kakao Local search API.
type Client struct {
	restKey    string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Kakao Local search client.
func NewClient(restKey string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		restKey: restKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: defaultBaseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// KeywordSearch queries the place directory by free-text keyword. A non-OK
// HTTP status other than an authorization failure is an ordinary error, so
// the resolver advances to its next strategy.
func (c *Client) KeywordSearch(ctx context.Context, keyword string) ([]place.PlaceCandidate, error) {
	params := url.Values{
		"query": {keyword},
		"size":  {"15"},
	}

	var resp keywordResponse
	if err := c.doRequest(ctx, "/v2/local/search/keyword.json", params, "keyword", &resp); err != nil {
		return nil, err
	}

	candidates := make([]place.PlaceCandidate, 0, len(resp.Documents))
	for _, doc := range resp.Documents {
		coord, err := parseCoord(doc.X, doc.Y)
		if err != nil {
			c.logger.Warn("skipping candidate with bad coordinates", "place_name", doc.PlaceName, "error", err)
			continue
		}
		candidates = append(candidates, place.PlaceCandidate{
			Name:        doc.PlaceName,
			RoadAddress: doc.RoadAddressName,
			LotAddress:  doc.AddressName,
			Coord:       coord,
		})
	}
	return candidates, nil
}

// AddressSearch geocodes a free-text address.
func (c *Client) AddressSearch(ctx context.Context, address string) ([]place.AddressMatch, error) {
	params := url.Values{
		"query": {address},
	}

	var resp addressResponse
	if err := c.doRequest(ctx, "/v2/local/search/address.json", params, "address", &resp); err != nil {
		return nil, err
	}

	matches := make([]place.AddressMatch, 0, len(resp.Documents))
	for _, doc := range resp.Documents {
		coord, err := parseCoord(doc.X, doc.Y)
		if err != nil {
			c.logger.Warn("skipping address match with bad coordinates", "address_name", doc.AddressName, "error", err)
			continue
		}
		m := place.AddressMatch{
			Address: doc.AddressName,
			Coord:   coord,
		}
		if doc.RoadAddress != nil {
			m.RoadAddress = doc.RoadAddress.AddressName
		}
		if doc.Address != nil {
			m.LotAddress = doc.Address.AddressName
		}
		matches = append(matches, m)
	}
	return matches, nil
}

func (c *Client) doRequest(ctx context.Context, path string, params url.Values, kind string, out any) error {
	if c.restKey == "" {
		return fmt.Errorf("kakao REST key not configured: %w", place.ErrUnavailable)
	}

	start := time.Now()
	err := c.doRequestInner(ctx, path, params, out)
	c.metrics.ProviderDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.ProviderRequests.WithLabelValues(kind, "error").Inc()
		return fmt.Errorf("kakao %s search: %w", kind, err)
	}

	if empty(out) {
		c.metrics.ProviderRequests.WithLabelValues(kind, "empty").Inc()
	} else {
		c.metrics.ProviderRequests.WithLabelValues(kind, "hit").Inc()
	}
	return nil
}

func (c *Client) doRequestInner(ctx context.Context, path string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "KakaoAK "+c.restKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			// Cancelled or timed out: the resolver advances, not aborts.
			return err
		}
		return fmt.Errorf("%w: %v", place.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: status %d: %s", place.ErrUnavailable, resp.StatusCode, body)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func empty(out any) bool {
	switch v := out.(type) {
	case *keywordResponse:
		return len(v.Documents) == 0
	case *addressResponse:
		return len(v.Documents) == 0
	}
	return false
}

// Kakao returns coordinates as strings: x is longitude, y is latitude.
func parseCoord(x, y string) (place.Coordinates, error) {
	lng, err := strconv.ParseFloat(x, 64)
	if err != nil {
		return place.Coordinates{}, fmt.Errorf("parse x %q: %w", x, err)
	}
	lat, err := strconv.ParseFloat(y, 64)
	if err != nil {
		return place.Coordinates{}, fmt.Errorf("parse y %q: %w", y, err)
	}
	return place.Coordinates{Lat: lat, Lng: lng}, nil
}

// Kakao Local API response types.

type keywordResponse struct {
	Documents []keywordDocument `json:"documents"`
}

type keywordDocument struct {
	PlaceName       string `json:"place_name"`
	AddressName     string `json:"address_name"`      // lot-number address
	RoadAddressName string `json:"road_address_name"` // road-based address
	X               string `json:"x"`
	Y               string `json:"y"`
}

type addressResponse struct {
	Documents []addressDocument `json:"documents"`
}

type addressDocument struct {
	AddressName string          `json:"address_name"`
	X           string          `json:"x"`
	Y           string          `json:"y"`
	RoadAddress *addressVariant `json:"road_address"`
	Address     *addressVariant `json:"address"`
}

type addressVariant struct {
	AddressName string `json:"address_name"`
}
