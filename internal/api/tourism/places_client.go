package tourism

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"smartroute/internal/types"
)

const (
	placesFieldMask = "places.displayName,places.formattedAddress,places.types,places.rating"
	maxResultCount  = 10
)

// PlacesSearcher finds venues near a coordinate for a set of categories.
type PlacesSearcher interface {
	SearchNearby(ctx context.Context, categories []string, latitude, longitude float64) ([]types.Place, error)
}

var _ PlacesSearcher = (*PlacesClient)(nil)

// PlacesClient calls the Google Places searchNearby API.
type PlacesClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	radiusM    float64
	logger     *slog.Logger
}

func NewPlacesClient(baseURL, apiKey string, radiusM float64, logger *slog.Logger) *PlacesClient {
	if radiusM <= 0 {
		radiusM = 11000
	}
	return &PlacesClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
		radiusM:    radiusM,
		logger:     logger,
	}
}

type searchNearbyRequest struct {
	IncludedTypes       []string `json:"includedTypes"`
	MaxResultCount      int      `json:"maxResultCount"`
	LocationRestriction struct {
		Circle struct {
			Center struct {
				Latitude  float64 `json:"latitude"`
				Longitude float64 `json:"longitude"`
			} `json:"center"`
			Radius float64 `json:"radius"`
		} `json:"circle"`
	} `json:"locationRestriction"`
}

type searchNearbyResponse struct {
	Places []struct {
		DisplayName struct {
			Text string `json:"text"`
		} `json:"displayName"`
		FormattedAddress string   `json:"formattedAddress"`
		Types            []string `json:"types"`
		Rating           float64  `json:"rating"`
	} `json:"places"`
}

func (c *PlacesClient) SearchNearby(ctx context.Context, categories []string, latitude, longitude float64) ([]types.Place, error) {
	body := searchNearbyRequest{
		IncludedTypes:  categories,
		MaxResultCount: maxResultCount,
	}
	body.LocationRestriction.Circle.Center.Latitude = latitude
	body.LocationRestriction.Circle.Center.Longitude = longitude
	body.LocationRestriction.Circle.Radius = c.radiusM

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal places request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/places:searchNearby", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build places request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", placesFieldMask)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("places provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("places provider returned status %d", resp.StatusCode)
	}

	var out searchNearbyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode places response: %w", err)
	}

	places := make([]types.Place, 0, len(out.Places))
	for _, p := range out.Places {
		places = append(places, types.Place{
			Name:    p.DisplayName.Text,
			Address: p.FormattedAddress,
			Rating:  p.Rating,
			Types:   p.Types,
		})
	}
	c.logger.DebugContext(ctx, "Places search completed",
		slog.Int("categories", len(categories)), slog.Int("found", len(places)))
	return places, nil
}
