package geocoding

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/UnknownOlympus/citylens/internal/models"
	"github.com/UnknownOlympus/citylens/internal/upstream"
)

// VisicomBaseURL -- Visicom API base URL.
const VisicomBaseURL = "https://api.visicom.ua/data-api/5.0/uk/geocode.json"

// VisicomProvider implements geocoding using Visicom API.
type VisicomProvider struct {
	fetcher *upstream.Fetcher // fetcher performs the HTTP request and decoding
	baseURL string            // Base URL for the Visicom API
	apiKey  string            // API key with geocoding access
	log     *slog.Logger      // Logger for logging operations
}

// Visicom API response (simplified for geocoding use-case).
type visicomResponse struct {
	Geometry struct {
		Coordinates []float64 `json:"coordinates"` // [lon, lat]
	} `json:"geo_centroid"`
}

// NewVisicomProvider creates a new Visicom geocoding provider.
// An empty baseURL selects VisicomBaseURL.
func NewVisicomProvider(client upstream.HTTPClient, baseURL, apiKey string, log *slog.Logger) *VisicomProvider {
	if baseURL == "" {
		baseURL = VisicomBaseURL
	}

	return &VisicomProvider{
		fetcher: upstream.NewFetcher("visicom", client, "", log),
		baseURL: baseURL,
		apiKey:  apiKey,
		log:     log,
	}
}

// Geocode converts a city name into geographic coordinates using Visicom API.
func (vp *VisicomProvider) Geocode(ctx context.Context, city string) (*models.Coordinates, error) {
	const coordsListLength = 2

	vp.log.DebugContext(ctx, "Geocoding using Visicom", "city", city)

	if city == "" {
		return nil, ErrEmptyCity
	}

	reqURL, err := url.Parse(vp.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	query := reqURL.Query()
	query.Set("text", city)
	query.Set("limit", "1")
	query.Set("key", vp.apiKey)
	reqURL.RawQuery = query.Encode()

	var result visicomResponse
	if err = vp.fetcher.FetchJSON(ctx, reqURL.String(), nil, &result); err != nil {
		return nil, err
	}

	coords := result.Geometry.Coordinates
	if len(coords) == 0 {
		return nil, ErrCityNotFound
	}
	if len(coords) != coordsListLength {
		return nil, fmt.Errorf("%w: expected [lon, lat], got %v", ErrInvalidCoords, coords)
	}

	vp.log.DebugContext(ctx, "Visicom found result", "city", city, "lat", coords[1], "lon", coords[0])

	return validate(coords[1], coords[0])
}
