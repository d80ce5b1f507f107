package geocoding

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/UnknownOlympus/citylens/internal/models"
	"github.com/UnknownOlympus/citylens/internal/upstream"
)

const (
	// NominatimBaseURL is the public OpenStreetMap Nominatim search endpoint.
	NominatimBaseURL = "https://nominatim.openstreetmap.org/search"
	// DefaultUserAgent identifies the service to upstreams.
	// Nominatim usage policy requires a valid contact in it:
	// https://operations.osmfoundation.org/policies/nominatim/
	DefaultUserAgent = "CityLens/1.0 (https://github.com/UnknownOlympus/citylens)"
)

// NominatimProvider implements the Provider interface using OpenStreetMap's Nominatim API.
// This is a free geocoding service with usage limits (1 request/second for fair use).
type NominatimProvider struct {
	fetcher *upstream.Fetcher // fetcher performs the HTTP request and decoding
	baseURL string            // Base URL for the Nominatim API
	log     *slog.Logger      // Logger for logging operations
}

// nominatimResponse represents a single result of the Nominatim search API.
type nominatimResponse struct {
	Lat string `json:"lat"` // Latitude as string
	Lon string `json:"lon"` // Longitude as string
}

// NewNominatimProvider creates a Nominatim provider using the given HTTP client.
// An empty baseURL selects the public endpoint and an empty userAgent selects DefaultUserAgent.
func NewNominatimProvider(client upstream.HTTPClient, baseURL, userAgent string, log *slog.Logger) *NominatimProvider {
	if baseURL == "" {
		baseURL = NominatimBaseURL
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &NominatimProvider{
		fetcher: upstream.NewFetcher("nominatim", client, userAgent, log),
		baseURL: baseURL,
		log:     log,
	}
}

// Geocode converts a city name to geographic coordinates using the Nominatim API.
// Only the top result is requested; an empty result list yields ErrCityNotFound.
func (np *NominatimProvider) Geocode(ctx context.Context, city string) (*models.Coordinates, error) {
	np.log.DebugContext(ctx, "Geocoding using Nominatim", "city", city)

	reqURL, err := url.Parse(np.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	query := reqURL.Query()
	query.Set("q", city)
	query.Set("format", "json")
	query.Set("limit", "1")
	reqURL.RawQuery = query.Encode()

	var results []nominatimResponse
	if err = np.fetcher.FetchJSON(ctx, reqURL.String(), nil, &results); err != nil {
		return nil, err
	}

	if len(results) == 0 {
		return nil, ErrCityNotFound
	}

	np.log.DebugContext(ctx, "Nominatim found result", "lat", results[0].Lat, "lon", results[0].Lon)

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid latitude: %s", ErrInvalidCoords, results[0].Lat)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid longitude: %s", ErrInvalidCoords, results[0].Lon)
	}

	return validate(lat, lon)
}
