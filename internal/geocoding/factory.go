package geocoding

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/UnknownOlympus/citylens/internal/upstream"
	"googlemaps.github.io/maps"
)

// ProviderType represents the type of geocoding provider.
type ProviderType string

const (
	// ProviderTypeGoogle represents Google Maps geocoding provider.
	ProviderTypeGoogle ProviderType = "google"
	// ProviderTypeNominatim represents OpenStreetMap Nominatim geocoding provider.
	ProviderTypeNominatim ProviderType = "nominatim"
	// ProviderTypeVisicom represents Visicom Maps geocoding provider.
	ProviderTypeVisicom ProviderType = "visicom"
)

// ProviderConfig holds configuration for creating a geocoding provider.
type ProviderConfig struct {
	Type       ProviderType        // Type of provider to create
	APIKey     string              // API key (required by Google and Visicom)
	BaseURL    string              // Endpoint override
	UserAgent  string              // User-Agent sent to Nominatim
	HTTPClient upstream.HTTPClient // HTTP client; Google needs an *http.Client to use it
	Logger     *slog.Logger        // Logger for the provider
}

// NewProvider creates a geocoding provider based on the provided configuration.
//
// Supported provider types:
// - "nominatim": OpenStreetMap Nominatim API (free, no API key required)
// - "google": Google Maps Geocoding API (requires API key)
// - "visicom": Visicom Data API (requires API key)
//
// Returns an error if the provider type is unsupported or if provider creation fails.
func NewProvider(config ProviderConfig) (Provider, error) {
	if config.HTTPClient == nil {
		config.HTTPClient = http.DefaultClient
	}

	switch config.Type {
	case ProviderTypeNominatim:
		return NewNominatimProvider(config.HTTPClient, config.BaseURL, config.UserAgent, config.Logger), nil
	case ProviderTypeGoogle:
		return newGoogleProvider(config)
	case ProviderTypeVisicom:
		if config.APIKey == "" {
			return nil, errors.New("API key is required for Visicom provider")
		}
		return NewVisicomProvider(config.HTTPClient, config.BaseURL, config.APIKey, config.Logger), nil
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", config.Type)
	}
}

// newGoogleProvider creates a Google Maps geocoding provider.
func newGoogleProvider(config ProviderConfig) (Provider, error) {
	if config.APIKey == "" {
		return nil, errors.New("API key is required for Google provider")
	}

	// The maps client throttles to 50 QPS unless told otherwise; upstream calls are not rate limited here.
	clientOpts := []maps.ClientOption{
		maps.WithAPIKey(config.APIKey),
		maps.WithRateLimit(0),
	}
	// The maps client decodes error pages as JSON, so status codes are checked in the transport.
	hc, _ := config.HTTPClient.(*http.Client)
	clientOpts = append(clientOpts, maps.WithHTTPClient(upstream.WithStatusErrors(googleUpstream, hc)))
	if config.BaseURL != "" {
		clientOpts = append(clientOpts, maps.WithBaseURL(config.BaseURL))
	}

	client, err := maps.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Maps client: %w", err)
	}

	return NewGoogleProvider(client, config.Logger), nil
}
