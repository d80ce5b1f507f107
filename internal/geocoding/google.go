package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/UnknownOlympus/citylens/internal/models"
	"github.com/UnknownOlympus/citylens/internal/upstream"
	"googlemaps.github.io/maps"
)

// googleUpstream names the Google Geocoding API in errors and metrics.
const googleUpstream = "google"

// Statuses the Geocoding API reports with HTTP 200 when it refuses a request.
var googleRejections = []string{
	"OVER_DAILY_LIMIT",
	"OVER_QUERY_LIMIT",
	"REQUEST_DENIED",
	"INVALID_REQUEST",
	"UNKNOWN_ERROR",
}

// GoogleProvider is a struct that holds the client for Google Maps API
// and a logger for logging purposes.
type GoogleProvider struct {
	client GoogleAPIClient // client is the Google Maps API client
	log    *slog.Logger    // log is the logger for logging operations
}

// GoogleAPIClient is the subset of *maps.Client used by GoogleProvider.
type GoogleAPIClient interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// NewGoogleProvider initializes a new GoogleProvider with the given client and logger.
func NewGoogleProvider(client GoogleAPIClient, log *slog.Logger) *GoogleProvider {
	return &GoogleProvider{client: client, log: log}
}

// Geocode returns the coordinates of the first Google Maps match for the city.
// The Google client reports "ZERO_RESULTS" as an empty slice, which yields ErrCityNotFound.
func (gp *GoogleProvider) Geocode(ctx context.Context, city string) (*models.Coordinates, error) {
	gp.log.DebugContext(ctx, "Geocoding using Google Maps", "city", city)

	req := maps.GeocodingRequest{Address: city}
	geocodeResponse, err := gp.client.Geocode(ctx, &req)
	if err != nil {
		return nil, googleError(err)
	}

	if len(geocodeResponse) == 0 {
		return nil, ErrCityNotFound
	}
	coords := geocodeResponse[0].Geometry.Location

	return validate(coords.Lat, coords.Lng)
}

// googleError maps errors of the maps client onto the upstream error kinds.
func googleError(err error) error {
	var (
		statusErr *upstream.StatusError
		urlErr    *url.Error
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)

	switch {
	case errors.As(err, &statusErr):
		return fmt.Errorf("failed to geocode city: %w", err)
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		return fmt.Errorf("%w: failed to decode %s response: %w", upstream.ErrDecode, googleUpstream, err)
	case errors.As(err, &urlErr), isGoogleRejection(err):
		return fmt.Errorf("%w: failed to geocode city: %w", upstream.ErrUnavailable, err)
	default:
		return fmt.Errorf("failed to geocode city: %w", err)
	}
}

func isGoogleRejection(err error) bool {
	msg := err.Error()
	for _, status := range googleRejections {
		if strings.HasPrefix(msg, "maps: "+status+" ") {
			return true
		}
	}

	return false
}
