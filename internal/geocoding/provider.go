// Package geocoding resolves free-text city names to coordinates using one of
// several external geocoding services.
package geocoding

import (
	"context"
	"errors"
	"fmt"

	"github.com/UnknownOlympus/citylens/internal/models"
	"github.com/UnknownOlympus/citylens/internal/upstream"
)

// Provider is an interface that defines a method for geocoding a city name.
// The Geocode method takes a context and a city name as input,
// and returns the coordinates of the best match or an error.
type Provider interface {
	Geocode(ctx context.Context, city string) (*models.Coordinates, error)
}

// Common errors shared by all providers.
var (
	// ErrEmptyCity is returned when the city name is blank.
	ErrEmptyCity = errors.New("please enter a city name")
	// ErrCityNotFound is returned when the provider has no match for the name.
	ErrCityNotFound = errors.New("city not found")
	// ErrInvalidCoords is returned when the provider answers with coordinates
	// that cannot be parsed or are out of range. It wraps upstream.ErrDecode.
	ErrInvalidCoords = fmt.Errorf("%w: invalid coordinates", upstream.ErrDecode)
)

// validate rejects coordinates outside of the WGS84 ranges.
func validate(lat, lon float64) (*models.Coordinates, error) {
	if lat < -90 || lat > 90 {
		return nil, fmt.Errorf("%w: latitude %v out of range", ErrInvalidCoords, lat)
	}
	if lon < -180 || lon > 180 {
		return nil, fmt.Errorf("%w: longitude %v out of range", ErrInvalidCoords, lon)
	}

	return &models.Coordinates{Latitude: lat, Longitude: lon}, nil
}
