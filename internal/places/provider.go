// Package places looks up amenities around a coordinate using an external
// places-search service and normalizes them into models.Place values.
package places

import (
	"context"
	"errors"

	"github.com/UnknownOlympus/citylens/internal/models"
)

// Provider finds places of a category around a centre point.
type Provider interface {
	FetchNearby(ctx context.Context, center models.Coordinates, category models.Category) ([]models.Place, error)
}

// Placeholders used when an element lacks the corresponding tags.
const (
	UnknownName    = "Unknown Name"
	UnknownAddress = "Address not available"
)

const (
	// DefaultRadiusM is the search radius around the city centre, in meters.
	DefaultRadiusM = 5000
	// OverpassBaseURL is the public Overpass interpreter endpoint.
	OverpassBaseURL = "https://overpass-api.de/api/interpreter"
)

// ErrEmptyCategory is returned when FetchNearby is called without a category.
var ErrEmptyCategory = errors.New("empty place category")
