package places

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/UnknownOlympus/citylens/internal/distance"
	"github.com/UnknownOlympus/citylens/internal/models"
	"github.com/UnknownOlympus/citylens/internal/upstream"
)

// OverpassProvider implements Provider on top of the OpenStreetMap Overpass API.
type OverpassProvider struct {
	fetcher *upstream.Fetcher
	baseURL string
	radiusM int
	log     *slog.Logger
}

type overpassElement struct {
	Lat  float64           `json:"lat"`
	Lon  float64           `json:"lon"`
	Tags map[string]string `json:"tags"`
}

// Elements is nil when the reply has no elements field, e.g. a timeout remark.
type overpassResponse struct {
	Elements *[]overpassElement `json:"elements"`
	Remark   string             `json:"remark"`
}

// NewOverpassProvider creates an Overpass provider. An empty baseURL selects
// OverpassBaseURL and a non-positive radius selects DefaultRadiusM.
func NewOverpassProvider(client upstream.HTTPClient, baseURL, userAgent string, radiusM int, log *slog.Logger) *OverpassProvider {
	if baseURL == "" {
		baseURL = OverpassBaseURL
	}
	if radiusM <= 0 {
		radiusM = DefaultRadiusM
	}

	return &OverpassProvider{
		fetcher: upstream.NewFetcher("overpass", client, userAgent, log),
		baseURL: baseURL,
		radiusM: radiusM,
		log:     log,
	}
}

// FetchNearby returns every node tagged amenity=category within the configured
// radius of center. Elements are mapped one to one in the order Overpass
// returns them; nothing is filtered, sorted or capped.
func (op *OverpassProvider) FetchNearby(
	ctx context.Context,
	center models.Coordinates,
	category models.Category,
) ([]models.Place, error) {
	if category == "" {
		return nil, ErrEmptyCategory
	}

	op.log.DebugContext(ctx, "Fetching nearby places", "category", category,
		"lat", center.Latitude, "lon", center.Longitude, "radius", op.radiusM)

	var resp overpassResponse
	err := op.fetcher.FetchJSON(ctx, op.baseURL, &upstream.Options{
		Method: http.MethodPost,
		Header: http.Header{"Content-Type": []string{"text/plain"}},
		Body:   BuildQuery(center, category, op.radiusM),
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Elements == nil {
		return nil, fmt.Errorf("%w: overpass response has no elements: %s", upstream.ErrDecode, resp.Remark)
	}

	result := make([]models.Place, 0, len(*resp.Elements))
	for _, el := range *resp.Elements {
		result = append(result, toPlace(center, el))
	}

	op.log.DebugContext(ctx, "Nearby places fetched", "category", category, "count", len(result))

	return result, nil
}

// BuildQuery renders the Overpass QL query for nodes of a category around center.
func BuildQuery(center models.Coordinates, category models.Category, radiusM int) string {
	return fmt.Sprintf("[out:json];\nnode[\"amenity\"=%s](around:%d,%s,%s);\nout body;\n",
		strconv.Quote(string(category)),
		radiusM,
		strconv.FormatFloat(center.Latitude, 'f', -1, 64),
		strconv.FormatFloat(center.Longitude, 'f', -1, 64),
	)
}

func toPlace(center models.Coordinates, el overpassElement) models.Place {
	name := el.Tags["name"]
	if name == "" {
		name = UnknownName
	}

	address := el.Tags["addr:full"]
	if address == "" {
		address = el.Tags["addr:street"]
	}
	if address == "" {
		address = UnknownAddress
	}

	return models.Place{
		Name:       name,
		Address:    address,
		DistanceKm: distance.Haversine(center.Latitude, center.Longitude, el.Lat, el.Lon),
	}
}
