package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/UnknownOlympus/citylens/internal/geocoding"
	"github.com/UnknownOlympus/citylens/internal/metrics"
	"github.com/UnknownOlympus/citylens/internal/models"
	"github.com/UnknownOlympus/citylens/internal/places"
	"github.com/UnknownOlympus/citylens/internal/repository"
	"github.com/UnknownOlympus/citylens/internal/upstream"
	"golang.org/x/sync/errgroup"
)

const (
	statusSuccess = "success"
	statusFailure = "failure"
)

// SearchService resolves a city and gathers the places around it,
// including logging, metrics tracking and an optional search history.
type SearchService struct {
	log          *slog.Logger         // Logger for logging service activities
	geocoder     geocoding.Provider   // Resolves city names to coordinates
	places       places.Provider      // Finds places around coordinates
	geocoderName string               // Name of the geocoder for metrics labeling
	placesName   string               // Name of the places provider for metrics labeling
	categories   []models.Category    // Categories queried for every search
	metrics      *metrics.Metrics     // Metrics for tracking service performance
	history      repository.Interface // Search history; nil disables recording
}

// NewSearchService creates a new instance of SearchService.
// An empty categories list selects models.DefaultCategories and a nil history
// disables recording of searches.
func NewSearchService(
	log *slog.Logger,
	geocoder geocoding.Provider,
	geocoderName string,
	placesProvider places.Provider,
	placesName string,
	categories []models.Category,
	metrics *metrics.Metrics,
	history repository.Interface,
) *SearchService {
	if len(categories) == 0 {
		categories = models.DefaultCategories
	}

	return &SearchService{
		log:          log,
		geocoder:     geocoder,
		places:       placesProvider,
		geocoderName: geocoderName,
		placesName:   placesName,
		categories:   categories,
		metrics:      metrics,
		history:      history,
	}
}

// Categories returns the categories queried for every search, in display order.
func (ss *SearchService) Categories() []models.Category {
	return ss.categories
}

// Search resolves city and fetches every configured category around it concurrently.
//
// If geocoding fails no places request is issued. If any category fails the whole
// search fails and results of the other categories are discarded.
func (ss *SearchService) Search(ctx context.Context, city string) (*models.SearchResult, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, geocoding.ErrEmptyCity
	}

	ss.metrics.SearchesInFlight.Inc()
	defer ss.metrics.SearchesInFlight.Dec()

	result, err := ss.search(ctx, city)
	ss.record(ctx, city, result, err)

	if err != nil {
		ss.metrics.Searches.WithLabelValues(statusFailure).Inc()
		ss.log.WarnContext(ctx, "Search failed", "city", city, "error", err)
		return nil, err
	}

	ss.metrics.Searches.WithLabelValues(statusSuccess).Inc()
	for category, found := range result.Places {
		ss.metrics.PlacesReturned.WithLabelValues(string(category)).Add(float64(len(found)))
	}

	return result, nil
}

func (ss *SearchService) search(ctx context.Context, city string) (*models.SearchResult, error) {
	startTime := time.Now()
	center, err := ss.geocoder.Geocode(ctx, city)
	ss.observe(ss.geocoderName, startTime, err)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve city %q: %w", city, err)
	}

	ss.log.DebugContext(ctx, "City resolved", "city", city, "lat", center.Latitude, "lon", center.Longitude)

	found := make([][]models.Place, len(ss.categories))
	grp, grpCtx := errgroup.WithContext(ctx)

	for idx, category := range ss.categories {
		grp.Go(func() error {
			start := time.Now()
			nearby, errFetch := ss.places.FetchNearby(grpCtx, *center, category)
			ss.observe(ss.placesName, start, errFetch)
			if errFetch != nil {
				return fmt.Errorf("failed to fetch %s places: %w", category, errFetch)
			}
			found[idx] = nearby
			return nil
		})
	}

	if err = grp.Wait(); err != nil {
		return nil, err
	}

	result := &models.SearchResult{
		City:   city,
		Center: *center,
		Places: make(map[models.Category][]models.Place, len(ss.categories)),
	}
	for idx, category := range ss.categories {
		result.Places[category] = found[idx]
	}

	return result, nil
}

// observe records the duration of an upstream call and counts upstream failures.
// Unknown cities and cancellations caused by a sibling failure are not upstream errors.
func (ss *SearchService) observe(name string, start time.Time, err error) {
	ss.metrics.RequestSeconds.WithLabelValues(name).Observe(time.Since(start).Seconds())
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, geocoding.ErrCityNotFound) {
		var statusErr *upstream.StatusError
		if errors.As(err, &statusErr) {
			name = statusErr.Upstream
		}
		ss.metrics.UpstreamErrors.WithLabelValues(name).Inc()
	}
}

// record stores the search outcome in the history. Failures are logged only.
func (ss *SearchService) record(ctx context.Context, city string, result *models.SearchResult, searchErr error) {
	if ss.history == nil {
		return
	}

	rec := models.SearchRecord{City: city, Status: statusSuccess}
	if searchErr != nil {
		rec.Status = statusFailure
		rec.Error = searchErr.Error()
	} else {
		rec.Center = result.Center
		for _, found := range result.Places {
			rec.PlacesFound += len(found)
		}
	}

	if err := ss.history.RecordSearch(ctx, rec); err != nil {
		ss.log.ErrorContext(ctx, "Failed to record search", "city", city, "error", err)
	}
}
