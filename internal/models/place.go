package models

import "time"

// Category is an amenity tag used to scope a places query (e.g. "restaurant").
type Category string

const (
	CategoryRestaurant Category = "restaurant"
	CategoryATM        Category = "atm"
	CategoryCinema     Category = "cinema"
)

// DefaultCategories is the set of categories queried for every search.
var DefaultCategories = []Category{CategoryRestaurant, CategoryATM, CategoryCinema}

// Title returns the section heading shown for the category.
func (c Category) Title() string {
	switch c {
	case CategoryRestaurant:
		return "Restaurants"
	case CategoryATM:
		return "ATMs"
	case CategoryCinema:
		return "Movie Theaters"
	default:
		return string(c)
	}
}

// Place is a normalized amenity found near the searched city.
type Place struct {
	Name       string  `json:"name"`
	Address    string  `json:"address"`
	DistanceKm float64 `json:"distance_km"` // Distance to the city centre, rounded to 2 decimals.
}

// SearchResult groups the places found around a resolved city by category.
// Each slice keeps the order returned by the places provider.
type SearchResult struct {
	City   string               `json:"city"`
	Center Coordinates          `json:"center"`
	Places map[Category][]Place `json:"places"`
}

// SearchRecord is a single entry of the search history.
type SearchRecord struct {
	ID          int         `json:"id"`           // ID is the unique identifier of the record.
	City        string      `json:"city"`         // City is the trimmed name that was searched.
	Center      Coordinates `json:"center"`       // Center is zero when the city was not resolved.
	Status      string      `json:"status"`       // Status is "success" or "failure".
	Error       string      `json:"error"`        // Error holds the failure message, empty on success.
	PlacesFound int         `json:"places_found"` // PlacesFound is the total number of places across categories.
	CreatedAt   time.Time   `json:"created_at"`   // CreatedAt is set by the database.
}
