package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Config holds the configuration settings for the citylens service.
//
// Fields:
// - Env: The current environment (e.g., local, development, production).
// - Port: The port of the HTTP server (API, page, health and metrics).
// - GeocoderType: The geocoding provider to use (nominatim, google, visicom).
// - GeocoderKey: The API key for the geocoding provider (required for google and visicom).
// - GeocoderURL: Optional endpoint override for the geocoding provider.
// - PlacesURL: Optional endpoint override for the Overpass interpreter.
// - SearchRadius: Radius in meters around the city centre.
// - HTTPTimeout: Timeout of upstream HTTP calls, zero means none.
// - UserAgent: User-Agent sent to OpenStreetMap services.
// - Categories: Amenity categories queried for every search.
// - Database: Configuration settings for the PostgreSQL search history.
type Config struct {
	Env          string
	Port         int
	GeocoderType string
	GeocoderKey  string
	GeocoderURL  string
	PlacesURL    string
	SearchRadius int
	HTTPTimeout  time.Duration
	UserAgent    string
	Categories   []string
	Database     PostgresConfig
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
// An empty Host disables the search history.
type PostgresConfig struct {
	Host     string // Host is the database server address.
	Port     string // Port is the database server port.
	User     string // User is the database user.
	Password string // Password is the database user's password.
	Name     string // Name is the name of the database.
}

// Enabled reports whether a database is configured.
func (p PostgresConfig) Enabled() bool {
	return p.Host != ""
}

// MustLoad reads the configuration from the environment and panics on invalid values.
// Variables from envFiles (".env" when none is given) are loaded first without
// overriding variables that are already set.
func MustLoad(envFiles ...string) *Config {
	_ = godotenv.Load(envFiles...)

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("CITYLENS_ENV", "production")
	v.SetDefault("CITYLENS_PORT", "8080")
	v.SetDefault("CITYLENS_GEOCODER_TYPE", "nominatim")
	v.SetDefault("CITYLENS_SEARCH_RADIUS", "5000")
	v.SetDefault("CITYLENS_HTTP_TIMEOUT", "0s")
	v.SetDefault("CITYLENS_CATEGORIES", "restaurant,atm,cinema")
	v.SetDefault("DB_PORT", "5432")

	port, err := cast.ToIntE(v.GetString("CITYLENS_PORT"))
	if err != nil {
		panic("failed to parse port for http server from configuration")
	}

	radius, err := cast.ToIntE(v.GetString("CITYLENS_SEARCH_RADIUS"))
	if err != nil || radius <= 0 {
		panic("failed to parse search radius from configuration, must be a positive integer")
	}

	timeout, err := cast.ToDurationE(v.GetString("CITYLENS_HTTP_TIMEOUT"))
	if err != nil {
		panic("failed to parse http timeout from configuration")
	}

	return &Config{
		Env:          v.GetString("CITYLENS_ENV"),
		Port:         port,
		GeocoderType: v.GetString("CITYLENS_GEOCODER_TYPE"),
		GeocoderKey:  v.GetString("CITYLENS_GEOCODER_KEY"),
		GeocoderURL:  v.GetString("CITYLENS_GEOCODER_URL"),
		PlacesURL:    v.GetString("CITYLENS_PLACES_URL"),
		SearchRadius: radius,
		HTTPTimeout:  timeout,
		UserAgent:    v.GetString("CITYLENS_USER_AGENT"),
		Categories:   splitList(v.GetString("CITYLENS_CATEGORIES")),
		Database: PostgresConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USERNAME"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
		},
	}
}

func splitList(raw string) []string {
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}

	return items
}
