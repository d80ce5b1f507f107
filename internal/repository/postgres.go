package repository

import (
	"context"
	"fmt"
	"net"
	"net/url"

	"github.com/UnknownOlympus/citylens/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewDatabase builds a connection string from its parts and opens a pool.
func NewDatabase(ctx context.Context, host, port, user, password, name string) (*pgxpool.Pool, error) {
	if port == "" {
		port = "5432"
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, password),
		Host:     net.JoinHostPort(host, port),
		Path:     name,
		RawQuery: "sslmode=disable",
	}

	return Connect(ctx, dsn.String())
}

// Connect opens a pool for the given connection string and verifies it with a ping.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// EnsureSchema creates the search_history table if it does not exist yet.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS search_history (
			id           SERIAL PRIMARY KEY,
			city         TEXT NOT NULL,
			latitude     DOUBLE PRECISION NOT NULL DEFAULT 0,
			longitude    DOUBLE PRECISION NOT NULL DEFAULT 0,
			status       TEXT NOT NULL,
			error        TEXT NOT NULL DEFAULT '',
			places_found INTEGER NOT NULL DEFAULT 0,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`

	if _, err := r.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create search_history table: %w", err)
	}

	return nil
}

// RecordSearch stores the outcome of a single search.
func (r *Repository) RecordSearch(ctx context.Context, record models.SearchRecord) error {
	query := `
		INSERT INTO search_history (city, latitude, longitude, status, error, places_found)
		VALUES ($1, $2, $3, $4, $5, $6);
	`

	_, err := r.db.Exec(ctx, query,
		record.City,
		record.Center.Latitude,
		record.Center.Longitude,
		record.Status,
		record.Error,
		record.PlacesFound,
	)
	if err != nil {
		return fmt.Errorf("failed to insert search record: %w", err)
	}

	r.log.DebugContext(ctx, "Search recorded", "city", record.City, "status", record.Status)

	return nil
}

// RecentSearches returns the latest searches, newest first, up to limit rows.
func (r *Repository) RecentSearches(ctx context.Context, limit int) ([]models.SearchRecord, error) {
	query := `
		SELECT id, city, latitude, longitude, status, error, places_found, created_at
		FROM search_history
		ORDER BY created_at DESC, id DESC
		LIMIT $1;
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query search history: %w", err)
	}
	defer rows.Close()

	var records []models.SearchRecord
	for rows.Next() {
		var rec models.SearchRecord
		if errScan := rows.Scan(
			&rec.ID,
			&rec.City,
			&rec.Center.Latitude,
			&rec.Center.Longitude,
			&rec.Status,
			&rec.Error,
			&rec.PlacesFound,
			&rec.CreatedAt,
		); errScan != nil {
			return nil, fmt.Errorf("failed to scan search record: %w", errScan)
		}
		records = append(records, rec)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	return records, nil
}
