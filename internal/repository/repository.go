package repository

import (
	"context"
	"log/slog"

	"github.com/UnknownOlympus/citylens/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Database is the subset of *pgxpool.Pool used by Repository.
type Database interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type Repository struct {
	db  Database
	log *slog.Logger
}

// Interface is the search history store used by the search service.
type Interface interface {
	RecordSearch(ctx context.Context, record models.SearchRecord) error
	RecentSearches(ctx context.Context, limit int) ([]models.SearchRecord, error)
}

// NewRepository creates a new instance of Repository with the provided Database.
// It returns a pointer to the newly created Repository.
func NewRepository(db Database, log *slog.Logger) *Repository {
	return &Repository{db: db, log: log}
}
