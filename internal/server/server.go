// Package server exposes city searches over HTTP: a JSON API, an HTML page,
// health checks and Prometheus metrics.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/UnknownOlympus/citylens/internal/models"
	"github.com/UnknownOlympus/citylens/internal/repository"
	"github.com/UnknownOlympus/citylens/internal/service"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// Searcher runs a city search.
type Searcher interface {
	Search(ctx context.Context, city string) (*models.SearchResult, error)
	Categories() []models.Category
}

// Pinger checks a dependency for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	log      *slog.Logger
	searcher Searcher
	history  repository.Interface // nil when the search history is disabled
	db       Pinger               // nil when no database is configured
	reg      *prometheus.Registry
}

// New creates a Server. history and db may be nil.
func New(log *slog.Logger, searcher Searcher, history repository.Interface, db Pinger, reg *prometheus.Registry) *Server {
	return &Server{log: log, searcher: searcher, history: history, db: db, reg: reg}
}

// Handler returns the router with every route registered.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/", s.handlePage).Methods(http.MethodGet)
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/search", s.handleSearch).Methods(http.MethodGet)
	api.HandleFunc("/searches", s.handleHistory).Methods(http.MethodGet)

	return router
}

type errorResponse struct {
	Error string            `json:"error"`
	Kind  service.ErrorKind `json:"kind"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	result, err := s.searcher.Search(ctx, r.URL.Query().Get("city"))
	if err != nil {
		kind := service.Classify(err)
		s.writeJSON(ctx, w, statusFor(kind), errorResponse{Error: err.Error(), Kind: kind})
		return
	}

	s.writeJSON(ctx, w, http.StatusOK, result)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if s.history == nil {
		s.writeJSON(ctx, w, http.StatusNotFound, errorResponse{
			Error: "search history is disabled",
			Kind:  service.KindNotFound,
		})
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			s.writeJSON(ctx, w, http.StatusBadRequest, errorResponse{
				Error: "limit must be a positive integer",
				Kind:  service.KindInvalidInput,
			})
			return
		}
		limit = min(parsed, maxHistoryLimit)
	}

	records, err := s.history.RecentSearches(ctx, limit)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to read search history", "error", err)
		s.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{
			Error: "failed to read search history",
			Kind:  service.KindInternal,
		})
		return
	}
	if records == nil {
		records = []models.SearchRecord{}
	}

	s.writeJSON(ctx, w, http.StatusOK, records)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s.log.DebugContext(ctx, "Performing health checks...")

	status, body := http.StatusOK, "OK"
	if s.db != nil {
		if err := s.db.Ping(ctx); err != nil {
			status, body = http.StatusServiceUnavailable, "DB ping failed"
		}
	}

	w.WriteHeader(status)
	if _, err := w.Write([]byte(body)); err != nil {
		s.log.ErrorContext(ctx, "failed to write reply", "error", err)
	}

	s.log.DebugContext(ctx, "Health checks completed", "status", status)
}

func (s *Server) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && !errors.Is(err, context.Canceled) {
		s.log.ErrorContext(ctx, "failed to write reply", "error", err)
	}
}

func statusFor(kind service.ErrorKind) int {
	switch kind {
	case service.KindInvalidInput:
		return http.StatusBadRequest
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindUpstream, service.KindMalformed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
