package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UnknownOlympus/citylens/internal/config"
	"github.com/UnknownOlympus/citylens/internal/geocoding"
	"github.com/UnknownOlympus/citylens/internal/metrics"
	"github.com/UnknownOlympus/citylens/internal/models"
	"github.com/UnknownOlympus/citylens/internal/places"
	"github.com/UnknownOlympus/citylens/internal/repository"
	"github.com/UnknownOlympus/citylens/internal/server"
	"github.com/UnknownOlympus/citylens/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// main is the entry point of the application.
func main() {
	// Cancelled on SIGINT/SIGTERM to start a graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()
	logger := setupLogger(cfg.Env)

	// Separate registry so only our collectors are exported.
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	var (
		history repository.Interface
		pinger  server.Pinger
	)
	if cfg.Database.Enabled() {
		dtb, err := repository.NewDatabase(ctx,
			cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Name,
		)
		if err != nil {
			log.Fatalf("Failed to connect to DB: %v", err)
		}
		defer dtb.Close()

		repo := repository.NewRepository(dtb, logger)
		if err = repo.EnsureSchema(ctx); err != nil {
			log.Fatalf("Failed to prepare DB schema: %v", err)
		}
		history, pinger = repo, dtb
		logger.InfoContext(ctx, "Search history enabled", "host", cfg.Database.Host)
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	geoProvider, err := geocoding.NewProvider(geocoding.ProviderConfig{
		Type:       geocoding.ProviderType(cfg.GeocoderType),
		APIKey:     cfg.GeocoderKey,
		BaseURL:    cfg.GeocoderURL,
		UserAgent:  cfg.UserAgent,
		HTTPClient: httpClient,
		Logger:     logger,
	})
	if err != nil {
		log.Fatalf("Failed to create geocoding provider: %v", err)
	}
	logger.InfoContext(ctx, "Geocoding provider initialized", "type", cfg.GeocoderType)

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = geocoding.DefaultUserAgent
	}
	placesProvider := places.NewOverpassProvider(httpClient, cfg.PlacesURL, userAgent, cfg.SearchRadius, logger)

	categories := make([]models.Category, 0, len(cfg.Categories))
	for _, category := range cfg.Categories {
		categories = append(categories, models.Category(category))
	}

	searchService := service.NewSearchService(
		logger,
		geoProvider,
		cfg.GeocoderType, // Provider name for metrics
		placesProvider,
		"overpass",
		categories,
		appMetrics,
		history,
	)

	srv := server.New(logger, searchService, history, pinger, reg)

	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	runServer(ctx, logger, srv.Handler(), cfg.Port)

	logger.InfoContext(ctx, "Application stopped gracefully.")
}

// runServer serves handler on the given port and blocks until ctx is cancelled
// and in-flight requests are drained, or until the server fails.
func runServer(ctx context.Context, log *slog.Logger, handler http.Handler, port int) {
	const (
		readTimeout     = 5 * time.Second
		shutdownTimeout = 10 * time.Second
	)

	server := &http.Server{
		Addr:        fmt.Sprintf(":%d", port),
		Handler:     handler,
		ReadTimeout: readTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.InfoContext(ctx, "Starting HTTP server", "port", port)
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			log.ErrorContext(ctx, "HTTP server failed", "error", err)
		}
	case <-ctx.Done():
		log.InfoContext(ctx, "Shutdown signal received. Stopping application...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.ErrorContext(shutdownCtx, "HTTP server shutdown failed", "error", err)
		}
	}
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	dropTime := func(_ []string, a slog.Attr) slog.Attr {
		if a.Key == slog.TimeKey {
			return slog.Attr{}
		}
		return a
	}

	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level:     slog.LevelDebug,
			AddSource: true,
		}))
	case envDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	case envProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:       slog.LevelWarn,
			ReplaceAttr: dropTime,
		}))
	default:
		logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:       slog.LevelError,
			ReplaceAttr: dropTime,
		}))
		logger.Error(
			"The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
		return logger
	}
}
