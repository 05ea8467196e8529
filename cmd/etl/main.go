package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/vies-address-etl/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/vies-address-etl/internal/adapter/kafka"
	"github.com/couchcryptid/vies-address-etl/internal/adapter/mapbox"
	"github.com/couchcryptid/vies-address-etl/internal/config"
	"github.com/couchcryptid/vies-address-etl/internal/domain"
	"github.com/couchcryptid/vies-address-etl/internal/observability"
	"github.com/couchcryptid/vies-address-etl/internal/pipeline"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	geocoder, err := newGeocoder(cfg, logger, metrics)
	if err != nil {
		logger.Error("failed to initialize geocoder", "error", err)
		os.Exit(1)
	}

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	transformer := pipeline.NewTransformer(cfg.ParserFlags, geocoder, logger, metrics)

	p := pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, cfg.ParserFlags, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := p.Run(gctx); err != nil {
			return fmt.Errorf("pipeline: %w", err)
		}
		return nil
	})

	// Either a signal or a failed component starts the shutdown.
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("service stopped with error", "error", err)
	}

	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete")
}

// newGeocoder returns nil when geocoding is disabled (MAPBOX_ENABLED / MAPBOX_TOKEN).
func newGeocoder(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) (domain.Geocoder, error) {
	if !cfg.MapboxEnabled {
		logger.Info("mapbox geocoding disabled")
		return nil, nil
	}

	client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, cfg.MapboxRateLimit, logger, metrics)
	cached, err := mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
	if err != nil {
		return nil, err
	}
	metrics.GeocodeEnabled.Set(1)
	logger.Info("mapbox geocoding enabled",
		"cache_size", cfg.MapboxCacheSize,
		"timeout", cfg.MapboxTimeout,
		"rate_limit_per_minute", cfg.MapboxRateLimit,
	)
	return cached, nil
}
