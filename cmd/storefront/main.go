package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handler"
	"storefront/internal/imagehost"
	"storefront/internal/model"
	"storefront/internal/render"
	"storefront/internal/repository"
	"storefront/internal/router"
	"storefront/internal/service"
	"storefront/internal/snapshot"
	"storefront/internal/telemetry"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)
	logger.Info().
		Str("backend", cfg.Catalog.Backend).
		Str("render_mode", cfg.Render.Mode).
		Msg("starting storefront server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tel, err := telemetry.New(ctx, cfg.Telemetry, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown telemetry")
		}
	}()

	metrics := telemetry.NewMetrics()

	source, closeSource, err := newSource(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize catalog source: %w", err)
	}
	defer closeSource()

	client := catalog.NewClient(source, tel.Tracer("storefront/catalog"), metrics, logger)

	policy := imagehost.NewPolicy(cfg.Images)
	renderer, err := render.New(policy)
	if err != nil {
		return fmt.Errorf("failed to initialize templates: %w", err)
	}

	details := service.NewDetailView(client, policy, logger)
	productHandler := handler.NewProductHandler(client, details, renderer, service.ListOptions{
		PageSize: cfg.Catalog.PageSize,
		Mode:     model.RenderMode(cfg.Render.Mode),
	}, logger)

	images := imagehost.NewProxy(policy, catalog.NewHTTPClient(cfg.Catalog.RequestTimeout()), logger)
	mux := router.New(productHandler, images, metrics, logger)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      otelhttp.NewHandler(mux, "storefront"),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// newSource builds the configured catalog backend. The returned func
// releases whatever the backend holds.
func newSource(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (catalog.Source, func(), error) {
	noop := func() {}

	switch cfg.Catalog.Backend {
	case config.BackendPostgres:
		pool, err := database.NewPool(ctx, cfg.Database, repository.Schema, logger)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to initialize database: %w", err)
		}
		return repository.NewProductRepository(pool, logger), pool.Close, nil

	case config.BackendSnapshot:
		fileLoader := snapshot.NewFileLoader(logger)
		var s3Loader snapshot.Loader

		if cfg.S3.Enabled {
			loader, err := snapshot.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
			if err != nil {
				logger.Warn().
					Err(err).
					Msg("failed to initialise S3 loader, falling back to local file system only")
			} else {
				s3Loader = loader
			}
		} else {
			logger.Info().Msg("using local file system for the catalog snapshot (S3 disabled)")
		}

		loader := snapshot.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, cfg.S3.Enabled, logger)
		src, err := snapshot.Load(ctx, loader, cfg.Snapshot.Path, logger)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to load catalog snapshot: %w", err)
		}
		return src, noop, nil

	default:
		client := catalog.NewHTTPClient(cfg.Catalog.RequestTimeout())
		return catalog.NewHTTPSource(cfg.Catalog.BaseURL, client, logger), noop, nil
	}
}
