// Command catalogctl moves catalog data between the storefront backends.
//
//	catalogctl export -out data/catalog.json.gz   remote catalog -> snapshot file
//	catalogctl seed -in data/catalog.json.gz      snapshot file -> PostgreSQL
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/repository"
	"storefront/internal/snapshot"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: catalogctl <export|seed> [flags]")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := config.NewLogger(cfg.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch args[0] {
	case "export":
		fs := flag.NewFlagSet("export", flag.ContinueOnError)
		out := fs.String("out", cfg.Snapshot.Path, "snapshot file to write")
		batch := fs.Int("batch", snapshot.ExportBatchSize, "products per request")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		return export(ctx, cfg, *out, *batch, logger)

	case "seed":
		fs := flag.NewFlagSet("seed", flag.ContinueOnError)
		in := fs.String("in", cfg.Snapshot.Path, "snapshot file to read")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		return seed(ctx, cfg, *in, logger)

	default:
		return fmt.Errorf("unknown command %q (must be export or seed)", args[0])
	}
}

func export(ctx context.Context, cfg *config.Config, out string, batch int, logger zerolog.Logger) error {
	src := catalog.NewHTTPSource(cfg.Catalog.BaseURL, catalog.NewHTTPClient(cfg.Catalog.RequestTimeout()), logger)

	page, err := snapshot.Export(ctx, src, batch)
	if err != nil {
		return err
	}

	if err := snapshot.WriteFile(out, page); err != nil {
		return err
	}

	logger.Info().
		Str("file", out).
		Int("products", len(page.Items)).
		Msg("catalog snapshot written")

	return nil
}

func seed(ctx context.Context, cfg *config.Config, in string, logger zerolog.Logger) error {
	page, err := snapshot.NewFileLoader(logger).Load(ctx, in)
	if err != nil {
		return err
	}

	pool, err := database.NewPool(ctx, cfg.Database, repository.Schema, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := repository.NewProductRepository(pool, logger).Upsert(ctx, page.Items); err != nil {
		return err
	}

	logger.Info().
		Str("file", in).
		Int("products", len(page.Items)).
		Msg("catalog seeded")

	return nil
}
