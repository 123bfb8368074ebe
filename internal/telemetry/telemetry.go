package telemetry

import (
	"context"
	"fmt"

	"storefront/internal/config"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Telemetry owns the tracer provider for the process.
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	logger         zerolog.Logger
}

// New initialises tracing. When export is disabled the provider still records
// spans locally so trace ids propagate, but nothing leaves the process.
func New(ctx context.Context, cfg config.TelemetryConfig, logger zerolog.Logger) (*Telemetry, error) {
	logger = logger.With().Str("component", "telemetry").Logger()

	res := resource.NewSchemaless(
		attribute.String("service.name", cfg.ServiceName),
	)

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
	}

	if cfg.Enabled {
		exporter, err := otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(cfg.Endpoint),
			otlptracegrpc.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create trace exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}

	tp := sdktrace.NewTracerProvider(opts...)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Info().
		Bool("export_enabled", cfg.Enabled).
		Str("endpoint", cfg.Endpoint).
		Str("service_name", cfg.ServiceName).
		Msg("tracer provider initialised")

	return &Telemetry{
		TracerProvider: tp,
		logger:         logger,
	}, nil
}

// Tracer returns a named tracer from the provider.
func (t *Telemetry) Tracer(name string) trace.Tracer {
	return t.TracerProvider.Tracer(name)
}

// Shutdown flushes pending spans and stops the provider.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if err := t.TracerProvider.Shutdown(ctx); err != nil {
		t.logger.Error().Err(err).Msg("failed to shutdown tracer provider")
		return fmt.Errorf("failed to shutdown tracer provider: %w", err)
	}

	t.logger.Info().Msg("tracer provider shut down")
	return nil
}
