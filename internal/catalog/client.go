package catalog

import (
	"context"
	"errors"
	"time"

	"storefront/internal/model"
	"storefront/internal/telemetry"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Client applies the storefront failure policy on top of a Source: list reads
// degrade to an empty page, single-product reads fail.
type Client struct {
	source  Source
	tracer  trace.Tracer
	metrics *telemetry.Metrics
	logger  zerolog.Logger
}

// NewClient creates a catalog client. metrics may be nil.
func NewClient(source Source, tracer trace.Tracer, metrics *telemetry.Metrics, logger zerolog.Logger) *Client {
	return &Client{
		source:  source,
		tracer:  tracer,
		metrics: metrics,
		logger:  logger.With().Str("component", "catalog-client").Logger(),
	}
}

// FetchPage returns the requested page of the catalog. It never fails: any
// source error is logged and an empty page is returned instead.
func (c *Client) FetchPage(ctx context.Context, page, pageSize int) model.Page {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	skip := Offset(page, pageSize)

	ctx, span := c.tracer.Start(ctx, "catalog.FetchPage", trace.WithAttributes(
		attribute.Int("catalog.page", page),
		attribute.Int("catalog.limit", pageSize),
		attribute.Int("catalog.skip", skip),
	))
	defer span.End()

	start := time.Now()
	result, err := c.source.FetchPage(ctx, pageSize, skip)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list fetch failed")
		c.metrics.ObserveFetch("page", telemetry.ResultError, time.Since(start))
		c.logger.Warn().
			Err(err).
			Int("page", page).
			Int("limit", pageSize).
			Int("skip", skip).
			Msg("list fetch failed, serving empty page")
		return model.EmptyPage()
	}
	c.metrics.ObserveFetch("page", telemetry.ResultSuccess, time.Since(start))

	if result == nil {
		return model.EmptyPage()
	}

	out := *result
	out.Normalize(pageSize)

	span.SetAttributes(
		attribute.Int("catalog.items", len(out.Items)),
		attribute.Int("catalog.total", out.Total),
	)

	c.logger.Debug().
		Int("page", page).
		Int("count", len(out.Items)).
		Int("total", out.Total).
		Msg("retrieved catalog page")

	return out
}

// FetchOne returns a single product. Failures are returned as *model.FetchError
// wrapping model.ErrProductNotFound or model.ErrCatalogUnavailable.
func (c *Client) FetchOne(ctx context.Context, id int) (*model.Product, error) {
	if id < 1 {
		return nil, model.ErrInvalidProductID
	}

	ctx, span := c.tracer.Start(ctx, "catalog.FetchOne", trace.WithAttributes(
		attribute.Int("catalog.product_id", id),
	))
	defer span.End()

	start := time.Now()
	product, err := c.source.FetchOne(ctx, id)
	if err == nil && product == nil {
		err = &model.FetchError{Op: "fetch one", ID: id, Err: model.ErrProductNotFound}
	}
	if err != nil {
		err = asFetchError(id, err)
		result := telemetry.ResultError
		if errors.Is(err, model.ErrProductNotFound) {
			result = telemetry.ResultNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "product fetch failed")
		c.metrics.ObserveFetch("one", result, time.Since(start))
		c.logger.Warn().Err(err).Int("product_id", id).Msg("product fetch failed")
		return nil, err
	}
	c.metrics.ObserveFetch("one", telemetry.ResultSuccess, time.Since(start))

	out := *product
	out.Normalize()
	return &out, nil
}

// asFetchError makes sure callers always see a *model.FetchError.
func asFetchError(id int, err error) error {
	var fe *model.FetchError
	if errors.As(err, &fe) {
		return err
	}
	if errors.Is(err, model.ErrProductNotFound) {
		return &model.FetchError{Op: "fetch one", ID: id, Err: model.ErrProductNotFound}
	}
	return &model.FetchError{Op: "fetch one", ID: id, Err: model.ErrCatalogUnavailable, Cause: err}
}
