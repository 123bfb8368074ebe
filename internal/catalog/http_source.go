package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"storefront/internal/model"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// maxResponseBytes bounds how much of an upstream body is decoded.
const maxResponseBytes = 8 << 20

// HTTPSource reads a dummyjson-compatible catalog over HTTP.
type HTTPSource struct {
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

// NewHTTPClient returns an instrumented client with the given timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

// NewHTTPSource creates a source for the catalog rooted at baseURL
// (e.g. https://dummyjson.com).
func NewHTTPSource(baseURL string, client *http.Client, logger zerolog.Logger) *HTTPSource {
	if client == nil {
		client = NewHTTPClient(10 * time.Second)
	}
	return &HTTPSource{
		baseURL: baseURL,
		client:  client,
		logger:  logger.With().Str("component", "catalog-http").Logger(),
	}
}

// FetchPage issues GET <base>/products?limit=<limit>&skip=<skip>.
func (s *HTTPSource) FetchPage(ctx context.Context, limit, skip int) (*model.Page, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("skip", strconv.Itoa(skip))
	endpoint := s.baseURL + "/products?" + query.Encode()

	var page model.Page
	if err := s.get(ctx, endpoint, &page); err != nil {
		return nil, &model.FetchError{Op: "list", Status: statusOf(err), Err: model.ErrCatalogUnavailable, Cause: err}
	}

	return &page, nil
}

// FetchOne issues GET <base>/products/<id>.
func (s *HTTPSource) FetchOne(ctx context.Context, id int) (*model.Product, error) {
	endpoint := s.baseURL + "/products/" + strconv.Itoa(id)

	var product model.Product
	if err := s.get(ctx, endpoint, &product); err != nil {
		status := statusOf(err)
		if status == http.StatusNotFound {
			return nil, &model.FetchError{Op: "fetch one", ID: id, Status: status, Err: model.ErrProductNotFound}
		}
		return nil, &model.FetchError{Op: "fetch one", ID: id, Status: status, Err: model.ErrCatalogUnavailable, Cause: err}
	}

	return &product, nil
}

// statusError is returned by get for non-2xx responses.
type statusError struct {
	status int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.status)
}

func statusOf(err error) int {
	var se *statusError
	if errors.As(err, &se) {
		return se.status
	}
	return 0
}

// get fetches endpoint without any caching and decodes the JSON body into out.
func (s *HTTPSource) get(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Debug().Err(err).Str("url", endpoint).Msg("catalog request failed")
		return fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		s.logger.Debug().
			Str("url", endpoint).
			Int("status", resp.StatusCode).
			Msg("catalog returned non-success status")
		return &statusError{status: resp.StatusCode}
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		return fmt.Errorf("failed to decode catalog response: %w", err)
	}

	return nil
}
