package snapshot

import (
	"context"

	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// Source serves pages and single products from an in-memory snapshot.
// It is read-only after construction and safe for concurrent use.
type Source struct {
	items  []model.Product
	byID   map[int]int
	total  int
	logger zerolog.Logger
}

// NewSource indexes a loaded snapshot.
func NewSource(page *model.Page, logger zerolog.Logger) *Source {
	s := &Source{
		items:  []model.Product{},
		byID:   make(map[int]int),
		logger: logger.With().Str("component", "snapshot-source").Logger(),
	}

	if page == nil {
		return s
	}

	s.items = page.Items
	s.total = page.Total
	for i, p := range page.Items {
		if _, dup := s.byID[p.ID]; dup {
			s.logger.Warn().Int("product_id", p.ID).Msg("duplicate product id in snapshot, keeping the first")
			continue
		}
		s.byID[p.ID] = i
	}

	s.logger.Info().
		Int("products", len(s.items)).
		Int("total", s.total).
		Msg("snapshot indexed")

	return s
}

// Load reads a snapshot through loader and indexes it.
func Load(ctx context.Context, loader Loader, path string, logger zerolog.Logger) (*Source, error) {
	page, err := loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	return NewSource(page, logger), nil
}

// FetchPage returns up to limit products starting at skip.
func (s *Source) FetchPage(ctx context.Context, limit, skip int) (*model.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if skip < 0 {
		skip = 0
	}
	if skip > len(s.items) {
		skip = len(s.items)
	}
	end := skip + limit
	if limit < 0 || end > len(s.items) {
		end = len(s.items)
	}

	items := make([]model.Product, end-skip)
	copy(items, s.items[skip:end])

	return &model.Page{Items: items, Total: s.total}, nil
}

// FetchOne returns the product with id.
func (s *Source) FetchOne(ctx context.Context, id int) (*model.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	i, ok := s.byID[id]
	if !ok {
		return nil, &model.FetchError{Op: "fetch one", ID: id, Err: model.ErrProductNotFound}
	}

	product := s.items[i]
	return &product, nil
}
