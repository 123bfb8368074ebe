package service

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// Slide is one image of the product gallery.
type Slide struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

// ProductDetail is a product prepared for the detail page.
type ProductDetail struct {
	Product   model.Product `json:"product"`
	Badge     model.Badge   `json:"badge"`
	PriceText string        `json:"priceText"`
	Slides    []Slide       `json:"slides"`
	// Carousel is set when there is more than one slide; otherwise the page
	// shows a single image (or none).
	Carousel bool `json:"carousel"`
}

// detailView implements ProductDetails.
type detailView struct {
	catalog ProductFetcher
	images  ImagePolicy
	logger  zerolog.Logger
}

// NewDetailView creates the product detail view. images may be nil, in which
// case every image URL is accepted.
func NewDetailView(catalog ProductFetcher, images ImagePolicy, logger zerolog.Logger) ProductDetails {
	return &detailView{
		catalog: catalog,
		images:  images,
		logger:  logger.With().Str("component", "detail-view").Logger(),
	}
}

// Render fetches a product and builds its detail presentation.
func (v *detailView) Render(ctx context.Context, id int) (*ProductDetail, error) {
	product, err := v.catalog.FetchOne(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrProductNotFound) {
			v.logger.Debug().Int("product_id", id).Msg("product not found")
		} else {
			v.logger.Error().Err(err).Int("product_id", id).Msg("failed to load product")
		}
		return nil, fmt.Errorf("failed to render product %d: %w", id, err)
	}

	slides := v.slides(product)

	return &ProductDetail{
		Product:   *product,
		Badge:     model.AvailabilityBadge(product.AvailabilityStatus),
		PriceText: FormatPrice(product.Price),
		Slides:    slides,
		Carousel:  len(slides) > 1,
	}, nil
}

// slides builds the gallery from the product images, falling back to the
// thumbnail when there are none.
func (v *detailView) slides(p *model.Product) []Slide {
	sources := p.Images
	if len(sources) == 0 && p.Thumbnail != "" {
		sources = []string{p.Thumbnail}
	}

	out := make([]Slide, 0, len(sources))
	for _, src := range sources {
		if src == "" {
			continue
		}
		if v.images != nil && !v.images.Allowed(src) {
			v.logger.Debug().Str("image", src).Msg("skipping image outside allow-list")
			continue
		}
		out = append(out, Slide{
			URL: src,
			Alt: fmt.Sprintf("%s Image %d", p.Title, len(out)+1),
		})
	}
	return out
}
