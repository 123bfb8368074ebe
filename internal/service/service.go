package service

import (
	"context"

	"storefront/internal/model"
)

// PageFetcher loads one page of the catalog. Implementations never fail; a
// failed read yields an empty page.
type PageFetcher interface {
	FetchPage(ctx context.Context, page, pageSize int) model.Page
}

// ProductFetcher loads a single product.
type ProductFetcher interface {
	FetchOne(ctx context.Context, id int) (*model.Product, error)
}

// Catalog is the read side of the catalog client used by the views.
type Catalog interface {
	PageFetcher
	ProductFetcher
}

// ImagePolicy decides whether a remote image may be rendered.
type ImagePolicy interface {
	Allowed(rawURL string) bool
}

// ProductDetails renders the detail view of a single product.
type ProductDetails interface {
	// Render fetches the product and prepares it for display. Errors are
	// terminal for the request and must be shown to the user.
	Render(ctx context.Context, id int) (*ProductDetail, error)
}
