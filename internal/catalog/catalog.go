// Package catalog reads products from the configured catalog source.
package catalog

import (
	"context"
	"math"

	"storefront/internal/model"
)

// DefaultPageSize is the number of products shown per list page.
const DefaultPageSize = 10

// Source is a backend able to serve catalog pages and single products.
type Source interface {
	// FetchPage returns at most limit products starting at skip, plus the
	// catalog total.
	FetchPage(ctx context.Context, limit, skip int) (*model.Page, error)

	// FetchOne returns the product with the given ID. A missing product is
	// reported as an error wrapping model.ErrProductNotFound.
	FetchOne(ctx context.Context, id int) (*model.Product, error)
}

// Offset converts a 1-based page number into a skip count. A skip that would
// overflow saturates at math.MaxInt, which every source treats as past the end.
func Offset(page, pageSize int) int {
	if page < 1 {
		page = 1
	}
	if pageSize > 0 && page-1 > math.MaxInt/pageSize {
		return math.MaxInt
	}
	return (page - 1) * pageSize
}
