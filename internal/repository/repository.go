package repository

import (
	"context"

	"storefront/internal/model"
)

// ProductRepository defines the interface for catalog data access operations.
// It satisfies catalog.Source so the Postgres mirror can stand in for the
// remote catalog.
type ProductRepository interface {
	// FetchPage retrieves up to limit products ordered by id, starting at
	// skip, together with the total number of products.
	FetchPage(ctx context.Context, limit, skip int) (*model.Page, error)

	// FetchOne retrieves a single product by its ID.
	FetchOne(ctx context.Context, id int) (*model.Product, error)

	// Upsert inserts products or replaces the ones that already exist.
	Upsert(ctx context.Context, products []model.Product) error
}

// Schema creates the products table used by the Postgres catalog.
const Schema = `
	CREATE TABLE IF NOT EXISTS products (
		id INTEGER PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price NUMERIC(10, 2) NOT NULL CHECK (price >= 0),
		thumbnail TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		availability_status TEXT NOT NULL DEFAULT '',
		images TEXT[] NOT NULL DEFAULT '{}'
	);
	CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);
`
