package repository

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const productColumns = `
	id, title, description, price::float8, thumbnail, category,
	availability_status, COALESCE(images, '{}')
`

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

// FetchPage retrieves one page of products ordered by id.
func (r *productRepository) FetchPage(ctx context.Context, limit, skip int) (*model.Page, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&total); err != nil {
		r.logger.Error().Err(err).Msg("failed to count products")
		return nil, unavailable("list", 0, fmt.Errorf("failed to count products: %w", err))
	}

	query := `SELECT ` + productColumns + `
		FROM products
		ORDER BY id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, skip)
	if err != nil {
		r.logger.Error().Err(err).
			Int("limit", limit).
			Int("skip", skip).
			Msg("failed to query products")
		return nil, unavailable("list", 0, fmt.Errorf("failed to query products: %w", err))
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, unavailable("list", 0, fmt.Errorf("failed to scan product: %w", err))
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, unavailable("list", 0, fmt.Errorf("error iterating products: %w", err))
	}

	return &model.Page{Items: products, Total: total}, nil
}

// FetchOne retrieves a single product by its ID.
func (r *productRepository) FetchOne(ctx context.Context, id int) (*model.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products
		WHERE id = $1
	`

	p, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int("product_id", id).Msg("product not found")
			return nil, &model.FetchError{Op: "fetch one", ID: id, Err: model.ErrProductNotFound}
		}
		r.logger.Error().Err(err).Int("product_id", id).Msg("failed to query product")
		return nil, unavailable("fetch one", id, fmt.Errorf("failed to query product: %w", err))
	}

	return &p, nil
}

// Upsert writes products in a single transaction.
func (r *productRepository) Upsert(ctx context.Context, products []model.Product) error {
	if len(products) == 0 {
		return nil
	}

	query := `
		INSERT INTO products (id, title, description, price, thumbnail, category, availability_status, images)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			thumbnail = EXCLUDED.thumbnail,
			category = EXCLUDED.category,
			availability_status = EXCLUDED.availability_status,
			images = EXCLUDED.images
	`

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	batch := &pgx.Batch{}
	for _, p := range products {
		p.Normalize()
		batch.Queue(query, p.ID, p.Title, p.Description, p.Price, p.Thumbnail, p.Category, p.AvailabilityStatus, p.Images)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		r.logger.Error().Err(err).Int("count", len(products)).Msg("failed to upsert products")
		return fmt.Errorf("failed to upsert products: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.logger.Info().Int("count", len(products)).Msg("products upserted")
	return nil
}

func scanProduct(row pgx.Row) (model.Product, error) {
	var p model.Product
	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.Price,
		&p.Thumbnail,
		&p.Category,
		&p.AvailabilityStatus,
		&p.Images,
	)
	return p, err
}

func unavailable(op string, id int, cause error) error {
	return &model.FetchError{Op: op, ID: id, Err: model.ErrCatalogUnavailable, Cause: cause}
}
