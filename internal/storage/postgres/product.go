package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront/internal/domain/product"
)

const (
	productColumns = `id, name, price, original_price, markdown_percent, category, in_stock, image`

	listProductsSQL = `SELECT ` + productColumns + ` FROM products ORDER BY position, id`

	getProductByIDSQL = `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	upsertProductSQL = `INSERT INTO products (id, name, price, original_price, markdown_percent, category, in_stock, image, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			price = EXCLUDED.price,
			original_price = EXCLUDED.original_price,
			markdown_percent = EXCLUDED.markdown_percent,
			category = EXCLUDED.category,
			in_stock = EXCLUDED.in_stock,
			image = EXCLUDED.image,
			position = EXCLUDED.position`
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository backed by PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// List returns all products in catalog order.
func (r *ProductRepository) List(ctx context.Context) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// GetByID returns a single product by its identifier.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	rows, err := r.pool.Query(ctx, getProductByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting product %d: %w", id, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, fmt.Errorf("getting product %d: %w", id, err)
	}
	return &p, nil
}

// Upsert inserts or replaces a product at the given catalog position.
func (r *ProductRepository) Upsert(ctx context.Context, p product.Product, position int) error {
	if err := p.Validate(); err != nil {
		return err
	}

	var (
		original decimal.NullDecimal
		percent  *int32
	)
	if m := p.Markdown; m != nil {
		original = decimal.NewNullDecimal(m.OriginalPrice)
		pct := int32(m.Percent)
		percent = &pct
	}

	_, err := r.pool.Exec(ctx, upsertProductSQL,
		p.ID, p.Name, p.Price, original, percent, p.Category, p.InStock, p.Image, position,
	)
	if err != nil {
		return fmt.Errorf("upserting product %d: %w", p.ID, err)
	}
	return nil
}

func scanProduct(row pgx.CollectableRow) (product.Product, error) {
	var (
		p        product.Product
		original decimal.NullDecimal
		percent  *int32
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Price, &original, &percent, &p.Category, &p.InStock, &p.Image,
	)
	if err != nil {
		return p, err
	}
	if original.Valid && percent != nil {
		p.Markdown = &product.Markdown{OriginalPrice: original.Decimal, Percent: int(*percent)}
	}
	return p, nil
}
