package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/storefront/internal/domain/product"
)

const (
	listCategoriesSQL = `SELECT name, icon, color FROM categories ORDER BY position, name`

	upsertCategorySQL = `INSERT INTO categories (name, icon, color, position)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO UPDATE SET
			icon = EXCLUDED.icon,
			color = EXCLUDED.color,
			position = EXCLUDED.position`
)

var _ product.CategoryRepository = (*CategoryRepository)(nil)

type CategoryRepository struct {
	pool *pgxpool.Pool
}

func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

// Categories returns the categories in display order.
func (r *CategoryRepository) Categories(ctx context.Context) ([]product.Category, error) {
	rows, err := r.pool.Query(ctx, listCategoriesSQL)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[product.Category])
}

func (r *CategoryRepository) Upsert(ctx context.Context, c product.Category, position int) error {
	if _, err := r.pool.Exec(ctx, upsertCategorySQL, c.Name, c.Icon, c.Color, position); err != nil {
		return fmt.Errorf("upserting category %q: %w", c.Name, err)
	}
	return nil
}
