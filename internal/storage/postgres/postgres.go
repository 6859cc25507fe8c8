// Package postgres implements the catalog source on PostgreSQL. The service
// only reads from it; writes happen through the seed command.
package postgres

import (
	"context"

	"github.com/go-faster/errors"
	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/storefront/db"
	"github.com/xenking/storefront/internal/catalog"
)

// NewPool creates a pgxpool.Pool configured with shopspring/decimal support
// for NUMERIC columns.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse database config")
	}

	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "create connection pool")
	}

	return pool, nil
}

// RunMigrations executes the embedded DDL schema against the pool.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, db.Schema); err != nil {
		return errors.Wrap(err, "exec schema")
	}
	return nil
}

var _ catalog.Source = (*Source)(nil)

// Source groups the repositories into a catalog.Source.
type Source struct {
	*ProductRepository
	*CategoryRepository
	*OrderRepository
	*PromoRepository
}

// NewSource returns a catalog.Source backed by pool.
func NewSource(pool *pgxpool.Pool) *Source {
	return &Source{
		ProductRepository:  NewProductRepository(pool),
		CategoryRepository: NewCategoryRepository(pool),
		OrderRepository:    NewOrderRepository(pool),
		PromoRepository:    NewPromoRepository(pool),
	}
}
