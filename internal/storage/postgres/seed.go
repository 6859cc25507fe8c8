package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/catalog"
)

// Seed upserts the products, categories, orders and promo codes of d.
// Catalog positions follow the slice order.
func Seed(ctx context.Context, src *Source, d catalog.Data) error {
	lg := zctx.From(ctx)

	for i, p := range d.Products {
		if err := src.ProductRepository.Upsert(ctx, p, i); err != nil {
			return errors.Wrapf(err, "seed product %d", p.ID)
		}
	}
	lg.Info("Seeded products", zap.Int("count", len(d.Products)))

	for i, c := range d.Categories {
		if err := src.CategoryRepository.Upsert(ctx, c, i); err != nil {
			return errors.Wrapf(err, "seed category %q", c.Name)
		}
	}
	lg.Info("Seeded categories", zap.Int("count", len(d.Categories)))

	for _, o := range d.Orders {
		if err := src.OrderRepository.Upsert(ctx, o); err != nil {
			return errors.Wrapf(err, "seed order %s", o.Number)
		}
	}
	lg.Info("Seeded orders", zap.Int("count", len(d.Orders)))

	for code, pct := range d.Promos {
		if err := src.PromoRepository.Upsert(ctx, code, pct); err != nil {
			return errors.Wrapf(err, "seed promo code %s", code)
		}
	}
	lg.Info("Seeded promo codes", zap.Int("count", len(d.Promos)))

	return nil
}
