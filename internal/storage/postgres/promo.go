package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/storefront/internal/domain/promo"
)

const (
	listPromoCodesSQL = `SELECT code, percent FROM promo_codes WHERE active`

	upsertPromoCodeSQL = `INSERT INTO promo_codes (code, percent, active)
		VALUES ($1, $2, TRUE)
		ON CONFLICT (code) DO UPDATE SET percent = EXCLUDED.percent, active = TRUE`
)

var _ promo.Source = (*PromoRepository)(nil)

// PromoRepository implements promo.Source backed by PostgreSQL.
type PromoRepository struct {
	pool *pgxpool.Pool
}

// NewPromoRepository returns a PromoRepository that uses the given pool.
func NewPromoRepository(pool *pgxpool.Pool) *PromoRepository {
	return &PromoRepository{pool: pool}
}

// PromoCodes returns the active promo codes.
func (r *PromoRepository) PromoCodes(ctx context.Context) (promo.Table, error) {
	rows, err := r.pool.Query(ctx, listPromoCodesSQL)
	if err != nil {
		return nil, fmt.Errorf("listing promo codes: %w", err)
	}
	defer rows.Close()

	table := make(promo.Table)
	for rows.Next() {
		var (
			code    string
			percent int32
		)
		if err := rows.Scan(&code, &percent); err != nil {
			return nil, fmt.Errorf("scanning promo code: %w", err)
		}
		table[code] = int(percent)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing promo codes: %w", err)
	}
	return table, nil
}

// Upsert stores code with its percent and marks it active. The code is
// normalized first.
func (r *PromoRepository) Upsert(ctx context.Context, code string, percent int) error {
	code = promo.Normalize(code)
	if err := (promo.Table{code: percent}).Validate(); err != nil {
		return err
	}
	if _, err := r.pool.Exec(ctx, upsertPromoCodeSQL, code, percent); err != nil {
		return fmt.Errorf("upserting promo code %q: %w", code, err)
	}
	return nil
}
