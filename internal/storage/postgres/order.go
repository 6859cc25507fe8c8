package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/jx"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/storefront/internal/domain/order"
)

const (
	listOrdersSQL = `SELECT number, placed_at, status, items, total FROM orders ORDER BY placed_at DESC, number DESC`

	upsertOrderSQL = `INSERT INTO orders (number, placed_at, status, items, total)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (number) DO UPDATE SET
			placed_at = EXCLUDED.placed_at,
			status = EXCLUDED.status,
			items = EXCLUDED.items,
			total = EXCLUDED.total`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// History returns past orders, newest first.
func (r *OrderRepository) History(ctx context.Context) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersSQL)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return pgx.CollectRows(rows, scanOrder)
}

// Upsert persists an order. The items are serialized to JSON for storage in
// the JSONB column.
func (r *OrderRepository) Upsert(ctx context.Context, o order.Order) error {
	_, err := r.pool.Exec(ctx, upsertOrderSQL,
		o.Number, o.PlacedAt, string(o.Status), encodeItems(o.Items), o.Total,
	)
	if err != nil {
		return fmt.Errorf("upserting order %q: %w", o.Number, err)
	}
	return nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o      order.Order
		status string
		items  []byte
	)
	if err := row.Scan(&o.Number, &o.PlacedAt, &status, &items, &o.Total); err != nil {
		return o, err
	}
	o.Status = order.Status(status)

	var err error
	o.Items, err = decodeItems(items)
	if err != nil {
		return o, fmt.Errorf("decoding items of order %q: %w", o.Number, err)
	}
	return o, nil
}

func encodeItems(items []order.OrderItem) []byte {
	var e jx.Encoder
	e.ArrStart()
	for _, it := range items {
		e.ObjStart()
		e.FieldStart("product_id")
		e.Int64(it.ProductID)
		e.FieldStart("quantity")
		e.Int(it.Quantity)
		e.ObjEnd()
	}
	e.ArrEnd()
	return e.Bytes()
}

func decodeItems(data []byte) ([]order.OrderItem, error) {
	var items []order.OrderItem
	err := jx.DecodeBytes(data).Arr(func(d *jx.Decoder) error {
		var it order.OrderItem
		err := d.Obj(func(d *jx.Decoder, key string) error {
			var err error
			switch key {
			case "product_id":
				it.ProductID, err = d.Int64()
			case "quantity":
				it.Quantity, err = d.Int()
			default:
				err = d.Skip()
			}
			return err
		})
		if err != nil {
			return err
		}
		items = append(items, it)
		return nil
	})
	return items, err
}
