package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the delivery state of a past order.
type Status string

const (
	StatusDelivered Status = "delivered"
	StatusInTransit Status = "in_transit"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusDelivered, StatusInTransit:
		return true
	default:
		return false
	}
}

// Order is a past order shown in the order history. Orders are display-only;
// checkout never creates one.
type Order struct {
	Number   string
	PlacedAt time.Time
	Status   Status
	Items    []OrderItem
	Total    decimal.Decimal
}

// OrderItem is a single line of a past order.
type OrderItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// ItemCount returns the number of units in the order.
func (o Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

// Repository lists the order history, newest first.
type Repository interface {
	History(ctx context.Context) ([]Order, error)
}
