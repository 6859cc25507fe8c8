package order

import (
	"context"
	"fmt"

	"github.com/xenking/storefront/internal/domain/product"
)

// ProductNotFoundError indicates an order references a product missing from
// the catalog.
type ProductNotFoundError struct {
	Order     string
	ProductID int64
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("order %s: product %d not found", e.Order, e.ProductID)
}

// Summary is an order joined with the catalog products it references, in
// item order.
type Summary struct {
	Order    Order
	Products []product.Product
}

// Service resolves the order history against the catalog.
type Service struct {
	products product.Repository
	orders   Repository
}

// NewService creates an order Service.
func NewService(products product.Repository, orders Repository) *Service {
	return &Service{
		products: products,
		orders:   orders,
	}
}

// History loads the order history and attaches the referenced products.
func (s *Service) History(ctx context.Context) ([]Summary, error) {
	orders, err := s.orders.History(ctx)
	if err != nil {
		return nil, fmt.Errorf("get order history: %w", err)
	}

	// Fetch the catalog once instead of per item.
	all, err := s.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	productMap := make(map[int64]product.Product, len(all))
	for _, p := range all {
		productMap[p.ID] = p
	}

	out := make([]Summary, 0, len(orders))
	for _, o := range orders {
		products := make([]product.Product, 0, len(o.Items))
		for _, it := range o.Items {
			p, ok := productMap[it.ProductID]
			if !ok {
				return nil, &ProductNotFoundError{Order: o.Number, ProductID: it.ProductID}
			}
			products = append(products, p)
		}
		out = append(out, Summary{Order: o, Products: products})
	}
	return out, nil
}
