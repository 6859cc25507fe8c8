package product

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when a requested product does not exist.
	ErrNotFound = errors.New("product not found")
	// ErrInvalid is returned when a product violates the catalog invariants.
	ErrInvalid = errors.New("invalid product")
)

// Product represents a catalog item available for purchase.
type Product struct {
	ID       int64
	Name     string
	Price    decimal.Decimal
	Markdown *Markdown
	Category string
	InStock  bool
	Image    string
}

// Markdown describes a discounted product: the price before the markdown and
// the advertised percentage. Either both values are present or the product
// has no markdown at all.
type Markdown struct {
	OriginalPrice decimal.Decimal
	Percent       int
}

// Category is a catalog section shown on the home screen.
type Category struct {
	Name  string
	Icon  string
	Color string
}

// Validate checks the product invariants.
func (p Product) Validate() error {
	if p.ID <= 0 {
		return errors.Wrapf(ErrInvalid, "id %d must be positive", p.ID)
	}
	if p.Price.IsNegative() {
		return errors.Wrapf(ErrInvalid, "product %d: negative price %s", p.ID, p.Price)
	}
	if m := p.Markdown; m != nil {
		if m.Percent < 0 || m.Percent > 100 {
			return errors.Wrapf(ErrInvalid, "product %d: markdown percent %d out of range", p.ID, m.Percent)
		}
		if !m.OriginalPrice.GreaterThan(p.Price) {
			return errors.Wrapf(ErrInvalid, "product %d: original price %s must exceed price %s",
				p.ID, m.OriginalPrice, p.Price)
		}
	}
	return nil
}

// Discounted reports whether the product carries a markdown.
func (p Product) Discounted() bool {
	return p.Markdown != nil
}

// Repository defines read operations for the product catalog.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
}

// CategoryRepository lists catalog categories in display order.
type CategoryRepository interface {
	Categories(ctx context.Context) ([]Category, error)
}

// ValidateAll checks every product and rejects duplicate identifiers.
func ValidateAll(products []Product) error {
	seen := make(map[int64]struct{}, len(products))
	for _, p := range products {
		if err := p.Validate(); err != nil {
			return err
		}
		if _, ok := seen[p.ID]; ok {
			return errors.Wrapf(ErrInvalid, "duplicate product id %d", p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}
