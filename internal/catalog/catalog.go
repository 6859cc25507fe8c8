// Package catalog provides the immutable storefront data: products,
// categories, past orders, promo codes and the static informational content.
//
// A Provider is built once at start-up, either from Default or from an
// external Source, and is safe for concurrent use afterwards.
package catalog

import (
	"context"
	"maps"
	"slices"

	"github.com/go-faster/errors"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/storefront/internal/domain/order"
	"github.com/xenking/storefront/internal/domain/product"
	"github.com/xenking/storefront/internal/domain/promo"
)

// NotificationKind selects the notification icon.
type NotificationKind string

const (
	NotificationDelivered NotificationKind = "delivered"
	NotificationShipping  NotificationKind = "shipping"
	NotificationPromo     NotificationKind = "promo"
)

// Icon returns the icon name for the kind.
func (k NotificationKind) Icon() string {
	switch k {
	case NotificationDelivered:
		return "CheckCircle2"
	case NotificationShipping:
		return "Package"
	case NotificationPromo:
		return "Tag"
	default:
		return "Bell"
	}
}

type Notification struct {
	Title string
	Body  string
	Age   string
	Kind  NotificationKind
}

// MenuItem is a profile menu entry. Screen is empty for entries that lead nowhere.
type MenuItem struct {
	Title  string
	Icon   string
	Screen string
}

type Profile struct {
	Name  string
	Email string
	Menu  []MenuItem
}

// Banner is the home screen promotion block.
type Banner struct {
	Title    string
	Subtitle string
	Action   string
}

// Data is the complete set of storefront data.
type Data struct {
	Products        []product.Product
	Categories      []product.Category
	Orders          []order.Order
	Promos          promo.Table
	Notifications   []Notification
	Profile         Profile
	PopularSearches []string
	Banner          Banner
}

// Source loads the parts of Data that may live outside the binary.
type Source interface {
	product.Repository
	product.CategoryRepository
	order.Repository
	promo.Source
}

var (
	_ Source = (*Provider)(nil)

	// ErrInvalidOrder is returned when a past order has an unknown status or
	// references a product outside the catalog.
	ErrInvalidOrder = errors.New("invalid order")
)

// Provider serves a validated, read-only copy of Data.
type Provider struct {
	data Data
	byID map[int64]int
}

// New validates d and returns a Provider over a private copy of it.
func New(d Data) (*Provider, error) {
	if err := product.ValidateAll(d.Products); err != nil {
		return nil, errors.Wrap(err, "validate products")
	}
	if err := d.Promos.Validate(); err != nil {
		return nil, errors.Wrap(err, "validate promo codes")
	}

	byID := make(map[int64]int, len(d.Products))
	for i, p := range d.Products {
		byID[p.ID] = i
	}
	for _, o := range d.Orders {
		if !o.Status.Valid() {
			return nil, errors.Wrapf(ErrInvalidOrder, "order %s: status %q", o.Number, o.Status)
		}
		for _, it := range o.Items {
			if _, ok := byID[it.ProductID]; !ok {
				return nil, errors.Wrapf(ErrInvalidOrder, "order %s: unknown product %d", o.Number, it.ProductID)
			}
		}
	}

	return &Provider{data: clone(d), byID: byID}, nil
}

// MustDefault returns a Provider over Default. It panics if the built-in
// data is invalid.
func MustDefault() *Provider {
	p, err := New(Default())
	if err != nil {
		panic(err)
	}
	return p
}

// Load fetches products, categories, orders and promo codes from src
// concurrently. The static content (notifications, profile, searches, banner)
// comes from Default.
func Load(ctx context.Context, src Source) (*Provider, error) {
	d := Default()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		products, err := src.List(gctx)
		if err != nil {
			return errors.Wrap(err, "list products")
		}
		d.Products = products
		return nil
	})
	g.Go(func() error {
		categories, err := src.Categories(gctx)
		if err != nil {
			return errors.Wrap(err, "list categories")
		}
		d.Categories = categories
		return nil
	})
	g.Go(func() error {
		orders, err := src.History(gctx)
		if err != nil {
			return errors.Wrap(err, "list orders")
		}
		d.Orders = orders
		return nil
	})
	g.Go(func() error {
		table, err := src.PromoCodes(gctx)
		if err != nil {
			return errors.Wrap(err, "list promo codes")
		}
		d.Promos = table
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return New(d)
}

func clone(d Data) Data {
	out := d
	out.Products = slices.Clone(d.Products)
	for i, p := range out.Products {
		if p.Markdown != nil {
			m := *p.Markdown
			out.Products[i].Markdown = &m
		}
	}
	out.Categories = slices.Clone(d.Categories)
	out.Orders = slices.Clone(d.Orders)
	for i, o := range out.Orders {
		out.Orders[i].Items = slices.Clone(o.Items)
	}
	out.Promos = maps.Clone(d.Promos)
	out.Notifications = slices.Clone(d.Notifications)
	out.Profile.Menu = slices.Clone(d.Profile.Menu)
	out.PopularSearches = slices.Clone(d.PopularSearches)
	return out
}

// Lookup returns the product with the given id.
func (p *Provider) Lookup(id int64) (product.Product, bool) {
	i, ok := p.byID[id]
	if !ok {
		return product.Product{}, false
	}
	return p.data.Products[i], true
}

// Products returns the products in catalog order.
func (p *Provider) Products() []product.Product {
	return slices.Clone(p.data.Products)
}

// List implements product.Repository.
func (p *Provider) List(context.Context) ([]product.Product, error) {
	return p.Products(), nil
}

// GetByID implements product.Repository.
func (p *Provider) GetByID(_ context.Context, id int64) (*product.Product, error) {
	prod, ok := p.Lookup(id)
	if !ok {
		return nil, product.ErrNotFound
	}
	return &prod, nil
}

// Categories implements product.CategoryRepository.
func (p *Provider) Categories(context.Context) ([]product.Category, error) {
	return slices.Clone(p.data.Categories), nil
}

// History implements order.Repository.
func (p *Provider) History(context.Context) ([]order.Order, error) {
	return slices.Clone(p.data.Orders), nil
}

// PromoCodes implements promo.Source.
func (p *Provider) PromoCodes(context.Context) (promo.Table, error) {
	return maps.Clone(p.data.Promos), nil
}

// ProductCategories returns the distinct product categories in first-seen
// catalog order. These can differ from Categories.
func (p *Provider) ProductCategories() []string {
	var out []string
	for _, prod := range p.data.Products {
		if !slices.Contains(out, prod.Category) {
			out = append(out, prod.Category)
		}
	}
	return out
}

func (p *Provider) Notifications() []Notification { return slices.Clone(p.data.Notifications) }

func (p *Provider) Profile() Profile {
	pr := p.data.Profile
	pr.Menu = slices.Clone(pr.Menu)
	return pr
}

func (p *Provider) PopularSearches() []string { return slices.Clone(p.data.PopularSearches) }

func (p *Provider) Banner() Banner { return p.data.Banner }
