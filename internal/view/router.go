package view

import (
	"context"
	"slices"
	"strings"

	"github.com/go-faster/errors"

	"github.com/xenking/storefront/internal/catalog"
	"github.com/xenking/storefront/internal/domain/order"
	"github.com/xenking/storefront/internal/domain/pricing"
	"github.com/xenking/storefront/internal/domain/product"
	"github.com/xenking/storefront/internal/domain/selection"
)

// Router renders screens. It only reads from the store.
type Router struct {
	catalog *catalog.Provider
	store   *selection.Store
	orders  []order.Summary
	codes   []string
}

// NewRouter resolves the order history once and returns a Router.
func NewRouter(ctx context.Context, c *catalog.Provider, store *selection.Store) (*Router, error) {
	orders, err := order.NewService(c, c).History(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "resolve order history")
	}
	table, err := c.PromoCodes(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "promo codes")
	}
	codes := make([]string, 0, len(table))
	for code := range table {
		codes = append(codes, code)
	}
	slices.Sort(codes)

	return &Router{
		catalog: c,
		store:   store,
		orders:  orders,
		codes:   codes,
	}, nil
}

// Render builds the view model for screen.
func (r *Router) Render(ctx context.Context, screen Screen, p Params) (View, error) {
	snap := r.store.Snapshot()
	v := View{
		Screen: screen,
		Badges: Badges{Cart: snap.Totals.ItemCount, Favorites: len(snap.Favorites)},
	}

	switch screen {
	case Home:
		categories, err := r.catalog.Categories(ctx)
		if err != nil {
			return View{}, errors.Wrap(err, "categories")
		}
		v.Home = r.home(snap, categories)
	case Catalog:
		v.Catalog = r.catalogView(snap, p.Category)
	case Cart:
		v.Cart = r.cart(snap)
	case Favorites:
		v.Favorites = r.favorites(snap)
	case Profile:
		pr := r.catalog.Profile()
		v.Profile = &pr
	case Orders:
		v.Orders = &OrdersView{Orders: slices.Clone(r.orders)}
	case Search:
		v.Search = r.search(snap, p.Query)
	case Notifications:
		v.Notifications = r.catalog.Notifications()
	default:
		return View{}, errors.Wrapf(ErrUnknownScreen, "%q", screen)
	}
	return v, nil
}

func card(p product.Product, favorites []int64) Card {
	return Card{
		Product:  p,
		Favorite: slices.Contains(favorites, p.ID),
		CanAdd:   p.InStock,
	}
}

func (r *Router) home(snap selection.Snapshot, categories []product.Category) *HomeView {
	products := r.catalog.Products()
	if len(products) > specialOffers {
		products = products[:specialOffers]
	}
	offers := make([]Card, len(products))
	for i, p := range products {
		offers[i] = card(p, snap.Favorites)
	}
	return &HomeView{
		Banner:     r.catalog.Banner(),
		Categories: categories,
		Offers:     offers,
	}
}

func (r *Router) catalogView(snap selection.Snapshot, category string) *CatalogView {
	v := &CatalogView{
		Filters:  append([]string{""}, r.catalog.ProductCategories()...),
		Selected: category,
		Products: []Card{},
	}
	for _, p := range r.catalog.Products() {
		if category != "" && p.Category != category {
			continue
		}
		v.Products = append(v.Products, card(p, snap.Favorites))
	}
	return v
}

func (r *Router) cart(snap selection.Snapshot) *CartView {
	lines := make([]CartLine, len(snap.Entries))
	for i, e := range snap.Entries {
		lines[i] = CartLine{
			Product:   e.Product,
			Quantity:  e.Quantity,
			LineTotal: pricing.LineTotal(pricing.Line{Price: e.Product.Price, Quantity: e.Quantity}),
		}
	}
	return &CartView{
		Lines:  lines,
		Promo:  snap.Promo,
		Totals: snap.Totals,
		Codes:  slices.Clone(r.codes),
	}
}

// favorites lists favorite products in catalog order, not toggle order.
func (r *Router) favorites(snap selection.Snapshot) *FavoritesView {
	v := &FavoritesView{Products: []Card{}}
	for _, p := range r.catalog.Products() {
		if slices.Contains(snap.Favorites, p.ID) {
			v.Products = append(v.Products, card(p, snap.Favorites))
		}
	}
	return v
}

func (r *Router) search(snap selection.Snapshot, query string) *SearchView {
	query = strings.TrimSpace(query)
	v := &SearchView{
		Query:   query,
		Popular: r.catalog.PopularSearches(),
		Results: []Card{},
	}
	if query == "" {
		return v
	}
	needle := strings.ToLower(query)
	for _, p := range r.catalog.Products() {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			v.Results = append(v.Results, card(p, snap.Favorites))
		}
	}
	return v
}
