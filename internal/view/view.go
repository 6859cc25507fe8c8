// Package view maps a screen identifier to a read-only view model of the
// catalog and the session state.
package view

import (
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront/internal/catalog"
	"github.com/xenking/storefront/internal/domain/order"
	"github.com/xenking/storefront/internal/domain/pricing"
	"github.com/xenking/storefront/internal/domain/product"
	"github.com/xenking/storefront/internal/domain/promo"
)

// ErrUnknownScreen is returned for screen identifiers outside the known set.
var ErrUnknownScreen = errors.New("unknown screen")

// Screen identifies a storefront screen.
type Screen string

const (
	Home          Screen = "home"
	Catalog       Screen = "catalog"
	Cart          Screen = "cart"
	Favorites     Screen = "favorites"
	Profile       Screen = "profile"
	Orders        Screen = "orders"
	Search        Screen = "search"
	Notifications Screen = "notifications"
)

// Screens lists every screen in navigation order.
var Screens = []Screen{Home, Catalog, Cart, Favorites, Profile, Orders, Search, Notifications}

// ParseScreen converts s to a Screen. Matching is case-insensitive.
func ParseScreen(s string) (Screen, error) {
	screen := Screen(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Screens {
		if screen == known {
			return screen, nil
		}
	}
	return "", errors.Wrapf(ErrUnknownScreen, "%q", s)
}

// specialOffers is the number of products shown on the home screen.
const specialOffers = 4

// Params narrows the catalog and search screens. Zero value means no filter.
type Params struct {
	Category string
	Query    string
}

// Badges are the counters shown on the navigation bar.
type Badges struct {
	Cart      int
	Favorites int
}

// Card is a product as shown in a product grid.
type Card struct {
	Product  product.Product
	Favorite bool
	// CanAdd is false for out-of-stock products.
	CanAdd bool
}

type HomeView struct {
	Banner     catalog.Banner
	Categories []product.Category
	Offers     []Card
}

type CatalogView struct {
	// Filters is the chip list: "" (all) followed by the distinct product categories.
	Filters  []string
	Selected string
	Products []Card
}

type CartLine struct {
	Product   product.Product
	Quantity  int
	LineTotal decimal.Decimal
}

type CartView struct {
	Lines  []CartLine
	Promo  *promo.Applied
	Totals pricing.Totals
	// Codes lists the available promo codes as a hint.
	Codes []string
}

type FavoritesView struct {
	Products []Card
}

type OrdersView struct {
	Orders []order.Summary
}

type SearchView struct {
	Query   string
	Popular []string
	Results []Card
}

// View is the rendered screen. Exactly one of the screen fields is set,
// matching Screen.
type View struct {
	Screen Screen
	Badges Badges

	Home          *HomeView
	Catalog       *CatalogView
	Cart          *CartView
	Favorites     *FavoritesView
	Profile       *catalog.Profile
	Orders        *OrdersView
	Search        *SearchView
	Notifications []catalog.Notification
}
