// Package selection holds the session's cart, favorites and applied promo.
//
// A Store serializes every operation behind one mutex, so concurrent callers
// observe the same behaviour as a single-threaded event loop: each operation
// runs to completion before the next one starts.
package selection

import (
	"slices"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/xenking/storefront/internal/domain/pricing"
	"github.com/xenking/storefront/internal/domain/product"
	"github.com/xenking/storefront/internal/domain/promo"
)

var (
	// ErrInvalidID is returned for product identifiers outside the id space (<= 0).
	ErrInvalidID = errors.New("invalid product id")
	// ErrOutOfStock is returned when adding a product that is not in stock.
	ErrOutOfStock = errors.New("product out of stock")
	// ErrEmptyCart is returned by Checkout when there is nothing to check out.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrQuantityLimit is returned when a line would exceed MaxQuantity.
	ErrQuantityLimit = errors.New("quantity limit exceeded")
)

// MaxQuantity is the largest quantity a single cart line may hold.
const MaxQuantity = 9999

// Catalog resolves product identifiers to catalog entries.
type Catalog interface {
	Lookup(id int64) (product.Product, bool)
}

// PromoEngine resolves user-entered promo codes.
type PromoEngine interface {
	Apply(raw string) (promo.Applied, bool)
}

// Entry is a cart line. Quantity is always at least 1.
type Entry struct {
	Product  product.Product
	Quantity int
}

// Receipt summarizes a checkout. No order is created.
type Receipt struct {
	ID        string
	Entries   []Entry
	Promo     *promo.Applied
	Totals    pricing.Totals
	CreatedAt time.Time
}

// Store owns the mutable session state.
type Store struct {
	catalog Catalog
	promos  PromoEngine
	now     func() time.Time

	mu        sync.Mutex
	entries   []Entry
	favorites []int64
	applied   *promo.Applied
}

// NewStore creates an empty Store.
func NewStore(catalog Catalog, promos PromoEngine) *Store {
	return &Store{
		catalog: catalog,
		promos:  promos,
		now:     time.Now,
	}
}

func checkID(id int64) error {
	if id <= 0 {
		return errors.Wrapf(ErrInvalidID, "id %d", id)
	}
	return nil
}

// indexOf returns the position of id in the cart or -1. Caller holds s.mu.
func (s *Store) indexOf(id int64) int {
	return slices.IndexFunc(s.entries, func(e Entry) bool { return e.Product.ID == id })
}

// AddToCart inserts the product with quantity 1, or increments its quantity
// when it is already in the cart. Unknown products are ignored.
func (s *Store) AddToCart(id int64) error {
	if err := checkID(id); err != nil {
		return err
	}
	p, ok := s.catalog.Lookup(id)
	if !ok {
		return nil
	}
	if !p.InStock {
		return errors.Wrapf(ErrOutOfStock, "product %d", id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(id); i >= 0 {
		if s.entries[i].Quantity >= MaxQuantity {
			return errors.Wrapf(ErrQuantityLimit, "product %d", id)
		}
		s.entries[i].Quantity++
		return nil
	}
	s.entries = append(s.entries, Entry{Product: p, Quantity: 1})
	return nil
}

// RemoveFromCart deletes the product's entry if present.
func (s *Store) RemoveFromCart(id int64) error {
	if err := checkID(id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(id); i >= 0 {
		s.entries = slices.Delete(s.entries, i, i+1)
	}
	return nil
}

// SetQuantityDelta adds delta to the entry's quantity and removes the entry
// when the result drops to zero or below. Missing entries are left alone.
// A result above MaxQuantity is rejected and leaves the entry unchanged.
func (s *Store) SetQuantityDelta(id int64, delta int) error {
	if err := checkID(id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil
	}
	cur := s.entries[i].Quantity
	// cur is in [1, MaxQuantity], so neither comparison can overflow.
	if delta > MaxQuantity-cur {
		return errors.Wrapf(ErrQuantityLimit, "product %d: %d%+d", id, cur, delta)
	}
	if delta <= -cur {
		s.entries = slices.Delete(s.entries, i, i+1)
		return nil
	}
	s.entries[i].Quantity = cur + delta
	return nil
}

// ToggleFavorite adds the product to favorites or removes it if already there.
// Unknown products are ignored.
func (s *Store) ToggleFavorite(id int64) error {
	if err := checkID(id); err != nil {
		return err
	}
	if _, ok := s.catalog.Lookup(id); !ok {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := slices.Index(s.favorites, id); i >= 0 {
		s.favorites = slices.Delete(s.favorites, i, i+1)
		return nil
	}
	s.favorites = append(s.favorites, id)
	return nil
}

// ApplyCode replaces the applied promo with the code's promo, or clears it
// when the code is unknown. It reports whether the code was accepted.
func (s *Store) ApplyCode(raw string) (promo.Applied, bool) {
	snap, ok := s.ApplyCodeSnapshot(raw)
	if !ok {
		return promo.Applied{}, false
	}
	return *snap.Promo, true
}

// ApplyCodeSnapshot is ApplyCode returning the state it produced, read in
// the same critical section.
func (s *Store) ApplyCodeSnapshot(raw string) (Snapshot, bool) {
	applied, ok := s.promos.Apply(raw)

	s.mu.Lock()
	defer s.mu.Unlock()

	if ok {
		s.applied = &applied
	} else {
		s.applied = nil
	}
	return s.snapshotLocked(), ok
}

// ClearPromo removes the applied promo.
func (s *Store) ClearPromo() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applied = nil
}

// CartItemCount returns the sum of all entry quantities.
func (s *Store) CartItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, e := range s.entries {
		n += e.Quantity
	}
	return n
}

// FavoriteCount returns the number of favorite products.
func (s *Store) FavoriteCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.favorites)
}

// Entries returns a copy of the cart in insertion order.
func (s *Store) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.entries)
}

// Favorites returns a copy of the favorite product ids in insertion order.
func (s *Store) Favorites() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.favorites)
}

// IsFavorite reports whether id is a favorite.
func (s *Store) IsFavorite(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Contains(s.favorites, id)
}

// AppliedPromo returns the applied promo, or nil.
func (s *Store) AppliedPromo() *promo.Applied {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.applied == nil {
		return nil
	}
	a := *s.applied
	return &a
}

// Totals computes the cart totals from the current state.
func (s *Store) Totals() pricing.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalsLocked()
}

func (s *Store) totalsLocked() pricing.Totals {
	return pricing.Compute(Lines(s.entries), s.applied)
}

// Snapshot is a consistent read of the whole session state.
type Snapshot struct {
	Entries   []Entry
	Favorites []int64
	Promo     *promo.Applied
	Totals    pricing.Totals
}

// Snapshot returns every piece of state under a single lock acquisition.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{
		Entries:   slices.Clone(s.entries),
		Favorites: slices.Clone(s.favorites),
		Totals:    s.totalsLocked(),
	}
	if s.applied != nil {
		a := *s.applied
		snap.Promo = &a
	}
	return snap
}

// Checkout clears the cart and the applied promo and returns what was shown
// to the user at the moment of checkout. Favorites are kept.
func (s *Store) Checkout() (*Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) == 0 {
		return nil, ErrEmptyCart
	}

	r := &Receipt{
		ID:        uuid.New().String(),
		Entries:   s.entries,
		Promo:     s.applied,
		Totals:    s.totalsLocked(),
		CreatedAt: s.now(),
	}
	s.entries = nil
	s.applied = nil
	return r, nil
}

// Reset returns the store to its initial, empty state.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	s.favorites = nil
	s.applied = nil
}

// Lines converts cart entries to pricing lines.
func Lines(entries []Entry) []pricing.Line {
	lines := make([]pricing.Line, len(entries))
	for i, e := range entries {
		lines[i] = pricing.Line{Price: e.Product.Price, Quantity: e.Quantity}
	}
	return lines
}
