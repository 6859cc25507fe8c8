package view

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/storefront/internal/catalog"
	"github.com/xenking/storefront/internal/domain/promo"
	"github.com/xenking/storefront/internal/domain/selection"
)

func newTestRouter(t *testing.T) (*Router, *selection.Store) {
	t.Helper()
	c := catalog.MustDefault()
	engine, err := promo.NewEngine(promo.DefaultTable())
	require.NoError(t, err)
	store := selection.NewStore(c, engine)

	r, err := NewRouter(context.Background(), c, store)
	require.NoError(t, err)
	return r, store
}

func TestParseScreen(t *testing.T) {
	for _, s := range Screens {
		got, err := ParseScreen(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	got, err := ParseScreen(" Cart ")
	require.NoError(t, err)
	assert.Equal(t, Cart, got)

	for _, bad := range []string{"", "checkout", "home/1"} {
		_, err := ParseScreen(bad)
		require.ErrorIs(t, err, ErrUnknownScreen, "screen %q", bad)
	}
}

func TestRender_EveryScreen(t *testing.T) {
	r, _ := newTestRouter(t)

	for _, s := range Screens {
		t.Run(string(s), func(t *testing.T) {
			v, err := r.Render(context.Background(), s, Params{})
			require.NoError(t, err)
			assert.Equal(t, s, v.Screen)

			set := 0
			for _, ok := range []bool{
				v.Home != nil, v.Catalog != nil, v.Cart != nil, v.Favorites != nil,
				v.Profile != nil, v.Orders != nil, v.Search != nil, v.Notifications != nil,
			} {
				if ok {
					set++
				}
			}
			assert.Equal(t, 1, set, "exactly one screen body")
		})
	}
}

func TestRender_Unknown(t *testing.T) {
	r, _ := newTestRouter(t)

	_, err := r.Render(context.Background(), Screen("checkout"), Params{})
	require.ErrorIs(t, err, ErrUnknownScreen)
}

func TestRender_Home(t *testing.T) {
	r, store := newTestRouter(t)
	require.NoError(t, store.ToggleFavorite(2))

	v, err := r.Render(context.Background(), Home, Params{})
	require.NoError(t, err)

	assert.Equal(t, "Скидки до 30%", v.Home.Banner.Title)
	assert.Len(t, v.Home.Categories, 4)
	require.Len(t, v.Home.Offers, 4)
	assert.Equal(t, int64(1), v.Home.Offers[0].Product.ID)
	assert.False(t, v.Home.Offers[0].Favorite)
	assert.True(t, v.Home.Offers[1].Favorite)
	assert.Equal(t, Badges{Favorites: 1}, v.Badges)
}

func TestRender_CatalogFilter(t *testing.T) {
	r, _ := newTestRouter(t)

	v, err := r.Render(context.Background(), Catalog, Params{})
	require.NoError(t, err)
	assert.Equal(t, []string{"", "Электроника", "Аксессуары", "Товары для дома"}, v.Catalog.Filters)
	require.Len(t, v.Catalog.Products, 6)
	assert.False(t, v.Catalog.Products[5].CanAdd, "out of stock product cannot be added")
	assert.True(t, v.Catalog.Products[0].CanAdd)

	v, err = r.Render(context.Background(), Catalog, Params{Category: "Электроника"})
	require.NoError(t, err)
	assert.Equal(t, "Электроника", v.Catalog.Selected)
	var ids []int64
	for _, c := range v.Catalog.Products {
		ids = append(ids, c.Product.ID)
	}
	assert.Equal(t, []int64{1, 2, 5, 6}, ids)

	v, err = r.Render(context.Background(), Catalog, Params{Category: "Спорт"})
	require.NoError(t, err)
	assert.Empty(t, v.Catalog.Products)
}

func TestRender_Cart(t *testing.T) {
	r, store := newTestRouter(t)

	v, err := r.Render(context.Background(), Cart, Params{})
	require.NoError(t, err)
	assert.Empty(t, v.Cart.Lines)
	assert.True(t, v.Cart.Totals.Total.IsZero())
	assert.Equal(t, []string{"SALE10", "VIP30", "WELCOME20"}, v.Cart.Codes)

	require.NoError(t, store.AddToCart(1))
	require.NoError(t, store.AddToCart(2))
	require.NoError(t, store.AddToCart(2))
	_, ok := store.ApplyCode("welcome20")
	require.True(t, ok)

	v, err = r.Render(context.Background(), Cart, Params{})
	require.NoError(t, err)
	require.Len(t, v.Cart.Lines, 2)
	assert.True(t, decimal.NewFromInt(17980).Equal(v.Cart.Lines[1].LineTotal))
	require.NotNil(t, v.Cart.Promo)
	assert.Equal(t, "WELCOME20", v.Cart.Promo.Code)
	assert.True(t, decimal.NewFromInt(22970).Equal(v.Cart.Totals.Subtotal))
	assert.True(t, decimal.NewFromInt(4594).Equal(v.Cart.Totals.PromoDiscount))
	assert.True(t, decimal.NewFromInt(18376).Equal(v.Cart.Totals.Total))
	assert.Equal(t, Badges{Cart: 3}, v.Badges)
}

func TestRender_FavoritesCatalogOrder(t *testing.T) {
	r, store := newTestRouter(t)
	require.NoError(t, store.ToggleFavorite(5))
	require.NoError(t, store.ToggleFavorite(1))

	v, err := r.Render(context.Background(), Favorites, Params{})
	require.NoError(t, err)
	require.Len(t, v.Favorites.Products, 2)
	assert.Equal(t, int64(1), v.Favorites.Products[0].Product.ID)
	assert.Equal(t, int64(5), v.Favorites.Products[1].Product.ID)
	assert.True(t, v.Favorites.Products[0].Favorite)
}

func TestRender_Search(t *testing.T) {
	r, _ := newTestRouter(t)

	v, err := r.Render(context.Background(), Search, Params{})
	require.NoError(t, err)
	assert.Equal(t, []string{"наушники", "смарт-часы", "рюкзак", "колонка"}, v.Search.Popular)
	assert.Empty(t, v.Search.Results)

	v, err = r.Render(context.Background(), Search, Params{Query: "  НАУШНИКИ "})
	require.NoError(t, err)
	assert.Equal(t, "НАУШНИКИ", v.Search.Query)
	require.Len(t, v.Search.Results, 1)
	assert.Equal(t, int64(1), v.Search.Results[0].Product.ID)
}

func TestRender_OrdersAndStatic(t *testing.T) {
	r, _ := newTestRouter(t)

	v, err := r.Render(context.Background(), Orders, Params{})
	require.NoError(t, err)
	require.Len(t, v.Orders.Orders, 2)
	first := v.Orders.Orders[0]
	assert.Equal(t, "12345", first.Order.Number)
	require.Len(t, first.Products, 2)
	assert.Equal(t, "🎧", first.Products[0].Image)

	v, err = r.Render(context.Background(), Profile, Params{})
	require.NoError(t, err)
	assert.Equal(t, "ivan@example.com", v.Profile.Email)
	assert.Equal(t, "orders", v.Profile.Menu[0].Screen)

	v, err = r.Render(context.Background(), Notifications, Params{})
	require.NoError(t, err)
	assert.Len(t, v.Notifications, 3)
}
