package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/xenking/storefront/internal/catalog"
	"github.com/xenking/storefront/internal/domain/promo"
	"github.com/xenking/storefront/internal/domain/selection"
	"github.com/xenking/storefront/internal/view"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	c := catalog.MustDefault()
	engine, err := promo.NewEngine(promo.DefaultTable())
	require.NoError(t, err)
	store := selection.NewStore(c, engine)
	views, err := view.NewRouter(context.Background(), c, store)
	require.NoError(t, err)

	h, err := NewHandler(c, store, views, noop.NewMeterProvider())
	require.NoError(t, err)

	r := chi.NewRouter()
	h.Routes(r)
	return r
}

func do(t *testing.T, srv http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 && strings.HasPrefix(w.Body.String(), "{") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w, out
}

func totals(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	tt, ok := body["totals"].(map[string]any)
	require.True(t, ok, "totals missing in %v", body)
	return tt
}

func TestListProducts(t *testing.T) {
	srv := newTestServer(t)

	w, _ := do(t, srv, http.MethodGet, "/api/products", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var products []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
	require.Len(t, products, 6)
	assert.Equal(t, float64(1), products[0]["id"])
	assert.Equal(t, float64(4990), products[0]["price"])
	assert.Equal(t, float64(6990), products[0]["original_price"])
	assert.Equal(t, float64(30), products[0]["discount_percent"])

	// Products without a markdown omit the markdown fields.
	assert.NotContains(t, products[2], "original_price")
	assert.Equal(t, false, products[5]["in_stock"])
}

func TestGetProduct(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{name: "found", path: "/api/products/3", wantStatus: http.StatusOK},
		{name: "unknown", path: "/api/products/99", wantStatus: http.StatusNotFound},
		{name: "malformed", path: "/api/products/abc", wantStatus: http.StatusBadRequest},
		{name: "non-positive", path: "/api/products/0", wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := do(t, srv, http.MethodGet, tt.path, "")
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus != http.StatusOK {
				assert.Equal(t, float64(tt.wantStatus), body["code"])
				assert.NotEmpty(t, body["message"])
			}
		})
	}
}

func TestListCategories(t *testing.T) {
	srv := newTestServer(t)

	w, _ := do(t, srv, http.MethodGet, "/api/categories", "")
	require.Equal(t, http.StatusOK, w.Code)

	var categories []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &categories))
	require.Len(t, categories, 4)
	assert.Equal(t, "Электроника", categories[0]["name"])
	assert.Equal(t, "Smartphone", categories[0]["icon"])
}

func TestCartFlow(t *testing.T) {
	srv := newTestServer(t)

	do(t, srv, http.MethodPost, "/api/cart/items/1", "")
	do(t, srv, http.MethodPost, "/api/cart/items/1", "")
	w, body := do(t, srv, http.MethodPost, "/api/cart/items/2", "")
	require.Equal(t, http.StatusOK, w.Code)

	items := body["items"].([]any)
	require.Len(t, items, 2)
	first := items[0].(map[string]any)
	assert.Equal(t, float64(2), first["quantity"])
	assert.Equal(t, float64(9980), first["line_total"])
	assert.Nil(t, body["promo"])

	tt := totals(t, body)
	assert.Equal(t, float64(18970), tt["subtotal"])
	assert.Equal(t, float64(0), tt["promo_discount"])
	assert.Equal(t, float64(18970), tt["total"])
	assert.Equal(t, float64(3), tt["item_count"])

	w, body = do(t, srv, http.MethodPost, "/api/promo", `{"code":" welcome20 "}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["applied"])
	assert.Equal(t, map[string]any{"code": "WELCOME20", "percent": float64(20)}, body["promo"])
	tt = totals(t, body)
	assert.Equal(t, float64(3794), tt["promo_discount"])
	assert.Equal(t, float64(15176), tt["total"])

	w, body = do(t, srv, http.MethodPatch, "/api/cart/items/1", `{"delta":-2}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, body["items"], 1)
	assert.Equal(t, float64(1), totals(t, body)["item_count"])

	w, body = do(t, srv, http.MethodDelete, "/api/cart/items/2", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, body["items"])
	assert.Equal(t, float64(0), totals(t, body)["total"])

	w, body = do(t, srv, http.MethodDelete, "/api/promo", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, body["promo"])
}

func TestCart_Errors(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{name: "out of stock", method: http.MethodPost, path: "/api/cart/items/6", wantStatus: http.StatusConflict},
		{name: "malformed id", method: http.MethodPost, path: "/api/cart/items/x", wantStatus: http.StatusBadRequest},
		{name: "negative id", method: http.MethodDelete, path: "/api/cart/items/-1", wantStatus: http.StatusBadRequest},
		{name: "missing body", method: http.MethodPatch, path: "/api/cart/items/1", wantStatus: http.StatusBadRequest},
		{name: "missing delta", method: http.MethodPatch, path: "/api/cart/items/1", body: `{"qty":1}`, wantStatus: http.StatusBadRequest},
		{name: "non-integer delta", method: http.MethodPatch, path: "/api/cart/items/1", body: `{"delta":"1"}`, wantStatus: http.StatusBadRequest},
		{name: "invalid json", method: http.MethodPost, path: "/api/promo", body: `{"code":`, wantStatus: http.StatusBadRequest},
		{name: "empty checkout", method: http.MethodPost, path: "/api/cart/checkout", wantStatus: http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := do(t, srv, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, float64(tt.wantStatus), body["code"])
		})
	}
}

func TestCart_QuantityLimit(t *testing.T) {
	srv := newTestServer(t)
	do(t, srv, http.MethodPost, "/api/cart/items/1", "")
	do(t, srv, http.MethodPost, "/api/cart/items/1", "")

	for _, delta := range []string{"9223372036854775807", "9998"} {
		w, body := do(t, srv, http.MethodPatch, "/api/cart/items/1", `{"delta":`+delta+`}`)
		assert.Equal(t, http.StatusBadRequest, w.Code, delta)
		assert.Equal(t, float64(http.StatusBadRequest), body["code"], delta)
	}

	_, cart := do(t, srv, http.MethodGet, "/api/cart", "")
	items, ok := cart["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.Equal(t, float64(2), items[0].(map[string]any)["quantity"])
	assert.Equal(t, float64(2), totals(t, cart)["item_count"])
}

func TestCart_UnknownProductIsNoop(t *testing.T) {
	srv := newTestServer(t)

	w, body := do(t, srv, http.MethodPost, "/api/cart/items/42", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, body["items"])
}

func TestApplyPromo_Unknown(t *testing.T) {
	srv := newTestServer(t)

	do(t, srv, http.MethodPost, "/api/cart/items/3", "")
	do(t, srv, http.MethodPost, "/api/promo", `{"code":"SALE10"}`)

	w, body := do(t, srv, http.MethodPost, "/api/promo", `{"code":"NOPE"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["applied"])
	assert.Nil(t, body["promo"])
	assert.Equal(t, float64(2490), totals(t, body)["total"])
}

func TestCheckout(t *testing.T) {
	srv := newTestServer(t)

	do(t, srv, http.MethodPost, "/api/cart/items/4", "")
	do(t, srv, http.MethodPost, "/api/favorites/4/toggle", "")
	do(t, srv, http.MethodPost, "/api/promo", `{"code":"VIP30"}`)

	w, body := do(t, srv, http.MethodPost, "/api/cart/checkout", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["id"], 36)
	assert.NotEmpty(t, body["created_at"])
	assert.Len(t, body["items"], 1)
	assert.Equal(t, "VIP30", body["promo"].(map[string]any)["code"])
	tt := totals(t, body)
	assert.Equal(t, float64(387), tt["promo_discount"])
	assert.Equal(t, float64(903), tt["total"])

	_, cart := do(t, srv, http.MethodGet, "/api/cart", "")
	assert.Empty(t, cart["items"])
	assert.Nil(t, cart["promo"])

	w, _ = do(t, srv, http.MethodGet, "/api/favorites", "")
	var favorites []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &favorites))
	assert.Len(t, favorites, 1)
}

func TestFavorites(t *testing.T) {
	srv := newTestServer(t)

	w, body := do(t, srv, http.MethodPost, "/api/favorites/5/toggle", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"id": float64(5), "favorite": true, "count": float64(1)}, body)

	do(t, srv, http.MethodPost, "/api/favorites/2/toggle", "")

	w, _ = do(t, srv, http.MethodGet, "/api/favorites", "")
	var favorites []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &favorites))
	require.Len(t, favorites, 2)
	assert.Equal(t, float64(2), favorites[0]["id"])
	assert.Equal(t, float64(5), favorites[1]["id"])

	_, body = do(t, srv, http.MethodPost, "/api/favorites/5/toggle", "")
	assert.Equal(t, false, body["favorite"])
	assert.Equal(t, float64(1), body["count"])

	w, _ = do(t, srv, http.MethodPost, "/api/favorites/0/toggle", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResetSession(t *testing.T) {
	srv := newTestServer(t)

	do(t, srv, http.MethodPost, "/api/cart/items/1", "")
	do(t, srv, http.MethodPost, "/api/favorites/1/toggle", "")

	w, _ := do(t, srv, http.MethodPost, "/api/session/reset", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	_, body := do(t, srv, http.MethodGet, "/api/screens/home", "")
	assert.Equal(t, map[string]any{"cart": float64(0), "favorites": float64(0)}, body["badges"])
}

func TestRenderScreen(t *testing.T) {
	srv := newTestServer(t)
	do(t, srv, http.MethodPost, "/api/cart/items/1", "")

	for _, s := range view.Screens {
		t.Run(string(s), func(t *testing.T) {
			w, body := do(t, srv, http.MethodGet, "/api/screens/"+string(s), "")
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, string(s), body["screen"])
			assert.Contains(t, body, string(s))
			assert.Equal(t, float64(1), body["badges"].(map[string]any)["cart"])
		})
	}

	t.Run("unknown", func(t *testing.T) {
		w, body := do(t, srv, http.MethodGet, "/api/screens/checkout", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, float64(404), body["code"])
	})

	t.Run("catalog filter", func(t *testing.T) {
		_, body := do(t, srv, http.MethodGet, "/api/screens/catalog?category="+url.QueryEscape("Аксессуары"), "")
		c := body["catalog"].(map[string]any)
		assert.Equal(t, "Аксессуары", c["selected"])
		assert.Len(t, c["products"], 1)
	})

	t.Run("search query", func(t *testing.T) {
		_, body := do(t, srv, http.MethodGet, "/api/screens/search?q="+url.QueryEscape(" часы "), "")
		s := body["search"].(map[string]any)
		assert.Equal(t, "часы", s["query"])
		require.Len(t, s["results"], 1)
		card := s["results"].([]any)[0].(map[string]any)
		assert.Equal(t, float64(2), card["product"].(map[string]any)["id"])
	})
}
