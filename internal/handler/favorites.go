package handler

import (
	"net/http"
	"slices"

	"github.com/go-faster/jx"

	"github.com/xenking/storefront/internal/domain/product"
)

// ListFavorites returns the favorite products in catalog order.
func (h *Handler) ListFavorites(w http.ResponseWriter, _ *http.Request) {
	favorites := h.store.Favorites()
	var products []product.Product
	for _, p := range h.catalog.Products() {
		if slices.Contains(favorites, p.ID) {
			products = append(products, p)
		}
	}

	e := jx.GetEncoder()
	defer jx.PutEncoder(e)
	encodeProducts(e, products)
	writeJSON(w, http.StatusOK, e)
}

// ToggleFavorite flips the favorite flag of the product.
func (h *Handler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err == nil {
		err = h.store.ToggleFavorite(id)
	}
	h.metrics.mutation(r.Context(), "favorite", err)
	if err != nil {
		writeError(w, r, err)
		return
	}

	e := jx.GetEncoder()
	defer jx.PutEncoder(e)
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Int64(id) })
		e.Field("favorite", func(e *jx.Encoder) { e.Bool(h.store.IsFavorite(id)) })
		e.Field("count", func(e *jx.Encoder) { e.Int(h.store.FavoriteCount()) })
	})
	writeJSON(w, http.StatusOK, e)
}
