package handler

import (
	"net/http"

	"github.com/go-faster/jx"

	"github.com/xenking/storefront/internal/domain/selection"
)

// ListProducts returns the catalog in display order.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	e := jx.GetEncoder()
	defer jx.PutEncoder(e)
	encodeProducts(e, products)
	writeJSON(w, http.StatusOK, e)
}

// GetProduct returns a single product or 404.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if id <= 0 {
		writeError(w, r, selection.ErrInvalidID)
		return
	}

	p, err := h.catalog.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	e := jx.GetEncoder()
	defer jx.PutEncoder(e)
	encodeProduct(e, *p)
	writeJSON(w, http.StatusOK, e)
}

// ListCategories returns the home screen categories.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.Categories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	e := jx.GetEncoder()
	defer jx.PutEncoder(e)
	encodeCategories(e, categories)
	writeJSON(w, http.StatusOK, e)
}
