package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/jx"

	"github.com/xenking/storefront/internal/view"
)

// RenderScreen renders a screen view model. The catalog screen accepts
// ?category= and the search screen accepts ?q=.
func (h *Handler) RenderScreen(w http.ResponseWriter, r *http.Request) {
	screen, err := view.ParseScreen(chi.URLParam(r, "screen"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	v, err := h.views.Render(r.Context(), screen, view.Params{
		Category: q.Get("category"),
		Query:    q.Get("q"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	e := jx.GetEncoder()
	defer jx.PutEncoder(e)
	encodeView(e, v)
	writeJSON(w, http.StatusOK, e)
}
