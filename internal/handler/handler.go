// Package handler exposes the storefront over a JSON HTTP API. It is the only
// mutation path into the selection store.
package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel/metric"

	"github.com/xenking/storefront/internal/catalog"
	"github.com/xenking/storefront/internal/domain/selection"
	"github.com/xenking/storefront/internal/view"
)

// Handler serves the /api routes.
type Handler struct {
	catalog *catalog.Provider
	store   *selection.Store
	views   *view.Router
	metrics *metrics
}

// NewHandler constructs a Handler with the required dependencies.
func NewHandler(
	c *catalog.Provider,
	store *selection.Store,
	views *view.Router,
	mp metric.MeterProvider,
) (*Handler, error) {
	m, err := newMetrics(mp)
	if err != nil {
		return nil, errors.Wrap(err, "create metrics")
	}
	return &Handler{
		catalog: c,
		store:   store,
		views:   views,
		metrics: m,
	}, nil
}

// Routes registers the API routes on r.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.ListProducts)
		r.Get("/products/{id}", h.GetProduct)
		r.Get("/categories", h.ListCategories)

		r.Get("/cart", h.GetCart)
		r.Post("/cart/items/{id}", h.AddToCart)
		r.Delete("/cart/items/{id}", h.RemoveFromCart)
		r.Patch("/cart/items/{id}", h.UpdateQuantity)
		r.Post("/cart/checkout", h.Checkout)

		r.Get("/favorites", h.ListFavorites)
		r.Post("/favorites/{id}/toggle", h.ToggleFavorite)

		r.Post("/promo", h.ApplyPromo)
		r.Delete("/promo", h.ClearPromo)

		r.Post("/session/reset", h.ResetSession)

		r.Get("/screens/{screen}", h.RenderScreen)
	})
}
