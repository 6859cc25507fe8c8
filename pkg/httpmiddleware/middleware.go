// Package httpmiddleware contains the HTTP middleware chain shared by the
// storefront servers.
package httpmiddleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Middleware wraps an http.Handler.
type Middleware func(next http.Handler) http.Handler

// Wrap applies middlewares to h. The first middleware is the outermost.
func Wrap(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// RouteFinder returns the route pattern that served r.
type RouteFinder func(r *http.Request) (string, bool)

// ChiRouteFinder reads the matched pattern from the chi routing context. The
// pattern is only known once routing has happened, so middlewares must call
// it after next.ServeHTTP returns and must be mounted inside the chi router.
func ChiRouteFinder(r *http.Request) (string, bool) {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return "", false
	}
	pattern := rctx.RoutePattern()
	if pattern == "" {
		return "", false
	}
	return pattern, true
}
