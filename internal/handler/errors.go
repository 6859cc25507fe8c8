package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/domain/product"
	"github.com/xenking/storefront/internal/domain/selection"
	"github.com/xenking/storefront/internal/view"
)

// errBadRequest marks malformed path parameters and bodies.
var errBadRequest = errors.New("bad request")

// statusOf maps domain errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, selection.ErrInvalidID),
		errors.Is(err, selection.ErrQuantityLimit):
		return http.StatusBadRequest
	case errors.Is(err, product.ErrNotFound), errors.Is(err, view.ErrUnknownScreen):
		return http.StatusNotFound
	case errors.Is(err, selection.ErrOutOfStock), errors.Is(err, selection.ErrEmptyCart):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes {"code":N,"message":"..."}. Internal errors are logged
// and their details are not exposed.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		zctx.From(r.Context()).Error("Request error", zap.Error(err))
		msg = "internal server error"
	}

	e := jx.GetEncoder()
	defer jx.PutEncoder(e)
	e.Obj(func(e *jx.Encoder) {
		e.Field("code", func(e *jx.Encoder) { e.Int(status) })
		e.Field("message", func(e *jx.Encoder) { e.Str(msg) })
	})
	writeJSON(w, status, e)
}

func writeJSON(w http.ResponseWriter, status int, e *jx.Encoder) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

// pathID parses the {id} path parameter. Range checks are left to the store.
func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(errBadRequest, "invalid product id %q", raw)
	}
	return id, nil
}
