package handler

import (
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// maxBodySize bounds request bodies. Every body the API accepts is a tiny object.
const maxBodySize = 4 << 10

// readBody reads the request body and rejects empty payloads.
func readBody(r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return nil, errors.Wrap(errBadRequest, "read body")
	}
	if len(data) == 0 {
		return nil, errors.Wrap(errBadRequest, "empty body")
	}
	return data, nil
}

func (h *Handler) writeCart(w http.ResponseWriter) {
	e := jx.GetEncoder()
	defer jx.PutEncoder(e)
	encodeCart(e, h.store.Snapshot())
	writeJSON(w, http.StatusOK, e)
}

// GetCart returns the cart entries, the applied promo and the totals.
func (h *Handler) GetCart(w http.ResponseWriter, _ *http.Request) {
	h.writeCart(w)
}

// AddToCart adds one unit of the product.
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err == nil {
		err = h.store.AddToCart(id)
	}
	h.metrics.mutation(r.Context(), "add", err)
	if err != nil {
		writeError(w, r, err)
		return
	}
	zctx.From(r.Context()).Debug("Added to cart", zap.Int64("product_id", id))
	h.writeCart(w)
}

// RemoveFromCart deletes the product's entry.
func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err == nil {
		err = h.store.RemoveFromCart(id)
	}
	h.metrics.mutation(r.Context(), "remove", err)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.writeCart(w)
}

// decodeDelta parses {"delta": n}. The field is required.
func decodeDelta(data []byte) (int, error) {
	var (
		delta int
		found bool
	)
	d := jx.DecodeBytes(data)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "delta" {
			return d.Skip()
		}
		v, err := d.Int()
		if err != nil {
			return err
		}
		delta, found = v, true
		return nil
	}); err != nil {
		return 0, errors.Wrapf(errBadRequest, "decode body: %v", err)
	}
	if !found {
		return 0, errors.Wrap(errBadRequest, "missing delta")
	}
	return delta, nil
}

// UpdateQuantity applies a signed quantity delta to the entry.
func (h *Handler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err == nil {
		var data []byte
		if data, err = readBody(r); err == nil {
			var delta int
			if delta, err = decodeDelta(data); err == nil {
				err = h.store.SetQuantityDelta(id, delta)
			}
		}
	}
	h.metrics.mutation(r.Context(), "delta", err)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.writeCart(w)
}

// Checkout clears the cart and the promo and returns the receipt.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.store.Checkout()
	h.metrics.mutation(r.Context(), "checkout", err)
	if err != nil {
		writeError(w, r, err)
		return
	}
	zctx.From(r.Context()).Info("Checkout",
		zap.String("receipt_id", receipt.ID),
		zap.Int("items", receipt.Totals.ItemCount),
		zap.Stringer("total", receipt.Totals.Total),
	)

	e := jx.GetEncoder()
	defer jx.PutEncoder(e)
	encodeReceipt(e, receipt)
	writeJSON(w, http.StatusOK, e)
}

// ResetSession returns the store to its initial state.
func (h *Handler) ResetSession(w http.ResponseWriter, r *http.Request) {
	h.store.Reset()
	h.metrics.mutation(r.Context(), "reset", nil)
	w.WriteHeader(http.StatusNoContent)
}
