package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

func decodeCode(data []byte) (string, error) {
	var (
		code  string
		found bool
	)
	d := jx.DecodeBytes(data)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "code" {
			return d.Skip()
		}
		v, err := d.Str()
		if err != nil {
			return err
		}
		code, found = v, true
		return nil
	}); err != nil {
		return "", errors.Wrapf(errBadRequest, "decode body: %v", err)
	}
	if !found {
		return "", errors.Wrap(errBadRequest, "missing code")
	}
	return code, nil
}

// ApplyPromo applies a promo code. An unknown code is not an error: it clears
// the applied promo and reports "applied": false.
func (h *Handler) ApplyPromo(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	code, err := decodeCode(data)
	if err != nil {
		writeError(w, r, err)
		return
	}

	snap, ok := h.store.ApplyCodeSnapshot(code)
	h.metrics.promo(r.Context(), ok)
	zctx.From(r.Context()).Debug("Promo code", zap.Bool("applied", ok))

	e := jx.GetEncoder()
	defer jx.PutEncoder(e)
	e.Obj(func(e *jx.Encoder) {
		e.Field("applied", func(e *jx.Encoder) { e.Bool(ok) })
		e.Field("promo", func(e *jx.Encoder) { encodePromo(e, snap.Promo) })
		e.Field("totals", func(e *jx.Encoder) { encodeTotals(e, snap.Totals) })
	})
	writeJSON(w, http.StatusOK, e)
}

// ClearPromo removes the applied promo.
func (h *Handler) ClearPromo(w http.ResponseWriter, r *http.Request) {
	h.store.ClearPromo()
	h.metrics.mutation(r.Context(), "clear_promo", nil)
	h.writeCart(w)
}
