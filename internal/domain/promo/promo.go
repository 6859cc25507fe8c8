package promo

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
)

// ErrInvalidTable is returned when a promo code table contains an empty code,
// a duplicate code, or a percentage outside [0, 100].
var ErrInvalidTable = errors.New("invalid promo table")

// Table maps an upper-case promo code to its discount percentage.
type Table map[string]int

// DefaultTable is the code list the storefront ships with.
func DefaultTable() Table {
	return Table{
		"WELCOME20": 20,
		"SALE10":    10,
		"VIP30":     30,
	}
}

// Validate checks that every code is normalized and every percentage is in range.
func (t Table) Validate() error {
	for code, pct := range t {
		if code == "" || code != Normalize(code) {
			return errors.Wrapf(ErrInvalidTable, "code %q is not normalized", code)
		}
		if pct < 0 || pct > 100 {
			return errors.Wrapf(ErrInvalidTable, "code %s: percent %d out of range", code, pct)
		}
	}
	return nil
}

// Applied is the promo currently accepted for the session.
type Applied struct {
	Code    string
	Percent int
}

// Source provides the promo code table loaded at start-up.
type Source interface {
	PromoCodes(ctx context.Context) (Table, error)
}

// Normalize trims surrounding whitespace and upper-cases the code.
func Normalize(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}
