// Package pricing derives cart totals from line items and the applied promo.
//
// Amounts are whole currency units. The promo discount is rounded half-up to
// the nearest unit; since every input is non-negative this is the same as
// decimal.Round(0), which rounds half away from zero.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront/internal/domain/promo"
)

var hundred = decimal.NewFromInt(100)

// Line is a priced cart line.
type Line struct {
	Price    decimal.Decimal
	Quantity int
}

// Totals is a read-only snapshot of the cart value.
type Totals struct {
	Subtotal      decimal.Decimal
	PromoDiscount decimal.Decimal
	Total         decimal.Decimal
	ItemCount     int
}

// Compute returns the totals for lines with the optional applied promo.
func Compute(lines []Line, applied *promo.Applied) Totals {
	subtotal := decimal.Zero
	count := 0
	for _, l := range lines {
		subtotal = subtotal.Add(LineTotal(l))
		count += l.Quantity
	}

	discount := decimal.Zero
	if applied != nil {
		discount = Discount(subtotal, applied.Percent)
	}

	return Totals{
		Subtotal:      subtotal,
		PromoDiscount: discount,
		Total:         floorAtZero(subtotal.Sub(discount)),
		ItemCount:     count,
	}
}

// LineTotal returns price × quantity.
func LineTotal(l Line) decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Discount returns round(subtotal × percent / 100), capped at subtotal.
func Discount(subtotal decimal.Decimal, percent int) decimal.Decimal {
	amount := subtotal.Mul(decimal.NewFromInt(int64(percent))).Div(hundred).Round(0)
	amount = floorAtZero(amount)
	return decimal.Min(amount, floorAtZero(subtotal))
}

func floorAtZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
