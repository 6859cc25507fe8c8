package handler

import (
	"time"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront/internal/catalog"
	"github.com/xenking/storefront/internal/domain/order"
	"github.com/xenking/storefront/internal/domain/pricing"
	"github.com/xenking/storefront/internal/domain/product"
	"github.com/xenking/storefront/internal/domain/promo"
	"github.com/xenking/storefront/internal/domain/selection"
	"github.com/xenking/storefront/internal/view"
)

// Money is encoded as a JSON number in whole currency units.
func encodeMoney(e *jx.Encoder, d decimal.Decimal) {
	e.Num(jx.Num(d.String()))
}

func encodeProduct(e *jx.Encoder, p product.Product) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Int64(p.ID) })
		e.Field("name", func(e *jx.Encoder) { e.Str(p.Name) })
		e.Field("price", func(e *jx.Encoder) { encodeMoney(e, p.Price) })
		if p.Markdown != nil {
			e.Field("original_price", func(e *jx.Encoder) { encodeMoney(e, p.Markdown.OriginalPrice) })
			e.Field("discount_percent", func(e *jx.Encoder) { e.Int(p.Markdown.Percent) })
		}
		e.Field("category", func(e *jx.Encoder) { e.Str(p.Category) })
		e.Field("in_stock", func(e *jx.Encoder) { e.Bool(p.InStock) })
		e.Field("image", func(e *jx.Encoder) { e.Str(p.Image) })
	})
}

func encodeProducts(e *jx.Encoder, products []product.Product) {
	e.Arr(func(e *jx.Encoder) {
		for _, p := range products {
			encodeProduct(e, p)
		}
	})
}

func encodeCategories(e *jx.Encoder, categories []product.Category) {
	e.Arr(func(e *jx.Encoder) {
		for _, c := range categories {
			e.Obj(func(e *jx.Encoder) {
				e.Field("name", func(e *jx.Encoder) { e.Str(c.Name) })
				e.Field("icon", func(e *jx.Encoder) { e.Str(c.Icon) })
				e.Field("color", func(e *jx.Encoder) { e.Str(c.Color) })
			})
		}
	})
}

func encodePromo(e *jx.Encoder, a *promo.Applied) {
	if a == nil {
		e.Null()
		return
	}
	e.Obj(func(e *jx.Encoder) {
		e.Field("code", func(e *jx.Encoder) { e.Str(a.Code) })
		e.Field("percent", func(e *jx.Encoder) { e.Int(a.Percent) })
	})
}

func encodeTotals(e *jx.Encoder, t pricing.Totals) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("subtotal", func(e *jx.Encoder) { encodeMoney(e, t.Subtotal) })
		e.Field("promo_discount", func(e *jx.Encoder) { encodeMoney(e, t.PromoDiscount) })
		e.Field("total", func(e *jx.Encoder) { encodeMoney(e, t.Total) })
		e.Field("item_count", func(e *jx.Encoder) { e.Int(t.ItemCount) })
	})
}

func encodeLine(e *jx.Encoder, p product.Product, quantity int, total decimal.Decimal) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("product", func(e *jx.Encoder) { encodeProduct(e, p) })
		e.Field("quantity", func(e *jx.Encoder) { e.Int(quantity) })
		e.Field("line_total", func(e *jx.Encoder) { encodeMoney(e, total) })
	})
}

func encodeEntries(e *jx.Encoder, entries []selection.Entry) {
	e.Arr(func(e *jx.Encoder) {
		for _, en := range entries {
			total := pricing.LineTotal(pricing.Line{Price: en.Product.Price, Quantity: en.Quantity})
			encodeLine(e, en.Product, en.Quantity, total)
		}
	})
}

func encodeCart(e *jx.Encoder, snap selection.Snapshot) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("items", func(e *jx.Encoder) { encodeEntries(e, snap.Entries) })
		e.Field("promo", func(e *jx.Encoder) { encodePromo(e, snap.Promo) })
		e.Field("totals", func(e *jx.Encoder) { encodeTotals(e, snap.Totals) })
	})
}

func encodeReceipt(e *jx.Encoder, r *selection.Receipt) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(r.ID) })
		e.Field("created_at", func(e *jx.Encoder) { e.Str(r.CreatedAt.UTC().Format(time.RFC3339)) })
		e.Field("items", func(e *jx.Encoder) { encodeEntries(e, r.Entries) })
		e.Field("promo", func(e *jx.Encoder) { encodePromo(e, r.Promo) })
		e.Field("totals", func(e *jx.Encoder) { encodeTotals(e, r.Totals) })
	})
}

func encodeCards(e *jx.Encoder, cards []view.Card) {
	e.Arr(func(e *jx.Encoder) {
		for _, c := range cards {
			e.Obj(func(e *jx.Encoder) {
				e.Field("product", func(e *jx.Encoder) { encodeProduct(e, c.Product) })
				e.Field("favorite", func(e *jx.Encoder) { e.Bool(c.Favorite) })
				e.Field("can_add", func(e *jx.Encoder) { e.Bool(c.CanAdd) })
			})
		}
	})
}

func encodeStrings(e *jx.Encoder, ss []string) {
	e.Arr(func(e *jx.Encoder) {
		for _, s := range ss {
			e.Str(s)
		}
	})
}

func encodeOrders(e *jx.Encoder, orders []order.Summary) {
	e.Arr(func(e *jx.Encoder) {
		for _, s := range orders {
			e.Obj(func(e *jx.Encoder) {
				e.Field("number", func(e *jx.Encoder) { e.Str(s.Order.Number) })
				e.Field("placed_at", func(e *jx.Encoder) { e.Str(s.Order.PlacedAt.Format(time.DateOnly)) })
				e.Field("status", func(e *jx.Encoder) { e.Str(string(s.Order.Status)) })
				e.Field("item_count", func(e *jx.Encoder) { e.Int(s.Order.ItemCount()) })
				e.Field("total", func(e *jx.Encoder) { encodeMoney(e, s.Order.Total) })
				e.Field("products", func(e *jx.Encoder) { encodeProducts(e, s.Products) })
			})
		}
	})
}

func encodeProfile(e *jx.Encoder, p *catalog.Profile) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("name", func(e *jx.Encoder) { e.Str(p.Name) })
		e.Field("email", func(e *jx.Encoder) { e.Str(p.Email) })
		e.Field("menu", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, m := range p.Menu {
					e.Obj(func(e *jx.Encoder) {
						e.Field("title", func(e *jx.Encoder) { e.Str(m.Title) })
						e.Field("icon", func(e *jx.Encoder) { e.Str(m.Icon) })
						if m.Screen != "" {
							e.Field("screen", func(e *jx.Encoder) { e.Str(m.Screen) })
						}
					})
				}
			})
		})
	})
}

func encodeNotifications(e *jx.Encoder, ns []catalog.Notification) {
	e.Arr(func(e *jx.Encoder) {
		for _, n := range ns {
			e.Obj(func(e *jx.Encoder) {
				e.Field("title", func(e *jx.Encoder) { e.Str(n.Title) })
				e.Field("body", func(e *jx.Encoder) { e.Str(n.Body) })
				e.Field("age", func(e *jx.Encoder) { e.Str(n.Age) })
				e.Field("kind", func(e *jx.Encoder) { e.Str(string(n.Kind)) })
				e.Field("icon", func(e *jx.Encoder) { e.Str(n.Kind.Icon()) })
			})
		}
	})
}

// encodeView writes {"screen":..., "badges":{...}, <screen>: {...}}.
func encodeView(e *jx.Encoder, v view.View) {
	e.ObjStart()
	e.Field("screen", func(e *jx.Encoder) { e.Str(string(v.Screen)) })
	e.Field("badges", func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("cart", func(e *jx.Encoder) { e.Int(v.Badges.Cart) })
			e.Field("favorites", func(e *jx.Encoder) { e.Int(v.Badges.Favorites) })
		})
	})

	switch {
	case v.Home != nil:
		e.Field("home", func(e *jx.Encoder) {
			e.Obj(func(e *jx.Encoder) {
				e.Field("banner", func(e *jx.Encoder) {
					e.Obj(func(e *jx.Encoder) {
						e.Field("title", func(e *jx.Encoder) { e.Str(v.Home.Banner.Title) })
						e.Field("subtitle", func(e *jx.Encoder) { e.Str(v.Home.Banner.Subtitle) })
						e.Field("action", func(e *jx.Encoder) { e.Str(v.Home.Banner.Action) })
					})
				})
				e.Field("categories", func(e *jx.Encoder) { encodeCategories(e, v.Home.Categories) })
				e.Field("offers", func(e *jx.Encoder) { encodeCards(e, v.Home.Offers) })
			})
		})
	case v.Catalog != nil:
		e.Field("catalog", func(e *jx.Encoder) {
			e.Obj(func(e *jx.Encoder) {
				e.Field("filters", func(e *jx.Encoder) { encodeStrings(e, v.Catalog.Filters) })
				e.Field("selected", func(e *jx.Encoder) { e.Str(v.Catalog.Selected) })
				e.Field("products", func(e *jx.Encoder) { encodeCards(e, v.Catalog.Products) })
			})
		})
	case v.Cart != nil:
		e.Field("cart", func(e *jx.Encoder) {
			e.Obj(func(e *jx.Encoder) {
				e.Field("items", func(e *jx.Encoder) {
					e.Arr(func(e *jx.Encoder) {
						for _, l := range v.Cart.Lines {
							encodeLine(e, l.Product, l.Quantity, l.LineTotal)
						}
					})
				})
				e.Field("promo", func(e *jx.Encoder) { encodePromo(e, v.Cart.Promo) })
				e.Field("totals", func(e *jx.Encoder) { encodeTotals(e, v.Cart.Totals) })
				e.Field("codes", func(e *jx.Encoder) { encodeStrings(e, v.Cart.Codes) })
			})
		})
	case v.Favorites != nil:
		e.Field("favorites", func(e *jx.Encoder) {
			e.Obj(func(e *jx.Encoder) {
				e.Field("products", func(e *jx.Encoder) { encodeCards(e, v.Favorites.Products) })
			})
		})
	case v.Profile != nil:
		e.Field("profile", func(e *jx.Encoder) { encodeProfile(e, v.Profile) })
	case v.Orders != nil:
		e.Field("orders", func(e *jx.Encoder) {
			e.Obj(func(e *jx.Encoder) {
				e.Field("orders", func(e *jx.Encoder) { encodeOrders(e, v.Orders.Orders) })
			})
		})
	case v.Search != nil:
		e.Field("search", func(e *jx.Encoder) {
			e.Obj(func(e *jx.Encoder) {
				e.Field("query", func(e *jx.Encoder) { e.Str(v.Search.Query) })
				e.Field("popular", func(e *jx.Encoder) { encodeStrings(e, v.Search.Popular) })
				e.Field("results", func(e *jx.Encoder) { encodeCards(e, v.Search.Results) })
			})
		})
	case v.Screen == view.Notifications:
		e.Field("notifications", func(e *jx.Encoder) { encodeNotifications(e, v.Notifications) })
	}
	e.ObjEnd()
}
