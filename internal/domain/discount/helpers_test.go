package discount

import (
	"github.com/shopspring/decimal"

	"github.com/bloomcart/discount-engine/internal/domain/cart"
)

// lineOpt mutates a line under construction.
type lineOpt func(*cart.Line)

func inCollection() lineOpt {
	return func(l *cart.Line) {
		v, _ := l.Merchandise.Variant()
		v.Product.InAnyCollection = true
		l.Merchandise = cart.VariantMerchandise(v)
	}
}

func tagged() lineOpt {
	return func(l *cart.Line) {
		v, _ := l.Merchandise.Variant()
		v.Product.HasAnyTag = true
		l.Merchandise = cart.VariantMerchandise(v)
	}
}

func unitPrice(s string) lineOpt {
	return func(l *cart.Line) {
		l.Cost.AmountPerQuantity.Amount = decimal.RequireFromString(s)
	}
}

// variantLine builds a product-variant cart line.
func variantLine(id string, qty int, opts ...lineOpt) cart.Line {
	l := cart.Line{
		Merchandise: cart.VariantMerchandise(cart.Variant{ID: id}),
		Quantity:    qty,
	}
	for _, opt := range opts {
		opt(&l)
	}
	return l
}

// otherLine builds a non-variant line (gift card, custom product).
func otherLine(qty int) cart.Line {
	return cart.Line{Merchandise: cart.OtherMerchandise(), Quantity: qty}
}

// snapshot builds a cart with the given subtotal and lines. The total is set
// equal to the subtotal; tests that care about the difference set it directly.
func snapshot(subtotal string, lines ...cart.Line) cart.Snapshot {
	amount := decimal.RequireFromString(subtotal)
	return cart.Snapshot{
		Lines: lines,
		Cost: cart.Cost{
			SubtotalAmount: cart.Money{Amount: amount},
			TotalAmount:    cart.Money{Amount: amount},
		},
	}
}

func taggedBuyer(snap cart.Snapshot) cart.Snapshot {
	snap.Buyer = cart.BuyerIdentity{Customer: &cart.Customer{HasAnyTag: true}}
	return snap
}

func targetIDs(d Decision) []string {
	if len(d.Discounts) == 0 {
		return nil
	}
	ids := make([]string, 0, len(d.Discounts[0].Targets))
	for _, t := range d.Discounts[0].Targets {
		ids = append(ids, t.VariantID)
	}
	return ids
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
