// Package cart models the read-only cart snapshot supplied by the checkout
// engine to every discount evaluation. Snapshots are constructed per call and
// never mutated by the evaluators.
package cart

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Snapshot is the cart state at evaluation time.
type Snapshot struct {
	Lines []Line        `json:"lines"`
	Cost  Cost          `json:"cost"`
	Buyer BuyerIdentity `json:"buyerIdentity"`
}

// Cost holds the cart-level money amounts.
type Cost struct {
	SubtotalAmount Money `json:"subtotalAmount"`
	TotalAmount    Money `json:"totalAmount"`
}

// Money is a decimal amount as delivered on the wire ({"amount": "12.34"}).
type Money struct {
	Amount decimal.Decimal `json:"amount"`
}

// BuyerIdentity carries the customer attributes relevant to tag gating.
// All paths are optional; absent values read as false.
type BuyerIdentity struct {
	Customer *Customer `json:"customer"`
}

// Customer holds the pre-resolved tag membership flag for the buyer.
type Customer struct {
	HasAnyTag bool `json:"hasAnyTag"`
}

// HasAnyTag reports whether the buyer carries one of the configured customer
// tags. A missing customer resolves to false.
func (b BuyerIdentity) HasAnyTag() bool {
	return b.Customer != nil && b.Customer.HasAnyTag
}

// Line is a single cart entry.
type Line struct {
	Merchandise Merchandise `json:"merchandise"`
	Quantity    int         `json:"quantity"`
	Cost        LineCost    `json:"cost"`
}

// LineCost holds the per-line money amounts.
type LineCost struct {
	AmountPerQuantity Money `json:"amountPerQuantity"`
}

// Product holds the pre-resolved product flags the host computes for the
// configured collections and tags.
type Product struct {
	InAnyCollection bool `json:"inAnyCollection"`
	HasAnyTag       bool `json:"hasAnyTag"`
}

// Variant is product-variant merchandise, the only merchandise kind that can
// be targeted by a discount.
type Variant struct {
	ID      string  `json:"id"`
	Product Product `json:"product"`
}

// Merchandise is a tagged union over the merchandise kinds the host can put
// on a line. Only the product-variant arm participates in targeting; every
// other kind (custom products, gift cards) is opaque.
type Merchandise struct {
	variant *Variant
}

// VariantMerchandise wraps a product variant as line merchandise.
func VariantMerchandise(v Variant) Merchandise {
	return Merchandise{variant: &v}
}

// OtherMerchandise is any non-variant merchandise kind.
func OtherMerchandise() Merchandise {
	return Merchandise{}
}

// Variant returns the product-variant arm of the union, if present.
func (m Merchandise) Variant() (Variant, bool) {
	if m.variant == nil {
		return Variant{}, false
	}
	return *m.variant, true
}

// merchandiseWire mirrors the host's polymorphic merchandise document, which
// is discriminated by __typename.
type merchandiseWire struct {
	Typename string  `json:"__typename"`
	ID       string  `json:"id"`
	Product  Product `json:"product"`
}

// UnmarshalJSON decodes the host's discriminated merchandise document. Any
// typename other than ProductVariant decodes to the opaque arm.
func (m *Merchandise) UnmarshalJSON(data []byte) error {
	var w merchandiseWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.Typename != "ProductVariant" {
		*m = OtherMerchandise()
		return nil
	}
	*m = VariantMerchandise(Variant{ID: w.ID, Product: w.Product})
	return nil
}

// MarshalJSON re-encodes the union in the host's wire shape. Used by tests
// and fixtures; the evaluators themselves never serialize snapshots.
func (m Merchandise) MarshalJSON() ([]byte, error) {
	if m.variant == nil {
		return json.Marshal(merchandiseWire{Typename: "CustomProduct"})
	}
	return json.Marshal(merchandiseWire{
		Typename: "ProductVariant",
		ID:       m.variant.ID,
		Product:  m.variant.Product,
	})
}
