package discount

import (
	"github.com/bloomcart/discount-engine/internal/domain/cart"
)

// EvaluateTags applies a quantity-threshold discount gated on tags. The
// configured TagType picks one of three gates:
//
//	product          - the line's product carries a configured tag
//	customer         - the buyer carries a configured tag
//	product_customer - both of the above
//
// Candidates for the three gates are collected separately and concatenated
// in that fixed order. Only the configured gate can produce candidates, but
// the ordering is part of the output contract and is preserved.
//
// The buyer tag flag lives on the cart, not the line; an absent customer
// reads as untagged.
func EvaluateTags(snap cart.Snapshot, cfg Config) Decision {
	if cfg.ThresholdInactive() {
		return Empty()
	}

	customerTagged := snap.Buyer.HasAnyTag()

	var byProduct, byCustomer, byBoth []Target
	for _, line := range snap.Lines {
		v, ok := line.Merchandise.Variant()
		if !ok || line.Quantity < cfg.Quantity {
			continue
		}

		if cfg.TagType == TagProduct && v.Product.HasAnyTag {
			byProduct = append(byProduct, Target{VariantID: v.ID})
		}
		if cfg.TagType == TagCustomer && customerTagged {
			byCustomer = append(byCustomer, Target{VariantID: v.ID})
		}
		if cfg.TagType == TagProductCustomer && v.Product.HasAnyTag && customerTagged {
			byBoth = append(byBoth, Target{VariantID: v.ID})
		}
	}

	targets := make([]Target, 0, len(byProduct)+len(byCustomer)+len(byBoth))
	targets = append(targets, byProduct...)
	targets = append(targets, byCustomer...)
	targets = append(targets, byBoth...)
	if len(targets) == 0 {
		targets = nil
	}

	return single(targets, cfg.thresholdValue())
}
