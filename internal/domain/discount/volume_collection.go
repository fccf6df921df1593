package discount

import (
	"github.com/bloomcart/discount-engine/internal/domain/cart"
)

// EvaluateVolumeByCollection discounts every variant line whose product
// belongs to one of the configured collections (pre-resolved by the host into
// Product.InAnyCollection), but only when the cart as a whole carries at
// least cfg.Quantity such lines. The threshold is a cart-wide gate, not a
// per-line one: below it, the decision is active with zero targets.
func EvaluateVolumeByCollection(snap cart.Snapshot, cfg Config) Decision {
	if cfg.ThresholdInactive() {
		return Empty()
	}

	matching := 0
	for _, line := range snap.Lines {
		if v, ok := line.Merchandise.Variant(); ok && v.Product.InAnyCollection {
			matching++
		}
	}

	var targets []Target
	if matching >= cfg.Quantity {
		for _, line := range snap.Lines {
			if v, ok := line.Merchandise.Variant(); ok && v.Product.InAnyCollection {
				targets = append(targets, Target{VariantID: v.ID})
			}
		}
	}

	return single(targets, cfg.thresholdValue())
}
