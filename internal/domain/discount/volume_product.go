package discount

import (
	"github.com/bloomcart/discount-engine/internal/domain/cart"
)

// EvaluateVolumeByProduct applies a quantity-threshold discount to explicitly
// listed variants: a line is targeted when its merchandise is one of the
// configured variants and its quantity reaches cfg.Quantity (inclusive).
//
// An inactive configuration yields the empty decision. An active
// configuration with no qualifying lines yields an active decision with an
// empty target list, which is a different answer.
func EvaluateVolumeByProduct(snap cart.Snapshot, cfg Config) Decision {
	if cfg.ThresholdInactive() {
		return Empty()
	}

	var targets []Target
	for _, line := range snap.Lines {
		v, ok := line.Merchandise.Variant()
		if !ok {
			continue
		}
		if line.Quantity >= cfg.Quantity && cfg.HasVariant(v.ID) {
			targets = append(targets, Target{VariantID: v.ID})
		}
	}

	return single(targets, cfg.thresholdValue())
}
