package discount

import (
	"github.com/shopspring/decimal"

	"github.com/bloomcart/discount-engine/internal/domain/cart"
)

// EvaluateOrderGift implements the free-gift order discount: when the cart
// subtotal exceeds cfg.MinimumOrder (strictly — an exactly-equal subtotal
// does not qualify), every line carrying one of the configured gift variants
// is targeted.
//
// The discount mode is derived from the gift lines themselves, scanning all
// lines so a later match overrides an earlier one:
//   - gift line with quantity 1: percentage mode, using cfg.Percentage;
//   - gift line with quantity above 1: fixed mode, the amount being that
//     line's own observed unit price — which makes one unit of the gift
//     effectively free;
//   - no gift line at all: fixed mode with a zero amount.
//
// Unlike the threshold evaluators there is no inactive-configuration
// pre-check; the subtotal gate is the only reject path.
func EvaluateOrderGift(snap cart.Snapshot, cfg Config) Decision {
	if !snap.Cost.SubtotalAmount.Amount.GreaterThan(cfg.MinimumOrder) {
		return Empty()
	}

	usePercentage := false
	giftAmount := decimal.New(0, 0)
	var targets []Target

	for _, line := range snap.Lines {
		v, ok := line.Merchandise.Variant()
		if !ok || !cfg.HasVariant(v.ID) {
			continue
		}

		switch {
		case line.Quantity == 1:
			usePercentage = true
		case line.Quantity > 1:
			usePercentage = false
			giftAmount = line.Cost.AmountPerQuantity.Amount
		}

		targets = append(targets, Target{VariantID: v.ID})
	}

	var value Value
	if usePercentage {
		value = Percentage{Value: cfg.Percentage}
	} else {
		value = FixedAmount{Amount: giftAmount}
	}

	return single(targets, value)
}
