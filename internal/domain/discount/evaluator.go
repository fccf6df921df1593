package discount

import (
	"github.com/go-faster/errors"

	"github.com/bloomcart/discount-engine/internal/domain/cart"
)

// Evaluator is the common shape of every server-side discount function.
type Evaluator func(cart.Snapshot, Config) Decision

// Kind identifies one of the deployed discount functions.
type Kind string

const (
	KindVolumeByProduct    Kind = "product-discount"
	KindVolumeByCollection Kind = "collection-discount"
	KindOrderGift          Kind = "order-discount"
	KindTags               Kind = "tags-discount"
)

// ErrUnknownKind is returned when a kind does not name a deployed evaluator.
var ErrUnknownKind = errors.New("unknown discount kind")

var evaluators = map[Kind]Evaluator{
	KindVolumeByProduct:    EvaluateVolumeByProduct,
	KindVolumeByCollection: EvaluateVolumeByCollection,
	KindOrderGift:          EvaluateOrderGift,
	KindTags:               EvaluateTags,
}

// ByKind returns the evaluator for the given kind.
func ByKind(k Kind) (Evaluator, error) {
	ev, ok := evaluators[k]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownKind, "%q", k)
	}
	return ev, nil
}

// ValidKind reports whether k names a deployed evaluator.
func ValidKind(k Kind) bool {
	_, ok := evaluators[k]
	return ok
}

// Evaluate runs the evaluator for kind against a full function input:
// the configuration is taken from the input's metafield, parsed with the
// tolerate-anything rule, and applied to the cart snapshot.
func Evaluate(k Kind, in cart.Input) (Decision, error) {
	ev, err := ByKind(k)
	if err != nil {
		return Decision{}, err
	}
	cfg := ParseConfig(in.DiscountNode.ConfigurationJSON())
	return ev(in.Cart, cfg), nil
}
