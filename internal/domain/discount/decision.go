package discount

import (
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
)

// ApplicationStrategy tells the host how to combine competing discounts.
type ApplicationStrategy string

// StrategyMaximum keeps only the highest-value applicable discount. It is the
// single strategy the host fixes for this app; evaluators pass it through
// rather than compute it.
const StrategyMaximum ApplicationStrategy = "MAXIMUM"

// Target references one targeted product variant by its identifier.
type Target struct {
	VariantID string
}

// Value is the discount value union: Percentage or FixedAmount.
type Value interface {
	encodeValue(e *jx.Encoder)
}

// Percentage discounts each target by a percentage in [0, 100].
type Percentage struct {
	Value decimal.Decimal
}

// FixedAmount discounts each target by a fixed money amount.
type FixedAmount struct {
	Amount decimal.Decimal
}

// Discount is one discount entry: the targeted lines and the value applied
// to them. An entry with zero targets is meaningful — the configuration was
// active but no line qualified.
type Discount struct {
	Targets []Target
	Value   Value
}

// Decision is an evaluator's complete answer for one cart.
type Decision struct {
	Discounts []Discount
	Strategy  ApplicationStrategy
}

// Empty is the explicit "no discount" sentinel: a structurally valid decision
// with an empty discounts list. Returned when the configuration is inactive
// or a cart-level gate fails.
func Empty() Decision {
	return Decision{Discounts: []Discount{}, Strategy: StrategyMaximum}
}

// single wraps one discount entry into a decision.
func single(targets []Target, value Value) Decision {
	return Decision{
		Discounts: []Discount{{Targets: targets, Value: value}},
		Strategy:  StrategyMaximum,
	}
}

// Encode writes the decision in the host wire format:
//
//	{"discounts":[{"targets":[{"productVariant":{"id":"..."}}],
//	  "value":{"percentage":{"value":"10"}}}],
//	 "discountApplicationStrategy":"MAXIMUM"}
//
// Percentages are serialized as decimal strings, fixed amounts as strings
// rounded to two places (half away from zero).
func (d Decision) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("discounts")
	e.ArrStart()
	for _, disc := range d.Discounts {
		disc.encode(e)
	}
	e.ArrEnd()
	e.FieldStart("discountApplicationStrategy")
	e.Str(string(d.Strategy))
	e.ObjEnd()
}

// MarshalJSON implements json.Marshaler via the jx encoder so the wire shape
// is identical regardless of which serializer the caller uses.
func (d Decision) MarshalJSON() ([]byte, error) {
	var e jx.Encoder
	d.Encode(&e)
	return e.Bytes(), nil
}

func (disc Discount) encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("targets")
	e.ArrStart()
	for _, t := range disc.Targets {
		e.ObjStart()
		e.FieldStart("productVariant")
		e.ObjStart()
		e.FieldStart("id")
		e.Str(t.VariantID)
		e.ObjEnd()
		e.ObjEnd()
	}
	e.ArrEnd()
	e.FieldStart("value")
	e.ObjStart()
	disc.Value.encodeValue(e)
	e.ObjEnd()
	e.ObjEnd()
}

func (v Percentage) encodeValue(e *jx.Encoder) {
	e.FieldStart("percentage")
	e.ObjStart()
	e.FieldStart("value")
	e.Str(v.Value.String())
	e.ObjEnd()
}

func (v FixedAmount) encodeValue(e *jx.Encoder) {
	e.FieldStart("fixedAmount")
	e.ObjStart()
	e.FieldStart("amount")
	e.Str(v.Amount.Round(2).StringFixed(2))
	e.ObjEnd()
}
