package cart

import (
	"encoding/json"

	"github.com/go-faster/errors"
)

// Input is the full document the checkout engine hands to a discount
// function: the cart snapshot plus the discount node carrying the merchant
// configuration metafield.
type Input struct {
	Cart         Snapshot     `json:"cart"`
	DiscountNode DiscountNode `json:"discountNode"`
}

// DiscountNode references the discount being evaluated. The metafield is the
// opaque merchant configuration blob written by the admin UI.
type DiscountNode struct {
	Metafield *Metafield `json:"metafield"`
}

// Metafield is the host's persisted key-value blob. Value is a JSON-encoded
// string, not a nested document.
type Metafield struct {
	Value string `json:"value"`
}

// ConfigurationJSON returns the raw configuration string, or "" when the
// discount node carries no metafield.
func (n DiscountNode) ConfigurationJSON() string {
	if n.Metafield == nil {
		return ""
	}
	return n.Metafield.Value
}

// DecodeInput parses a function input document. The cart shape must be
// well-formed; the configuration string inside is deliberately not validated
// here (evaluators tolerate any content).
func DecodeInput(data []byte) (Input, error) {
	var in Input
	if err := json.Unmarshal(data, &in); err != nil {
		return Input{}, errors.Wrap(err, "decode function input")
	}
	return in, nil
}
