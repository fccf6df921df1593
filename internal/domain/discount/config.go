// Package discount implements the evaluators that turn a cart snapshot and a
// merchant configuration into a discount decision. Evaluators are pure and
// reentrant: no I/O, no shared state, identical inputs yield identical
// decisions.
package discount

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// TagType selects which tag gate the tag-based evaluator applies.
type TagType string

const (
	// TagProduct gates on the product carrying one of the configured tags.
	TagProduct TagType = "product"
	// TagCustomer gates on the buyer carrying one of the configured tags.
	TagCustomer TagType = "customer"
	// TagProductCustomer requires both the product and the buyer tag.
	TagProductCustomer TagType = "product_customer"
)

// Config is the merchant-entered configuration, decoded from the metafield
// JSON string. Every field is optional; absent fields keep their zero value.
type Config struct {
	Quantity            int             `json:"quantity"`
	Percentage          decimal.Decimal `json:"percentage"`
	Value               decimal.Decimal `json:"value"`
	VariantIDs          []string        `json:"variant_ids"`
	MinimumOrder        decimal.Decimal `json:"minimum_order"`
	CustomerRequiresTag bool            `json:"customerRequiresTag"`
	TagType             TagType         `json:"tag_type"`
}

// ParseConfig decodes a metafield value. Malformed or empty input yields the
// zero Config rather than an error: a broken configuration must degrade to
// the inactive path, never break checkout.
func ParseConfig(raw string) Config {
	var cfg Config
	if raw == "" {
		return cfg
	}
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return Config{}
	}
	return cfg
}

// ThresholdInactive reports whether a threshold-based configuration has no
// usable quantity/value pairing. The predicate matches the shipped behavior:
// with no quantity, a configuration is only active when it carries both a
// percentage and a fixed value.
func (c Config) ThresholdInactive() bool {
	hasQuantity := c.Quantity != 0
	hasPercentage := !c.Percentage.IsZero()
	hasValue := !c.Value.IsZero()
	return (!hasQuantity && !hasPercentage) || (!hasQuantity && !hasValue)
}

// HasVariant reports whether id is one of the configured target variants.
func (c Config) HasVariant(id string) bool {
	for _, v := range c.VariantIDs {
		if v == id {
			return true
		}
	}
	return false
}

// thresholdValue picks the discount value for the threshold evaluators:
// a non-zero percentage wins over the fixed value.
func (c Config) thresholdValue() Value {
	if !c.Percentage.IsZero() {
		return Percentage{Value: c.Percentage}
	}
	return FixedAmount{Amount: c.Value}
}
