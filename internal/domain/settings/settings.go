// Package settings manages merchant-entered discount configuration: the
// opaque JSON blob the admin UI writes and the evaluators later parse. The
// blob is stored as-is; only the fields needed for queries are lifted out.
package settings

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/bloomcart/discount-engine/internal/domain/discount"
)

// ErrNotFound is returned when a requested discount setting does not exist.
var ErrNotFound = errors.New("discount setting not found")

// Setting is one saved discount configuration.
type Setting struct {
	ID    string
	Kind  discount.Kind
	Title string

	// Configuration is the raw metafield JSON exactly as the admin UI sent
	// it. It is never normalized: the evaluator's tolerant parser is the
	// single authority on its meaning.
	Configuration string

	// MinimumOrder is denormalized from the configuration for the gift-offer
	// endpoint's lookup. Zero when the configuration has none.
	MinimumOrder decimal.Decimal

	// ShopifyDiscountGID is the platform discount node this setting backs
	// (gid://shopify/DiscountAutomaticNode/...). Empty until the merchant
	// links one; the metafield push is skipped while empty.
	ShopifyDiscountGID string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository defines persistence for discount settings.
type Repository interface {
	Create(ctx context.Context, s *Setting) error
	GetByID(ctx context.Context, id string) (*Setting, error)
	Update(ctx context.Context, s *Setting) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]Setting, error)
	// LatestByKind returns the most recently updated setting of the given
	// kind, or ErrNotFound.
	LatestByKind(ctx context.Context, kind discount.Kind) (*Setting, error)
}

// GiftProduct is a catalog entry the gift-offer endpoint can serve
// (id, display title, image) for a configured gift variant.
type GiftProduct struct {
	VariantID string
	Title     string
	ImageURL  string
}

// GiftProductRepository resolves gift variants to their display data.
type GiftProductRepository interface {
	GetByVariantID(ctx context.Context, variantID string) (*GiftProduct, error)
	Upsert(ctx context.Context, p *GiftProduct) error
}
