package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bloomcart/discount-engine/internal/domain/settings"
)

const (
	getGiftProductSQL = `SELECT variant_id, title, img_url
		FROM gift_products WHERE variant_id = $1`

	upsertGiftProductSQL = `INSERT INTO gift_products (variant_id, title, img_url)
		VALUES ($1, $2, $3)
		ON CONFLICT (variant_id) DO UPDATE SET title = $2, img_url = $3`
)

var _ settings.GiftProductRepository = (*GiftProductRepository)(nil)

// GiftProductRepository implements settings.GiftProductRepository backed by
// PostgreSQL.
type GiftProductRepository struct {
	pool *pgxpool.Pool
}

// NewGiftProductRepository returns a GiftProductRepository that uses the
// given pool.
func NewGiftProductRepository(pool *pgxpool.Pool) *GiftProductRepository {
	return &GiftProductRepository{pool: pool}
}

// GetByVariantID returns the catalog entry for a variant, or
// settings.ErrNotFound.
func (r *GiftProductRepository) GetByVariantID(ctx context.Context, variantID string) (*settings.GiftProduct, error) {
	var p settings.GiftProduct
	err := r.pool.QueryRow(ctx, getGiftProductSQL, variantID).Scan(
		&p.VariantID, &p.Title, &p.ImageURL,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, settings.ErrNotFound
		}
		return nil, fmt.Errorf("getting gift product %q: %w", variantID, err)
	}
	return &p, nil
}

// Upsert inserts or replaces the catalog entry for a variant.
func (r *GiftProductRepository) Upsert(ctx context.Context, p *settings.GiftProduct) error {
	_, err := r.pool.Exec(ctx, upsertGiftProductSQL, p.VariantID, p.Title, p.ImageURL)
	if err != nil {
		return fmt.Errorf("upserting gift product %q: %w", p.VariantID, err)
	}
	return nil
}
