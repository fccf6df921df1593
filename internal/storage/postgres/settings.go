package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bloomcart/discount-engine/internal/domain/discount"
	"github.com/bloomcart/discount-engine/internal/domain/settings"
)

const (
	insertSettingSQL = `INSERT INTO discount_settings
		(id, kind, title, configuration, minimum_order, shopify_discount_gid, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	getSettingByIDSQL = `SELECT id, kind, title, configuration, minimum_order,
		shopify_discount_gid, created_at, updated_at
		FROM discount_settings WHERE id = $1`

	updateSettingSQL = `UPDATE discount_settings
		SET title = $2, configuration = $3, minimum_order = $4,
			shopify_discount_gid = $5, updated_at = $6
		WHERE id = $1`

	deleteSettingSQL = `DELETE FROM discount_settings WHERE id = $1`

	listSettingsSQL = `SELECT id, kind, title, configuration, minimum_order,
		shopify_discount_gid, created_at, updated_at
		FROM discount_settings ORDER BY updated_at DESC`

	latestSettingByKindSQL = `SELECT id, kind, title, configuration, minimum_order,
		shopify_discount_gid, created_at, updated_at
		FROM discount_settings WHERE kind = $1
		ORDER BY updated_at DESC LIMIT 1`
)

var _ settings.Repository = (*SettingsRepository)(nil)

// SettingsRepository implements settings.Repository backed by PostgreSQL.
type SettingsRepository struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository returns a SettingsRepository that uses the given pool.
func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

// Create persists a new discount setting.
func (r *SettingsRepository) Create(ctx context.Context, s *settings.Setting) error {
	_, err := r.pool.Exec(ctx, insertSettingSQL,
		s.ID, string(s.Kind), s.Title, s.Configuration, s.MinimumOrder,
		s.ShopifyDiscountGID, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating discount setting %q: %w", s.ID, err)
	}
	return nil
}

// GetByID returns the setting with the given id, or settings.ErrNotFound.
func (r *SettingsRepository) GetByID(ctx context.Context, id string) (*settings.Setting, error) {
	rows, err := r.pool.Query(ctx, getSettingByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting discount setting %q: %w", id, err)
	}

	s, err := pgx.CollectExactlyOneRow(rows, scanSetting)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, settings.ErrNotFound
		}
		return nil, fmt.Errorf("getting discount setting %q: %w", id, err)
	}
	return &s, nil
}

// Update rewrites an existing setting. Returns settings.ErrNotFound when no
// row matches.
func (r *SettingsRepository) Update(ctx context.Context, s *settings.Setting) error {
	tag, err := r.pool.Exec(ctx, updateSettingSQL,
		s.ID, s.Title, s.Configuration, s.MinimumOrder,
		s.ShopifyDiscountGID, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("updating discount setting %q: %w", s.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return settings.ErrNotFound
	}
	return nil
}

// Delete removes the setting with the given id. Returns settings.ErrNotFound
// when no row matches.
func (r *SettingsRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteSettingSQL, id)
	if err != nil {
		return fmt.Errorf("deleting discount setting %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return settings.ErrNotFound
	}
	return nil
}

// List returns all settings, most recently updated first.
func (r *SettingsRepository) List(ctx context.Context) ([]settings.Setting, error) {
	rows, err := r.pool.Query(ctx, listSettingsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing discount settings: %w", err)
	}

	list, err := pgx.CollectRows(rows, scanSetting)
	if err != nil {
		return nil, fmt.Errorf("listing discount settings: %w", err)
	}
	return list, nil
}

// LatestByKind returns the most recently updated setting of the given kind,
// or settings.ErrNotFound.
func (r *SettingsRepository) LatestByKind(ctx context.Context, kind discount.Kind) (*settings.Setting, error) {
	rows, err := r.pool.Query(ctx, latestSettingByKindSQL, string(kind))
	if err != nil {
		return nil, fmt.Errorf("getting latest %q setting: %w", kind, err)
	}

	s, err := pgx.CollectExactlyOneRow(rows, scanSetting)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, settings.ErrNotFound
		}
		return nil, fmt.Errorf("getting latest %q setting: %w", kind, err)
	}
	return &s, nil
}

func scanSetting(row pgx.CollectableRow) (settings.Setting, error) {
	var (
		s         settings.Setting
		kind      string
		createdAt time.Time
		updatedAt time.Time
	)
	err := row.Scan(
		&s.ID, &kind, &s.Title, &s.Configuration, &s.MinimumOrder,
		&s.ShopifyDiscountGID, &createdAt, &updatedAt,
	)
	s.Kind = discount.Kind(kind)
	s.CreatedAt = createdAt
	s.UpdatedAt = updatedAt
	return s, err
}
