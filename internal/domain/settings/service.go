package settings

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bloomcart/discount-engine/internal/domain/discount"
	"github.com/bloomcart/discount-engine/internal/domain/giftoffer"
)

// UnknownKindError indicates a save request named a kind with no deployed
// evaluator.
type UnknownKindError struct {
	Kind discount.Kind
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("no evaluator for discount kind %q", e.Kind)
}

// MetafieldPublisher pushes a saved configuration to the hosting platform.
// Publishing is best-effort: the local store is the source of truth and a
// failed push must not fail the save.
type MetafieldPublisher interface {
	PublishConfiguration(ctx context.Context, ownerGID string, configuration string) error
}

// SaveRequest is the input for creating or updating a setting.
type SaveRequest struct {
	Kind               discount.Kind
	Title              string
	Configuration      string
	ShopifyDiscountGID string
}

// Service encapsulates settings business logic: kind validation, minimum
// order denormalization, persistence, and the platform push.
type Service struct {
	repo      Repository
	gifts     GiftProductRepository
	publisher MetafieldPublisher
	lg        *zap.Logger
}

// NewService creates a settings Service. publisher may be nil when no
// platform credentials are configured.
func NewService(repo Repository, gifts GiftProductRepository, publisher MetafieldPublisher, lg *zap.Logger) *Service {
	return &Service{repo: repo, gifts: gifts, publisher: publisher, lg: lg}
}

// Create validates and persists a new setting.
func (s *Service) Create(ctx context.Context, req SaveRequest) (*Setting, error) {
	if !discount.ValidKind(req.Kind) {
		return nil, &UnknownKindError{Kind: req.Kind}
	}

	cfg := discount.ParseConfig(req.Configuration)
	now := time.Now().UTC()
	setting := &Setting{
		ID:                 uuid.New().String(),
		Kind:               req.Kind,
		Title:              req.Title,
		Configuration:      req.Configuration,
		MinimumOrder:       cfg.MinimumOrder,
		ShopifyDiscountGID: req.ShopifyDiscountGID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.repo.Create(ctx, setting); err != nil {
		return nil, errors.Wrap(err, "create setting")
	}

	s.publish(ctx, setting)
	return setting, nil
}

// Update replaces an existing setting's title and configuration.
func (s *Service) Update(ctx context.Context, id string, req SaveRequest) (*Setting, error) {
	if !discount.ValidKind(req.Kind) {
		return nil, &UnknownKindError{Kind: req.Kind}
	}

	setting, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	cfg := discount.ParseConfig(req.Configuration)
	setting.Kind = req.Kind
	setting.Title = req.Title
	setting.Configuration = req.Configuration
	setting.MinimumOrder = cfg.MinimumOrder
	if req.ShopifyDiscountGID != "" {
		setting.ShopifyDiscountGID = req.ShopifyDiscountGID
	}
	setting.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, setting); err != nil {
		return nil, errors.Wrap(err, "update setting")
	}

	s.publish(ctx, setting)
	return setting, nil
}

// Get returns one setting by ID.
func (s *Service) Get(ctx context.Context, id string) (*Setting, error) {
	return s.repo.GetByID(ctx, id)
}

// Delete removes a setting.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// List returns all settings.
func (s *Service) List(ctx context.Context) ([]Setting, error) {
	return s.repo.List(ctx)
}

// GiftOffer assembles the checkout gift-offer payload from the newest
// order-kind setting: its minimum order plus the display data for each
// configured gift variant. Variants missing from the gift catalog are served
// with their ID only rather than dropped.
func (s *Service) GiftOffer(ctx context.Context) (giftoffer.Settings, []giftoffer.GiftProduct, error) {
	setting, err := s.repo.LatestByKind(ctx, discount.KindOrderGift)
	if err != nil {
		return giftoffer.Settings{}, nil, err
	}

	cfg := discount.ParseConfig(setting.Configuration)
	products := make([]giftoffer.GiftProduct, 0, len(cfg.VariantIDs))
	for _, variantID := range cfg.VariantIDs {
		gp, err := s.gifts.GetByVariantID(ctx, variantID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				products = append(products, giftoffer.GiftProduct{ID: variantID})
				continue
			}
			return giftoffer.Settings{}, nil, errors.Wrapf(err, "gift product %s", variantID)
		}
		products = append(products, giftoffer.GiftProduct{
			ID:       gp.VariantID,
			Title:    gp.Title,
			ImageURL: gp.ImageURL,
		})
	}

	offer := giftoffer.Settings{MinimumOrder: setting.MinimumOrder}
	if len(products) > 0 {
		offer.Product = products[0]
	}
	return offer, products, nil
}

func (s *Service) publish(ctx context.Context, setting *Setting) {
	if s.publisher == nil || setting.ShopifyDiscountGID == "" {
		return
	}
	if err := s.publisher.PublishConfiguration(ctx, setting.ShopifyDiscountGID, setting.Configuration); err != nil {
		s.lg.Warn("metafield publish failed",
			zap.String("setting_id", setting.ID),
			zap.String("kind", string(setting.Kind)),
			zap.Error(err),
		)
	}
}
