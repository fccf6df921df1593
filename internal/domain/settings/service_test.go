package settings

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bloomcart/discount-engine/internal/domain/discount"
)

type mockRepo struct {
	byID    map[string]*Setting
	created *Setting
	updated *Setting
	deleted string
	latest  *Setting
	err     error
}

func newMockRepo() *mockRepo {
	return &mockRepo{byID: map[string]*Setting{}}
}

func (m *mockRepo) Create(_ context.Context, s *Setting) error {
	if m.err != nil {
		return m.err
	}
	m.created = s
	m.byID[s.ID] = s
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id string) (*Setting, error) {
	if s, ok := m.byID[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (m *mockRepo) Update(_ context.Context, s *Setting) error {
	if m.err != nil {
		return m.err
	}
	m.updated = s
	m.byID[s.ID] = s
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id string) error {
	m.deleted = id
	delete(m.byID, id)
	return nil
}

func (m *mockRepo) List(_ context.Context) ([]Setting, error) {
	out := make([]Setting, 0, len(m.byID))
	for _, s := range m.byID {
		out = append(out, *s)
	}
	return out, nil
}

func (m *mockRepo) LatestByKind(_ context.Context, kind discount.Kind) (*Setting, error) {
	best := m.latest
	for _, s := range m.byID {
		if s.Kind != kind {
			continue
		}
		if best == nil || s.UpdatedAt.After(best.UpdatedAt) {
			best = s
		}
	}
	if best == nil {
		return nil, ErrNotFound
	}
	cp := *best
	return &cp, nil
}

type mockGifts struct {
	products map[string]*GiftProduct
}

func (m *mockGifts) GetByVariantID(_ context.Context, id string) (*GiftProduct, error) {
	if p, ok := m.products[id]; ok {
		return p, nil
	}
	return nil, ErrNotFound
}

func (m *mockGifts) Upsert(_ context.Context, p *GiftProduct) error {
	m.products[p.VariantID] = p
	return nil
}

type mockPublisher struct {
	calls int
	last  string
	err   error
}

func (m *mockPublisher) PublishConfiguration(_ context.Context, ownerGID string, _ string) error {
	m.calls++
	m.last = ownerGID
	return m.err
}

func newService(repo *mockRepo, gifts *mockGifts, pub *mockPublisher) *Service {
	var p MetafieldPublisher
	if pub != nil {
		p = pub
	}
	return NewService(repo, gifts, p, zap.NewNop())
}

func TestService_Create(t *testing.T) {
	repo := newMockRepo()
	pub := &mockPublisher{}
	svc := newService(repo, &mockGifts{}, pub)

	got, err := svc.Create(context.Background(), SaveRequest{
		Kind:               discount.KindOrderGift,
		Title:              "Free gift over $100",
		Configuration:      `{"minimum_order": 100, "variant_ids": ["gid://GIFT"], "percentage": 100}`,
		ShopifyDiscountGID: "gid://shopify/DiscountAutomaticNode/1",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, got.ID)
	assert.True(t, got.MinimumOrder.Equal(decimal.NewFromInt(100)), "minimum order denormalized")
	assert.Equal(t, repo.created, got)
	assert.Equal(t, 1, pub.calls)
	assert.Equal(t, "gid://shopify/DiscountAutomaticNode/1", pub.last)
}

func TestService_CreateUnknownKind(t *testing.T) {
	svc := newService(newMockRepo(), &mockGifts{}, nil)

	_, err := svc.Create(context.Background(), SaveRequest{Kind: "shipping-discount"})

	var ukErr *UnknownKindError
	require.True(t, errors.As(err, &ukErr))
	assert.Equal(t, discount.Kind("shipping-discount"), ukErr.Kind)
}

func TestService_CreateKeepsConfigurationOpaque(t *testing.T) {
	repo := newMockRepo()
	svc := newService(repo, &mockGifts{}, nil)

	raw := `{"quantity":2,"percentage":10,"unknown_field":true}`
	got, err := svc.Create(context.Background(), SaveRequest{Kind: discount.KindVolumeByProduct, Configuration: raw})
	require.NoError(t, err)

	assert.Equal(t, raw, got.Configuration, "stored verbatim, not re-marshalled")
}

func TestService_PublishFailureDoesNotFailSave(t *testing.T) {
	repo := newMockRepo()
	pub := &mockPublisher{err: errors.New("shopify 500")}
	svc := newService(repo, &mockGifts{}, pub)

	_, err := svc.Create(context.Background(), SaveRequest{
		Kind:               discount.KindTags,
		Configuration:      `{"quantity":1,"percentage":5,"tag_type":"product"}`,
		ShopifyDiscountGID: "gid://shopify/DiscountAutomaticNode/2",
	})
	require.NoError(t, err)
	assert.NotNil(t, repo.created)
	assert.Equal(t, 1, pub.calls)
}

func TestService_PublishSkippedWithoutDiscountGID(t *testing.T) {
	repo := newMockRepo()
	pub := &mockPublisher{}
	svc := newService(repo, &mockGifts{}, pub)

	_, err := svc.Create(context.Background(), SaveRequest{
		Kind:          discount.KindVolumeByProduct,
		Configuration: `{"quantity":2,"percentage":10}`,
	})
	require.NoError(t, err)
	assert.Zero(t, pub.calls, "nothing to publish to until a discount node is linked")
}

func TestService_CreateStampsTimestamps(t *testing.T) {
	repo := newMockRepo()
	svc := newService(repo, &mockGifts{}, nil)

	created, err := svc.Create(context.Background(), SaveRequest{
		Kind:          discount.KindVolumeByProduct,
		Configuration: `{"quantity":2,"percentage":10}`,
	})
	require.NoError(t, err)

	require.False(t, created.CreatedAt.IsZero(), "repository binds created_at, the service must fill it")
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
	assert.Equal(t, time.UTC, created.CreatedAt.Location())

	time.Sleep(time.Millisecond)
	updated, err := svc.Update(context.Background(), created.ID, SaveRequest{
		Kind:          discount.KindVolumeByProduct,
		Configuration: `{"quantity":3,"percentage":15}`,
	})
	require.NoError(t, err)

	assert.Equal(t, created.CreatedAt, updated.CreatedAt, "creation time is immutable")
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt), "update must advance updated_at")
}

func TestService_Update(t *testing.T) {
	repo := newMockRepo()
	svc := newService(repo, &mockGifts{}, nil)

	created, err := svc.Create(context.Background(), SaveRequest{
		Kind:          discount.KindVolumeByProduct,
		Configuration: `{"quantity":2,"percentage":10}`,
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, SaveRequest{
		Kind:          discount.KindVolumeByProduct,
		Title:         "renamed",
		Configuration: `{"quantity":3,"value":5,"minimum_order":20}`,
	})
	require.NoError(t, err)

	assert.Equal(t, "renamed", updated.Title)
	assert.True(t, updated.MinimumOrder.Equal(decimal.NewFromInt(20)))
}

func TestService_UpdateMissing(t *testing.T) {
	svc := newService(newMockRepo(), &mockGifts{}, nil)

	_, err := svc.Update(context.Background(), "nope", SaveRequest{
		Kind: discount.KindVolumeByProduct,
	})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestService_GiftOffer(t *testing.T) {
	repo := newMockRepo()
	repo.latest = &Setting{
		ID:            "s1",
		Kind:          discount.KindOrderGift,
		Configuration: `{"minimum_order":100,"variant_ids":["gid://GIFT","gid://EXTRA"]}`,
		MinimumOrder:  decimal.NewFromInt(100),
	}
	gifts := &mockGifts{products: map[string]*GiftProduct{
		"gid://GIFT": {VariantID: "gid://GIFT", Title: "Candle", ImageURL: "https://cdn/c.png"},
	}}
	svc := newService(repo, gifts, nil)

	offer, products, err := svc.GiftOffer(context.Background())
	require.NoError(t, err)

	assert.True(t, offer.MinimumOrder.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "gid://GIFT", offer.Product.ID)
	assert.Equal(t, "Candle", offer.Product.Title)

	require.Len(t, products, 2)
	assert.Equal(t, "gid://EXTRA", products[1].ID, "uncatalogued variant served by ID")
	assert.Empty(t, products[1].Title)
}

func TestService_GiftOfferServesNewestOrderSetting(t *testing.T) {
	repo := newMockRepo()
	repo.byID["old"] = &Setting{
		ID:            "old",
		Kind:          discount.KindOrderGift,
		Configuration: `{"minimum_order":50,"variant_ids":["gid://GIFT"]}`,
		MinimumOrder:  decimal.NewFromInt(50),
		UpdatedAt:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	repo.byID["new"] = &Setting{
		ID:            "new",
		Kind:          discount.KindOrderGift,
		Configuration: `{"minimum_order":75,"variant_ids":["gid://GIFT"]}`,
		MinimumOrder:  decimal.NewFromInt(75),
		UpdatedAt:     time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	gifts := &mockGifts{products: map[string]*GiftProduct{
		"gid://GIFT": {VariantID: "gid://GIFT", Title: "Candle"},
	}}
	svc := newService(repo, gifts, nil)

	offer, _, err := svc.GiftOffer(context.Background())
	require.NoError(t, err)

	assert.True(t, offer.MinimumOrder.Equal(decimal.NewFromInt(75)),
		"the most recently updated order setting drives the storefront offer")
}

func TestService_GiftOfferNoOrderSetting(t *testing.T) {
	svc := newService(newMockRepo(), &mockGifts{}, nil)

	_, _, err := svc.GiftOffer(context.Background())
	assert.True(t, errors.Is(err, ErrNotFound))
}
