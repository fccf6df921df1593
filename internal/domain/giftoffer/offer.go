// Package giftoffer implements the checkout-surface companion to the order
// gift discount: it fetches the offer settings once per checkout session,
// decides eligibility against the live cart total, and drives the add-gift
// interaction as an explicit state machine.
package giftoffer

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// State is the offer's position in its session lifecycle.
type State string

const (
	// StateLoading is the initial state before settings are fetched.
	StateLoading State = "loading"
	// StateIneligible is terminal: the cart total does not qualify.
	StateIneligible State = "ineligible"
	// StateOfferShown presents the offer and accepts user action.
	StateOfferShown State = "offer_shown"
	// StateAdding has a single add-line mutation in flight.
	StateAdding State = "adding"
	// StateAdded is terminal: the gift is in the cart.
	StateAdded State = "added"
	// StateHidden is terminal: the user dismissed the offer.
	StateHidden State = "hidden"
)

// Settings is the merchant configuration for the offer, fetched from the
// settings collaborator at session start.
type Settings struct {
	MinimumOrder decimal.Decimal
	Product      GiftProduct
}

// GiftProduct is the variant offered as the free gift.
type GiftProduct struct {
	ID       string
	Title    string
	ImageURL string
}

// SettingsFetcher supplies the offer settings. Implementations are expected
// to bound the call with a timeout and a small retry budget.
type SettingsFetcher interface {
	FetchOfferSettings(ctx context.Context) (Settings, error)
}

// CartMutator adds a line to the live cart.
type CartMutator interface {
	AddLine(ctx context.Context, variantID string, quantity int) error
}

var (
	// ErrNotShown is returned when Accept or Dismiss is called outside the
	// offer_shown state.
	ErrNotShown = errors.New("offer is not being shown")
	// ErrAddInFlight is returned when Accept is called while a previous
	// add-line mutation has not resolved.
	ErrAddInFlight = errors.New("add to cart already in progress")
)

// Offer is one checkout session's gift offer. Methods are safe for
// concurrent use; the add-line mutation is limited to a single in-flight
// request.
type Offer struct {
	fetcher SettingsFetcher
	mutator CartMutator

	mu       sync.Mutex
	state    State
	settings Settings
	lastErr  error
}

// New creates an offer in the loading state.
func New(fetcher SettingsFetcher, mutator CartMutator) *Offer {
	return &Offer{
		fetcher: fetcher,
		mutator: mutator,
		state:   StateLoading,
	}
}

// Load fetches the offer settings and resolves eligibility against the live
// cart total. Eligibility is strict: a total exactly equal to the minimum
// does not qualify. Load is only meaningful from the loading state.
func (o *Offer) Load(ctx context.Context, cartTotal decimal.Decimal) error {
	settings, err := o.fetcher.FetchOfferSettings(ctx)
	if err != nil {
		return errors.Wrap(err, "fetch offer settings")
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != StateLoading {
		return nil
	}

	o.settings = settings
	if cartTotal.GreaterThan(settings.MinimumOrder) {
		o.state = StateOfferShown
	} else {
		o.state = StateIneligible
	}
	return nil
}

// Accept submits the add-line mutation for the configured gift variant with
// quantity 1. The offer stays visible while the mutation is in flight; on
// success it moves to the terminal added state, on failure it returns to
// offer_shown with the error recorded for inline display, leaving retry to
// the user.
func (o *Offer) Accept(ctx context.Context) error {
	o.mu.Lock()
	switch o.state {
	case StateAdding:
		o.mu.Unlock()
		return ErrAddInFlight
	case StateOfferShown:
	default:
		o.mu.Unlock()
		return ErrNotShown
	}
	o.state = StateAdding
	o.lastErr = nil
	variantID := o.settings.Product.ID
	o.mu.Unlock()

	err := o.mutator.AddLine(ctx, variantID, 1)

	o.mu.Lock()
	defer o.mu.Unlock()
	if err != nil {
		o.state = StateOfferShown
		o.lastErr = err
		return errors.Wrap(err, "add gift to cart")
	}
	o.state = StateAdded
	return nil
}

// Dismiss hides the offer for the remainder of the session. There is no
// un-dismiss path.
func (o *Offer) Dismiss() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != StateOfferShown {
		return ErrNotShown
	}
	o.state = StateHidden
	return nil
}

// State returns the current lifecycle state.
func (o *Offer) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Settings returns the fetched settings. Zero until Load succeeds.
func (o *Offer) Settings() Settings {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.settings
}

// Err returns the most recent add-line failure, cleared on the next Accept.
func (o *Offer) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastErr
}
