package giftoffer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// offerSettingsDoc mirrors the settings endpoint payload:
//
//	{"minimum_order": 100, "products": [{"id": "...", "title": "...", "img_url": "..."}]}
type offerSettingsDoc struct {
	MinimumOrder decimal.Decimal `json:"minimum_order"`
	Products     []struct {
		ID       string `json:"id"`
		Title    string `json:"title"`
		ImageURL string `json:"img_url"`
	} `json:"products"`
}

// HTTPFetcher fetches offer settings over HTTP with a per-attempt timeout
// and a small bounded retry budget.
type HTTPFetcher struct {
	client   *http.Client
	url      string
	attempts int
	timeout  time.Duration
	backoff  time.Duration
}

// HTTPFetcherConfig configures an HTTPFetcher. Zero values get defaults.
type HTTPFetcherConfig struct {
	URL      string
	Attempts int           // default 3
	Timeout  time.Duration // per attempt, default 5s
	Backoff  time.Duration // between attempts, default 500ms
	Client   *http.Client
}

// NewHTTPFetcher creates a fetcher for the given settings endpoint.
func NewHTTPFetcher(cfg HTTPFetcherConfig) *HTTPFetcher {
	if cfg.Attempts <= 0 {
		cfg.Attempts = 3
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 500 * time.Millisecond
	}
	if cfg.Client == nil {
		cfg.Client = http.DefaultClient
	}
	return &HTTPFetcher{
		client:   cfg.Client,
		url:      cfg.URL,
		attempts: cfg.Attempts,
		timeout:  cfg.Timeout,
		backoff:  cfg.Backoff,
	}
}

var _ SettingsFetcher = (*HTTPFetcher)(nil)

// FetchOfferSettings performs the GET, retrying transient failures up to the
// configured attempt budget. Non-2xx responses count as failures.
func (f *HTTPFetcher) FetchOfferSettings(ctx context.Context) (Settings, error) {
	var lastErr error
	for attempt := 0; attempt < f.attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return Settings{}, ctx.Err()
			case <-time.After(f.backoff):
			}
		}

		settings, err := f.fetchOnce(ctx)
		if err == nil {
			return settings, nil
		}
		lastErr = err
	}
	return Settings{}, errors.Wrapf(lastErr, "after %d attempts", f.attempts)
}

func (f *HTTPFetcher) fetchOnce(ctx context.Context) (Settings, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return Settings{}, errors.Wrap(err, "build request")
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return Settings{}, errors.Wrap(err, "get offer settings")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Settings{}, fmt.Errorf("offer settings endpoint returned %d", resp.StatusCode)
	}

	var doc offerSettingsDoc
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return Settings{}, errors.Wrap(err, "decode offer settings")
	}
	if len(doc.Products) == 0 {
		return Settings{}, errors.New("offer settings has no products")
	}

	// The offer uses the first configured product only.
	p := doc.Products[0]
	return Settings{
		MinimumOrder: doc.MinimumOrder,
		Product: GiftProduct{
			ID:       p.ID,
			Title:    p.Title,
			ImageURL: p.ImageURL,
		},
	}, nil
}
