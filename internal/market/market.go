// Package market fetches advisory market data (FX rates, crude price).
// Every call returns a usable value: when the live source is disabled,
// throttled or failing, the static reference value is returned and the
// Result says so.
package market

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/Simplici0/wellwise/internal/refdata"
)

// Source tells where a value came from.
type Source string

const (
	Live   Source = "live"
	Cached Source = "cached"
	Static Source = "static"
)

// Result is a market value tagged with its source.
type Result[T any] struct {
	Value     T         `json:"value"`
	Source    Source    `json:"source"`
	FetchedAt time.Time `json:"fetchedAt,omitzero"`
}

// Fallback reports whether the static default was used.
func (r Result[T]) Fallback() bool {
	return r.Source == Static
}

// Options configures a Client.
type Options struct {
	Live            bool
	FXURL           string
	Timeout         time.Duration
	MinRefresh      time.Duration
	DefaultOilPrice float64
	HTTPClient      *http.Client
}

// Client reads market data. It is safe for concurrent use.
type Client struct {
	opts    Options
	http    *http.Client
	limiter *rate.Limiter

	mu       sync.Mutex
	lastFX   map[string]float64
	lastFXAt time.Time
}

// NewClient creates a Client. A non-positive MinRefresh disables throttling.
func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.DefaultOilPrice <= 0 {
		opts.DefaultOilPrice = 75
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	limit := rate.Inf
	if opts.MinRefresh > 0 {
		limit = rate.Every(opts.MinRefresh)
	}
	return &Client{
		opts:    opts,
		http:    httpClient,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// ExchangeRates returns units of each currency per USD.
func (c *Client) ExchangeRates(ctx context.Context) Result[map[string]float64] {
	if !c.opts.Live || c.opts.FXURL == "" {
		return staticRates()
	}

	if !c.limiter.Allow() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.lastFX != nil {
			return Result[map[string]float64]{Value: copyRates(c.lastFX), Source: Cached, FetchedAt: c.lastFXAt}
		}
		return staticRates()
	}

	rates, err := c.fetchRates(ctx)
	if err != nil {
		zap.L().Warn("market: using static exchange rates", zap.String("url", c.opts.FXURL), zap.Error(err))
		return staticRates()
	}

	now := time.Now().UTC()
	c.mu.Lock()
	c.lastFX = rates
	c.lastFXAt = now
	c.mu.Unlock()

	zap.L().Debug("market: exchange rates refreshed", zap.Int("currencies", len(rates)))
	return Result[map[string]float64]{Value: copyRates(rates), Source: Live, FetchedAt: now}
}

// OilPrice returns the crude reference price in USD/bbl. No public feed is
// wired, so the configured default is always reported as static.
func (c *Client) OilPrice(_ context.Context) Result[float64] {
	return Result[float64]{Value: c.opts.DefaultOilPrice, Source: Static}
}

func (c *Client) fetchRates(ctx context.Context) (map[string]float64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.opts.FXURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "market: build fx request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "market: fetch fx rates")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("market: fx feed returned status %d", resp.StatusCode)
	}

	var body struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, eris.Wrap(err, "market: decode fx rates")
	}
	if len(body.Rates) == 0 {
		return nil, eris.New("market: fx feed returned no rates")
	}
	if body.Rates[refdata.BaseCurrency] == 0 {
		body.Rates[refdata.BaseCurrency] = 1
	}
	return body.Rates, nil
}

// Snapshot is the market data used to build the reference tables at startup.
type Snapshot struct {
	ExchangeRates Result[map[string]float64] `json:"exchangeRates"`
	OilPrice      Result[float64]            `json:"oilPrice"`
}

// Load fetches FX rates and the oil price concurrently.
func Load(ctx context.Context, c *Client) Snapshot {
	var snap Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snap.ExchangeRates = c.ExchangeRates(gctx)
		return nil
	})
	g.Go(func() error {
		snap.OilPrice = c.OilPrice(gctx)
		return nil
	})
	_ = g.Wait()
	return snap
}

// Apply returns tables carrying the snapshot's FX rates.
func (s Snapshot) Apply(tables *refdata.Tables) *refdata.Tables {
	if s.ExchangeRates.Fallback() || len(s.ExchangeRates.Value) == 0 {
		return tables
	}
	return tables.WithExchangeRates(s.ExchangeRates.Value)
}

func staticRates() Result[map[string]float64] {
	return Result[map[string]float64]{Value: refdata.StaticExchangeRates(), Source: Static}
}

func copyRates(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
