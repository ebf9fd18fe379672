package currency

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// cacheTTL is how long a fetched rate table stays valid.
const cacheTTL = time.Hour

// RateStore loads the current rate-to-USD table from the backing store.
type RateStore interface {
	LoadRates(ctx context.Context) (map[Currency]float64, error)
}

// Service converts amounts between supported currencies through a cached
// rate table. All rates are stored relative to USD; cross-currency conversion
// always goes through a USD intermediate, never a direct cross-rate.
//
// The cache is an explicit {rates, fetchedAt} pair owned by the service and
// replaced wholesale on each refresh. Concurrent callers arriving after
// expiry may each trigger a redundant store read; there is deliberately no
// single-flight coalescing.
type Service struct {
	store  RateStore
	logger zerolog.Logger
	now    func() time.Time

	mu        sync.RWMutex
	rates     map[Currency]float64
	fetchedAt time.Time
}

// NewService creates a conversion service backed by store.
func NewService(store RateStore, logger zerolog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Convert converts amount from one currency to another, refreshing the rate
// cache if it is stale. It never fails for supported currencies: store errors
// are logged and resolved against the fallback table.
func (s *Service) Convert(ctx context.Context, amount float64, from, to Currency) float64 {
	if from == to {
		return amount
	}
	return convertWith(s.currentRates(ctx), amount, from, to)
}

// ConvertSync converts using whatever rate table is cached right now,
// possibly stale, possibly the fallback. It never reads the store, so it is
// safe to call from render paths.
func (s *Service) ConvertSync(amount float64, from, to Currency) float64 {
	if from == to {
		return amount
	}
	s.mu.RLock()
	rates := s.rates
	s.mu.RUnlock()
	if rates == nil {
		rates = fallbackRates
	}
	return convertWith(rates, amount, from, to)
}

// currentRates returns the cached table, refreshing it when stale. On store
// failure the fallback table is returned without touching the cache, so the
// next call retries the store.
func (s *Service) currentRates(ctx context.Context) map[Currency]float64 {
	s.mu.RLock()
	rates, fetchedAt := s.rates, s.fetchedAt
	s.mu.RUnlock()

	if rates != nil && s.now().Sub(fetchedAt) < cacheTTL {
		return rates
	}

	loaded, err := s.store.LoadRates(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load exchange rates, using fallback table")
		return fallbackRates
	}
	fresh := normalizeRates(loaded)

	s.mu.Lock()
	s.rates = fresh
	s.fetchedAt = s.now()
	s.mu.Unlock()

	return fresh
}

// normalizeRates builds a complete rate table from a store read, filling any
// missing or non-positive entry from the fallback table per currency.
func normalizeRates(loaded map[Currency]float64) map[Currency]float64 {
	rates := make(map[Currency]float64, len(fallbackRates))
	for _, c := range Supported() {
		if r, ok := loaded[c]; ok && r > 0 {
			rates[c] = r
		} else {
			rates[c] = fallbackRates[c]
		}
	}
	return rates
}

// convertWith runs the two-step conversion through USD and rounds the result
// half-up to cents.
func convertWith(rates map[Currency]float64, amount float64, from, to Currency) float64 {
	fromRate := decimal.NewFromFloat(rates[from])
	toRate := decimal.NewFromFloat(rates[to])
	if fromRate.IsZero() {
		fromRate = decimal.NewFromFloat(fallbackRates[from])
	}
	if toRate.IsZero() {
		toRate = decimal.NewFromFloat(fallbackRates[to])
	}
	result := decimal.NewFromFloat(amount).Div(fromRate).Mul(toRate)
	return result.Round(2).InexactFloat64()
}
