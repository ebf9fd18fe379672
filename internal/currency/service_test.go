package currency

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type fakeRateStore struct {
	rates map[Currency]float64
	err   error
	calls int
}

func (f *fakeRateStore) LoadRates(_ context.Context) (map[Currency]float64, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.rates, nil
}

func newTestService(store *fakeRateStore) *Service {
	return NewService(store, zerolog.Nop())
}

func TestConvertIdentity(t *testing.T) {
	store := &fakeRateStore{rates: FallbackRates()}
	svc := newTestService(store)
	for _, c := range Supported() {
		for _, amount := range []float64{0, 0.01, 19.99, 1234.5678} {
			if got := svc.Convert(context.Background(), amount, c, c); got != amount {
				t.Fatalf("Convert(%v, %s, %s) = %v, want exact identity", amount, c, c, got)
			}
			if got := svc.ConvertSync(amount, c, c); got != amount {
				t.Fatalf("ConvertSync(%v, %s, %s) = %v, want exact identity", amount, c, c, got)
			}
		}
	}
	if store.calls != 0 {
		t.Fatalf("identity conversion should not hit the store, got %d calls", store.calls)
	}
}

func TestConvertKnownValues(t *testing.T) {
	svc := newTestService(&fakeRateStore{rates: FallbackRates()})
	ctx := context.Background()

	cases := []struct {
		amount   float64
		from, to Currency
		want     float64
	}{
		{100, USD, SAR, 375},
		{375, SAR, USD, 100},
		{100, USD, EGP, 3090},
		{10, USD, AED, 36.7},
		{50, SAR, AED, 48.93}, // 50/3.75*3.67 = 48.9333...
	}
	for _, c := range cases {
		if got := svc.Convert(ctx, c.amount, c.from, c.to); got != c.want {
			t.Fatalf("Convert(%v, %s, %s) = %v, want %v", c.amount, c.from, c.to, got, c.want)
		}
	}
}

func TestConvertRoundTrip(t *testing.T) {
	svc := newTestService(&fakeRateStore{rates: FallbackRates()})
	ctx := context.Background()
	rates := FallbackRates()

	for _, from := range Supported() {
		for _, to := range Supported() {
			if from == to {
				continue
			}
			for _, amount := range []float64{1, 19.99, 100, 2500.75} {
				back := svc.Convert(ctx, svc.Convert(ctx, amount, from, to), to, from)
				// Rounding happens in the target currency's cents, so a trip
				// through a coarser currency can lose up to one of the coarser
				// currency's cents expressed in the source currency.
				tolerance := 0.01
				if rates[from] > rates[to] {
					tolerance = 0.01 * rates[from] / rates[to]
				}
				if diff := math.Abs(back - amount); diff > tolerance+1e-9 {
					t.Fatalf("round trip %v %s->%s->%s drifted by %v (tolerance %v)", amount, from, to, from, diff, tolerance)
				}
			}
		}
	}
}

func TestConvertFallbackOnStoreError(t *testing.T) {
	failing := &fakeRateStore{err: errors.New("connection refused")}
	svc := newTestService(failing)
	reference := newTestService(&fakeRateStore{rates: FallbackRates()})
	ctx := context.Background()

	for _, c := range []struct {
		amount   float64
		from, to Currency
	}{
		{100, USD, SAR},
		{250, EGP, AED},
		{19.99, SAR, EGP},
	} {
		got := svc.Convert(ctx, c.amount, c.from, c.to)
		want := reference.Convert(ctx, c.amount, c.from, c.to)
		if got != want {
			t.Fatalf("Convert(%v, %s, %s) with failing store = %v, want fallback result %v", c.amount, c.from, c.to, got, want)
		}
	}
	if failing.calls == 0 {
		t.Fatal("expected the store to be attempted")
	}
}

func TestConvertFallbackOnEmptyStore(t *testing.T) {
	svc := newTestService(&fakeRateStore{rates: map[Currency]float64{}})
	reference := newTestService(&fakeRateStore{rates: FallbackRates()})
	ctx := context.Background()

	got := svc.Convert(ctx, 100, USD, SAR)
	want := reference.Convert(ctx, 100, USD, SAR)
	if got != want {
		t.Fatalf("empty store Convert = %v, want %v", got, want)
	}
}

func TestConvertFillsMissingCurrenciesIndividually(t *testing.T) {
	// Store knows a fresher SAR rate but nothing else; the missing
	// currencies come from the fallback table one by one.
	svc := newTestService(&fakeRateStore{rates: map[Currency]float64{SAR: 3.80}})
	ctx := context.Background()

	if got := svc.Convert(ctx, 100, USD, SAR); got != 380 {
		t.Fatalf("Convert(100, USD, SAR) = %v, want 380 from stored rate", got)
	}
	if got := svc.Convert(ctx, 100, USD, EGP); got != 3090 {
		t.Fatalf("Convert(100, USD, EGP) = %v, want 3090 from fallback", got)
	}
}

func TestConvertCacheTTL(t *testing.T) {
	store := &fakeRateStore{rates: FallbackRates()}
	svc := newTestService(store)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	ctx := context.Background()

	svc.Convert(ctx, 100, USD, SAR)
	svc.Convert(ctx, 100, USD, EGP)
	if store.calls != 1 {
		t.Fatalf("expected 1 store read within the TTL window, got %d", store.calls)
	}

	now = now.Add(59 * time.Minute)
	svc.Convert(ctx, 100, USD, AED)
	if store.calls != 1 {
		t.Fatalf("cache should still be valid at 59m, got %d store reads", store.calls)
	}

	now = now.Add(2 * time.Minute)
	svc.Convert(ctx, 100, USD, AED)
	if store.calls != 2 {
		t.Fatalf("expected a refresh after the 1h window, got %d store reads", store.calls)
	}
}

func TestConvertSyncNeverFetches(t *testing.T) {
	store := &fakeRateStore{rates: FallbackRates()}
	svc := newTestService(store)

	// Nothing cached yet: falls back, no fetch.
	if got := svc.ConvertSync(100, USD, SAR); got != 375 {
		t.Fatalf("ConvertSync(100, USD, SAR) = %v, want 375", got)
	}
	if store.calls != 0 {
		t.Fatalf("ConvertSync must not read the store, got %d calls", store.calls)
	}

	// After a Convert populates the cache, ConvertSync reads it.
	svc.Convert(context.Background(), 1, USD, SAR)
	if store.calls != 1 {
		t.Fatalf("expected exactly 1 store read, got %d", store.calls)
	}
	if got := svc.ConvertSync(100, USD, SAR); got != 375 {
		t.Fatalf("ConvertSync after cache fill = %v, want 375", got)
	}
	if store.calls != 1 {
		t.Fatalf("ConvertSync must not trigger another read, got %d", store.calls)
	}
}
