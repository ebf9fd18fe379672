package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"krolist/internal/currency"
	"krolist/internal/repository"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

const rateSyncRequestTimeout = 10 * time.Second

// RateSyncService keeps the exchange_rates table current by polling a public
// exchange-rate API for USD-based rates and upserting the supported set.
type RateSyncService struct {
	rates    repository.RateRepository
	apiURL   string
	interval time.Duration
	client   *http.Client
	logger   zerolog.Logger
}

// NewRateSyncService creates a new RateSyncService
func NewRateSyncService(rates repository.RateRepository, apiURL string, interval time.Duration, logger zerolog.Logger) *RateSyncService {
	return &RateSyncService{
		rates:    rates,
		apiURL:   apiURL,
		interval: interval,
		client:   &http.Client{Timeout: rateSyncRequestTimeout},
		logger:   logger,
	}
}

// Run performs one sync immediately, then re-syncs on the configured
// interval until ctx is cancelled.
func (s *RateSyncService) Run(ctx context.Context) {
	s.logger.Info().Dur("interval", s.interval).Msg("Rate sync started")

	if err := s.SyncOnce(ctx); err != nil {
		s.logger.Error().Err(err).Msg("Rate sync pass failed")
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Rate sync stopping, context cancelled")
			return
		case <-ticker.C:
			if err := s.SyncOnce(ctx); err != nil {
				s.logger.Error().Err(err).Msg("Rate sync pass failed")
			}
		}
	}
}

// SyncOnce fetches the API payload and upserts one rate row per supported
// currency. A missing or non-positive rate in the payload is skipped rather
// than written.
func (s *RateSyncService) SyncOnce(ctx context.Context) error {
	reqCtx, cancel := context.WithTimeout(ctx, rateSyncRequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, s.apiURL, nil)
	if err != nil {
		return fmt.Errorf("building rate API request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("calling rate API: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("rate API returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading rate API response: %w", err)
	}

	now := time.Now().UTC()
	synced := 0
	for _, c := range currency.Supported() {
		rate := gjson.GetBytes(body, "rates."+string(c)).Float()
		if rate <= 0 {
			s.logger.Warn().Str("currency", string(c)).Msg("Rate missing from API payload, skipping")
			continue
		}
		if err := s.rates.UpsertRate(ctx, c, rate, now); err != nil {
			s.logger.Error().Err(err).Str("currency", string(c)).Msg("Failed to upsert exchange rate")
			continue
		}
		synced++
	}

	s.logger.Info().Int("synced", synced).Msg("Exchange rates synced")
	return nil
}
