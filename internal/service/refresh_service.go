package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"krolist/internal/model"
	"krolist/internal/repository"

	"github.com/rs/zerolog"
)

// weeklyRefreshLimit is the number of bulk refreshes a user gets per week.
const weeklyRefreshLimit = 1

// ErrNoProducts is returned when the user has no active tracked products.
var ErrNoProducts = errors.New("no_active_products")

// RateLimitedError is returned when the user has already used their weekly
// refresh. NextRefresh is when the next week opens and the quota resets.
type RateLimitedError struct {
	NextRefresh time.Time
}

func (e *RateLimitedError) Error() string {
	return "weekly refresh limit reached"
}

// RefreshSummary reports the outcome of one bulk refresh.
type RefreshSummary struct {
	Checked            int
	Updated            int
	RemainingRefreshes int
	NextRefresh        time.Time
	Message            string
}

// PriceSource obtains the latest price for a tracked product. The production
// implementation is a placeholder that carries the current price forward; a
// real scraping or API integration can be substituted without touching the
// surrounding quota/history contract.
type PriceSource interface {
	FetchLatestPrice(ctx context.Context, p model.TrackedProduct) (float64, error)
}

type placeholderPriceSource struct{}

// NewPlaceholderPriceSource returns a PriceSource that echoes the product's
// known price.
func NewPlaceholderPriceSource() PriceSource {
	return placeholderPriceSource{}
}

func (placeholderPriceSource) FetchLatestPrice(_ context.Context, p model.TrackedProduct) (float64, error) {
	return p.CurrentPrice, nil
}

// RefreshService defines the interface for the weekly price-refresh workflow
type RefreshService interface {
	// Refresh re-checks all of the caller's active products in one pass,
	// gated to once per user per week.
	Refresh(ctx context.Context, userID string) (*RefreshSummary, error)
}

type refreshService struct {
	products    repository.ProductRepository
	history     repository.HistoryRepository
	refreshLogs repository.RefreshLogRepository
	source      PriceSource
	now         func() time.Time
	logger      zerolog.Logger
}

// NewRefreshService creates a new RefreshService
func NewRefreshService(
	products repository.ProductRepository,
	history repository.HistoryRepository,
	refreshLogs repository.RefreshLogRepository,
	source PriceSource,
	logger zerolog.Logger,
) RefreshService {
	return &refreshService{
		products:    products,
		history:     history,
		refreshLogs: refreshLogs,
		source:      source,
		now:         time.Now,
		logger:      logger,
	}
}

// Refresh runs the workflow strictly in order: quota check, product fetch,
// per-product update, quota commit. Quota and 404 failures happen before any
// mutation; per-product failures are logged and skipped without blocking the
// quota commit, so an eligible invocation is always charged exactly once.
func (s *refreshService) Refresh(ctx context.Context, userID string) (*RefreshSummary, error) {
	now := s.now()
	weekStart := WeekStart(now)
	nextRefresh := weekStart.AddDate(0, 0, 7)

	log, err := s.refreshLogs.GetForWeek(ctx, userID, weekStart)
	if err != nil {
		return nil, fmt.Errorf("checking refresh quota: %w", err)
	}
	if log != nil && log.RefreshCount >= weeklyRefreshLimit {
		return nil, &RateLimitedError{NextRefresh: nextRefresh}
	}

	products, err := s.products.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing active products: %w", err)
	}
	if len(products) == 0 {
		return nil, ErrNoProducts
	}

	updated := 0
	for _, p := range products {
		price, err := s.source.FetchLatestPrice(ctx, p)
		if err != nil {
			s.logger.Error().Err(err).Str("product_id", p.ID).Str("user_id", userID).Msg("Failed to fetch latest price, skipping product")
			continue
		}
		checkedAt := s.now()
		if err := s.products.UpdatePrice(ctx, p.ID, price, checkedAt); err != nil {
			s.logger.Error().Err(err).Str("product_id", p.ID).Str("user_id", userID).Msg("Failed to update product price, skipping product")
			continue
		}
		entry := &model.PriceHistoryEntry{
			ProductID: p.ID,
			Price:     price,
			Currency:  p.OriginalCurrency,
			ScrapedAt: checkedAt,
		}
		if err := s.history.Append(ctx, entry); err != nil {
			s.logger.Error().Err(err).Str("product_id", p.ID).Str("user_id", userID).Msg("Failed to append price history, skipping product")
			continue
		}
		updated++
	}

	// Charged once per eligible invocation, regardless of per-product outcomes.
	if err := s.refreshLogs.RecordRefresh(ctx, userID, weekStart, now); err != nil {
		return nil, fmt.Errorf("committing refresh quota: %w", err)
	}

	return &RefreshSummary{
		Checked:            len(products),
		Updated:            updated,
		RemainingRefreshes: weeklyRefreshLimit - 1,
		NextRefresh:        nextRefresh,
		Message:            fmt.Sprintf("Updated %d of %d products", updated, len(products)),
	}, nil
}

// WeekStart returns the week key for t: the most recent Sunday at or before
// t, at midnight UTC. If t falls on a Sunday the key is that same day.
func WeekStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day()-int(t.Weekday()), 0, 0, 0, 0, time.UTC)
}
