package repository

import (
	"context"
	"fmt"
	"time"

	"krolist/internal/currency"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RateRepository reads and writes the exchange_rates table. Its LoadRates
// method satisfies currency.RateStore.
type RateRepository interface {
	LoadRates(ctx context.Context) (map[currency.Currency]float64, error)
	UpsertRate(ctx context.Context, c currency.Currency, rateToUSD float64, updatedAt time.Time) error
}

type rateRepo struct {
	pool *pgxpool.Pool
}

// NewRateRepo creates a new RateRepository
func NewRateRepo(pool *pgxpool.Pool) RateRepository {
	return &rateRepo{pool: pool}
}

// LoadRates reads every stored rate, skipping rows with codes outside the
// supported set.
func (r *rateRepo) LoadRates(ctx context.Context) (map[currency.Currency]float64, error) {
	rows, err := r.pool.Query(ctx, `SELECT currency, rate_to_usd FROM exchange_rates`)
	if err != nil {
		return nil, fmt.Errorf("querying exchange rates: %w", err)
	}
	defer rows.Close()

	rates := make(map[currency.Currency]float64)
	for rows.Next() {
		var code string
		var rate float64
		if err := rows.Scan(&code, &rate); err != nil {
			return nil, fmt.Errorf("scanning exchange rate row: %w", err)
		}
		c, err := currency.Parse(code)
		if err != nil {
			continue
		}
		rates[c] = rate
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating exchange rate rows: %w", err)
	}
	return rates, nil
}

// UpsertRate writes one currency's rate-to-USD value
func (r *rateRepo) UpsertRate(ctx context.Context, c currency.Currency, rateToUSD float64, updatedAt time.Time) error {
	query := `
		INSERT INTO exchange_rates (currency, rate_to_usd, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (currency)
		DO UPDATE SET rate_to_usd = EXCLUDED.rate_to_usd, updated_at = EXCLUDED.updated_at
	`
	if _, err := r.pool.Exec(ctx, query, c, rateToUSD, updatedAt); err != nil {
		return fmt.Errorf("upserting exchange rate for %s: %w", c, err)
	}
	return nil
}
