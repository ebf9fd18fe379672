package repository

import (
	"context"
	"fmt"

	"krolist/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

// HistoryRepository records observed price points. History is append-only:
// nothing in this interface mutates or deletes existing rows.
type HistoryRepository interface {
	Append(ctx context.Context, e *model.PriceHistoryEntry) error
	// ListByProduct retrieves up to limit entries for a product, newest first
	ListByProduct(ctx context.Context, productID string, limit int) ([]model.PriceHistoryEntry, error)
}

type historyRepo struct {
	pool *pgxpool.Pool
}

// NewHistoryRepo creates a new HistoryRepository
func NewHistoryRepo(pool *pgxpool.Pool) HistoryRepository {
	return &historyRepo{pool: pool}
}

// Append inserts a new price history entry and returns the created record
func (r *historyRepo) Append(ctx context.Context, e *model.PriceHistoryEntry) error {
	query := `
		INSERT INTO price_history (product_id, price, currency, scraped_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.pool.QueryRow(ctx, query, e.ProductID, e.Price, e.Currency, e.ScrapedAt).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("appending price history for product %s: %w", e.ProductID, err)
	}
	return nil
}

// ListByProduct retrieves up to limit entries for a product, newest first
func (r *historyRepo) ListByProduct(ctx context.Context, productID string, limit int) ([]model.PriceHistoryEntry, error) {
	query := `
		SELECT id, product_id, price, currency, scraped_at
		FROM price_history
		WHERE product_id = $1
		ORDER BY scraped_at DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying price history for product %s: %w", productID, err)
	}
	defer rows.Close()

	var entries []model.PriceHistoryEntry
	for rows.Next() {
		var e model.PriceHistoryEntry
		if err := rows.Scan(&e.ID, &e.ProductID, &e.Price, &e.Currency, &e.ScrapedAt); err != nil {
			return nil, fmt.Errorf("scanning price history row: %w", err)
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating price history rows: %w", err)
	}

	if len(entries) == 0 {
		return []model.PriceHistoryEntry{}, nil
	}
	return entries, nil
}
