package model

import (
	"time"

	"krolist/internal/currency"
)

// TrackedProduct represents a product a user is watching for price changes.
type TrackedProduct struct {
	ID               string            `db:"id" json:"id"`           // UUID
	UserID           string            `db:"user_id" json:"user_id"` // Supabase Auth user UUID
	ProductURL       string            `db:"product_url" json:"product_url"`
	CurrentPrice     float64           `db:"current_price" json:"current_price"`
	OriginalCurrency currency.Currency `db:"original_currency" json:"original_currency"`
	IsActive         bool              `db:"is_active" json:"is_active"`
	LastCheckedAt    *time.Time        `db:"last_checked_at" json:"last_checked_at,omitempty"`
	CreatedAt        time.Time         `db:"created_at" json:"created_at"`
}

// PriceHistoryEntry is one observed price point for a tracked product.
// Entries are append-only; the refresh workflow never mutates or deletes them.
type PriceHistoryEntry struct {
	ID        string            `db:"id" json:"id"`
	ProductID string            `db:"product_id" json:"product_id"`
	Price     float64           `db:"price" json:"price"`
	Currency  currency.Currency `db:"currency" json:"currency"`
	ScrapedAt time.Time         `db:"scraped_at" json:"scraped_at"`
}
