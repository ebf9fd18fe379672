package model

import (
	"time"

	"krolist/internal/currency"
)

// ExchangeRate is one stored conversion factor: how many units of Currency
// equal one US dollar.
type ExchangeRate struct {
	Currency  currency.Currency `db:"currency" json:"currency"`
	RateToUSD float64           `db:"rate_to_usd" json:"rate_to_usd"`
	UpdatedAt time.Time         `db:"updated_at" json:"updated_at"`
}
