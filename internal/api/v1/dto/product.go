package dto

import "time"

type ProductCreateDTO struct {
	ProductURL       string  `json:"product_url" validate:"required,url"`
	CurrentPrice     float64 `json:"current_price" validate:"required,gt=0"`
	OriginalCurrency string  `json:"original_currency" validate:"required"`
}

type ProductUpdateDTO struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

type ProductResponseDTO struct {
	ID               string     `json:"id"`
	UserID           string     `json:"user_id"`
	ProductURL       string     `json:"product_url"`
	CurrentPrice     float64    `json:"current_price"`
	OriginalCurrency string     `json:"original_currency"`
	IsActive         bool       `json:"is_active"`
	LastCheckedAt    *time.Time `json:"last_checked_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	DisplayPrice     float64    `json:"display_price"`
	DisplayCurrency  string     `json:"display_currency"`
	DisplayLabel     string     `json:"display_label"`
}

type PriceHistoryEntryDTO struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	Price     float64   `json:"price"`
	Currency  string    `json:"currency"`
	ScrapedAt time.Time `json:"scraped_at"`
}
