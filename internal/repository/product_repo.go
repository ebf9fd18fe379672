package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"krolist/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProductRepository defines the interface for interacting with tracked products
type ProductRepository interface {
	ListByUser(ctx context.Context, userID string) ([]model.TrackedProduct, error)
	// ListActiveByUser retrieves only products the refresh workflow considers
	ListActiveByUser(ctx context.Context, userID string) ([]model.TrackedProduct, error)
	GetByID(ctx context.Context, productID string) (*model.TrackedProduct, error)
	CreateProduct(ctx context.Context, p *model.TrackedProduct) error
	SetActive(ctx context.Context, productID string, active bool) error
	// UpdatePrice persists a freshly observed price and the check timestamp
	UpdatePrice(ctx context.Context, productID string, price float64, checkedAt time.Time) error
}

type productRepo struct {
	pool *pgxpool.Pool
}

// NewProductRepo creates a new ProductRepository
func NewProductRepo(pool *pgxpool.Pool) ProductRepository {
	return &productRepo{pool: pool}
}

const productColumns = `id, user_id, product_url, current_price, original_currency, is_active, last_checked_at, created_at`

// ListByUser retrieves all of a user's tracked products, newest first
func (r *productRepo) ListByUser(ctx context.Context, userID string) ([]model.TrackedProduct, error) {
	query := `
		SELECT ` + productColumns + `
		FROM tracked_products
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	return r.queryProducts(ctx, query, userID)
}

// ListActiveByUser retrieves the user's active tracked products
func (r *productRepo) ListActiveByUser(ctx context.Context, userID string) ([]model.TrackedProduct, error) {
	query := `
		SELECT ` + productColumns + `
		FROM tracked_products
		WHERE user_id = $1 AND is_active = TRUE
		ORDER BY created_at DESC
	`
	return r.queryProducts(ctx, query, userID)
}

func (r *productRepo) queryProducts(ctx context.Context, query string, args ...any) ([]model.TrackedProduct, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying tracked products: %w", err)
	}
	defer rows.Close()

	var products []model.TrackedProduct
	for rows.Next() {
		var p model.TrackedProduct
		if err := rows.Scan(
			&p.ID,
			&p.UserID,
			&p.ProductURL,
			&p.CurrentPrice,
			&p.OriginalCurrency,
			&p.IsActive,
			&p.LastCheckedAt,
			&p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning tracked product row: %w", err)
		}
		products = append(products, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tracked product rows: %w", err)
	}

	// If no products found, return an empty slice, not nil
	if len(products) == 0 {
		return []model.TrackedProduct{}, nil
	}
	return products, nil
}

// GetByID retrieves a tracked product by its ID
func (r *productRepo) GetByID(ctx context.Context, productID string) (*model.TrackedProduct, error) {
	query := `
		SELECT ` + productColumns + `
		FROM tracked_products
		WHERE id = $1
	`
	var p model.TrackedProduct
	err := r.pool.QueryRow(ctx, query, productID).Scan(
		&p.ID,
		&p.UserID,
		&p.ProductURL,
		&p.CurrentPrice,
		&p.OriginalCurrency,
		&p.IsActive,
		&p.LastCheckedAt,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting tracked product by id %s: %w", productID, err)
	}
	return &p, nil
}

// CreateProduct inserts a new tracked product and returns the created record
func (r *productRepo) CreateProduct(ctx context.Context, p *model.TrackedProduct) error {
	query := `
		INSERT INTO tracked_products (id, user_id, product_url, current_price, original_currency, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	err := r.pool.QueryRow(ctx, query, p.ID, p.UserID, p.ProductURL, p.CurrentPrice, p.OriginalCurrency, p.IsActive).
		Scan(&p.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating tracked product: %w", err)
	}
	return nil
}

// SetActive toggles whether a product is considered by the refresh workflow
func (r *productRepo) SetActive(ctx context.Context, productID string, active bool) error {
	_, err := r.pool.Exec(ctx, `UPDATE tracked_products SET is_active = $1 WHERE id = $2`, active, productID)
	if err != nil {
		return fmt.Errorf("setting active flag for product %s: %w", productID, err)
	}
	return nil
}

// UpdatePrice persists a freshly observed price and the check timestamp
func (r *productRepo) UpdatePrice(ctx context.Context, productID string, price float64, checkedAt time.Time) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE tracked_products SET current_price = $1, last_checked_at = $2 WHERE id = $3`,
		price, checkedAt, productID,
	)
	if err != nil {
		return fmt.Errorf("updating price for product %s: %w", productID, err)
	}
	return nil
}
