package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"krolist/internal/api/v1/dto"
	"krolist/internal/currency"
	"krolist/internal/middleware"
	"krolist/internal/model"
	"krolist/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const historyPageSize = 100

// ProductHandler handles tracked-product endpoints
type ProductHandler struct {
	products repository.ProductRepository
	history  repository.HistoryRepository
	currency *currency.Service
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(
	products repository.ProductRepository,
	history repository.HistoryRepository,
	currencySvc *currency.Service,
	validate *validator.Validate,
	logger zerolog.Logger,
) *ProductHandler {
	return &ProductHandler{
		products: products,
		history:  history,
		currency: currencySvc,
		validate: validate,
		logger:   logger,
	}
}

// RegisterRoutes mounts product routes
func (h *ProductHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/products", authMw(http.HandlerFunc(h.handleProducts)))
	mux.Handle("/products/", authMw(http.HandlerFunc(h.handleProduct)))
}

func (h *ProductHandler) handleProducts(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/products" {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		h.listProducts(w, r)
	case http.MethodPost:
		h.createProduct(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *ProductHandler) handleProduct(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/products/")
	switch {
	case r.Method == http.MethodGet && strings.HasSuffix(rest, "/history"):
		h.listHistory(w, r, strings.TrimSuffix(rest, "/history"))
	case r.Method == http.MethodPatch && !strings.Contains(rest, "/"):
		h.updateProduct(w, r, rest)
	default:
		http.NotFound(w, r)
	}
}

// listProducts godoc
// @Summary List tracked products
// @Description Retrieves the authenticated user's tracked products. Prices are additionally converted into the requested display currency.
// @Tags products
// @Produce json
// @Param currency query string false "Display currency code (USD, SAR, EGP, AED)" default(USD)
// @Success 200 {array} dto.ProductResponseDTO
// @Failure 400 {string} string "Unsupported display currency"
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 500 {string} string "Failed to list products"
// @Router /products [get]
func (h *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}
	display := currency.USD
	if code := r.URL.Query().Get("currency"); code != "" {
		parsed, err := currency.Parse(code)
		if err != nil {
			http.Error(w, "Unsupported display currency: "+code, http.StatusBadRequest)
			return
		}
		display = parsed
	}

	products, err := h.products.ListByUser(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to list products: "+err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]dto.ProductResponseDTO, 0, len(products))
	for _, p := range products {
		resp = append(resp, h.toProductDTO(r.Context(), p, display))
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode response")
	}
}

// createProduct godoc
// @Summary Add a tracked product
// @Description Starts tracking a product for the authenticated user.
// @Tags products
// @Accept json
// @Produce json
// @Param product body dto.ProductCreateDTO true "Product creation request"
// @Success 201 {object} dto.ProductResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 500 {string} string "Failed to create product"
// @Router /products [post]
func (h *ProductHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}
	var req dto.ProductCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	cur, err := currency.Parse(req.OriginalCurrency)
	if err != nil {
		http.Error(w, "Unsupported currency: "+req.OriginalCurrency, http.StatusBadRequest)
		return
	}

	product := &model.TrackedProduct{
		ID:               uuid.NewString(),
		UserID:           userID,
		ProductURL:       req.ProductURL,
		CurrentPrice:     req.CurrentPrice,
		OriginalCurrency: cur,
		IsActive:         true,
	}
	if err := h.products.CreateProduct(r.Context(), product); err != nil {
		http.Error(w, "Failed to create product: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(h.toProductDTO(r.Context(), *product, cur)); err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode response")
	}
}

// updateProduct godoc
// @Summary Activate or deactivate a tracked product
// @Description Toggles whether the product is considered by the weekly refresh.
// @Tags products
// @Accept json
// @Produce json
// @Param productId path string true "Product ID"
// @Param product body dto.ProductUpdateDTO true "Product update request"
// @Success 200 {object} dto.ProductResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 404 {string} string "Product not found"
// @Failure 500 {string} string "Failed to update product"
// @Router /products/{productId} [patch]
func (h *ProductHandler) updateProduct(w http.ResponseWriter, r *http.Request, productID string) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}
	var req dto.ProductUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	product, err := h.products.GetByID(r.Context(), productID)
	if err != nil {
		http.Error(w, "Failed to retrieve product: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if product == nil || product.UserID != userID {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	if err := h.products.SetActive(r.Context(), productID, *req.IsActive); err != nil {
		http.Error(w, "Failed to update product: "+err.Error(), http.StatusInternalServerError)
		return
	}
	product.IsActive = *req.IsActive

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.toProductDTO(r.Context(), *product, product.OriginalCurrency)); err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode response")
	}
}

// listHistory godoc
// @Summary Get a product's price history
// @Description Retrieves recorded price points for a tracked product, newest first.
// @Tags products
// @Produce json
// @Param productId path string true "Product ID"
// @Success 200 {array} dto.PriceHistoryEntryDTO
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 404 {string} string "Product not found"
// @Failure 500 {string} string "Failed to list price history"
// @Router /products/{productId}/history [get]
func (h *ProductHandler) listHistory(w http.ResponseWriter, r *http.Request, productID string) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}
	product, err := h.products.GetByID(r.Context(), productID)
	if err != nil {
		http.Error(w, "Failed to retrieve product: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if product == nil || product.UserID != userID {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	entries, err := h.history.ListByProduct(r.Context(), productID, historyPageSize)
	if err != nil {
		http.Error(w, "Failed to list price history: "+err.Error(), http.StatusInternalServerError)
		return
	}
	resp := make([]dto.PriceHistoryEntryDTO, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, dto.PriceHistoryEntryDTO{
			ID:        e.ID,
			ProductID: e.ProductID,
			Price:     e.Price,
			Currency:  string(e.Currency),
			ScrapedAt: e.ScrapedAt,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode response")
	}
}

// toProductDTO renders a product with its price converted into the display
// currency. Convert refreshes the rate cache when stale, so display prices
// track the synced exchange_rates table and only degrade to the fallback
// table when the store is unreachable.
func (h *ProductHandler) toProductDTO(ctx context.Context, p model.TrackedProduct, display currency.Currency) dto.ProductResponseDTO {
	displayPrice := h.currency.Convert(ctx, p.CurrentPrice, p.OriginalCurrency, display)
	return dto.ProductResponseDTO{
		ID:               p.ID,
		UserID:           p.UserID,
		ProductURL:       p.ProductURL,
		CurrentPrice:     p.CurrentPrice,
		OriginalCurrency: string(p.OriginalCurrency),
		IsActive:         p.IsActive,
		LastCheckedAt:    p.LastCheckedAt,
		CreatedAt:        p.CreatedAt,
		DisplayPrice:     displayPrice,
		DisplayCurrency:  string(display),
		DisplayLabel:     currency.FormatPrice(displayPrice, display),
	}
}
