package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"krolist/internal/api/v1/dto"
	"krolist/internal/middleware"
	"krolist/internal/service"

	"github.com/rs/zerolog"
)

// RefreshHandler handles the weekly bulk price-refresh endpoint
type RefreshHandler struct {
	refreshService service.RefreshService
	logger         zerolog.Logger
}

// NewRefreshHandler creates a new RefreshHandler
func NewRefreshHandler(refreshService service.RefreshService, logger zerolog.Logger) *RefreshHandler {
	return &RefreshHandler{
		refreshService: refreshService,
		logger:         logger,
	}
}

// RegisterRoutes mounts the refresh route
func (h *RefreshHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/refresh", authMw(http.HandlerFunc(h.refresh)))
}

// refresh godoc
// @Summary Refresh all tracked product prices
// @Description Re-checks all of the authenticated user's active products in one pass. Allowed once per user per calendar week (weeks start Sunday 00:00 UTC).
// @Tags refresh
// @Produce json
// @Success 200 {object} dto.RefreshResponseDTO
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 404 {object} dto.RefreshErrorDTO "No products found"
// @Failure 429 {object} dto.RefreshErrorDTO "Weekly refresh already used"
// @Failure 500 {string} string "Failed to refresh prices"
// @Router /refresh [post]
func (h *RefreshHandler) refresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}

	summary, err := h.refreshService.Refresh(r.Context(), userID)
	if err != nil {
		var rateLimited *service.RateLimitedError
		switch {
		case errors.As(err, &rateLimited):
			h.writeJSON(w, http.StatusTooManyRequests, dto.RefreshErrorDTO{
				Error:           "Rate limited",
				Message:         "You've already refreshed your prices this week. Come back next week!",
				NextRefreshDate: &rateLimited.NextRefresh,
			})
		case errors.Is(err, service.ErrNoProducts):
			h.writeJSON(w, http.StatusNotFound, dto.RefreshErrorDTO{
				Error: "No products found",
			})
		default:
			h.logger.Error().Err(err).Str("user_id", userID).Msg("Refresh failed")
			http.Error(w, "Failed to refresh prices", http.StatusInternalServerError)
		}
		return
	}

	h.writeJSON(w, http.StatusOK, dto.RefreshResponseDTO{
		Success:            true,
		Checked:            summary.Checked,
		Updated:            summary.Updated,
		Message:            summary.Message,
		RemainingRefreshes: summary.RemainingRefreshes,
		NextRefreshDate:    summary.NextRefresh,
	})
}

func (h *RefreshHandler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode response")
	}
}
