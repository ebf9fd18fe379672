package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"krolist/internal/api/v1/dto"
	"krolist/internal/middleware"
	"krolist/internal/service"

	"github.com/rs/zerolog"
)

type fakeRefreshService struct {
	summary *service.RefreshSummary
	err     error
}

func (f *fakeRefreshService) Refresh(_ context.Context, _ string) (*service.RefreshSummary, error) {
	return f.summary, f.err
}

func newRefreshRequest(userID string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
	if userID != "" {
		req = req.WithContext(context.WithValue(req.Context(), middleware.UserContextKey, userID))
	}
	return req
}

func TestRefreshHandlerSuccess(t *testing.T) {
	next := time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)
	h := NewRefreshHandler(&fakeRefreshService{
		summary: &service.RefreshSummary{
			Checked:     3,
			Updated:     3,
			NextRefresh: next,
			Message:     "Updated 3 of 3 products",
		},
	}, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.refresh(rec, newRefreshRequest("user-1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp dto.RefreshResponseDTO
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !resp.Success || resp.Checked != 3 || resp.Updated != 3 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.RemainingRefreshes != 0 {
		t.Fatalf("expected remainingRefreshes=0, got %d", resp.RemainingRefreshes)
	}
	if !resp.NextRefreshDate.Equal(next) {
		t.Fatalf("expected nextRefreshDate=%v, got %v", next, resp.NextRefreshDate)
	}
}

func TestRefreshHandlerRateLimited(t *testing.T) {
	next := time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)
	h := NewRefreshHandler(&fakeRefreshService{
		err: &service.RateLimitedError{NextRefresh: next},
	}, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.refresh(rec, newRefreshRequest("user-1"))

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	var resp dto.RefreshErrorDTO
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Error == "" || resp.Message == "" {
		t.Fatalf("expected error and message fields, got %+v", resp)
	}
	if resp.NextRefreshDate == nil || !resp.NextRefreshDate.Equal(next) {
		t.Fatalf("expected nextRefreshDate=%v, got %v", next, resp.NextRefreshDate)
	}
}

func TestRefreshHandlerNoProducts(t *testing.T) {
	h := NewRefreshHandler(&fakeRefreshService{err: service.ErrNoProducts}, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.refresh(rec, newRefreshRequest("user-1"))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var resp dto.RefreshErrorDTO
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Error != "No products found" {
		t.Fatalf("expected error 'No products found', got %q", resp.Error)
	}
}

func TestRefreshHandlerUnauthenticated(t *testing.T) {
	h := NewRefreshHandler(&fakeRefreshService{}, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.refresh(rec, newRefreshRequest(""))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRefreshHandlerRejectsGet(t *testing.T) {
	h := NewRefreshHandler(&fakeRefreshService{}, zerolog.Nop())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/refresh", nil)
	req = req.WithContext(context.WithValue(req.Context(), middleware.UserContextKey, "user-1"))
	h.refresh(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for GET, got %d", rec.Code)
	}
}
