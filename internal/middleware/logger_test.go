package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestLoggerMiddlewareLogsRequests(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	handler := LoggerMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/products?currency=SAR", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	out := buf.String()
	if !strings.Contains(out, "Request handled") {
		t.Fatalf("expected a request log line, got %q", out)
	}
	if !strings.Contains(out, `"method":"GET"`) || !strings.Contains(out, `"path":"/products?currency=SAR"`) {
		t.Fatalf("expected method and path fields in log line, got %q", out)
	}
}
