package logger

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestNewLevelByEnvironment(t *testing.T) {
	t.Run("development enables debug", func(t *testing.T) {
		t.Setenv("ENV", "development")
		if got := New().GetLevel(); got != zerolog.DebugLevel {
			t.Fatalf("expected debug level in development, got %s", got)
		}
	})

	t.Run("production stays at info", func(t *testing.T) {
		t.Setenv("ENV", "production")
		if got := New().GetLevel(); got != zerolog.InfoLevel {
			t.Fatalf("expected info level in production, got %s", got)
		}
	})
}
