package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHealthHandler_Liveness(t *testing.T) {
	h := NewHealthHandler()

	rec := httptest.NewRecorder()
	h.Liveness(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHealthHandler_ReadinessAllHealthy(t *testing.T) {
	h := NewHealthHandler().
		AddCheck("postgres", PingerFunc(func(ctx context.Context) error { return nil })).
		AddCheck("redis", PingerFunc(func(ctx context.Context) error { return nil }))

	rec := httptest.NewRecorder()
	h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "postgres") || !strings.Contains(body, "redis") {
		t.Fatalf("expected dependency names in body, got %s", body)
	}
}

func TestHealthHandler_ReadinessDependencyDown(t *testing.T) {
	h := NewHealthHandler().
		AddCheck("postgres", PingerFunc(func(ctx context.Context) error { return nil })).
		AddCheck("redis", PingerFunc(func(ctx context.Context) error {
			return errors.New("connection refused")
		}))

	rec := httptest.NewRecorder()
	h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "redis unhealthy") {
		t.Fatalf("expected redis failure in body, got %s", rec.Body.String())
	}
}
