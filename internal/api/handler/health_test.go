package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealthHandler_Liveness(t *testing.T) {
	rec := serve(t, NewHealthHandler(nil, nil).Liveness, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHealthHandler_Readiness(t *testing.T) {
	h := &HealthHandler{checks: map[string]func(context.Context) error{
		"mongodb": func(context.Context) error { return nil },
	}}
	rec := serve(t, h.Readiness, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	h.checks["redis"] = func(context.Context) error { return errors.New("dial tcp: refused") }
	rec = serve(t, h.Readiness, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	deps := decode(t, rec)["dependencies"].(map[string]any)
	if deps["redis"].(map[string]any)["status"] != "unhealthy" {
		t.Fatalf("redis should be unhealthy: %+v", deps)
	}
}
