package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthz(t *testing.T) {
	s := New(":0", nil, zap.NewNop())

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type = %q", ct)
	}
}

func TestReadyzReportsFailedCheck(t *testing.T) {
	checks := map[string]Pinger{
		"postgres": pingFunc(func(ctx context.Context) error { return nil }),
		"redis":    pingFunc(func(ctx context.Context) error { return errors.New("connection refused") }),
	}
	s := New(":0", checks, zap.NewNop())

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rec.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["postgres"] != "ok" || body["redis"] != "connection refused" {
		t.Fatalf("body = %v", body)
	}
}

func TestReadyzAllGood(t *testing.T) {
	s := New(":0", map[string]Pinger{
		"redis": pingFunc(func(ctx context.Context) error { return nil }),
	}, zap.NewNop())

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
