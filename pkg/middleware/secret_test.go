package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/douanehq/douane/pkg/middleware"
)

func secretHandler(t *testing.T) http.Handler {
	t.Helper()
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return middleware.SharedSecret("x-sync-secret", "s3cret")(inner)
}

func TestSharedSecretMatch(t *testing.T) {
	req := httptest.NewRequest("POST", "/upsert", nil)
	req.Header.Set("x-sync-secret", "s3cret")
	rec := httptest.NewRecorder()
	secretHandler(t).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestSharedSecretMismatch(t *testing.T) {
	req := httptest.NewRequest("POST", "/upsert", nil)
	req.Header.Set("x-sync-secret", "wrong")
	rec := httptest.NewRecorder()
	secretHandler(t).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["error"] != "unauthorized" {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestSharedSecretMissingHeader(t *testing.T) {
	req := httptest.NewRequest("POST", "/upsert", nil)
	rec := httptest.NewRecorder()
	secretHandler(t).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}
