package module_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/douanehq/douane/pkg/module"
)

func TestRouterDispatchesToModule(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /declarations", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("listed"))
	})

	router := module.NewRouter()
	router.Mount(module.New("/api", mux))

	req := httptest.NewRequest("GET", "/api/declarations", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || rec.Body.String() != "listed" {
		t.Errorf("unexpected response: %d %q", rec.Code, rec.Body.String())
	}
}

func TestRouterNativeFallback(t *testing.T) {
	router := module.NewRouter()
	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestRouterModuleMiddleware(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /upsert", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	m := module.New("/sync", mux)
	m.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("x-sync-secret") == "" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	router := module.NewRouter()
	router.Mount(m)

	req := httptest.NewRequest("POST", "/sync/upsert", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected middleware rejection, got %d", rec.Code)
	}
}

func TestModuleInvalidPrefix(t *testing.T) {
	for _, prefix := range []string{"", "api", "/api/v1"} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("expected panic for prefix %q", prefix)
				}
			}()
			module.New(prefix, http.NewServeMux())
		}()
	}
}

func TestRouterTrailingSlash(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /principals", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router := module.NewRouter()
	router.Mount(module.New("/api", mux))

	req := httptest.NewRequest("GET", "/api/principals/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected trailing slash normalized, got %d", rec.Code)
	}
}
