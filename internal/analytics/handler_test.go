package analytics_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/douanehq/douane/internal/analytics"
)

type mockSystem struct {
	leaderboardFn func(ctx context.Context, rng analytics.Range) ([]analytics.LeaderboardEntry, error)
	comparisonFn  func(ctx context.Context, principals []string, rng analytics.Range) ([]analytics.ComparisonEntry, error)
	heatmapFn     func(ctx context.Context, principal string, rng analytics.Range) ([]analytics.HeatmapCell, error)
}

func (m *mockSystem) Handler() *analytics.Handler {
	return analytics.NewHandler(m, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func (m *mockSystem) UpsertBatch(ctx context.Context, metrics []analytics.DailyMetric) (*analytics.UpsertStats, error) {
	return nil, nil
}

func (m *mockSystem) Leaderboard(ctx context.Context, rng analytics.Range) ([]analytics.LeaderboardEntry, error) {
	return m.leaderboardFn(ctx, rng)
}

func (m *mockSystem) Comparison(ctx context.Context, principals []string, rng analytics.Range) ([]analytics.ComparisonEntry, error) {
	return m.comparisonFn(ctx, principals, rng)
}

func (m *mockSystem) Heatmap(ctx context.Context, principal string, rng analytics.Range) ([]analytics.HeatmapCell, error) {
	return m.heatmapFn(ctx, principal, rng)
}

func setupMux(sys *mockSystem) *http.ServeMux {
	mux := http.NewServeMux()
	group := sys.Handler().Routes()
	for _, route := range group.Routes {
		pattern := route.Method + " " + group.Prefix + route.Pattern
		mux.HandleFunc(pattern, route.Handler)
	}
	return mux
}

func TestLeaderboard(t *testing.T) {
	sys := &mockSystem{
		leaderboardFn: func(ctx context.Context, rng analytics.Range) ([]analytics.LeaderboardEntry, error) {
			if rng.From == nil || !rng.From.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)) {
				t.Errorf("unexpected range from: %v", rng.From)
			}
			return []analytics.LeaderboardEntry{
				{Principal: "Acme Logistics", Total: 120, Days: 10, MeanPerDay: 12},
				{Principal: "Meridian Trade", Total: 80, Days: 10, MeanPerDay: 8},
			}, nil
		},
	}

	mux := setupMux(sys)
	req := httptest.NewRequest("GET", "/analytics/leaderboard?from=2026-03-01", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var entries []analytics.LeaderboardEntry
	if err := json.NewDecoder(rec.Body).Decode(&entries); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(entries) != 2 || entries[0].Principal != "Acme Logistics" {
		t.Errorf("unexpected entries: %+v", entries)
	}
}

func TestComparison(t *testing.T) {
	sys := &mockSystem{
		comparisonFn: func(ctx context.Context, principals []string, rng analytics.Range) ([]analytics.ComparisonEntry, error) {
			if len(principals) != 2 || principals[0] != "Acme" || principals[1] != "Meridian" {
				t.Errorf("unexpected principals: %v", principals)
			}
			return []analytics.ComparisonEntry{
				{Principal: "Acme", Total: 40, Days: 8, Mean: 5, Variance: 4, StdDev: 2, CoefficientOfVariation: 0.4},
				{Principal: "Meridian"},
			}, nil
		},
	}

	mux := setupMux(sys)
	req := httptest.NewRequest("GET", "/analytics/comparison?principals=Acme,%20Meridian", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestComparisonRequiresPrincipals(t *testing.T) {
	mux := setupMux(&mockSystem{})
	req := httptest.NewRequest("GET", "/analytics/comparison", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHeatmap(t *testing.T) {
	sys := &mockSystem{
		heatmapFn: func(ctx context.Context, principal string, rng analytics.Range) ([]analytics.HeatmapCell, error) {
			if principal != "Acme Logistics" {
				t.Errorf("unexpected principal: %q", principal)
			}
			return []analytics.HeatmapCell{
				{Date: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), Weekday: "Tuesday", Count: 14},
			}, nil
		},
	}

	mux := setupMux(sys)
	req := httptest.NewRequest("GET", "/analytics/heatmap?principal=Acme+Logistics", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var cells []analytics.HeatmapCell
	if err := json.NewDecoder(rec.Body).Decode(&cells); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(cells) != 1 || cells[0].Weekday != "Tuesday" {
		t.Errorf("unexpected cells: %+v", cells)
	}
}

func TestHeatmapRequiresPrincipal(t *testing.T) {
	mux := setupMux(&mockSystem{})
	req := httptest.NewRequest("GET", "/analytics/heatmap", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
