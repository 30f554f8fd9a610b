package analytics

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/douanehq/douane/pkg/handlers"
	"github.com/douanehq/douane/pkg/routes"
)

// Handler provides HTTP endpoints for the analytics views.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "analytics"),
	}
}

// Routes returns the route group definition for analytics endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/analytics",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/leaderboard", Handler: h.Leaderboard},
			{Method: "GET", Pattern: "/comparison", Handler: h.Comparison},
			{Method: "GET", Pattern: "/heatmap", Handler: h.Heatmap},
		},
	}
}

// Leaderboard returns per-principal totals ranked by volume.
func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.sys.Leaderboard(r.Context(), rangeFromQuery(r.URL.Query()))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, entries)
}

// Comparison returns descriptive statistics for the requested principals.
func (h *Handler) Comparison(w http.ResponseWriter, r *http.Request) {
	principals := splitPrincipals(r.URL.Query().Get("principals"))
	if len(principals) == 0 {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNoPrincipals)
		return
	}

	entries, err := h.sys.Comparison(r.Context(), principals, rangeFromQuery(r.URL.Query()))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, entries)
}

// Heatmap returns daily activity cells for a single principal.
func (h *Handler) Heatmap(w http.ResponseWriter, r *http.Request) {
	principal := r.URL.Query().Get("principal")
	if principal == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrMissingPrincipal)
		return
	}

	cells, err := h.sys.Heatmap(r.Context(), principal, rangeFromQuery(r.URL.Query()))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, cells)
}

func rangeFromQuery(values url.Values) Range {
	var rng Range

	if t := parseDate(values.Get("from")); t != nil {
		rng.From = t
	}
	if t := parseDate(values.Get("to")); t != nil {
		rng.To = t
	}

	return rng
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t
	}
	return nil
}

func splitPrincipals(s string) []string {
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	principals := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			principals = append(principals, trimmed)
		}
	}
	return principals
}
