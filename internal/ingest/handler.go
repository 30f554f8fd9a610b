package ingest

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/douanehq/douane/internal/analytics"
	"github.com/douanehq/douane/internal/declarations"
	"github.com/douanehq/douane/pkg/handlers"
	"github.com/douanehq/douane/pkg/routes"
)

// Handler provides the sync endpoints called by the external platform.
type Handler struct {
	decls   declarations.System
	metrics analytics.System
	logger  *slog.Logger
}

// NewHandler creates a sync handler over the declaration and analytics systems.
func NewHandler(decls declarations.System, metrics analytics.System, logger *slog.Logger) *Handler {
	return &Handler{
		decls:   decls,
		metrics: metrics,
		logger:  logger.With("handler", "ingest"),
	}
}

// Routes returns the route group definition for sync endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/upsert", Handler: h.Upsert},
			{Method: "POST", Pattern: "/metrics", Handler: h.Metrics},
		},
	}
}

type syncResponse struct {
	Success bool `json:"success"`
	Stats   any  `json:"stats,omitempty"`
}

type syncFailure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Upsert ingests a declaration batch atomically.
func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	var payload UpsertPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidPayload)
		return
	}

	records, err := payload.Records()
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	stats, err := h.decls.UpsertBatch(r.Context(), records)
	if err != nil {
		h.respondFailure(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, syncResponse{Success: true, Stats: stats})
}

// Metrics ingests a daily-metrics batch atomically.
func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	var payload MetricsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidPayload)
		return
	}

	metrics, err := payload.Metrics()
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	stats, err := h.metrics.UpsertBatch(r.Context(), metrics)
	if err != nil {
		h.respondFailure(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, syncResponse{Success: true, Stats: stats})
}

// respondFailure reports a store-level failure. Validation errors caught by
// the systems themselves still map to 400; everything else is 500 with the
// success flag cleared so the sync job knows to retry the batch.
func (h *Handler) respondFailure(w http.ResponseWriter, err error) {
	status := MapHTTPStatus(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("sync batch failed", "error", err)
		handlers.RespondJSON(w, status, syncFailure{Success: false, Error: err.Error()})
		return
	}
	handlers.RespondError(w, h.logger, status, err)
}
