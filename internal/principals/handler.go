package principals

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/douanehq/douane/pkg/handlers"
	"github.com/douanehq/douane/pkg/routes"
)

// Handler provides HTTP endpoints for the principal directory.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "principals"),
	}
}

// Routes returns the route group definition for principal endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/principals",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "POST", Pattern: "", Handler: h.Create},
			{Method: "PUT", Pattern: "/{name}", Handler: h.Update},
			{Method: "DELETE", Pattern: "/{name}", Handler: h.Delete},
		},
	}
}

type principalRequest struct {
	Name string `json:"name"`
}

// List returns all principals alphabetically.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.sys.List(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, list)
}

// Create adds a new principal.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req principalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrEmptyName)
		return
	}

	principal, err := h.sys.Create(r.Context(), req.Name)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, principal)
}

// Update renames an existing principal.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req principalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrEmptyName)
		return
	}

	principal, err := h.sys.Update(r.Context(), r.PathValue("name"), req.Name)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, principal)
}

// Delete removes a principal.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.sys.Delete(r.Context(), r.PathValue("name")); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
