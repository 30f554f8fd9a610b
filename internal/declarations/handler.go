package declarations

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/douanehq/douane/pkg/handlers"
	"github.com/douanehq/douane/pkg/pagination"
	"github.com/douanehq/douane/pkg/routes"
	"github.com/douanehq/douane/pkg/ticketing"
)

// Handler provides HTTP endpoints for declaration operations.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// TicketResponse is the success body for ticket creation.
type TicketResponse struct {
	Success  bool         `json:"success"`
	TicketID int64        `json:"ticket_id"`
	Status   TicketStatus `json:"status"`
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "declarations"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for declaration endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/declarations",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "POST", Pattern: "/{id}/create-project", Handler: h.CreateProject},
		},
	}
}

// List returns a paginated list of declarations with optional query parameter filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a single declaration by its business identifier.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := parseDeclarationID(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	d, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, d)
}

// CreateProject requests a helpdesk ticket for the declaration. A CRM failure
// surfaces as 502 with the collaborator's message; the FAILED state has
// already been persisted by then.
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	id, err := parseDeclarationID(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	d, err := h.sys.RequestTicket(r.Context(), id)
	if err != nil {
		var terr *ticketing.Error
		if errors.As(err, &terr) {
			handlers.RespondErrorDetails(
				w, h.logger,
				http.StatusBadGateway,
				errors.New("ticket creation failed"),
				terr.Message,
			)
			return
		}

		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, TicketResponse{
		Success:  true,
		TicketID: *d.TicketID,
		Status:   d.TicketStatus,
	})
}

func parseDeclarationID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrMissingID
	}
	return id, nil
}
