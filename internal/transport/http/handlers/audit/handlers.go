package audithandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"planilla/internal/domain/audit"
	"planilla/internal/domain/auth"
	"planilla/internal/transport/http/api"
	"planilla/internal/transport/http/middleware"
	"planilla/internal/transport/http/shared"
)

type Handler struct {
	Audit *audit.Service
}

func NewHandler(auditService *audit.Service) *Handler {
	return &Handler{Audit: auditService}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequirePermission(auth.PermAuditRead)).
		Get("/companies/{companyID}/audit", h.handleList)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	companyID := chi.URLParam(r, "companyID")

	filter := audit.Filter{
		Action:     r.URL.Query().Get("action"),
		EntityType: r.URL.Query().Get("entityType"),
		ActorUser:  r.URL.Query().Get("actor"),
	}
	page := shared.ParsePagination(r)
	includeDetails := r.URL.Query().Get("details") != ""

	total, err := h.Audit.Count(r.Context(), companyID, filter)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "audit_list_failed", "failed to list audit events", requestID)
		return
	}
	events, err := h.Audit.List(r.Context(), companyID, filter, includeDetails, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "audit_list_failed", "failed to list audit events", requestID)
		return
	}
	api.Success(w, map[string]any{"total": total, "events": events}, requestID)
}
