package paramshandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"planilla/internal/domain/audit"
	"planilla/internal/domain/auth"
	"planilla/internal/domain/params"
	"planilla/internal/transport/http/api"
	"planilla/internal/transport/http/middleware"
	"planilla/internal/transport/http/shared"
)

type Handler struct {
	Params *params.Service
	Audit  *audit.Service
}

func NewHandler(paramsService *params.Service, auditService *audit.Service) *Handler {
	return &Handler{Params: paramsService, Audit: auditService}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/companies/{companyID}/params/{period}", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermParamsRead)).Get("/", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermParamsWrite)).Put("/", h.handleUpsert)
	})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	year, month, err := shared.ParsePeriod(chi.URLParam(r, "period"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_period", "period must be YYYY-MM", requestID)
		return
	}

	set, err := h.Params.Get(r.Context(), chi.URLParam(r, "companyID"), year, month)
	if errors.Is(err, params.ErrNotConfigured) {
		api.Fail(w, http.StatusNotFound, "params_not_configured", "legal parameters are not configured for the period", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "params_get_failed", "failed to load parameters", requestID)
		return
	}
	api.Success(w, set, requestID)
}

func (h *Handler) handleUpsert(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	companyID := chi.URLParam(r, "companyID")
	year, month, err := shared.ParsePeriod(chi.URLParam(r, "period"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_period", "period must be YYYY-MM", requestID)
		return
	}

	var set params.ParameterSet
	if err := json.NewDecoder(r.Body).Decode(&set); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request body", requestID)
		return
	}
	set.CompanyID = companyID
	set.Year = year
	set.Month = month

	id, err := h.Params.Upsert(r.Context(), set)
	switch {
	case errors.Is(err, params.ErrPeriodClosed):
		api.Fail(w, http.StatusConflict, "period_closed", "the period's payroll run is closed", requestID)
		return
	case errors.Is(err, params.ErrInvalidValue):
		api.Fail(w, http.StatusBadRequest, "invalid_value", "parameter values must be positive", requestID)
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "params_upsert_failed", "failed to save parameters", requestID)
		return
	}

	_ = h.Audit.Record(r.Context(), companyID, user.UserID, "params.upsert", "params", id,
		requestID, shared.ClientIP(r), nil, set)
	api.Success(w, map[string]string{"id": id}, requestID)
}
