package companyhandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"planilla/internal/domain/audit"
	"planilla/internal/domain/auth"
	"planilla/internal/domain/company"
	"planilla/internal/transport/http/api"
	"planilla/internal/transport/http/middleware"
	"planilla/internal/transport/http/shared"
)

type Handler struct {
	Companies *company.Service
	Audit     *audit.Service
}

func NewHandler(companies *company.Service, auditService *audit.Service) *Handler {
	return &Handler{Companies: companies, Audit: auditService}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/companies", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermCompaniesRead)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermCompaniesWrite)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermCompaniesRead)).Get("/{companyID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermCompaniesWrite)).Put("/{companyID}", h.handleUpdate)
	})
}

type companyPayload struct {
	RUC             string          `json:"ruc"`
	Name            string          `json:"name"`
	Address         string          `json:"address"`
	MicroEnterprise bool            `json:"microEnterprise"`
	WorkdayHours    decimal.Decimal `json:"workdayHours"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	companies, err := h.Companies.List(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "companies_list_failed", "failed to list companies", requestID)
		return
	}
	api.Success(w, companies, requestID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	comp, err := h.Companies.Get(r.Context(), chi.URLParam(r, "companyID"))
	if errors.Is(err, company.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "company_not_found", "company not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "company_get_failed", "failed to load company", requestID)
		return
	}
	api.Success(w, comp, requestID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	var payload companyPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request body", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "company name is required")
	v.Required("ruc", payload.RUC, "RUC is required")
	if v.Reject(w, requestID) {
		return
	}

	comp := company.Company{
		RUC:             strings.TrimSpace(payload.RUC),
		Name:            strings.TrimSpace(payload.Name),
		Address:         strings.TrimSpace(payload.Address),
		MicroEnterprise: payload.MicroEnterprise,
		WorkdayHours:    payload.WorkdayHours,
	}
	id, err := h.Companies.Create(r.Context(), comp)
	if errors.Is(err, company.ErrInvalidRUC) {
		api.Fail(w, http.StatusBadRequest, "invalid_ruc", "RUC must be 11 digits", requestID)
		return
	}
	if errors.Is(err, company.ErrRUCTaken) {
		api.Fail(w, http.StatusConflict, "ruc_taken", "a company with that RUC already exists", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "company_create_failed", "failed to create company", requestID)
		return
	}

	_ = h.Audit.Record(r.Context(), id, user.UserID, "company.create", "company", id,
		requestID, shared.ClientIP(r), nil, comp)
	api.Created(w, map[string]string{"id": id}, requestID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	companyID := chi.URLParam(r, "companyID")

	before, err := h.Companies.Get(r.Context(), companyID)
	if errors.Is(err, company.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "company_not_found", "company not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "company_get_failed", "failed to load company", requestID)
		return
	}

	var payload companyPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request body", requestID)
		return
	}

	updated := before
	updated.Name = strings.TrimSpace(payload.Name)
	updated.Address = strings.TrimSpace(payload.Address)
	updated.MicroEnterprise = payload.MicroEnterprise
	if payload.WorkdayHours.IsPositive() {
		updated.WorkdayHours = payload.WorkdayHours
	}

	if err := h.Companies.Update(r.Context(), updated); err != nil {
		api.Fail(w, http.StatusInternalServerError, "company_update_failed", "failed to update company", requestID)
		return
	}

	_ = h.Audit.Record(r.Context(), companyID, user.UserID, "company.update", "company", companyID,
		requestID, shared.ClientIP(r), before, updated)
	api.Success(w, updated, requestID)
}
