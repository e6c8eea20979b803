package loanhandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"planilla/internal/domain/audit"
	"planilla/internal/domain/auth"
	"planilla/internal/domain/loan"
	"planilla/internal/transport/http/api"
	"planilla/internal/transport/http/middleware"
	"planilla/internal/transport/http/shared"
)

type Handler struct {
	Loans *loan.Service
	Audit *audit.Service
}

func NewHandler(loans *loan.Service, auditService *audit.Service) *Handler {
	return &Handler{Loans: loans, Audit: auditService}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/companies/{companyID}/loans", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermLoansRead)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermLoansWrite)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermLoansRead)).Get("/{loanID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermLoansWrite)).Post("/{loanID}/cancel", h.handleCancel)
	})
}

type loanPayload struct {
	WorkerID     string          `json:"workerId"`
	Description  string          `json:"description"`
	Principal    decimal.Decimal `json:"principal"`
	Installments int             `json:"installments"`
	StartYear    int             `json:"startYear"`
	StartMonth   int             `json:"startMonth"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	loans, err := h.Loans.List(r.Context(), chi.URLParam(r, "companyID"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "loans_list_failed", "failed to list loans", requestID)
		return
	}
	api.Success(w, loans, requestID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	l, err := h.Loans.Get(r.Context(), chi.URLParam(r, "companyID"), chi.URLParam(r, "loanID"))
	if errors.Is(err, loan.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "loan_not_found", "loan not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "loan_get_failed", "failed to load loan", requestID)
		return
	}
	api.Success(w, l, requestID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	companyID := chi.URLParam(r, "companyID")

	var payload loanPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request body", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("workerId", payload.WorkerID, "worker is required")
	v.Positive("principal", payload.Principal)
	if payload.Installments < 1 {
		v.Add("installments", "must be at least 1")
	}
	if v.Reject(w, requestID) {
		return
	}

	l := loan.Loan{
		CompanyID:    companyID,
		WorkerID:     payload.WorkerID,
		Description:  strings.TrimSpace(payload.Description),
		Principal:    payload.Principal,
		Installments: payload.Installments,
		StartYear:    payload.StartYear,
		StartMonth:   payload.StartMonth,
	}
	id, err := h.Loans.Create(r.Context(), l)
	if errors.Is(err, loan.ErrInvalidLoan) {
		api.Fail(w, http.StatusBadRequest, "invalid_loan", "loan principal, installments and start month must be valid", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "loan_create_failed", "failed to create loan", requestID)
		return
	}

	_ = h.Audit.Record(r.Context(), companyID, user.UserID, "loan.create", "loan", id,
		requestID, shared.ClientIP(r), nil, l)
	api.Created(w, map[string]string{"id": id}, requestID)
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	companyID := chi.URLParam(r, "companyID")
	loanID := chi.URLParam(r, "loanID")

	err := h.Loans.Cancel(r.Context(), companyID, loanID)
	if errors.Is(err, loan.ErrAlreadySettled) {
		api.Fail(w, http.StatusConflict, "loan_not_active", "loan is already settled or cancelled", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "loan_cancel_failed", "failed to cancel loan", requestID)
		return
	}

	_ = h.Audit.Record(r.Context(), companyID, user.UserID, "loan.cancel", "loan", loanID,
		requestID, shared.ClientIP(r), nil, nil)
	api.Success(w, map[string]string{"id": loanID}, requestID)
}
