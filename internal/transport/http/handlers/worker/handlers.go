package workerhandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"planilla/internal/domain/audit"
	"planilla/internal/domain/auth"
	"planilla/internal/domain/worker"
	"planilla/internal/payroll"
	"planilla/internal/transport/http/api"
	"planilla/internal/transport/http/middleware"
	"planilla/internal/transport/http/shared"
)

type Handler struct {
	Workers *worker.Service
	Audit   *audit.Service
}

func NewHandler(workers *worker.Service, auditService *audit.Service) *Handler {
	return &Handler{Workers: workers, Audit: auditService}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/companies/{companyID}/workers", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermWorkersRead)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermWorkersWrite)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermWorkersRead)).Get("/{workerID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermWorkersWrite)).Put("/{workerID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermWorkersWrite)).Delete("/{workerID}", h.handleRemove)
	})
	r.Route("/companies/{companyID}/contractors", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermWorkersRead)).Get("/", h.handleListContractors)
		r.With(middleware.RequirePermission(auth.PermWorkersWrite)).Post("/", h.handleCreateContractor)
		r.With(middleware.RequirePermission(auth.PermWorkersRead)).Get("/{contractorID}", h.handleGetContractor)
		r.With(middleware.RequirePermission(auth.PermWorkersWrite)).Put("/{contractorID}", h.handleUpdateContractor)
	})
}

type workerPayload struct {
	Document              string          `json:"document"`
	FirstName             string          `json:"firstName"`
	LastName              string          `json:"lastName"`
	HireDate              string          `json:"hireDate"`
	BaseSalary            decimal.Decimal `json:"baseSalary"`
	PensionSystem         string          `json:"pensionSystem"`
	CUSPP                 string          `json:"cuspp"`
	CommissionType        string          `json:"commissionType"`
	HasFamilyAllowance    bool            `json:"hasFamilyAllowance"`
	HasEPS                bool            `json:"hasEps"`
	HealthScheme          string          `json:"healthScheme"`
	PriorEmployerWithheld decimal.Decimal `json:"priorEmployerWithheld"`
	BankName              string          `json:"bankName"`
	BankAccount           string          `json:"bankAccount"`
	Active                *bool           `json:"active"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	activeOnly := r.URL.Query().Get("all") == ""
	workers, err := h.Workers.List(r.Context(), chi.URLParam(r, "companyID"), activeOnly)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "workers_list_failed", "failed to list workers", requestID)
		return
	}
	api.Success(w, workers, requestID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	wk, err := h.Workers.Get(r.Context(), chi.URLParam(r, "companyID"), chi.URLParam(r, "workerID"))
	if errors.Is(err, worker.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "worker_not_found", "worker not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "worker_get_failed", "failed to load worker", requestID)
		return
	}
	api.Success(w, wk, requestID)
}

func (h *Handler) validateWorkerPayload(w http.ResponseWriter, payload workerPayload, requestID string) (worker.Worker, bool) {
	v := shared.NewValidator()
	v.Required("document", payload.Document, "document is required")
	v.Required("firstName", payload.FirstName, "first name is required")
	v.Required("lastName", payload.LastName, "last name is required")
	v.Positive("baseSalary", payload.BaseSalary)
	v.NonNegative("priorEmployerWithheld", payload.PriorEmployerWithheld)
	v.Enum("pensionSystem", payload.PensionSystem,
		[]string{payroll.SystemONP, payroll.SystemNotAffiliated, "AFP HABITAT", "AFP INTEGRA", "AFP PRIMA", "AFP PROFUTURO"},
		"unknown pension system")
	v.Enum("commissionType", payload.CommissionType,
		[]string{payroll.CommissionFlow, payroll.CommissionMixed}, "commission type must be FLOW or MIXED")
	v.Enum("healthScheme", payload.HealthScheme,
		[]string{payroll.SchemeEsSalud, payroll.SchemeSIS}, "health scheme must be ESSALUD or SIS")
	hireDate, dateOK := v.Date("hireDate", payload.HireDate)
	if v.Reject(w, requestID) || !dateOK {
		return worker.Worker{}, false
	}

	return worker.Worker{
		Document:              strings.TrimSpace(payload.Document),
		FirstName:             strings.TrimSpace(payload.FirstName),
		LastName:              strings.TrimSpace(payload.LastName),
		HireDate:              hireDate,
		BaseSalary:            payload.BaseSalary,
		PensionSystem:         strings.ToUpper(strings.TrimSpace(payload.PensionSystem)),
		CUSPP:                 strings.ToUpper(strings.TrimSpace(payload.CUSPP)),
		CommissionType:        strings.ToUpper(strings.TrimSpace(payload.CommissionType)),
		HasFamilyAllowance:    payload.HasFamilyAllowance,
		HasEPS:                payload.HasEPS,
		HealthScheme:          strings.ToUpper(strings.TrimSpace(payload.HealthScheme)),
		PriorEmployerWithheld: payload.PriorEmployerWithheld,
		BankName:              strings.TrimSpace(payload.BankName),
		BankAccount:           strings.TrimSpace(payload.BankAccount),
		Active:                true,
	}, true
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	companyID := chi.URLParam(r, "companyID")

	var payload workerPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request body", requestID)
		return
	}
	wk, ok := h.validateWorkerPayload(w, payload, requestID)
	if !ok {
		return
	}
	wk.CompanyID = companyID

	id, err := h.Workers.Create(r.Context(), wk)
	if errors.Is(err, worker.ErrInvalidDocument) {
		api.Fail(w, http.StatusBadRequest, "invalid_document", "document must be an 8-digit DNI", requestID)
		return
	}
	if errors.Is(err, worker.ErrDocumentTaken) {
		api.Fail(w, http.StatusConflict, "document_taken", "a worker with that document already exists", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "worker_create_failed", "failed to create worker", requestID)
		return
	}

	_ = h.Audit.Record(r.Context(), companyID, user.UserID, "worker.create", "worker", id,
		requestID, shared.ClientIP(r), nil, map[string]string{"document": wk.Document, "name": wk.FullName()})
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
	workerID := chi.URLParam(r, "workerID")

	before, err := h.Workers.Get(r.Context(), companyID, workerID)
	if errors.Is(err, worker.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "worker_not_found", "worker not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "worker_get_failed", "failed to load worker", requestID)
		return
	}

	var payload workerPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request body", requestID)
		return
	}
	wk, ok := h.validateWorkerPayload(w, payload, requestID)
	if !ok {
		return
	}
	wk.ID = workerID
	wk.CompanyID = companyID
	wk.Document = before.Document
	wk.Active = before.Active
	if payload.Active != nil {
		wk.Active = *payload.Active
	}

	if err := h.Workers.Update(r.Context(), wk); err != nil {
		api.Fail(w, http.StatusInternalServerError, "worker_update_failed", "failed to update worker", requestID)
		return
	}

	_ = h.Audit.Record(r.Context(), companyID, user.UserID, "worker.update", "worker", workerID,
		requestID, shared.ClientIP(r), before, wk)
	api.Success(w, map[string]string{"id": workerID}, requestID)
}

func (h *Handler) handleRemove(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	companyID := chi.URLParam(r, "companyID")
	workerID := chi.URLParam(r, "workerID")

	deactivatedOnly, err := h.Workers.Remove(r.Context(), companyID, workerID)
	if errors.Is(err, worker.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "worker_not_found", "worker not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "worker_remove_failed", "failed to remove worker", requestID)
		return
	}

	action := "worker.delete"
	if deactivatedOnly {
		action = "worker.deactivate"
	}
	_ = h.Audit.Record(r.Context(), companyID, user.UserID, action, "worker", workerID,
		requestID, shared.ClientIP(r), nil, nil)
	api.Success(w, map[string]bool{"deactivatedOnly": deactivatedOnly}, requestID)
}

type contractorPayload struct {
	Document                 string          `json:"document"`
	FirstName                string          `json:"firstName"`
	LastName                 string          `json:"lastName"`
	HireDate                 string          `json:"hireDate"`
	BaseFee                  decimal.Decimal `json:"baseFee"`
	HasWithholdingSuspension bool            `json:"hasWithholdingSuspension"`
	Active                   *bool           `json:"active"`
}

func (h *Handler) handleListContractors(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	activeOnly := r.URL.Query().Get("all") == ""
	contractors, err := h.Workers.ListContractors(r.Context(), chi.URLParam(r, "companyID"), activeOnly)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "contractors_list_failed", "failed to list contractors", requestID)
		return
	}
	api.Success(w, contractors, requestID)
}

func (h *Handler) handleGetContractor(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	c, err := h.Workers.GetContractor(r.Context(), chi.URLParam(r, "companyID"), chi.URLParam(r, "contractorID"))
	if errors.Is(err, worker.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "contractor_not_found", "contractor not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "contractor_get_failed", "failed to load contractor", requestID)
		return
	}
	api.Success(w, c, requestID)
}

func (h *Handler) handleCreateContractor(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	companyID := chi.URLParam(r, "companyID")

	var payload contractorPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request body", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("document", payload.Document, "document is required")
	v.Required("firstName", payload.FirstName, "first name is required")
	v.Required("lastName", payload.LastName, "last name is required")
	v.Positive("baseFee", payload.BaseFee)
	hireDate, dateOK := v.Date("hireDate", payload.HireDate)
	if v.Reject(w, requestID) || !dateOK {
		return
	}

	c := worker.Contractor{
		CompanyID:                companyID,
		Document:                 strings.TrimSpace(payload.Document),
		FirstName:                strings.TrimSpace(payload.FirstName),
		LastName:                 strings.TrimSpace(payload.LastName),
		HireDate:                 hireDate,
		BaseFee:                  payload.BaseFee,
		HasWithholdingSuspension: payload.HasWithholdingSuspension,
		Active:                   true,
	}
	id, err := h.Workers.CreateContractor(r.Context(), c)
	if errors.Is(err, worker.ErrInvalidDocument) {
		api.Fail(w, http.StatusBadRequest, "invalid_document", "document is required", requestID)
		return
	}
	if errors.Is(err, worker.ErrDocumentTaken) {
		api.Fail(w, http.StatusConflict, "document_taken", "a contractor with that document already exists", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "contractor_create_failed", "failed to create contractor", requestID)
		return
	}

	_ = h.Audit.Record(r.Context(), companyID, user.UserID, "contractor.create", "contractor", id,
		requestID, shared.ClientIP(r), nil, map[string]string{"document": c.Document, "name": c.FullName()})
	api.Created(w, map[string]string{"id": id}, requestID)
}

func (h *Handler) handleUpdateContractor(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	companyID := chi.URLParam(r, "companyID")
	contractorID := chi.URLParam(r, "contractorID")

	before, err := h.Workers.GetContractor(r.Context(), companyID, contractorID)
	if errors.Is(err, worker.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "contractor_not_found", "contractor not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "contractor_get_failed", "failed to load contractor", requestID)
		return
	}

	var payload contractorPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request body", requestID)
		return
	}

	v := shared.NewValidator()
	v.Positive("baseFee", payload.BaseFee)
	hireDate, dateOK := v.Date("hireDate", payload.HireDate)
	if v.Reject(w, requestID) || !dateOK {
		return
	}

	updated := before
	updated.FirstName = strings.TrimSpace(payload.FirstName)
	updated.LastName = strings.TrimSpace(payload.LastName)
	updated.HireDate = hireDate
	updated.BaseFee = payload.BaseFee
	updated.HasWithholdingSuspension = payload.HasWithholdingSuspension
	if payload.Active != nil {
		updated.Active = *payload.Active
	}

	if err := h.Workers.UpdateContractor(r.Context(), updated); err != nil {
		api.Fail(w, http.StatusInternalServerError, "contractor_update_failed", "failed to update contractor", requestID)
		return
	}

	_ = h.Audit.Record(r.Context(), companyID, user.UserID, "contractor.update", "contractor", contractorID,
		requestID, shared.ClientIP(r), before, updated)
	api.Success(w, updated, requestID)
}
