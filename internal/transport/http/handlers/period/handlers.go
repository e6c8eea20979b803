package periodhandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"planilla/internal/domain/audit"
	"planilla/internal/domain/auth"
	"planilla/internal/domain/period"
	"planilla/internal/transport/http/api"
	"planilla/internal/transport/http/middleware"
	"planilla/internal/transport/http/shared"
)

type Handler struct {
	Periods *period.Service
	Audit   *audit.Service
}

func NewHandler(periods *period.Service, auditService *audit.Service) *Handler {
	return &Handler{Periods: periods, Audit: auditService}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/companies/{companyID}/periods", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermPeriodsRead)).Get("/", h.handleList)
		r.Route("/{period}", func(r chi.Router) {
			r.With(middleware.RequirePermission(auth.PermPeriodsWrite)).Post("/", h.handleEnsure)
			r.With(middleware.RequirePermission(auth.PermPeriodsRead)).Get("/variables", h.handleListVariables)
			r.With(middleware.RequirePermission(auth.PermPeriodsWrite)).Put("/variables/{workerID}", h.handleSaveVariables)
			r.With(middleware.RequirePermission(auth.PermPeriodsRead)).Get("/contractor-variables", h.handleListContractorVariables)
			r.With(middleware.RequirePermission(auth.PermPeriodsWrite)).Put("/contractor-variables/{contractorID}", h.handleSaveContractorVariables)
		})
	})
}

func (h *Handler) period(w http.ResponseWriter, r *http.Request, requestID string) (period.Period, bool) {
	year, month, err := shared.ParsePeriod(chi.URLParam(r, "period"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_period", "period must be YYYY-MM", requestID)
		return period.Period{}, false
	}
	per, err := h.Periods.Ensure(r.Context(), chi.URLParam(r, "companyID"), year, month)
	if errors.Is(err, period.ErrInvalidMonth) {
		api.Fail(w, http.StatusBadRequest, "invalid_period", "month must be between 1 and 12", requestID)
		return period.Period{}, false
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "period_failed", "failed to load period", requestID)
		return period.Period{}, false
	}
	return per, true
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	periods, err := h.Periods.List(r.Context(), chi.URLParam(r, "companyID"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "periods_list_failed", "failed to list periods", requestID)
		return
	}
	api.Success(w, periods, requestID)
}

func (h *Handler) handleEnsure(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	per, ok := h.period(w, r, requestID)
	if !ok {
		return
	}
	api.Success(w, per, requestID)
}

func (h *Handler) handleListVariables(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	per, ok := h.period(w, r, requestID)
	if !ok {
		return
	}
	variables, err := h.Periods.AllVariables(r.Context(), per.ID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "variables_list_failed", "failed to list period variables", requestID)
		return
	}
	api.Success(w, variables, requestID)
}

type variablesPayload struct {
	Suspensions      map[string]int             `json:"suspensions"`
	TardinessMinutes decimal.Decimal            `json:"tardinessMinutes"`
	OvertimeHours25  decimal.Decimal            `json:"overtimeHours25"`
	OvertimeHours35  decimal.Decimal            `json:"overtimeHours35"`
	ConceptAmounts   map[string]decimal.Decimal `json:"conceptAmounts"`
	AdjustPension    decimal.Decimal            `json:"adjustPension"`
	AdjustIncomeTax  decimal.Decimal            `json:"adjustIncomeTax"`
	AdjustOther      decimal.Decimal            `json:"adjustOther"`
	Note             string                     `json:"note"`
}

func (h *Handler) handleSaveVariables(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	per, ok := h.period(w, r, requestID)
	if !ok {
		return
	}

	var payload variablesPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request body", requestID)
		return
	}

	v := shared.NewValidator()
	v.NonNegative("tardinessMinutes", payload.TardinessMinutes)
	v.NonNegative("overtimeHours25", payload.OvertimeHours25)
	v.NonNegative("overtimeHours35", payload.OvertimeHours35)
	for code, days := range payload.Suspensions {
		if days < 0 {
			v.Add("suspensions."+code, "days must not be negative")
		}
	}
	for name, amount := range payload.ConceptAmounts {
		if amount.IsNegative() {
			v.Add("conceptAmounts."+name, "amount must not be negative")
		}
	}
	if v.Reject(w, requestID) {
		return
	}

	vars := period.Variables{
		PeriodID:         per.ID,
		WorkerID:         chi.URLParam(r, "workerID"),
		Suspensions:      payload.Suspensions,
		TardinessMinutes: payload.TardinessMinutes,
		OvertimeHours25:  payload.OvertimeHours25,
		OvertimeHours35:  payload.OvertimeHours35,
		ConceptAmounts:   payload.ConceptAmounts,
		AdjustPension:    payload.AdjustPension,
		AdjustIncomeTax:  payload.AdjustIncomeTax,
		AdjustOther:      payload.AdjustOther,
		Note:             payload.Note,
	}
	id, err := h.Periods.SaveVariables(r.Context(), vars)
	if errors.Is(err, period.ErrPeriodClosed) {
		api.Fail(w, http.StatusConflict, "period_closed", "period is closed and cannot be modified", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "variables_save_failed", "failed to save period variables", requestID)
		return
	}

	_ = h.Audit.Record(r.Context(), per.CompanyID, user.UserID, "variables.save", "period_variables", id,
		requestID, shared.ClientIP(r), nil, vars)
	api.Success(w, map[string]string{"id": id}, requestID)
}

func (h *Handler) handleListContractorVariables(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	per, ok := h.period(w, r, requestID)
	if !ok {
		return
	}
	variables, err := h.Periods.AllContractorVariables(r.Context(), per.ID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "variables_list_failed", "failed to list contractor variables", requestID)
		return
	}
	api.Success(w, variables, requestID)
}

type contractorVariablesPayload struct {
	NonWorkedDays   int             `json:"nonWorkedDays"`
	ExtraPayments   decimal.Decimal `json:"extraPayments"`
	ExtraDeductions decimal.Decimal `json:"extraDeductions"`
}

func (h *Handler) handleSaveContractorVariables(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	per, ok := h.period(w, r, requestID)
	if !ok {
		return
	}

	var payload contractorVariablesPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request body", requestID)
		return
	}

	v := shared.NewValidator()
	if payload.NonWorkedDays < 0 {
		v.Add("nonWorkedDays", "must not be negative")
	}
	v.NonNegative("extraPayments", payload.ExtraPayments)
	v.NonNegative("extraDeductions", payload.ExtraDeductions)
	if v.Reject(w, requestID) {
		return
	}

	vars := period.ContractorVariables{
		PeriodID:        per.ID,
		ContractorID:    chi.URLParam(r, "contractorID"),
		NonWorkedDays:   payload.NonWorkedDays,
		ExtraPayments:   payload.ExtraPayments,
		ExtraDeductions: payload.ExtraDeductions,
	}
	id, err := h.Periods.SaveContractorVariables(r.Context(), vars)
	if errors.Is(err, period.ErrPeriodClosed) {
		api.Fail(w, http.StatusConflict, "period_closed", "period is closed and cannot be modified", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "variables_save_failed", "failed to save contractor variables", requestID)
		return
	}

	_ = h.Audit.Record(r.Context(), per.CompanyID, user.UserID, "variables.contractor.save", "contractor_variables", id,
		requestID, shared.ClientIP(r), nil, vars)
	api.Success(w, map[string]string{"id": id}, requestID)
}
