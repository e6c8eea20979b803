package runhandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"planilla/internal/domain/audit"
	"planilla/internal/domain/auth"
	"planilla/internal/domain/payrollrun"
	"planilla/internal/transport/http/api"
	"planilla/internal/transport/http/middleware"
	"planilla/internal/transport/http/shared"
)

type Handler struct {
	Runs        *payrollrun.Service
	Audit       *audit.Service
	Idempotency *middleware.IdempotencyStore
}

func NewHandler(runs *payrollrun.Service, auditService *audit.Service, idempotency *middleware.IdempotencyStore) *Handler {
	return &Handler{Runs: runs, Audit: auditService, Idempotency: idempotency}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/companies/{companyID}/runs/{period}", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermRunsCompute)).Post("/compute", h.handleCompute)
		r.With(middleware.RequirePermission(auth.PermRunsCompute)).Post("/compute-contractors", h.handleComputeContractors)
		r.With(middleware.RequirePermission(auth.PermRunsRead)).Get("/", h.handleResult)
		r.With(middleware.RequirePermission(auth.PermRunsRead)).Get("/contractors", h.handleContractorResults)
		r.With(middleware.RequirePermission(auth.PermRunsClose)).Post("/close", h.handleClose)
		r.With(middleware.RequirePermission(auth.PermRunsClose)).Post("/reopen", h.handleReopen)
	})
}

func parsePeriodParam(w http.ResponseWriter, r *http.Request, requestID string) (int, int, bool) {
	year, month, err := shared.ParsePeriod(chi.URLParam(r, "period"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_period", "period must be YYYY-MM", requestID)
		return 0, 0, false
	}
	return year, month, true
}

// failRun translates the run error taxonomy: configuration and missing-input
// problems are the operator's to fix, so they come back as 4xx with a
// precise code instead of a generic 500.
func failRun(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, payrollrun.ErrPeriodClosed):
		api.Fail(w, http.StatusConflict, "period_closed", "period is closed", requestID)
	case errors.Is(err, payrollrun.ErrParametersNotConfigured):
		api.Fail(w, http.StatusUnprocessableEntity, "params_not_configured", "configure legal parameters for the period first", requestID)
	case errors.Is(err, payrollrun.ErrNoActiveWorkers):
		api.Fail(w, http.StatusUnprocessableEntity, "no_active_workers", "the company has no active workers", requestID)
	case errors.Is(err, payrollrun.ErrMissingPeriodVariables):
		api.Fail(w, http.StatusUnprocessableEntity, "missing_period_variables", err.Error(), requestID)
	case errors.Is(err, payrollrun.ErrRunNotFound):
		api.Fail(w, http.StatusNotFound, "run_not_found", "payroll run not found", requestID)
	case errors.Is(err, payrollrun.ErrRunAlreadyClosed):
		api.Fail(w, http.StatusConflict, "run_already_closed", "payroll run is already closed", requestID)
	case errors.Is(err, payrollrun.ErrRunNotClosed):
		api.Fail(w, http.StatusConflict, "run_not_closed", "payroll run is not closed", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "run_failed", err.Error(), requestID)
	}
}

// idempotencyCheck replays the stored response when the request repeats an
// Idempotency-Key. done reports that a response has already been written.
func (h *Handler) idempotencyCheck(w http.ResponseWriter, r *http.Request, companyID, userID, endpoint, requestID string) (key, hash string, done bool) {
	key = r.Header.Get("Idempotency-Key")
	if key == "" {
		return "", "", false
	}
	hash = middleware.RequestHash([]byte(r.Method + " " + r.URL.Path))
	stored, found, err := h.Idempotency.Check(r.Context(), companyID, userID, endpoint, key, hash)
	if errors.Is(err, middleware.ErrIdempotencyConflict) {
		api.Fail(w, http.StatusConflict, "idempotency_conflict", "Idempotency-Key was already used for a different request", requestID)
		return key, hash, true
	}
	if err == nil && found {
		api.Success(w, stored, requestID)
		return key, hash, true
	}
	return key, hash, false
}

func (h *Handler) idempotencySave(r *http.Request, companyID, userID, endpoint, key, hash string, result any) {
	if key == "" {
		return
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return
	}
	_ = h.Idempotency.Save(r.Context(), companyID, userID, endpoint, key, hash, payload)
}

func (h *Handler) handleCompute(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	companyID := chi.URLParam(r, "companyID")
	year, month, ok := parsePeriodParam(w, r, requestID)
	if !ok {
		return
	}
	idemKey, idemHash, done := h.idempotencyCheck(w, r, companyID, user.UserID, "runs.compute", requestID)
	if done {
		return
	}

	result, err := h.Runs.Run(r.Context(), companyID, year, month)
	if err != nil {
		failRun(w, err, requestID)
		return
	}

	_ = h.Audit.Record(r.Context(), companyID, user.UserID, "run.compute", "payroll_run", result.Run.ID,
		requestID, shared.ClientIP(r), nil, result.Totals)
	h.idempotencySave(r, companyID, user.UserID, "runs.compute", idemKey, idemHash, result)
	api.Success(w, result, requestID)
}

func (h *Handler) handleComputeContractors(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	companyID := chi.URLParam(r, "companyID")
	year, month, ok := parsePeriodParam(w, r, requestID)
	if !ok {
		return
	}

	idemKey, idemHash, done := h.idempotencyCheck(w, r, companyID, user.UserID, "runs.compute_contractors", requestID)
	if done {
		return
	}

	records, err := h.Runs.RunContractors(r.Context(), companyID, year, month)
	if err != nil {
		failRun(w, err, requestID)
		return
	}

	_ = h.Audit.Record(r.Context(), companyID, user.UserID, "run.compute_contractors", "payroll_run", "",
		requestID, shared.ClientIP(r), nil, map[string]int{"contractors": len(records)})
	h.idempotencySave(r, companyID, user.UserID, "runs.compute_contractors", idemKey, idemHash, records)
	api.Success(w, records, requestID)
}

func (h *Handler) handleResult(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	year, month, ok := parsePeriodParam(w, r, requestID)
	if !ok {
		return
	}

	result, err := h.Runs.Result(r.Context(), chi.URLParam(r, "companyID"), year, month)
	if err != nil {
		failRun(w, err, requestID)
		return
	}
	api.Success(w, result, requestID)
}

func (h *Handler) handleContractorResults(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	year, month, ok := parsePeriodParam(w, r, requestID)
	if !ok {
		return
	}

	records, err := h.Runs.ContractorResults(r.Context(), chi.URLParam(r, "companyID"), year, month)
	if err != nil {
		failRun(w, err, requestID)
		return
	}
	api.Success(w, records, requestID)
}

func (h *Handler) handleClose(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	companyID := chi.URLParam(r, "companyID")
	year, month, ok := parsePeriodParam(w, r, requestID)
	if !ok {
		return
	}

	idemKey, idemHash, done := h.idempotencyCheck(w, r, companyID, user.UserID, "runs.close", requestID)
	if done {
		return
	}

	run, err := h.Runs.Close(r.Context(), companyID, year, month, user.UserID)
	if err != nil {
		failRun(w, err, requestID)
		return
	}

	_ = h.Audit.Record(r.Context(), companyID, user.UserID, "run.close", "payroll_run", run.ID,
		requestID, shared.ClientIP(r), nil, run)
	h.idempotencySave(r, companyID, user.UserID, "runs.close", idemKey, idemHash, run)
	api.Success(w, run, requestID)
}

func (h *Handler) handleReopen(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	companyID := chi.URLParam(r, "companyID")
	year, month, ok := parsePeriodParam(w, r, requestID)
	if !ok {
		return
	}

	idemKey, idemHash, done := h.idempotencyCheck(w, r, companyID, user.UserID, "runs.reopen", requestID)
	if done {
		return
	}

	run, err := h.Runs.Reopen(r.Context(), companyID, year, month)
	if err != nil {
		failRun(w, err, requestID)
		return
	}

	_ = h.Audit.Record(r.Context(), companyID, user.UserID, "run.reopen", "payroll_run", run.ID,
		requestID, shared.ClientIP(r), nil, run)
	h.idempotencySave(r, companyID, user.UserID, "runs.reopen", idemKey, idemHash, run)
	api.Success(w, run, requestID)
}
