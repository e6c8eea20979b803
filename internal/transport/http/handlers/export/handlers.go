package exporthandler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"planilla/internal/domain/auth"
	"planilla/internal/domain/company"
	"planilla/internal/domain/payrollrun"
	"planilla/internal/domain/worker"
	"planilla/internal/export"
	"planilla/internal/transport/http/api"
	"planilla/internal/transport/http/middleware"
	"planilla/internal/transport/http/shared"
)

type Handler struct {
	Runs      *payrollrun.Service
	Workers   *worker.Service
	Companies *company.Service
}

func NewHandler(runs *payrollrun.Service, workers *worker.Service, companies *company.Service) *Handler {
	return &Handler{Runs: runs, Workers: workers, Companies: companies}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/companies/{companyID}/exports/{period}", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermExportsRead)).Get("/plame", h.handlePLAME)
		r.With(middleware.RequirePermission(auth.PermExportsRead)).Get("/afpnet", h.handleAFPnet)
		r.With(middleware.RequirePermission(auth.PermExportsRead)).Get("/bank", h.handleBank)
		r.With(middleware.RequirePermission(auth.PermExportsRead)).Get("/payslips", h.handlePayslips)
	})
}

type exportInput struct {
	companyID string
	year      int
	month     int
	comp      company.Company
	lines     []payrollrun.LineRecord
	workers   map[string]worker.Worker
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request, requestID string) (exportInput, bool) {
	var in exportInput
	in.companyID = chi.URLParam(r, "companyID")

	year, month, err := shared.ParsePeriod(chi.URLParam(r, "period"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_period", "period must be YYYY-MM", requestID)
		return in, false
	}
	in.year, in.month = year, month

	in.comp, err = h.Companies.Get(r.Context(), in.companyID)
	if errors.Is(err, company.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "company_not_found", "company not found", requestID)
		return in, false
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to load company", requestID)
		return in, false
	}

	result, err := h.Runs.Result(r.Context(), in.companyID, year, month)
	if errors.Is(err, payrollrun.ErrRunNotFound) {
		api.Fail(w, http.StatusNotFound, "run_not_found", "compute the payroll run first", requestID)
		return in, false
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to load payroll run", requestID)
		return in, false
	}
	in.lines = result.Lines

	all, err := h.Workers.List(r.Context(), in.companyID, false)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to load workers", requestID)
		return in, false
	}
	in.workers = make(map[string]worker.Worker, len(all))
	for _, wk := range all {
		in.workers[wk.ID] = wk
	}
	return in, true
}

func serveFile(w http.ResponseWriter, name, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func failExport(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, export.ErrMissingConceptCode),
		errors.Is(err, export.ErrMissingCUSPP),
		errors.Is(err, export.ErrNoAFPWorkers),
		errors.Is(err, export.ErrNoBankAccounts):
		api.Fail(w, http.StatusUnprocessableEntity, "export_blocked", err.Error(), requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to build export file", requestID)
	}
}

func (h *Handler) handlePLAME(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	in, ok := h.load(w, r, requestID)
	if !ok {
		return
	}

	name, data, err := export.BuildPLAME(in.comp.RUC, in.year, in.month, in.lines)
	if err != nil {
		failExport(w, err, requestID)
		return
	}
	serveFile(w, name, "application/zip", data)
}

func (h *Handler) handleAFPnet(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	in, ok := h.load(w, r, requestID)
	if !ok {
		return
	}

	name, data, err := export.BuildAFPnet(in.year, in.month, in.lines, in.workers)
	if err != nil {
		failExport(w, err, requestID)
		return
	}
	serveFile(w, name, "text/csv", data)
}

func (h *Handler) handleBank(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	in, ok := h.load(w, r, requestID)
	if !ok {
		return
	}

	name, data, err := export.BuildBankTransfer(in.year, in.month, in.lines, in.workers)
	if err != nil {
		failExport(w, err, requestID)
		return
	}
	serveFile(w, name, "text/plain", data)
}

func (h *Handler) handlePayslips(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	in, ok := h.load(w, r, requestID)
	if !ok {
		return
	}

	name, data, err := export.BuildPayslips(in.comp, in.year, in.month, in.lines)
	if err != nil {
		failExport(w, err, requestID)
		return
	}
	serveFile(w, name, "application/pdf", data)
}
