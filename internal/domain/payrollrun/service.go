package payrollrun

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"planilla/internal/domain/company"
	"planilla/internal/domain/concept"
	"planilla/internal/domain/loan"
	"planilla/internal/domain/params"
	"planilla/internal/domain/period"
	"planilla/internal/domain/worker"
	"planilla/internal/payroll"
)

type Service struct {
	Store     *Store
	Periods   *period.Service
	Params    *params.Service
	Workers   *worker.Service
	Concepts  *concept.Service
	Loans     *loan.Store
	Companies *company.Service
}

func NewService(store *Store, periods *period.Service, prm *params.Service,
	workers *worker.Service, concepts *concept.Service, loans *loan.Store,
	companies *company.Service) *Service {
	return &Service{
		Store:     store,
		Periods:   periods,
		Params:    prm,
		Workers:   workers,
		Concepts:  concepts,
		Loans:     loans,
		Companies: companies,
	}
}

// Run computes the whole company payroll for the period in memory and
// persists it atomically. Reruns replace the previous open computation.
func (s *Service) Run(ctx context.Context, companyID string, year, month int) (Result, error) {
	per, err := s.Periods.Ensure(ctx, companyID, year, month)
	if err != nil {
		return Result{}, err
	}
	closed, err := s.Periods.Store.Closed(ctx, per.ID)
	if err != nil {
		return Result{}, err
	}
	if closed {
		return Result{}, ErrPeriodClosed
	}

	engineParams, err := s.Params.EngineParams(ctx, companyID, year, month)
	if err != nil {
		if errors.Is(err, params.ErrNotConfigured) {
			return Result{}, ErrParametersNotConfigured
		}
		return Result{}, err
	}

	comp, err := s.Companies.Get(ctx, companyID)
	if err != nil {
		return Result{}, err
	}

	days := daysInMonth(year, month)
	periodEnd := time.Date(year, time.Month(month), days, 0, 0, 0, 0, time.UTC)

	all, err := s.Workers.List(ctx, companyID, true)
	if err != nil {
		return Result{}, err
	}
	workers := dueWorkers(all, periodEnd)
	if len(workers) == 0 {
		return Result{}, ErrNoActiveWorkers
	}

	concepts, err := s.Concepts.List(ctx, companyID)
	if err != nil {
		return Result{}, err
	}
	rules := concept.Rules(concepts)

	variables, err := s.Periods.AllVariables(ctx, per.ID)
	if err != nil {
		return Result{}, err
	}
	varsByWorker := make(map[string]period.Variables, len(variables))
	for _, v := range variables {
		varsByWorker[v.WorkerID] = v
	}
	if missing := missingWorkerVariables(workers, varsByWorker); len(missing) > 0 {
		return Result{}, fmt.Errorf("%w: %s", ErrMissingPeriodVariables, strings.Join(missing, ", "))
	}

	pending, err := s.Loans.PendingForPeriod(ctx, companyID, year, month)
	if err != nil {
		return Result{}, err
	}
	chargesByWorker := make(map[string][]payroll.InstallmentCharge)
	for _, c := range pending {
		chargesByWorker[c.WorkerID] = append(chargesByWorker[c.WorkerID], payroll.InstallmentCharge{
			Label:  c.Description,
			Number: c.Number,
			Total:  c.Total,
			Amount: c.Amount,
		})
	}

	lines := make([]LineRecord, 0, len(workers))
	for _, w := range workers {
		vars := varsByWorker[w.ID]

		carry, err := s.Store.CarryIn(ctx, companyID, w.ID, year, month)
		if err != nil {
			return Result{}, err
		}

		input := payroll.PeriodInput{
			Year:             year,
			Month:            month,
			DaysInMonth:      days,
			Suspensions:      vars.Suspensions,
			TardinessMinutes: vars.TardinessMinutes,
			OvertimeHours25:  vars.OvertimeHours25,
			OvertimeHours35:  vars.OvertimeHours35,
			ConceptAmounts:   vars.ConceptAmounts,
			AdjustPension:    vars.AdjustPension,
			AdjustIncomeTax:  vars.AdjustIncomeTax,
			AdjustOther:      vars.AdjustOther,
			Note:             vars.Note,
			Installments:     chargesByWorker[w.ID],
			CarryIn:          carry,
		}

		line, hired, err := payroll.ComputeLine(engineWorker(w), rules, input, engineParams, comp.WorkdayHours)
		if err != nil {
			return Result{}, fmt.Errorf("worker %s: %w", w.FullName(), err)
		}
		if !hired {
			continue
		}
		lines = append(lines, LineRecord{WorkerID: w.ID, Line: line, Audit: line.Audit})
	}

	if _, err := s.Store.Replace(ctx, per.ID, lines); err != nil {
		return Result{}, err
	}

	run, err := s.Store.GetRun(ctx, companyID, year, month)
	if err != nil {
		return Result{}, err
	}
	return Result{Run: run, Lines: lines, Totals: computeTotals(lines)}, nil
}

// RunContractors values the period's 4th-category receipts alongside the
// payroll, idempotently replacing prior contractor lines.
func (s *Service) RunContractors(ctx context.Context, companyID string, year, month int) ([]ContractorRecord, error) {
	per, err := s.Periods.Ensure(ctx, companyID, year, month)
	if err != nil {
		return nil, err
	}
	closed, err := s.Periods.Store.Closed(ctx, per.ID)
	if err != nil {
		return nil, err
	}
	if closed {
		return nil, ErrPeriodClosed
	}

	engineParams, err := s.Params.EngineParams(ctx, companyID, year, month)
	if err != nil {
		if errors.Is(err, params.ErrNotConfigured) {
			return nil, ErrParametersNotConfigured
		}
		return nil, err
	}

	days := daysInMonth(year, month)
	periodEnd := time.Date(year, time.Month(month), days, 0, 0, 0, 0, time.UTC)

	all, err := s.Workers.ListContractors(ctx, companyID, true)
	if err != nil {
		return nil, err
	}
	contractors := dueContractors(all, periodEnd)

	variables, err := s.Periods.AllContractorVariables(ctx, per.ID)
	if err != nil {
		return nil, err
	}
	varsByContractor := make(map[string]period.ContractorVariables, len(variables))
	for _, v := range variables {
		varsByContractor[v.ContractorID] = v
	}
	if missing := missingContractorVariables(contractors, varsByContractor); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingPeriodVariables, strings.Join(missing, ", "))
	}

	records := make([]ContractorRecord, 0, len(contractors))
	for _, c := range contractors {
		vars := varsByContractor[c.ID]
		input := payroll.ContractorInput{
			Year:            year,
			Month:           month,
			DaysInMonth:     days,
			NonWorkedDays:   vars.NonWorkedDays,
			ExtraPayments:   vars.ExtraPayments,
			ExtraDeductions: vars.ExtraDeductions,
		}
		result := payroll.ComputeContractorFee(payroll.Contractor{
			Document:                 c.Document,
			Name:                     c.FullName(),
			BaseFee:                  c.BaseFee,
			HireDate:                 c.HireDate,
			HasWithholdingSuspension: c.HasWithholdingSuspension,
		}, input, engineParams.ContractorRate, engineParams.ContractorThreshold)
		records = append(records, ContractorRecord{ContractorID: c.ID, Result: result})
	}

	if _, err := s.Store.ReplaceContractors(ctx, per.ID, records); err != nil {
		return nil, err
	}
	return records, nil
}

// Result loads the stored run with its lines and totals.
func (s *Service) Result(ctx context.Context, companyID string, year, month int) (Result, error) {
	run, err := s.Store.GetRun(ctx, companyID, year, month)
	if err != nil {
		return Result{}, err
	}
	lines, err := s.Store.Lines(ctx, run.ID)
	if err != nil {
		return Result{}, err
	}
	return Result{Run: run, Lines: lines, Totals: computeTotals(lines)}, nil
}

func (s *Service) ContractorResults(ctx context.Context, companyID string, year, month int) ([]ContractorRecord, error) {
	run, err := s.Store.GetRun(ctx, companyID, year, month)
	if err != nil {
		return nil, err
	}
	return s.Store.ContractorLines(ctx, run.ID)
}

// Close flips the run to CLOSED; supervisor-only, enforced again here so the
// rule holds even if a route misses the RBAC middleware.
func (s *Service) Close(ctx context.Context, companyID string, year, month int, closedBy string) (Run, error) {
	run, err := s.Store.GetRun(ctx, companyID, year, month)
	if err != nil {
		return Run{}, err
	}
	if err := s.Store.Close(ctx, run, closedBy); err != nil {
		return Run{}, err
	}
	return s.Store.GetRun(ctx, companyID, year, month)
}

func (s *Service) Reopen(ctx context.Context, companyID string, year, month int) (Run, error) {
	run, err := s.Store.GetRun(ctx, companyID, year, month)
	if err != nil {
		return Run{}, err
	}
	if err := s.Store.Reopen(ctx, run); err != nil {
		return Run{}, err
	}
	return s.Store.GetRun(ctx, companyID, year, month)
}

// dueWorkers drops workers hired after the period's last day. They are not
// part of this payroll at all, so they must not demand a variables row.
func dueWorkers(workers []worker.Worker, periodEnd time.Time) []worker.Worker {
	due := make([]worker.Worker, 0, len(workers))
	for _, w := range workers {
		if w.HireDate.After(periodEnd) {
			continue
		}
		due = append(due, w)
	}
	return due
}

func dueContractors(contractors []worker.Contractor, periodEnd time.Time) []worker.Contractor {
	due := make([]worker.Contractor, 0, len(contractors))
	for _, c := range contractors {
		if c.HireDate.After(periodEnd) {
			continue
		}
		due = append(due, c)
	}
	return due
}

// missingWorkerVariables names every due worker without a saved variables
// row. One missing row blocks the whole run: computing them as zero
// attendance would silently pay a full month nobody entered.
func missingWorkerVariables(workers []worker.Worker, vars map[string]period.Variables) []string {
	var missing []string
	for _, w := range workers {
		if _, ok := vars[w.ID]; !ok {
			missing = append(missing, w.FullName())
		}
	}
	return missing
}

func missingContractorVariables(contractors []worker.Contractor, vars map[string]period.ContractorVariables) []string {
	var missing []string
	for _, c := range contractors {
		if _, ok := vars[c.ID]; !ok {
			missing = append(missing, c.FullName())
		}
	}
	return missing
}

func engineWorker(w worker.Worker) payroll.Worker {
	return payroll.Worker{
		Document:              w.Document,
		Name:                  w.FullName(),
		HireDate:              w.HireDate,
		BaseSalary:            w.BaseSalary,
		PensionSystem:         w.PensionSystem,
		CommissionType:        w.CommissionType,
		HasFamilyAllowance:    w.HasFamilyAllowance,
		HasEPS:                w.HasEPS,
		HealthScheme:          w.HealthScheme,
		PriorEmployerWithheld: w.PriorEmployerWithheld,
	}
}

func daysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
