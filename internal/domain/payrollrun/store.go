package payrollrun

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"planilla/internal/domain/loan"
	"planilla/internal/payroll"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const runColumns = `
    r.id, r.period_id, p.company_id, p.year, p.month, r.status,
    r.computed_at, r.closed_at, COALESCE(r.closed_by, '')`

func scanRun(row pgx.Row) (Run, error) {
	var r Run
	err := row.Scan(&r.ID, &r.PeriodID, &r.CompanyID, &r.Year, &r.Month,
		&r.Status, &r.ComputedAt, &r.ClosedAt, &r.ClosedBy)
	return r, err
}

func (s *Store) GetRun(ctx context.Context, companyID string, year, month int) (Run, error) {
	row := s.DB.QueryRow(ctx, "SELECT"+runColumns+`
    FROM payroll_runs r
    JOIN periods p ON p.id = r.period_id
    WHERE p.company_id = $1 AND p.year = $2 AND p.month = $3
  `, companyID, year, month)
	r, err := scanRun(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Run{}, ErrRunNotFound
	}
	return r, err
}

func upsertRunHeader(ctx context.Context, tx pgx.Tx, periodID string) (string, error) {
	var runID string
	err := tx.QueryRow(ctx, `
    INSERT INTO payroll_runs (period_id, status, computed_at)
    VALUES ($1, $2, now())
    ON CONFLICT (period_id) DO UPDATE SET computed_at = now()
    RETURNING id
  `, periodID, StatusOpen).Scan(&runID)
	return runID, err
}

// Replace upserts the run header and swaps all its worker lines in one tx,
// so a rerun either fully lands or leaves the previous computation untouched.
func (s *Store) Replace(ctx context.Context, periodID string, lines []LineRecord) (string, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	runID, err := upsertRunHeader(ctx, tx, periodID)
	if err != nil {
		return "", err
	}

	if _, err := tx.Exec(ctx, "DELETE FROM payroll_lines WHERE run_id = $1", runID); err != nil {
		return "", err
	}

	for _, rec := range lines {
		audit, err := json.Marshal(rec.Audit)
		if err != nil {
			return "", err
		}
		_, err = tx.Exec(ctx, `
      INSERT INTO payroll_lines (
        run_id, worker_id, document, name, pension_system, health_scheme,
        computable_base, family_allowance, other_income, total_income,
        onp, afp_contribution, afp_insurance, afp_commission, income_tax,
        other_deductions, net_pay, health_contribution, taxable_base, audit
      )
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
    `, runID, rec.WorkerID, rec.Line.Document, rec.Line.Name, rec.Line.PensionSystem,
			rec.Line.HealthScheme, rec.Line.ComputableBase, rec.Line.FamilyAllowance,
			rec.Line.OtherIncome, rec.Line.TotalIncome, rec.Line.ONP,
			rec.Line.AFPContribution, rec.Line.AFPInsurance, rec.Line.AFPCommission,
			rec.Line.IncomeTax, rec.Line.OtherDeductions, rec.Line.NetPay,
			rec.Line.HealthContribution, rec.Audit.Tax.MonthlyBase, audit)
		if err != nil {
			return "", err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return runID, nil
}

// ReplaceContractors swaps the run's contractor receipts, leaving the worker
// lines as they are.
func (s *Store) ReplaceContractors(ctx context.Context, periodID string, contractors []ContractorRecord) (string, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	runID, err := upsertRunHeader(ctx, tx, periodID)
	if err != nil {
		return "", err
	}

	if _, err := tx.Exec(ctx, "DELETE FROM contractor_lines WHERE run_id = $1", runID); err != nil {
		return "", err
	}

	for _, rec := range contractors {
		result, err := json.Marshal(rec.Result)
		if err != nil {
			return "", err
		}
		_, err = tx.Exec(ctx, `
      INSERT INTO contractor_lines (run_id, contractor_id, document, name, gross_pay, withholding, net_pay, result)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    `, runID, rec.ContractorID, rec.Result.Document, rec.Result.Name,
			rec.Result.GrossPay, rec.Result.Withholding, rec.Result.NetPay, result)
		if err != nil {
			return "", err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return runID, nil
}

func (s *Store) Lines(ctx context.Context, runID string) ([]LineRecord, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, worker_id, document, name, pension_system, health_scheme,
           computable_base, family_allowance, other_income, total_income,
           onp, afp_contribution, afp_insurance, afp_commission, income_tax,
           other_deductions, net_pay, health_contribution, audit
    FROM payroll_lines
    WHERE run_id = $1
    ORDER BY name
  `, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LineRecord
	for rows.Next() {
		var (
			rec   LineRecord
			audit []byte
		)
		err := rows.Scan(
			&rec.ID, &rec.WorkerID, &rec.Line.Document, &rec.Line.Name,
			&rec.Line.PensionSystem, &rec.Line.HealthScheme, &rec.Line.ComputableBase,
			&rec.Line.FamilyAllowance, &rec.Line.OtherIncome, &rec.Line.TotalIncome,
			&rec.Line.ONP, &rec.Line.AFPContribution, &rec.Line.AFPInsurance,
			&rec.Line.AFPCommission, &rec.Line.IncomeTax, &rec.Line.OtherDeductions,
			&rec.Line.NetPay, &rec.Line.HealthContribution, &audit,
		)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(audit, &rec.Audit); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *Store) ContractorLines(ctx context.Context, runID string) ([]ContractorRecord, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, contractor_id, result
    FROM contractor_lines
    WHERE run_id = $1
    ORDER BY name
  `, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ContractorRecord
	for rows.Next() {
		var (
			rec    ContractorRecord
			result []byte
		)
		if err := rows.Scan(&rec.ID, &rec.ContractorID, &result); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(result, &rec.Result); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Close flips the run to CLOSED and marks the period's pending loan
// installments PAID in the same tx.
func (s *Store) Close(ctx context.Context, run Run, closedBy string) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
    UPDATE payroll_runs SET status = $1, closed_at = now(), closed_by = $2
    WHERE id = $3 AND status = $4
  `, StatusClosed, closedBy, run.ID, StatusOpen)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRunAlreadyClosed
	}

	if err := loan.MarkPeriod(ctx, tx, run.CompanyID, run.Year, run.Month,
		loan.InstallmentPending, loan.InstallmentPaid); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Reopen reverts a closed run and flips its installments back to PENDING.
func (s *Store) Reopen(ctx context.Context, run Run) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
    UPDATE payroll_runs SET status = $1, closed_at = NULL, closed_by = NULL
    WHERE id = $2 AND status = $3
  `, StatusOpen, run.ID, StatusClosed)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRunNotClosed
	}

	if err := loan.MarkPeriod(ctx, tx, run.CompanyID, run.Year, run.Month,
		loan.InstallmentPaid, loan.InstallmentPending); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// CarryIn sums the worker's taxable base and withheld tax over the year's
// prior closed runs, feeding the projector's year-to-date inputs.
func (s *Store) CarryIn(ctx context.Context, companyID, workerID string, year, beforeMonth int) (payroll.CarryIn, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT COALESCE(SUM(l.taxable_base), 0), COALESCE(SUM(l.income_tax), 0)
    FROM payroll_lines l
    JOIN payroll_runs r ON r.id = l.run_id
    JOIN periods p ON p.id = r.period_id
    WHERE p.company_id = $1 AND l.worker_id = $2
      AND p.year = $3 AND p.month < $4 AND r.status = $5
  `, companyID, workerID, year, beforeMonth, StatusClosed)

	var c payroll.CarryIn
	if err := row.Scan(&c.PriorIncome, &c.PriorWithheld); err != nil {
		return payroll.CarryIn{}, err
	}
	return c, nil
}
