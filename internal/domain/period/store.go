package period

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// Ensure finds or creates the company period row.
func (s *Store) Ensure(ctx context.Context, companyID string, year, month int) (Period, error) {
	row := s.DB.QueryRow(ctx, `
    INSERT INTO periods (company_id, year, month)
    VALUES ($1, $2, $3)
    ON CONFLICT (company_id, year, month) DO UPDATE SET year = EXCLUDED.year
    RETURNING id, company_id, year, month, created_at
  `, companyID, year, month)

	var p Period
	err := row.Scan(&p.ID, &p.CompanyID, &p.Year, &p.Month, &p.CreatedAt)
	return p, err
}

func (s *Store) Get(ctx context.Context, companyID string, year, month int) (Period, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT id, company_id, year, month, created_at
    FROM periods
    WHERE company_id = $1 AND year = $2 AND month = $3
  `, companyID, year, month)

	var p Period
	err := row.Scan(&p.ID, &p.CompanyID, &p.Year, &p.Month, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Period{}, ErrNotFound
	}
	return p, err
}

func (s *Store) List(ctx context.Context, companyID string) ([]Period, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, company_id, year, month, created_at
    FROM periods
    WHERE company_id = $1
    ORDER BY year DESC, month DESC
  `, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Period
	for rows.Next() {
		var p Period
		if err := rows.Scan(&p.ID, &p.CompanyID, &p.Year, &p.Month, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Closed reports whether the period's payroll run was closed.
func (s *Store) Closed(ctx context.Context, periodID string) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx,
		"SELECT COUNT(1) FROM payroll_runs WHERE period_id = $1 AND status = 'CLOSED'",
		periodID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) GetVariables(ctx context.Context, periodID, workerID string) (Variables, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT id, period_id, worker_id, suspensions, tardiness_minutes,
           overtime_hours_25, overtime_hours_35, concept_amounts,
           adjust_pension, adjust_income_tax, adjust_other, COALESCE(note, ''), updated_at
    FROM period_variables
    WHERE period_id = $1 AND worker_id = $2
  `, periodID, workerID)
	v, err := scanVariables(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Variables{}, ErrNotFound
	}
	return v, err
}

func (s *Store) ListVariables(ctx context.Context, periodID string) ([]Variables, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, period_id, worker_id, suspensions, tardiness_minutes,
           overtime_hours_25, overtime_hours_35, concept_amounts,
           adjust_pension, adjust_income_tax, adjust_other, COALESCE(note, ''), updated_at
    FROM period_variables
    WHERE period_id = $1
  `, periodID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Variables
	for rows.Next() {
		v, err := scanVariables(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func scanVariables(row pgx.Row) (Variables, error) {
	var (
		v           Variables
		suspensions []byte
		amounts     []byte
	)
	err := row.Scan(
		&v.ID, &v.PeriodID, &v.WorkerID, &suspensions, &v.TardinessMinutes,
		&v.OvertimeHours25, &v.OvertimeHours35, &amounts,
		&v.AdjustPension, &v.AdjustIncomeTax, &v.AdjustOther, &v.Note, &v.UpdatedAt,
	)
	if err != nil {
		return Variables{}, err
	}
	if len(suspensions) > 0 {
		if err := json.Unmarshal(suspensions, &v.Suspensions); err != nil {
			return Variables{}, err
		}
	}
	if len(amounts) > 0 {
		if err := json.Unmarshal(amounts, &v.ConceptAmounts); err != nil {
			return Variables{}, err
		}
	}
	return v, nil
}

func (s *Store) UpsertVariables(ctx context.Context, v Variables) (string, error) {
	suspensions, err := marshalOrNull(v.Suspensions)
	if err != nil {
		return "", err
	}
	amounts, err := marshalOrNull(v.ConceptAmounts)
	if err != nil {
		return "", err
	}

	var id string
	err = s.DB.QueryRow(ctx, `
    INSERT INTO period_variables (
      period_id, worker_id, suspensions, tardiness_minutes, overtime_hours_25,
      overtime_hours_35, concept_amounts, adjust_pension, adjust_income_tax,
      adjust_other, note, updated_at
    )
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,now())
    ON CONFLICT (period_id, worker_id) DO UPDATE SET
      suspensions = EXCLUDED.suspensions,
      tardiness_minutes = EXCLUDED.tardiness_minutes,
      overtime_hours_25 = EXCLUDED.overtime_hours_25,
      overtime_hours_35 = EXCLUDED.overtime_hours_35,
      concept_amounts = EXCLUDED.concept_amounts,
      adjust_pension = EXCLUDED.adjust_pension,
      adjust_income_tax = EXCLUDED.adjust_income_tax,
      adjust_other = EXCLUDED.adjust_other,
      note = EXCLUDED.note,
      updated_at = now()
    RETURNING id
  `, v.PeriodID, v.WorkerID, suspensions, v.TardinessMinutes, v.OvertimeHours25,
		v.OvertimeHours35, amounts, v.AdjustPension, v.AdjustIncomeTax,
		v.AdjustOther, nullIfEmpty(v.Note)).Scan(&id)
	return id, err
}

func (s *Store) GetContractorVariables(ctx context.Context, periodID, contractorID string) (ContractorVariables, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT id, period_id, contractor_id, non_worked_days, extra_payments, extra_deductions, updated_at
    FROM contractor_variables
    WHERE period_id = $1 AND contractor_id = $2
  `, periodID, contractorID)

	var v ContractorVariables
	err := row.Scan(&v.ID, &v.PeriodID, &v.ContractorID, &v.NonWorkedDays, &v.ExtraPayments, &v.ExtraDeductions, &v.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ContractorVariables{}, ErrNotFound
	}
	return v, err
}

func (s *Store) ListContractorVariables(ctx context.Context, periodID string) ([]ContractorVariables, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, period_id, contractor_id, non_worked_days, extra_payments, extra_deductions, updated_at
    FROM contractor_variables
    WHERE period_id = $1
  `, periodID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ContractorVariables
	for rows.Next() {
		var v ContractorVariables
		if err := rows.Scan(&v.ID, &v.PeriodID, &v.ContractorID, &v.NonWorkedDays, &v.ExtraPayments, &v.ExtraDeductions, &v.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *Store) UpsertContractorVariables(ctx context.Context, v ContractorVariables) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO contractor_variables (period_id, contractor_id, non_worked_days, extra_payments, extra_deductions, updated_at)
    VALUES ($1,$2,$3,$4,$5,now())
    ON CONFLICT (period_id, contractor_id) DO UPDATE SET
      non_worked_days = EXCLUDED.non_worked_days,
      extra_payments = EXCLUDED.extra_payments,
      extra_deductions = EXCLUDED.extra_deductions,
      updated_at = now()
    RETURNING id
  `, v.PeriodID, v.ContractorID, v.NonWorkedDays, v.ExtraPayments, v.ExtraDeductions).Scan(&id)
	return id, err
}

func marshalOrNull[M ~map[string]int | ~map[string]decimal.Decimal](m M) ([]byte, error) {
	if len(m) == 0 {
		return nil, nil
	}
	return json.Marshal(m)
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
