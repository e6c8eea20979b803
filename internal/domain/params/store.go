package params

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Get(ctx context.Context, companyID string, year, month int) (ParameterSet, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT id, company_id, year, month, minimum_wage, tax_unit, onp_rate,
           health_rate, eps_rate, afp_insurance_cap, contractor_rate,
           contractor_threshold, updated_at
    FROM period_params
    WHERE company_id = $1 AND year = $2 AND month = $3
  `, companyID, year, month)

	var p ParameterSet
	err := row.Scan(
		&p.ID, &p.CompanyID, &p.Year, &p.Month, &p.MinimumWage, &p.TaxUnit,
		&p.ONPRate, &p.HealthRate, &p.EPSRate, &p.AFPInsuranceCap,
		&p.ContractorRate, &p.ContractorThreshold, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return ParameterSet{}, ErrNotConfigured
	}
	if err != nil {
		return ParameterSet{}, err
	}

	rows, err := s.DB.Query(ctx, `
    SELECT fund, contribution, insurance, flow_commission, mixed_commission
    FROM afp_fund_rates
    WHERE params_id = $1
    ORDER BY fund
  `, p.ID)
	if err != nil {
		return ParameterSet{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var f FundRate
		if err := rows.Scan(&f.Fund, &f.Contribution, &f.Insurance, &f.FlowCommission, &f.MixedCommission); err != nil {
			return ParameterSet{}, err
		}
		p.Funds = append(p.Funds, f)
	}
	return p, nil
}

// Upsert replaces the period's parameter set and its fund grid atomically.
func (s *Store) Upsert(ctx context.Context, p ParameterSet) (string, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	var id string
	err = tx.QueryRow(ctx, `
    INSERT INTO period_params (
      company_id, year, month, minimum_wage, tax_unit, onp_rate, health_rate,
      eps_rate, afp_insurance_cap, contractor_rate, contractor_threshold, updated_at
    )
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,now())
    ON CONFLICT (company_id, year, month) DO UPDATE SET
      minimum_wage = EXCLUDED.minimum_wage,
      tax_unit = EXCLUDED.tax_unit,
      onp_rate = EXCLUDED.onp_rate,
      health_rate = EXCLUDED.health_rate,
      eps_rate = EXCLUDED.eps_rate,
      afp_insurance_cap = EXCLUDED.afp_insurance_cap,
      contractor_rate = EXCLUDED.contractor_rate,
      contractor_threshold = EXCLUDED.contractor_threshold,
      updated_at = now()
    RETURNING id
  `, p.CompanyID, p.Year, p.Month, p.MinimumWage, p.TaxUnit, p.ONPRate,
		p.HealthRate, p.EPSRate, p.AFPInsuranceCap, p.ContractorRate, p.ContractorThreshold).Scan(&id)
	if err != nil {
		return "", err
	}

	if _, err := tx.Exec(ctx, "DELETE FROM afp_fund_rates WHERE params_id = $1", id); err != nil {
		return "", err
	}
	for _, f := range p.Funds {
		_, err := tx.Exec(ctx, `
      INSERT INTO afp_fund_rates (params_id, fund, contribution, insurance, flow_commission, mixed_commission)
      VALUES ($1,$2,$3,$4,$5,$6)
    `, id, f.Fund, f.Contribution, f.Insurance, f.FlowCommission, f.MixedCommission)
		if err != nil {
			return "", err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return id, nil
}

// PeriodRunClosed reports whether the company already closed a run for the
// period, which freezes its parameters.
func (s *Store) PeriodRunClosed(ctx context.Context, companyID string, year, month int) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM payroll_runs r
    JOIN periods p ON p.id = r.period_id
    WHERE p.company_id = $1 AND p.year = $2 AND p.month = $3 AND r.status = 'CLOSED'
  `, companyID, year, month).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
