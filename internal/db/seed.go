package db

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"planilla/internal/domain/auth"
	"planilla/internal/domain/concept"
	"planilla/internal/domain/params"
	"planilla/internal/platform/config"
)

// Seed provisions the minimum a fresh installation needs to compute a
// payroll: an admin user, one company, the builtin concepts and a legal
// parameter set for the current period. Every step is idempotent.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if err := ensureAdminUser(ctx, pool, cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
		return err
	}

	companyID, err := ensureCompany(ctx, pool, cfg.SeedCompanyName, cfg.SeedCompanyRUC)
	if err != nil {
		return err
	}
	if companyID == "" {
		return nil
	}

	if err := concept.NewService(concept.NewStore(pool)).SeedBuiltins(ctx, companyID); err != nil {
		return err
	}

	now := time.Now()
	return ensureParams(ctx, pool, companyID, now.Year(), int(now.Month()))
}

func ensureAdminUser(ctx context.Context, pool *pgxpool.Pool, email, password string) error {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return nil
	}

	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&id)
	if err == nil {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
    INSERT INTO users (email, full_name, role, password_hash, active)
    VALUES ($1, 'Administrador', $2, $3, TRUE)
  `, email, auth.RoleAdmin, hash)
	return err
}

func ensureCompany(ctx context.Context, pool *pgxpool.Pool, name, ruc string) (string, error) {
	if strings.TrimSpace(ruc) == "" {
		return "", nil
	}

	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM companies WHERE ruc = $1", ruc).Scan(&id)
	if err == nil {
		return id, nil
	}

	err = pool.QueryRow(ctx, `
    INSERT INTO companies (ruc, name, address, micro_enterprise, workday_hours)
    VALUES ($1, $2, '', FALSE, 8)
    RETURNING id
  `, ruc, name).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

// ensureParams loads the published SBS/SUNAT values current at the time of
// writing. Operators adjust them from the parameters screen afterwards.
func ensureParams(ctx context.Context, pool *pgxpool.Pool, companyID string, year, month int) error {
	var count int
	err := pool.QueryRow(ctx, `
    SELECT COUNT(1) FROM period_params
    WHERE company_id = $1 AND year = $2 AND month = $3
  `, companyID, year, month).Scan(&count)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	set := params.ParameterSet{
		CompanyID:           companyID,
		Year:                year,
		Month:               month,
		MinimumWage:         decimal.NewFromInt(1025),
		TaxUnit:             decimal.NewFromInt(5350),
		ONPRate:             decimal.NewFromInt(13),
		HealthRate:          decimal.NewFromInt(9),
		EPSRate:             decimal.RequireFromString("6.75"),
		AFPInsuranceCap:     decimal.RequireFromString("13583.51"),
		ContractorRate:      decimal.NewFromInt(8),
		ContractorThreshold: decimal.NewFromInt(1500),
		Funds: []params.FundRate{
			{Fund: "HABITAT", Contribution: decimal.NewFromInt(10), Insurance: decimal.RequireFromString("1.84"), FlowCommission: decimal.RequireFromString("1.47"), MixedCommission: decimal.RequireFromString("0.23")},
			{Fund: "INTEGRA", Contribution: decimal.NewFromInt(10), Insurance: decimal.RequireFromString("1.84"), FlowCommission: decimal.RequireFromString("1.55"), MixedCommission: decimal.Zero},
			{Fund: "PRIMA", Contribution: decimal.NewFromInt(10), Insurance: decimal.RequireFromString("1.84"), FlowCommission: decimal.RequireFromString("1.60"), MixedCommission: decimal.RequireFromString("0.18")},
			{Fund: "PROFUTURO", Contribution: decimal.NewFromInt(10), Insurance: decimal.RequireFromString("1.84"), FlowCommission: decimal.RequireFromString("1.69"), MixedCommission: decimal.RequireFromString("0.67")},
		},
	}
	_, err = params.NewService(params.NewStore(pool)).Upsert(ctx, set)
	return err
}
