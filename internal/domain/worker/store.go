package worker

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const workerColumns = `
    id, company_id, document, first_name, last_name, hire_date, base_salary,
    pension_system, COALESCE(cuspp, ''), commission_type, has_family_allowance,
    has_eps, health_scheme, prior_employer_withheld, COALESCE(bank_name, ''),
    bank_account_enc, active, created_at`

func scanWorker(row pgx.Row) (Worker, error) {
	var w Worker
	err := row.Scan(
		&w.ID, &w.CompanyID, &w.Document, &w.FirstName, &w.LastName, &w.HireDate, &w.BaseSalary,
		&w.PensionSystem, &w.CUSPP, &w.CommissionType, &w.HasFamilyAllowance,
		&w.HasEPS, &w.HealthScheme, &w.PriorEmployerWithheld, &w.BankName,
		&w.BankAccountEnc, &w.Active, &w.CreatedAt,
	)
	return w, err
}

func (s *Store) ListByCompany(ctx context.Context, companyID string, activeOnly bool) ([]Worker, error) {
	query := "SELECT" + workerColumns + `
    FROM workers
    WHERE company_id = $1`
	if activeOnly {
		query += " AND active"
	}
	query += " ORDER BY last_name, first_name"

	rows, err := s.DB.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Worker
	for rows.Next() {
		w, err := scanWorker(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, companyID, workerID string) (Worker, error) {
	row := s.DB.QueryRow(ctx, "SELECT"+workerColumns+`
    FROM workers
    WHERE company_id = $1 AND id = $2
  `, companyID, workerID)
	w, err := scanWorker(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Worker{}, ErrNotFound
	}
	return w, err
}

func (s *Store) Create(ctx context.Context, w Worker) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO workers (
      company_id, document, first_name, last_name, hire_date, base_salary,
      pension_system, cuspp, commission_type, has_family_allowance, has_eps,
      health_scheme, prior_employer_withheld, bank_name, bank_account_enc
    )
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
    RETURNING id
  `, w.CompanyID, w.Document, w.FirstName, w.LastName, w.HireDate, w.BaseSalary,
		w.PensionSystem, nullIfEmpty(w.CUSPP), w.CommissionType, w.HasFamilyAllowance, w.HasEPS,
		w.HealthScheme, w.PriorEmployerWithheld, w.BankName, w.BankAccountEnc).Scan(&id)
	if isUniqueViolation(err) {
		return "", ErrDocumentTaken
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) Update(ctx context.Context, w Worker) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE workers
    SET first_name = $1, last_name = $2, hire_date = $3, base_salary = $4,
        pension_system = $5, cuspp = $6, commission_type = $7,
        has_family_allowance = $8, has_eps = $9, health_scheme = $10,
        prior_employer_withheld = $11, bank_name = $12, bank_account_enc = $13
    WHERE company_id = $14 AND id = $15
  `, w.FirstName, w.LastName, w.HireDate, w.BaseSalary,
		w.PensionSystem, nullIfEmpty(w.CUSPP), w.CommissionType,
		w.HasFamilyAllowance, w.HasEPS, w.HealthScheme,
		w.PriorEmployerWithheld, w.BankName, w.BankAccountEnc,
		w.CompanyID, w.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ReferencedByClosedRun reports whether the worker has a line in any CLOSED
// payroll run. Such workers keep their history and can only be deactivated.
func (s *Store) ReferencedByClosedRun(ctx context.Context, workerID string) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM payroll_lines l
    JOIN payroll_runs r ON l.run_id = r.id
    WHERE l.worker_id = $1 AND r.status = 'CLOSED'
  `, workerID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) Deactivate(ctx context.Context, companyID, workerID string) error {
	tag, err := s.DB.Exec(ctx, "UPDATE workers SET active = false WHERE company_id = $1 AND id = $2", companyID, workerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, companyID, workerID string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM workers WHERE company_id = $1 AND id = $2", companyID, workerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
