package loan

import (
	"context"
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

// Create inserts the loan and its whole schedule in one tx.
func (s *Store) Create(ctx context.Context, l Loan) (string, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	var id string
	err = tx.QueryRow(ctx, `
    INSERT INTO loans (company_id, worker_id, description, principal, installments, start_year, start_month, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    RETURNING id
  `, l.CompanyID, l.WorkerID, l.Description, l.Principal, l.Installments,
		l.StartYear, l.StartMonth, StatusActive).Scan(&id)
	if err != nil {
		return "", err
	}

	for _, inst := range l.Schedule {
		_, err := tx.Exec(ctx, `
      INSERT INTO loan_installments (loan_id, number, year, month, amount, status)
      VALUES ($1,$2,$3,$4,$5,$6)
    `, id, inst.Number, inst.Year, inst.Month, inst.Amount, inst.Status)
		if err != nil {
			return "", err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) Get(ctx context.Context, companyID, loanID string) (Loan, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT id, company_id, worker_id, description, principal, installments,
           start_year, start_month, status, created_at
    FROM loans
    WHERE company_id = $1 AND id = $2
  `, companyID, loanID)

	var l Loan
	err := row.Scan(&l.ID, &l.CompanyID, &l.WorkerID, &l.Description, &l.Principal,
		&l.Installments, &l.StartYear, &l.StartMonth, &l.Status, &l.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Loan{}, ErrNotFound
	}
	if err != nil {
		return Loan{}, err
	}

	rows, err := s.DB.Query(ctx, `
    SELECT id, loan_id, number, year, month, amount, status
    FROM loan_installments
    WHERE loan_id = $1
    ORDER BY number
  `, l.ID)
	if err != nil {
		return Loan{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var inst Installment
		if err := rows.Scan(&inst.ID, &inst.LoanID, &inst.Number, &inst.Year, &inst.Month, &inst.Amount, &inst.Status); err != nil {
			return Loan{}, err
		}
		l.Schedule = append(l.Schedule, inst)
	}
	return l, nil
}

func (s *Store) ListByCompany(ctx context.Context, companyID string) ([]Loan, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, company_id, worker_id, description, principal, installments,
           start_year, start_month, status, created_at
    FROM loans
    WHERE company_id = $1
    ORDER BY created_at DESC
  `, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Loan
	for rows.Next() {
		var l Loan
		if err := rows.Scan(&l.ID, &l.CompanyID, &l.WorkerID, &l.Description, &l.Principal,
			&l.Installments, &l.StartYear, &l.StartMonth, &l.Status, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

// Cancel voids the loan and its pending installments. Paid installments stay
// paid: the money already moved through a closed run.
func (s *Store) Cancel(ctx context.Context, companyID, loanID string) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
    UPDATE loans SET status = $1
    WHERE company_id = $2 AND id = $3 AND status = $4
  `, StatusCancelled, companyID, loanID, StatusActive)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadySettled
	}

	_, err = tx.Exec(ctx, `
    UPDATE loan_installments SET status = $1
    WHERE loan_id = $2 AND status = $3
  `, InstallmentCancelled, loanID, InstallmentPending)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// PendingCharge is one installment due in a period, joined with its loan.
type PendingCharge struct {
	InstallmentID string
	WorkerID      string
	Description   string
	Number        int
	Total         int
	Amount        decimal.Decimal
}

// PendingForPeriod lists the installments a run must deduct this month.
func (s *Store) PendingForPeriod(ctx context.Context, companyID string, year, month int) ([]PendingCharge, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT i.id, l.worker_id, l.description, i.number, l.installments, i.amount
    FROM loan_installments i
    JOIN loans l ON l.id = i.loan_id
    WHERE l.company_id = $1 AND l.status = $2
      AND i.year = $3 AND i.month = $4 AND i.status = $5
    ORDER BY l.created_at, i.number
  `, companyID, StatusActive, year, month, InstallmentPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PendingCharge
	for rows.Next() {
		var c PendingCharge
		if err := rows.Scan(&c.InstallmentID, &c.WorkerID, &c.Description, &c.Number, &c.Total, &c.Amount); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// MarkPeriod flips the period's installments between PENDING and PAID inside
// the caller's close/reopen tx, then settles loans whose schedule is fully
// paid (or reactivates them on reopen).
func MarkPeriod(ctx context.Context, tx pgx.Tx, companyID string, year, month int, from, to string) error {
	_, err := tx.Exec(ctx, `
    UPDATE loan_installments i SET status = $1
    FROM loans l
    WHERE l.id = i.loan_id AND l.company_id = $2
      AND i.year = $3 AND i.month = $4 AND i.status = $5
      AND l.status IN ($6, $7)
  `, to, companyID, year, month, from, StatusActive, StatusSettled)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
    UPDATE loans l SET status = $1
    WHERE l.company_id = $2 AND l.status = $3
      AND NOT EXISTS (
        SELECT 1 FROM loan_installments i
        WHERE i.loan_id = l.id AND i.status = $4
      )
  `, StatusSettled, companyID, StatusActive, InstallmentPending)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
    UPDATE loans l SET status = $1
    WHERE l.company_id = $2 AND l.status = $3
      AND EXISTS (
        SELECT 1 FROM loan_installments i
        WHERE i.loan_id = l.id AND i.status = $4
      )
  `, StatusActive, companyID, StatusSettled, InstallmentPending)
	return err
}
