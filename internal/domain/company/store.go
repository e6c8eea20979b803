package company

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

func (s *Store) List(ctx context.Context) ([]Company, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, ruc, name, address, micro_enterprise, workday_hours, created_at
    FROM companies
    ORDER BY name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []Company
	for rows.Next() {
		var c Company
		if err := rows.Scan(&c.ID, &c.RUC, &c.Name, &c.Address, &c.MicroEnterprise, &c.WorkdayHours, &c.CreatedAt); err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, nil
}

func (s *Store) Get(ctx context.Context, companyID string) (Company, error) {
	var c Company
	err := s.DB.QueryRow(ctx, `
    SELECT id, ruc, name, address, micro_enterprise, workday_hours, created_at
    FROM companies
    WHERE id = $1
  `, companyID).Scan(&c.ID, &c.RUC, &c.Name, &c.Address, &c.MicroEnterprise, &c.WorkdayHours, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Company{}, ErrNotFound
	}
	return c, err
}

func (s *Store) Create(ctx context.Context, c Company) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO companies (ruc, name, address, micro_enterprise, workday_hours)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, c.RUC, c.Name, c.Address, c.MicroEnterprise, c.WorkdayHours).Scan(&id)
	if isUniqueViolation(err) {
		return "", ErrRUCTaken
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) Update(ctx context.Context, c Company) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE companies
    SET name = $1, address = $2, micro_enterprise = $3, workday_hours = $4
    WHERE id = $5
  `, c.Name, c.Address, c.MicroEnterprise, c.WorkdayHours, c.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
