package worker

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

const contractorColumns = `
    id, company_id, document, first_name, last_name, hire_date, base_fee,
    has_withholding_suspension, active, created_at`

func scanContractor(row pgx.Row) (Contractor, error) {
	var c Contractor
	err := row.Scan(
		&c.ID, &c.CompanyID, &c.Document, &c.FirstName, &c.LastName, &c.HireDate,
		&c.BaseFee, &c.HasWithholdingSuspension, &c.Active, &c.CreatedAt,
	)
	return c, err
}

func (s *Store) ListContractors(ctx context.Context, companyID string, activeOnly bool) ([]Contractor, error) {
	query := "SELECT" + contractorColumns + `
    FROM contractors
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

	var out []Contractor
	for rows.Next() {
		c, err := scanContractor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *Store) GetContractor(ctx context.Context, companyID, contractorID string) (Contractor, error) {
	row := s.DB.QueryRow(ctx, "SELECT"+contractorColumns+`
    FROM contractors
    WHERE company_id = $1 AND id = $2
  `, companyID, contractorID)
	c, err := scanContractor(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Contractor{}, ErrNotFound
	}
	return c, err
}

func (s *Store) CreateContractor(ctx context.Context, c Contractor) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO contractors (company_id, document, first_name, last_name, hire_date, base_fee, has_withholding_suspension)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id
  `, c.CompanyID, c.Document, c.FirstName, c.LastName, c.HireDate, c.BaseFee, c.HasWithholdingSuspension).Scan(&id)
	if isUniqueViolation(err) {
		return "", ErrDocumentTaken
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) UpdateContractor(ctx context.Context, c Contractor) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE contractors
    SET first_name = $1, last_name = $2, hire_date = $3, base_fee = $4, has_withholding_suspension = $5, active = $6
    WHERE company_id = $7 AND id = $8
  `, c.FirstName, c.LastName, c.HireDate, c.BaseFee, c.HasWithholdingSuspension, c.Active, c.CompanyID, c.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
