package concept

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

const conceptColumns = `
    id, company_id, name, COALESCE(code, ''), kind, affects_pension,
    affects_income_tax, affects_health, proratable, severance_base,
    bonus_base, builtin, created_at`

func scanConcept(row pgx.Row) (Concept, error) {
	var c Concept
	err := row.Scan(
		&c.ID, &c.CompanyID, &c.Name, &c.Code, &c.Kind, &c.AffectsPension,
		&c.AffectsIncomeTax, &c.AffectsHealth, &c.Proratable, &c.SeveranceBase,
		&c.BonusBase, &c.Builtin, &c.CreatedAt,
	)
	return c, err
}

func (s *Store) ListByCompany(ctx context.Context, companyID string) ([]Concept, error) {
	rows, err := s.DB.Query(ctx, "SELECT"+conceptColumns+`
    FROM concepts
    WHERE company_id = $1
    ORDER BY builtin DESC, name
  `, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Concept
	for rows.Next() {
		c, err := scanConcept(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, companyID, conceptID string) (Concept, error) {
	row := s.DB.QueryRow(ctx, "SELECT"+conceptColumns+`
    FROM concepts
    WHERE company_id = $1 AND id = $2
  `, companyID, conceptID)
	c, err := scanConcept(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Concept{}, ErrNotFound
	}
	return c, err
}

func (s *Store) Create(ctx context.Context, c Concept) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO concepts (
      company_id, name, code, kind, affects_pension, affects_income_tax,
      affects_health, proratable, severance_base, bonus_base, builtin
    )
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
    RETURNING id
  `, c.CompanyID, c.Name, nullIfEmpty(c.Code), c.Kind, c.AffectsPension, c.AffectsIncomeTax,
		c.AffectsHealth, c.Proratable, c.SeveranceBase, c.BonusBase, c.Builtin).Scan(&id)
	if isUniqueViolation(err) {
		return "", ErrNameTaken
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) Update(ctx context.Context, c Concept) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE concepts
    SET name = $1, code = $2, affects_pension = $3, affects_income_tax = $4,
        affects_health = $5, proratable = $6, severance_base = $7, bonus_base = $8
    WHERE company_id = $9 AND id = $10
  `, c.Name, nullIfEmpty(c.Code), c.AffectsPension, c.AffectsIncomeTax,
		c.AffectsHealth, c.Proratable, c.SeveranceBase, c.BonusBase, c.CompanyID, c.ID)
	if isUniqueViolation(err) {
		return ErrNameTaken
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, companyID, conceptID string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM concepts WHERE company_id = $1 AND id = $2 AND NOT builtin", companyID, conceptID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// InUse reports whether any period captured an amount against the concept.
// Amounts live in the period variables JSON keyed by concept name.
func (s *Store) InUse(ctx context.Context, companyID, name string) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM period_variables v
    JOIN periods p ON p.id = v.period_id
    WHERE p.company_id = $1 AND v.concept_amounts ? $2
  `, companyID, name).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// HasBuiltins reports whether the company catalog was already seeded.
func (s *Store) HasBuiltins(ctx context.Context, companyID string) (bool, error) {
	var count int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM concepts WHERE company_id = $1 AND builtin", companyID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
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
