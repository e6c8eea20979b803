package concept

import (
	"context"
	"errors"

	"planilla/internal/payroll"
)

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

// builtins are the concepts the line computation materializes itself.
// They exist in the catalog so operators see them, can type amounts against
// the statutory bonus, and so exports pick up their table-22 codes.
var builtins = []Concept{
	{Name: payroll.ConceptBaseSalary, Code: payroll.CodeBaseSalary, Kind: payroll.KindIncome,
		AffectsPension: true, AffectsIncomeTax: true, AffectsHealth: true,
		Proratable: true, SeveranceBase: true, BonusBase: true, Builtin: true},
	{Name: payroll.ConceptFamilyAllowance, Code: payroll.CodeFamilyAllowance, Kind: payroll.KindIncome,
		AffectsPension: true, AffectsIncomeTax: true, AffectsHealth: true,
		SeveranceBase: true, BonusBase: true, Builtin: true},
	{Name: payroll.ConceptStatutoryBonus, Code: payroll.CodeStatutoryBonus, Kind: payroll.KindIncome,
		AffectsIncomeTax: true, Builtin: true},
	{Name: payroll.ConceptExtraBonus9, Code: payroll.CodeExtraBonus9, Kind: payroll.KindIncome,
		AffectsIncomeTax: true, Builtin: true},
}

// List returns the company catalog, seeding the built-in concepts on first use.
func (s *Service) List(ctx context.Context, companyID string) ([]Concept, error) {
	seeded, err := s.Store.HasBuiltins(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if !seeded {
		if err := s.SeedBuiltins(ctx, companyID); err != nil {
			return nil, err
		}
	}
	return s.Store.ListByCompany(ctx, companyID)
}

func (s *Service) SeedBuiltins(ctx context.Context, companyID string) error {
	for _, b := range builtins {
		b.CompanyID = companyID
		if _, err := s.Store.Create(ctx, b); err != nil && !errors.Is(err, ErrNameTaken) {
			return err
		}
	}
	return nil
}

func (s *Service) Get(ctx context.Context, companyID, conceptID string) (Concept, error) {
	return s.Store.Get(ctx, companyID, conceptID)
}

func (s *Service) Create(ctx context.Context, c Concept) (string, error) {
	if c.Kind != payroll.KindIncome && c.Kind != payroll.KindDeduction {
		return "", ErrInvalidKind
	}
	c.Builtin = false
	return s.Store.Create(ctx, c)
}

func (s *Service) Update(ctx context.Context, c Concept) error {
	current, err := s.Store.Get(ctx, c.CompanyID, c.ID)
	if err != nil {
		return err
	}
	if current.Builtin && c.Name != current.Name {
		return ErrBuiltinRename
	}
	return s.Store.Update(ctx, c)
}

func (s *Service) Delete(ctx context.Context, companyID, conceptID string) error {
	current, err := s.Store.Get(ctx, companyID, conceptID)
	if err != nil {
		return err
	}
	if current.Builtin {
		return ErrBuiltinDelete
	}
	used, err := s.Store.InUse(ctx, companyID, current.Name)
	if err != nil {
		return err
	}
	if used {
		return ErrConceptInUse
	}
	return s.Store.Delete(ctx, companyID, conceptID)
}

// Rules projects the catalog into the shape the line computation consumes.
func Rules(concepts []Concept) []payroll.ConceptRule {
	rules := make([]payroll.ConceptRule, 0, len(concepts))
	for _, c := range concepts {
		rules = append(rules, payroll.ConceptRule{
			Name:             c.Name,
			Kind:             c.Kind,
			Code:             c.Code,
			AffectsPension:   c.AffectsPension,
			AffectsIncomeTax: c.AffectsIncomeTax,
			AffectsHealth:    c.AffectsHealth,
			Proratable:       c.Proratable,
			SeveranceBase:    c.SeveranceBase,
			BonusBase:        c.BonusBase,
		})
	}
	return rules
}
