package params

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"planilla/internal/payroll"
)

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

func (s *Service) Get(ctx context.Context, companyID string, year, month int) (ParameterSet, error) {
	return s.Store.Get(ctx, companyID, year, month)
}

// EngineParams loads the period's parameters in the shape the computation
// consumes. Callers surface ErrNotConfigured before attempting a run.
func (s *Service) EngineParams(ctx context.Context, companyID string, year, month int) (payroll.Params, error) {
	set, err := s.Store.Get(ctx, companyID, year, month)
	if err != nil {
		return payroll.Params{}, err
	}
	return set.Engine(), nil
}

func (s *Service) Upsert(ctx context.Context, p ParameterSet) (string, error) {
	closed, err := s.Store.PeriodRunClosed(ctx, p.CompanyID, p.Year, p.Month)
	if err != nil {
		return "", err
	}
	if closed {
		return "", ErrPeriodClosed
	}

	for _, v := range []decimal.Decimal{
		p.MinimumWage, p.TaxUnit, p.ONPRate, p.HealthRate, p.EPSRate,
		p.AFPInsuranceCap, p.ContractorRate,
	} {
		if !v.IsPositive() {
			return "", ErrInvalidValue
		}
	}
	if p.ContractorThreshold.IsNegative() {
		return "", ErrInvalidValue
	}
	for i := range p.Funds {
		p.Funds[i].Fund = strings.ToUpper(strings.TrimSpace(p.Funds[i].Fund))
		if p.Funds[i].Fund == "" || p.Funds[i].Contribution.IsNegative() {
			return "", ErrInvalidValue
		}
	}
	return s.Store.Upsert(ctx, p)
}
