package company

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

func (s *Service) List(ctx context.Context) ([]Company, error) {
	return s.Store.List(ctx)
}

func (s *Service) Get(ctx context.Context, companyID string) (Company, error) {
	return s.Store.Get(ctx, companyID)
}

func (s *Service) Create(ctx context.Context, c Company) (string, error) {
	c.RUC = strings.TrimSpace(c.RUC)
	if !validRUC(c.RUC) {
		return "", ErrInvalidRUC
	}
	if c.WorkdayHours.IsZero() {
		c.WorkdayHours = decimal.NewFromInt(8)
	}
	return s.Store.Create(ctx, c)
}

func (s *Service) Update(ctx context.Context, c Company) error {
	if c.WorkdayHours.IsZero() {
		c.WorkdayHours = decimal.NewFromInt(8)
	}
	return s.Store.Update(ctx, c)
}

func validRUC(ruc string) bool {
	if len(ruc) != 11 {
		return false
	}
	for _, r := range ruc {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
