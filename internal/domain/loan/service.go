package loan

import "context"

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

func (s *Service) Create(ctx context.Context, l Loan) (string, error) {
	if !l.Principal.IsPositive() || l.Installments < 1 ||
		l.StartMonth < 1 || l.StartMonth > 12 {
		return "", ErrInvalidLoan
	}
	l.Schedule = BuildSchedule(l.Principal, l.Installments, l.StartYear, l.StartMonth)
	return s.Store.Create(ctx, l)
}

func (s *Service) Get(ctx context.Context, companyID, loanID string) (Loan, error) {
	return s.Store.Get(ctx, companyID, loanID)
}

func (s *Service) List(ctx context.Context, companyID string) ([]Loan, error) {
	return s.Store.ListByCompany(ctx, companyID)
}

func (s *Service) Cancel(ctx context.Context, companyID, loanID string) error {
	return s.Store.Cancel(ctx, companyID, loanID)
}
