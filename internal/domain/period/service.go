package period

import "context"

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

func (s *Service) Ensure(ctx context.Context, companyID string, year, month int) (Period, error) {
	if month < 1 || month > 12 {
		return Period{}, ErrInvalidMonth
	}
	return s.Store.Ensure(ctx, companyID, year, month)
}

func (s *Service) Get(ctx context.Context, companyID string, year, month int) (Period, error) {
	return s.Store.Get(ctx, companyID, year, month)
}

func (s *Service) List(ctx context.Context, companyID string) ([]Period, error) {
	return s.Store.List(ctx, companyID)
}

func (s *Service) Variables(ctx context.Context, periodID, workerID string) (Variables, error) {
	return s.Store.GetVariables(ctx, periodID, workerID)
}

func (s *Service) AllVariables(ctx context.Context, periodID string) ([]Variables, error) {
	return s.Store.ListVariables(ctx, periodID)
}

// SaveVariables upserts one worker's monthly capture. Closed periods are
// immutable: reopen the run first.
func (s *Service) SaveVariables(ctx context.Context, v Variables) (string, error) {
	closed, err := s.Store.Closed(ctx, v.PeriodID)
	if err != nil {
		return "", err
	}
	if closed {
		return "", ErrPeriodClosed
	}
	return s.Store.UpsertVariables(ctx, v)
}

func (s *Service) ContractorVariables(ctx context.Context, periodID, contractorID string) (ContractorVariables, error) {
	return s.Store.GetContractorVariables(ctx, periodID, contractorID)
}

func (s *Service) AllContractorVariables(ctx context.Context, periodID string) ([]ContractorVariables, error) {
	return s.Store.ListContractorVariables(ctx, periodID)
}

func (s *Service) SaveContractorVariables(ctx context.Context, v ContractorVariables) (string, error) {
	closed, err := s.Store.Closed(ctx, v.PeriodID)
	if err != nil {
		return "", err
	}
	if closed {
		return "", ErrPeriodClosed
	}
	return s.Store.UpsertContractorVariables(ctx, v)
}
