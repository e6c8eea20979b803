package worker

import (
	"context"
	"strings"

	"planilla/internal/payroll"
	cryptoutil "planilla/internal/platform/crypto"
)

type Service struct {
	Store  *Store
	Crypto *cryptoutil.Service
}

func NewService(store *Store, crypto *cryptoutil.Service) *Service {
	return &Service{Store: store, Crypto: crypto}
}

func (s *Service) List(ctx context.Context, companyID string, activeOnly bool) ([]Worker, error) {
	workers, err := s.Store.ListByCompany(ctx, companyID, activeOnly)
	if err != nil {
		return nil, err
	}
	for i := range workers {
		if err := s.decryptBank(&workers[i]); err != nil {
			return nil, err
		}
	}
	return workers, nil
}

func (s *Service) Get(ctx context.Context, companyID, workerID string) (Worker, error) {
	w, err := s.Store.Get(ctx, companyID, workerID)
	if err != nil {
		return Worker{}, err
	}
	if err := s.decryptBank(&w); err != nil {
		return Worker{}, err
	}
	return w, nil
}

func (s *Service) Create(ctx context.Context, w Worker) (string, error) {
	w.Document = strings.TrimSpace(w.Document)
	if !validDNI(w.Document) {
		return "", ErrInvalidDocument
	}
	if w.HealthScheme == "" {
		w.HealthScheme = payroll.SchemeEsSalud
	}
	if w.CommissionType == "" {
		w.CommissionType = payroll.CommissionFlow
	}
	if err := s.encryptBank(&w); err != nil {
		return "", err
	}
	return s.Store.Create(ctx, w)
}

func (s *Service) Update(ctx context.Context, w Worker) error {
	if err := s.encryptBank(&w); err != nil {
		return err
	}
	return s.Store.Update(ctx, w)
}

// Remove hard-deletes workers that never entered a closed payroll and
// soft-deactivates the rest, so closed runs keep their referential history.
// The returned flag is true when the worker was only deactivated.
func (s *Service) Remove(ctx context.Context, companyID, workerID string) (bool, error) {
	referenced, err := s.Store.ReferencedByClosedRun(ctx, workerID)
	if err != nil {
		return false, err
	}
	if referenced {
		return true, s.Store.Deactivate(ctx, companyID, workerID)
	}
	return false, s.Store.Delete(ctx, companyID, workerID)
}

func (s *Service) ListContractors(ctx context.Context, companyID string, activeOnly bool) ([]Contractor, error) {
	return s.Store.ListContractors(ctx, companyID, activeOnly)
}

func (s *Service) GetContractor(ctx context.Context, companyID, contractorID string) (Contractor, error) {
	return s.Store.GetContractor(ctx, companyID, contractorID)
}

func (s *Service) CreateContractor(ctx context.Context, c Contractor) (string, error) {
	c.Document = strings.TrimSpace(c.Document)
	if c.Document == "" {
		return "", ErrInvalidDocument
	}
	return s.Store.CreateContractor(ctx, c)
}

func (s *Service) UpdateContractor(ctx context.Context, c Contractor) error {
	return s.Store.UpdateContractor(ctx, c)
}

func (s *Service) encryptBank(w *Worker) error {
	enc, err := s.Crypto.EncryptString(w.BankAccount)
	if err != nil {
		return err
	}
	w.BankAccountEnc = enc
	w.BankAccount = ""
	return nil
}

func (s *Service) decryptBank(w *Worker) error {
	plain, err := s.Crypto.DecryptString(w.BankAccountEnc)
	if err != nil {
		return err
	}
	w.BankAccount = plain
	w.BankAccountEnc = nil
	return nil
}

func validDNI(document string) bool {
	if len(document) != 8 {
		return false
	}
	for _, r := range document {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
