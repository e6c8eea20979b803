package auth

import (
	"context"
	"errors"
	"time"
)

const tokenTTL = 12 * time.Hour

type Service struct {
	Store  *Store
	Secret string
}

func NewService(store *Store, secret string) *Service {
	return &Service{Store: store, Secret: secret}
}

func (s *Service) Login(ctx context.Context, email, password string) (string, User, error) {
	user, hash, err := s.Store.FindActiveUserByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return "", User{}, ErrInvalidCredentials
	}
	if err != nil {
		return "", User{}, err
	}
	if err := CheckPassword(hash, password); err != nil {
		return "", User{}, ErrInvalidCredentials
	}

	token, err := GenerateToken(s.Secret, Claims{UserID: user.ID, Role: user.Role}, tokenTTL)
	if err != nil {
		return "", User{}, err
	}
	if err := s.Store.UpdateLastLogin(ctx, user.ID); err != nil {
		return "", User{}, err
	}
	return token, user, nil
}

func (s *Service) CreateUser(ctx context.Context, email, fullName, role, password string) (string, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return "", err
	}
	return s.Store.CreateUser(ctx, email, fullName, role, hash)
}

func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.Store.ListUsers(ctx)
}

func (s *Service) SetUserActive(ctx context.Context, userID string, active bool) error {
	return s.Store.SetUserActive(ctx, userID, active)
}
