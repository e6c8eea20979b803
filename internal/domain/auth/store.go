package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

type User struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	FullName  string     `json:"fullName"`
	Role      string     `json:"role"`
	Active    bool       `json:"active"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

func (s *Store) FindActiveUserByEmail(ctx context.Context, email string) (User, string, error) {
	var user User
	var passwordHash string
	err := s.DB.QueryRow(ctx, `
    SELECT id, email, full_name, role, active, last_login, created_at, password_hash
    FROM users
    WHERE lower(email) = lower($1) AND active
  `, email).Scan(&user.ID, &user.Email, &user.FullName, &user.Role, &user.Active, &user.LastLogin, &user.CreatedAt, &passwordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, "", ErrUserNotFound
	}
	if err != nil {
		return User{}, "", err
	}
	return user, passwordHash, nil
}

func (s *Store) UpdateLastLogin(ctx context.Context, userID string) error {
	_, err := s.DB.Exec(ctx, "UPDATE users SET last_login = now() WHERE id = $1", userID)
	return err
}

func (s *Store) CreateUser(ctx context.Context, email, fullName, role, passwordHash string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO users (email, full_name, role, password_hash)
    VALUES ($1,$2,$3,$4)
    ON CONFLICT (email) DO NOTHING
    RETURNING id
  `, email, fullName, role, passwordHash).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrEmailTaken
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, email, full_name, role, active, last_login, created_at
    FROM users
    ORDER BY email
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var user User
		if err := rows.Scan(&user.ID, &user.Email, &user.FullName, &user.Role, &user.Active, &user.LastLogin, &user.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func (s *Store) SetUserActive(ctx context.Context, userID string, active bool) error {
	_, err := s.DB.Exec(ctx, "UPDATE users SET active = $1 WHERE id = $2", active, userID)
	return err
}
