package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nestegg-dev/nestegg/internal/user"
)

type scanner interface {
	Scan(dest ...any) error
}

const selectUserColumns = `id, email, username, full_name, password_hash, risk_profile, created_at, updated_at, last_login_at`

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func scanUser(row scanner) (*user.User, error) {
	var (
		u           user.User
		riskProfile string
		lastLoginAt sql.NullTime
	)

	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Username,
		&u.FullName,
		&u.PasswordHash,
		&riskProfile,
		&u.CreatedAt,
		&u.UpdatedAt,
		&lastLoginAt,
	)
	if err != nil {
		return nil, err
	}

	u.RiskProfile = user.RiskProfile(riskProfile)

	if lastLoginAt.Valid {
		u.LastLoginAt = &lastLoginAt.Time
	}

	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (email, username, full_name, password_hash, risk_profile, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		u.Email,
		u.Username,
		u.FullName,
		u.PasswordHash,
		string(u.RiskProfile),
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating user: %w", err)
	}

	return nil
}

func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return s.getBy(ctx, `id = $1`, id)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	return s.getBy(ctx, `LOWER(email) = LOWER($1)`, email)
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*user.User, error) {
	return s.getBy(ctx, `LOWER(username) = LOWER($1)`, username)
}

func (s *Store) getBy(ctx context.Context, condition string, arg any) (*user.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s`, selectUserColumns, condition)

	u, err := scanUser(s.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrNotFound
		}

		return nil, fmt.Errorf("getting user: %w", err)
	}

	return u, nil
}

func (s *Store) UpdateUser(ctx context.Context, u *user.User) error {
	query := `
		UPDATE users
		SET full_name = $2,
			password_hash = $3,
			risk_profile = $4,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		u.ID,
		u.FullName,
		u.PasswordHash,
		string(u.RiskProfile),
	).Scan(&u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.ErrNotFound
		}

		return fmt.Errorf("updating user: %w", err)
	}

	return nil
}

func (s *Store) RecordLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `UPDATE users SET last_login_at = $2 WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("recording login: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("recording login: %w", err)
	}

	if affected == 0 {
		return user.ErrNotFound
	}

	return nil
}
