package user

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=user
type Repository interface {
	CreateUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	UpdateUser(ctx context.Context, u *User) error
	RecordLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type RegisterParams struct {
	Email       string
	Username    string
	Password    string
	FullName    string
	RiskProfile RiskProfile
}

func (p RegisterParams) validate() error {
	if _, err := mail.ParseAddress(p.Email); err != nil {
		return fmt.Errorf("%w: invalid email address", ErrInvalidInput)
	}

	if len(p.Username) < 3 || len(p.Username) > 50 {
		return fmt.Errorf("%w: username must be 3-50 characters", ErrInvalidInput)
	}

	for _, r := range p.Username {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return fmt.Errorf("%w: username must be alphanumeric", ErrInvalidInput)
		}
	}

	if err := checkPassword(p.Password); err != nil {
		return err
	}

	if len(p.FullName) < 2 || len(p.FullName) > 100 {
		return fmt.Errorf("%w: full name must be 2-100 characters", ErrInvalidInput)
	}

	if p.RiskProfile != "" && !p.RiskProfile.Valid() {
		return fmt.Errorf("%w: unknown risk profile %q", ErrInvalidInput, p.RiskProfile)
	}

	return nil
}

func checkPassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}

	var hasUpper, hasLower, hasDigit bool

	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if !hasUpper || !hasLower || !hasDigit {
		return fmt.Errorf("%w: password needs an uppercase letter, a lowercase letter and a digit", ErrInvalidInput)
	}

	return nil
}

func (s *Service) Register(ctx context.Context, params RegisterParams) (*User, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetUserByEmail(ctx, params.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if _, err := s.repo.GetUserByUsername(ctx, params.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	riskProfile := params.RiskProfile
	if riskProfile == "" {
		riskProfile = RiskModerate
	}

	u := &User{
		Email:        params.Email,
		Username:     params.Username,
		FullName:     params.FullName,
		PasswordHash: string(hash),
		RiskProfile:  riskProfile,
	}

	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

// Authenticate verifies a password against the account matching the
// identifier, which may be an email address or a username. Unknown
// accounts and wrong passwords are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, identifier, password string) (*User, error) {
	u, err := s.lookup(ctx, identifier)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}

		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()

	if err := s.repo.RecordLogin(ctx, u.ID, now); err != nil {
		return nil, fmt.Errorf("recording login: %w", err)
	}

	u.LastLoginAt = &now

	return u, nil
}

func (s *Service) lookup(ctx context.Context, identifier string) (*User, error) {
	// Usernames are alphanumeric, so an @ can only mean an email.
	if strings.Contains(identifier, "@") {
		return s.repo.GetUserByEmail(ctx, identifier)
	}

	return s.repo.GetUserByUsername(ctx, identifier)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetUser(ctx, id)
}

type UpdateParams struct {
	FullName    *string
	RiskProfile *RiskProfile
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*User, error) {
	u, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.FullName != nil {
		if len(*params.FullName) < 2 || len(*params.FullName) > 100 {
			return nil, fmt.Errorf("%w: full name must be 2-100 characters", ErrInvalidInput)
		}

		u.FullName = *params.FullName
	}

	if params.RiskProfile != nil {
		if !params.RiskProfile.Valid() {
			return nil, fmt.Errorf("%w: unknown risk profile %q", ErrInvalidInput, *params.RiskProfile)
		}

		u.RiskProfile = *params.RiskProfile
	}

	if err := s.repo.UpdateUser(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

func (s *Service) ChangePassword(ctx context.Context, id uuid.UUID, oldPassword, newPassword string) error {
	u, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(oldPassword)) != nil {
		return ErrInvalidCredentials
	}

	if err := checkPassword(newPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	u.PasswordHash = string(hash)

	return s.repo.UpdateUser(ctx, u)
}

// RiskProfile returns the user's risk appetite label for goal planning.
func (s *Service) RiskProfile(ctx context.Context, userID uuid.UUID) (string, error) {
	u, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}

	return string(u.RiskProfile), nil
}
