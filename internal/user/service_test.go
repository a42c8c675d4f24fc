package user_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/nestegg-dev/nestegg/internal/user"
)

func newService(t *testing.T) (*user.Service, *user.MockRepository) {
	ctrl := gomock.NewController(t)
	repo := user.NewMockRepository(ctrl)

	return user.NewService(repo), repo
}

func hashOf(t *testing.T, password string) string {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	return string(hash)
}

func validRegister() user.RegisterParams {
	return user.RegisterParams{
		Email:    "priya@example.com",
		Username: "priya",
		Password: "Sunrise99",
		FullName: "Priya Sharma",
	}
}

func TestService_Register(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().GetUserByEmail(gomock.Any(), "priya@example.com").Return(nil, user.ErrNotFound)
		repo.EXPECT().GetUserByUsername(gomock.Any(), "priya").Return(nil, user.ErrNotFound)
		repo.EXPECT().
			CreateUser(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, u *user.User) error {
				u.ID = uuid.New()
				u.CreatedAt = time.Now()
				return nil
			})

		u, err := svc.Register(context.Background(), validRegister())
		require.NoError(t, err)

		assert.NotEmpty(t, u.ID)
		assert.Equal(t, user.RiskModerate, u.RiskProfile)
		assert.NotEqual(t, "Sunrise99", u.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("Sunrise99")))
	})

	t.Run("KeepsRequestedRiskProfile", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().GetUserByEmail(gomock.Any(), gomock.Any()).Return(nil, user.ErrNotFound)
		repo.EXPECT().GetUserByUsername(gomock.Any(), gomock.Any()).Return(nil, user.ErrNotFound)
		repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(nil)

		params := validRegister()
		params.RiskProfile = user.RiskConservative

		u, err := svc.Register(context.Background(), params)
		require.NoError(t, err)

		assert.Equal(t, user.RiskConservative, u.RiskProfile)
	})

	t.Run("EmailTaken", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().
			GetUserByEmail(gomock.Any(), "priya@example.com").
			Return(&user.User{ID: uuid.New()}, nil)

		_, err := svc.Register(context.Background(), validRegister())
		assert.ErrorIs(t, err, user.ErrEmailTaken)
	})

	t.Run("UsernameTaken", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().GetUserByEmail(gomock.Any(), gomock.Any()).Return(nil, user.ErrNotFound)
		repo.EXPECT().
			GetUserByUsername(gomock.Any(), "priya").
			Return(&user.User{ID: uuid.New()}, nil)

		_, err := svc.Register(context.Background(), validRegister())
		assert.ErrorIs(t, err, user.ErrUsernameTaken)
	})

	t.Run("LookupError", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().GetUserByEmail(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

		_, err := svc.Register(context.Background(), validRegister())
		assert.Error(t, err)
		assert.NotErrorIs(t, err, user.ErrEmailTaken)
	})

	t.Run("Validation", func(t *testing.T) {
		svc, _ := newService(t)

		type testCase struct {
			name   string
			mutate func(p *user.RegisterParams)
		}

		tests := []testCase{
			{
				name:   "InvalidEmail",
				mutate: func(p *user.RegisterParams) { p.Email = "not-an-address" },
			},
			{
				name:   "ShortUsername",
				mutate: func(p *user.RegisterParams) { p.Username = "ab" },
			},
			{
				name:   "NonAlphanumericUsername",
				mutate: func(p *user.RegisterParams) { p.Username = "priya sharma" },
			},
			{
				name:   "PasswordTooShort",
				mutate: func(p *user.RegisterParams) { p.Password = "Ab1" },
			},
			{
				name:   "PasswordWithoutDigit",
				mutate: func(p *user.RegisterParams) { p.Password = "Abcdefgh" },
			},
			{
				name:   "PasswordWithoutUpper",
				mutate: func(p *user.RegisterParams) { p.Password = "abcdefg1" },
			},
			{
				name:   "PasswordWithoutLower",
				mutate: func(p *user.RegisterParams) { p.Password = "ABCDEFG1" },
			},
			{
				name:   "ShortFullName",
				mutate: func(p *user.RegisterParams) { p.FullName = "P" },
			},
			{
				name:   "UnknownRiskProfile",
				mutate: func(p *user.RegisterParams) { p.RiskProfile = "reckless" },
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				params := validRegister()
				tt.mutate(&params)

				_, err := svc.Register(context.Background(), params)
				assert.ErrorIs(t, err, user.ErrInvalidInput)
			})
		}
	})
}

func TestService_Authenticate(t *testing.T) {
	account := func(t *testing.T) *user.User {
		return &user.User{
			ID:           uuid.New(),
			Email:        "priya@example.com",
			Username:     "priya",
			PasswordHash: hashOf(t, "Sunrise99"),
			RiskProfile:  user.RiskModerate,
		}
	}

	t.Run("ByEmail", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().GetUserByEmail(gomock.Any(), "priya@example.com").Return(account(t), nil)
		repo.EXPECT().RecordLogin(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		u, err := svc.Authenticate(context.Background(), "priya@example.com", "Sunrise99")
		require.NoError(t, err)

		assert.Equal(t, "priya", u.Username)
		assert.NotNil(t, u.LastLoginAt)
	})

	t.Run("ByUsername", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().GetUserByUsername(gomock.Any(), "priya").Return(account(t), nil)
		repo.EXPECT().RecordLogin(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		_, err := svc.Authenticate(context.Background(), "priya", "Sunrise99")
		require.NoError(t, err)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().GetUserByUsername(gomock.Any(), "priya").Return(account(t), nil)

		_, err := svc.Authenticate(context.Background(), "priya", "Sunset00")
		assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	})

	t.Run("UnknownAccount", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().GetUserByUsername(gomock.Any(), "nobody").Return(nil, user.ErrNotFound)

		_, err := svc.Authenticate(context.Background(), "nobody", "Sunrise99")
		assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	})
}

func TestService_Update(t *testing.T) {
	userID := uuid.New()

	existing := func() *user.User {
		return &user.User{
			ID:          userID,
			Email:       "priya@example.com",
			Username:    "priya",
			FullName:    "Priya Sharma",
			RiskProfile: user.RiskModerate,
		}
	}

	t.Run("ChangesRiskProfile", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().GetUser(gomock.Any(), userID).Return(existing(), nil)
		repo.EXPECT().UpdateUser(gomock.Any(), gomock.Any()).Return(nil)

		u, err := svc.Update(context.Background(), userID, user.UpdateParams{
			RiskProfile: new(user.RiskAggressive),
		})
		require.NoError(t, err)

		assert.Equal(t, user.RiskAggressive, u.RiskProfile)
		assert.Equal(t, "Priya Sharma", u.FullName)
	})

	t.Run("ChangesFullName", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().GetUser(gomock.Any(), userID).Return(existing(), nil)
		repo.EXPECT().UpdateUser(gomock.Any(), gomock.Any()).Return(nil)

		u, err := svc.Update(context.Background(), userID, user.UpdateParams{
			FullName: new("Priya S. Nair"),
		})
		require.NoError(t, err)

		assert.Equal(t, "Priya S. Nair", u.FullName)
	})

	t.Run("RejectsUnknownRiskProfile", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().GetUser(gomock.Any(), userID).Return(existing(), nil)

		_, err := svc.Update(context.Background(), userID, user.UpdateParams{
			RiskProfile: new(user.RiskProfile("reckless")),
		})
		assert.ErrorIs(t, err, user.ErrInvalidInput)
	})

	t.Run("NotFound", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().GetUser(gomock.Any(), userID).Return(nil, user.ErrNotFound)

		_, err := svc.Update(context.Background(), userID, user.UpdateParams{})
		assert.ErrorIs(t, err, user.ErrNotFound)
	})
}

func TestService_ChangePassword(t *testing.T) {
	userID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().
			GetUser(gomock.Any(), userID).
			Return(&user.User{ID: userID, PasswordHash: hashOf(t, "OldPass11")}, nil)
		repo.EXPECT().
			UpdateUser(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, u *user.User) error {
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("NewPass22")))
				return nil
			})

		err := svc.ChangePassword(context.Background(), userID, "OldPass11", "NewPass22")
		require.NoError(t, err)
	})

	t.Run("WrongOldPassword", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().
			GetUser(gomock.Any(), userID).
			Return(&user.User{ID: userID, PasswordHash: hashOf(t, "OldPass11")}, nil)

		err := svc.ChangePassword(context.Background(), userID, "Wrong111", "NewPass22")
		assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	})

	t.Run("WeakNewPassword", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().
			GetUser(gomock.Any(), userID).
			Return(&user.User{ID: userID, PasswordHash: hashOf(t, "OldPass11")}, nil)

		err := svc.ChangePassword(context.Background(), userID, "OldPass11", "weak")
		assert.ErrorIs(t, err, user.ErrInvalidInput)
	})
}

func TestService_RiskProfile(t *testing.T) {
	userID := uuid.New()

	t.Run("ReturnsLabel", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().
			GetUser(gomock.Any(), userID).
			Return(&user.User{ID: userID, RiskProfile: user.RiskAggressive}, nil)

		profile, err := svc.RiskProfile(context.Background(), userID)
		require.NoError(t, err)

		assert.Equal(t, "aggressive", profile)
	})

	t.Run("NotFound", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().GetUser(gomock.Any(), userID).Return(nil, user.ErrNotFound)

		_, err := svc.RiskProfile(context.Background(), userID)
		assert.ErrorIs(t, err, user.ErrNotFound)
	})
}
