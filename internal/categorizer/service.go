package categorizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/nestegg-dev/nestegg/internal/transaction"
)

var ErrInvalidInput = errors.New("invalid input")

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=categorizer
type Repository interface {
	FindCategory(ctx context.Context, userID uuid.UUID, description string) (transaction.Category, error)
	CreateRule(ctx context.Context, userID uuid.UUID, pattern string, category transaction.Category) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest returns the category of the longest stored pattern contained
// in the description. Returns empty category if no rule matches.
func (s *Service) Suggest(ctx context.Context, userID uuid.UUID, description string) (transaction.Category, error) {
	if strings.TrimSpace(description) == "" {
		return "", nil
	}

	return s.repo.FindCategory(ctx, userID, description)
}

// Learn remembers that descriptions containing the pattern belong to
// the category.
func (s *Service) Learn(ctx context.Context, userID uuid.UUID, pattern string, category transaction.Category) error {
	if strings.TrimSpace(pattern) == "" {
		return fmt.Errorf("%w: pattern is required", ErrInvalidInput)
	}

	if !category.Known() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidInput, category)
	}

	return s.repo.CreateRule(ctx, userID, strings.TrimSpace(pattern), category)
}
