package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/nestegg-dev/nestegg/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindCategory(ctx context.Context, userID uuid.UUID, description string) (transaction.Category, error) {
	query := `
		SELECT category
		FROM category_rules
		WHERE user_id = $1 AND $2 ILIKE '%' || pattern || '%'
		ORDER BY LENGTH(pattern) DESC, created_at DESC
		LIMIT 1
	`

	var category string

	err := s.db.QueryRowContext(ctx, query, userID, description).Scan(&category)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}

		return "", fmt.Errorf("finding category: %w", err)
	}

	return transaction.Category(category), nil
}

func (s *Store) CreateRule(ctx context.Context, userID uuid.UUID, pattern string, category transaction.Category) error {
	query := `
		INSERT INTO category_rules (user_id, pattern, category, created_at)
		VALUES ($1, $2, $3, NOW())
	`

	_, err := s.db.ExecContext(ctx, query, userID, pattern, string(category))
	if err != nil {
		return fmt.Errorf("creating rule: %w", err)
	}

	return nil
}
