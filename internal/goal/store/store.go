package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/nestegg-dev/nestegg/internal/goal"
	"github.com/nestegg-dev/nestegg/internal/planner"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectGoalColumns = `
	g.id, g.user_id, g.name, g.description, g.target_amount, g.current_amount,
	g.start_date, g.target_date, g.term, g.status, g.category, g.priority,
	g.strategy, g.monthly_contribution, g.total_contributed, g.last_contribution_at,
	g.version, g.created_at, g.updated_at, g.completed_at, g.deleted_at
`

func scanGoal(s scanner) (*goal.Goal, error) {
	var g goal.Goal

	var description sql.NullString

	var term, status, category, strategy string

	if err := s.Scan(
		&g.ID, &g.UserID, &g.Name, &description, &g.TargetAmount, &g.CurrentAmount,
		&g.StartDate, &g.TargetDate, &term, &status, &category, &g.Priority,
		&strategy, &g.MonthlyContribution, &g.TotalContributed, &g.LastContributionAt,
		&g.Version, &g.CreatedAt, &g.UpdatedAt, &g.CompletedAt, &g.DeletedAt,
	); err != nil {
		return nil, err
	}

	g.Description = description.String
	g.Term = goal.Term(term)
	g.Status = goal.Status(status)
	g.Category = goal.Category(category)
	g.Strategy = planner.Strategy(strategy)

	return &g, nil
}

func (s *Store) CreateGoal(ctx context.Context, g *goal.Goal) error {
	query := `
		INSERT INTO goals (
			user_id, name, description, target_amount, current_amount,
			start_date, target_date, term, status, category, priority,
			strategy, monthly_contribution, total_contributed,
			version, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, 1, NOW(), NOW())
		RETURNING id, version, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		g.UserID,
		g.Name,
		g.Description,
		g.TargetAmount,
		g.CurrentAmount,
		g.StartDate,
		g.TargetDate,
		g.Term,
		g.Status,
		g.Category,
		g.Priority,
		g.Strategy,
		g.MonthlyContribution,
		g.TotalContributed,
	).Scan(&g.ID, &g.Version, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating goal: %w", err)
	}

	return nil
}

func (s *Store) GetGoal(ctx context.Context, userID, id uuid.UUID) (*goal.Goal, error) {
	query := `SELECT ` + selectGoalColumns + `
		FROM goals g
		WHERE g.id = $1 AND g.user_id = $2 AND g.deleted_at IS NULL`

	g, err := scanGoal(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, goal.ErrNotFound
		}

		return nil, fmt.Errorf("getting goal: %w", err)
	}

	milestones, err := s.listMilestones(ctx, g.ID)
	if err != nil {
		return nil, err
	}

	g.Milestones = milestones

	return g, nil
}

func (s *Store) listMilestones(ctx context.Context, goalID uuid.UUID) ([]goal.Milestone, error) {
	query := `
		SELECT date, amount, percentage, contribution, note
		FROM goal_milestones
		WHERE goal_id = $1
		ORDER BY date ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, goalID)
	if err != nil {
		return nil, fmt.Errorf("listing milestones: %w", err)
	}
	defer rows.Close()

	var milestones []goal.Milestone

	for rows.Next() {
		var m goal.Milestone

		var note sql.NullString

		if err := rows.Scan(&m.Date, &m.Amount, &m.Percentage, &m.Contribution, &note); err != nil {
			return nil, fmt.Errorf("scanning milestone: %w", err)
		}

		m.Note = note.String

		milestones = append(milestones, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating milestone rows: %w", err)
	}

	return milestones, nil
}

// ListGoals returns the user's goals without milestone histories.
func (s *Store) ListGoals(ctx context.Context, userID uuid.UUID, filter goal.ListFilter) ([]*goal.Goal, error) {
	query := `SELECT ` + selectGoalColumns + `
		FROM goals g
		WHERE g.user_id = $1 AND g.deleted_at IS NULL`

	args := []any{userID}

	argIdx := 2

	if filter.Status != nil {
		query += fmt.Sprintf(" AND g.status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.Category != nil {
		query += fmt.Sprintf(" AND g.category = $%d", argIdx)

		args = append(args, *filter.Category)
		argIdx++
	}

	query += fmt.Sprintf(" ORDER BY g.priority ASC, g.created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing goals: %w", err)
	}
	defer rows.Close()

	var goals []*goal.Goal

	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning goal: %w", err)
		}

		goals = append(goals, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating goal rows: %w", err)
	}

	return goals, nil
}

func (s *Store) CountGoals(ctx context.Context, userID uuid.UUID) (goal.Counts, error) {
	query := `
		SELECT status, COUNT(*)
		FROM goals
		WHERE user_id = $1 AND deleted_at IS NULL
		GROUP BY status
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return goal.Counts{}, fmt.Errorf("counting goals: %w", err)
	}
	defer rows.Close()

	var counts goal.Counts

	for rows.Next() {
		var status string

		var n int

		if err := rows.Scan(&status, &n); err != nil {
			return goal.Counts{}, fmt.Errorf("scanning goal count: %w", err)
		}

		counts.Total += n

		switch goal.Status(status) {
		case goal.StatusActive:
			counts.Active = n
		case goal.StatusCompleted:
			counts.Completed = n
		}
	}

	if err := rows.Err(); err != nil {
		return goal.Counts{}, fmt.Errorf("iterating goal count rows: %w", err)
	}

	return counts, nil
}

// UpdateGoal writes metadata fields only. Money fields and the version
// belong to CommitContribution.
func (s *Store) UpdateGoal(ctx context.Context, g *goal.Goal) error {
	query := `
		UPDATE goals
		SET name = $1, description = $2, target_amount = $3, target_date = $4,
			term = $5, status = $6, priority = $7, strategy = $8,
			monthly_contribution = $9, completed_at = $10, updated_at = NOW()
		WHERE id = $11 AND user_id = $12 AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query,
		g.Name,
		g.Description,
		g.TargetAmount,
		g.TargetDate,
		g.Term,
		g.Status,
		g.Priority,
		g.Strategy,
		g.MonthlyContribution,
		g.CompletedAt,
		g.ID,
		g.UserID,
	)
	if err != nil {
		return fmt.Errorf("updating goal: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating goal: %w", err)
	}

	if affected == 0 {
		return goal.ErrNotFound
	}

	return nil
}

// CommitContribution writes the goal's money fields at its loaded
// version and appends the milestone in one database transaction. A
// zero-row update means another writer bumped the version first.
func (s *Store) CommitContribution(ctx context.Context, g *goal.Goal, milestone goal.Milestone) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning contribution tx: %w", err)
	}
	defer dbTx.Rollback()

	query := `
		UPDATE goals
		SET current_amount = $1, total_contributed = $2, status = $3,
			completed_at = $4, last_contribution_at = $5,
			version = version + 1, updated_at = NOW()
		WHERE id = $6 AND user_id = $7 AND version = $8 AND deleted_at IS NULL
	`

	res, err := dbTx.ExecContext(ctx, query,
		g.CurrentAmount,
		g.TotalContributed,
		g.Status,
		g.CompletedAt,
		g.LastContributionAt,
		g.ID,
		g.UserID,
		g.Version,
	)
	if err != nil {
		return fmt.Errorf("updating goal amounts: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating goal amounts: %w", err)
	}

	if affected == 0 {
		return goal.ErrConflict
	}

	milestoneQuery := `
		INSERT INTO goal_milestones (goal_id, date, amount, percentage, contribution, note)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if _, err := dbTx.ExecContext(ctx, milestoneQuery,
		g.ID,
		milestone.Date,
		milestone.Amount,
		milestone.Percentage,
		milestone.Contribution,
		milestone.Note,
	); err != nil {
		return fmt.Errorf("appending milestone: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing contribution: %w", err)
	}

	g.Version++

	return nil
}

func (s *Store) DeleteGoal(ctx context.Context, userID, id uuid.UUID) error {
	query := `
		UPDATE goals
		SET deleted_at = NOW()
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("deleting goal: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting goal: %w", err)
	}

	if affected == 0 {
		return goal.ErrNotFound
	}

	return nil
}
