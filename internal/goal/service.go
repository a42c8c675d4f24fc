package goal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nestegg-dev/nestegg/internal/planner"
	"github.com/nestegg-dev/nestegg/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=goal
type Repository interface {
	CreateGoal(ctx context.Context, g *Goal) error
	GetGoal(ctx context.Context, userID, id uuid.UUID) (*Goal, error)
	ListGoals(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]*Goal, error)
	CountGoals(ctx context.Context, userID uuid.UUID) (Counts, error)
	UpdateGoal(ctx context.Context, g *Goal) error

	// CommitContribution persists the goal's money fields and appends
	// the milestone, but only if the stored version still matches
	// g.Version. Returns ErrConflict otherwise.
	CommitContribution(ctx context.Context, g *Goal, milestone Milestone) error

	DeleteGoal(ctx context.Context, userID, id uuid.UUID) error
}

// TransactionSource supplies the spending history the planner analyzes.
type TransactionSource interface {
	Window(ctx context.Context, userID uuid.UUID, now time.Time, lookback time.Duration) ([]*transaction.Transaction, error)
}

// ProfileSource resolves the user's risk profile label. The label is
// passed through to plan output untouched.
type ProfileSource interface {
	RiskProfile(ctx context.Context, userID uuid.UUID) (string, error)
}

const (
	// DefaultLookback bounds how much history feeds capacity analysis
	// when the caller does not configure one.
	DefaultLookback = 90 * 24 * time.Hour

	// contributionAttempts bounds the optimistic retry loop per
	// request. Conflicts beyond that surface to the caller.
	contributionAttempts = 3
)

type Service struct {
	repo         Repository
	transactions TransactionSource
	profiles     ProfileSource
	planner      *planner.Planner
	lookback     time.Duration
}

func NewService(repo Repository, transactions TransactionSource, profiles ProfileSource, p *planner.Planner, lookback time.Duration) *Service {
	if lookback <= 0 {
		lookback = DefaultLookback
	}

	return &Service{
		repo:         repo,
		transactions: transactions,
		profiles:     profiles,
		planner:      p,
		lookback:     lookback,
	}
}

type PlanParams struct {
	Name          string
	Category      Category
	TargetAmount  decimal.Decimal
	CurrentAmount decimal.Decimal
	TargetDate    time.Time
}

func (p PlanParams) validate(now time.Time) error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	if !p.TargetAmount.IsPositive() {
		return fmt.Errorf("%w: target amount must be positive", ErrInvalidInput)
	}

	if p.CurrentAmount.IsNegative() {
		return fmt.Errorf("%w: current amount cannot be negative", ErrInvalidInput)
	}

	if p.CurrentAmount.GreaterThan(p.TargetAmount) {
		return fmt.Errorf("%w: current amount cannot exceed the target", ErrInvalidInput)
	}

	if !p.Category.Known() {
		return fmt.Errorf("%w: unknown goal category %q", ErrInvalidInput, p.Category)
	}

	if !p.TargetDate.After(now) {
		return fmt.Errorf("%w: target date must be in the future", ErrInvalidInput)
	}

	return nil
}

type GoalDetails struct {
	Name          string
	TargetAmount  decimal.Decimal
	CurrentAmount decimal.Decimal
	AmountNeeded  decimal.Decimal
	MonthsToGoal  int
	Category      Category
}

// Plan is a full planning result for a goal the user is considering.
// Nothing in it is persisted.
type Plan struct {
	GoalDetails    GoalDetails
	Capacity       planner.CapacitySnapshot
	Strategies     map[planner.Strategy]planner.StrategyPlan
	Recommendation planner.Recommendation
}

// Plan analyzes the user's recent history and lays out the three
// savings strategies for a prospective goal.
func (s *Service) Plan(ctx context.Context, userID uuid.UUID, params PlanParams) (*Plan, error) {
	now := time.Now().UTC()

	if err := params.validate(now); err != nil {
		return nil, err
	}

	txs, err := s.transactions.Window(ctx, userID, now, s.lookback)
	if err != nil {
		return nil, fmt.Errorf("loading transaction window: %w", err)
	}

	riskProfile, err := s.profiles.RiskProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading risk profile: %w", err)
	}

	capacity := s.planner.Analyze(txs, riskProfile)
	monthsToGoal := planner.MonthsBetween(now, params.TargetDate)
	amountNeeded := params.TargetAmount.Sub(params.CurrentAmount)

	strategies := s.planner.Strategies(amountNeeded, monthsToGoal, capacity)
	recommendation := s.planner.Recommend(string(params.Category), monthsToGoal, capacity, strategies)

	return &Plan{
		GoalDetails: GoalDetails{
			Name:          params.Name,
			TargetAmount:  params.TargetAmount,
			CurrentAmount: params.CurrentAmount,
			AmountNeeded:  amountNeeded,
			MonthsToGoal:  monthsToGoal,
			Category:      params.Category,
		},
		Capacity:       capacity,
		Strategies:     strategies,
		Recommendation: recommendation,
	}, nil
}

type CreateParams struct {
	Name                string
	Description         string
	Category            Category
	TargetAmount        decimal.Decimal
	CurrentAmount       decimal.Decimal
	TargetDate          time.Time
	Strategy            planner.Strategy
	MonthlyContribution decimal.Decimal
	Priority            int
}

func (p CreateParams) validate(now time.Time) error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	if !p.TargetAmount.IsPositive() {
		return fmt.Errorf("%w: target amount must be positive", ErrInvalidInput)
	}

	if p.CurrentAmount.IsNegative() {
		return fmt.Errorf("%w: current amount cannot be negative", ErrInvalidInput)
	}

	if p.CurrentAmount.GreaterThan(p.TargetAmount) {
		return fmt.Errorf("%w: current amount cannot exceed the target", ErrInvalidInput)
	}

	if !p.Category.Known() {
		return fmt.Errorf("%w: unknown goal category %q", ErrInvalidInput, p.Category)
	}

	if !p.TargetDate.After(now) {
		return fmt.Errorf("%w: target date must be in the future", ErrInvalidInput)
	}

	if p.Strategy != "" && !p.Strategy.Valid() {
		return fmt.Errorf("%w: unknown strategy %q", ErrInvalidInput, p.Strategy)
	}

	if p.MonthlyContribution.IsNegative() {
		return fmt.Errorf("%w: monthly contribution cannot be negative", ErrInvalidInput)
	}

	if p.Priority != 0 && (p.Priority < 1 || p.Priority > 5) {
		return fmt.Errorf("%w: priority must be between 1 and 5", ErrInvalidInput)
	}

	return nil
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, params CreateParams) (*Goal, error) {
	now := time.Now().UTC()

	if err := params.validate(now); err != nil {
		return nil, err
	}

	strategy := params.Strategy
	if strategy == "" {
		strategy = planner.StrategyModerate
	}

	priority := params.Priority
	if priority == 0 {
		priority = 3
	}

	g := &Goal{
		UserID:              userID,
		Name:                params.Name,
		Description:         params.Description,
		TargetAmount:        params.TargetAmount,
		CurrentAmount:       params.CurrentAmount,
		StartDate:           now,
		TargetDate:          params.TargetDate,
		Term:                TermForMonths(planner.MonthsBetween(now, params.TargetDate)),
		Status:              StatusActive,
		Category:            params.Category,
		Priority:            priority,
		Strategy:            strategy,
		MonthlyContribution: params.MonthlyContribution,
	}

	if err := s.repo.CreateGoal(ctx, g); err != nil {
		return nil, err
	}

	return g, nil
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*Goal, error) {
	return s.repo.GetGoal(ctx, userID, id)
}

type ListFilter struct {
	Status   *Status
	Category *Category
	Limit    int
	Offset   int
}

// Counts breaks down how many goals a user has, unaffected by any
// list filter.
type Counts struct {
	Total     int
	Active    int
	Completed int
}

// List returns the matching page of the user's goals, without their
// milestone histories, plus the user's overall goal counts.
func (s *Service) List(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]*Goal, Counts, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, Counts{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *filter.Status)
	}

	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 50
	}

	if filter.Offset < 0 {
		filter.Offset = 0
	}

	goals, err := s.repo.ListGoals(ctx, userID, filter)
	if err != nil {
		return nil, Counts{}, err
	}

	counts, err := s.repo.CountGoals(ctx, userID)
	if err != nil {
		return nil, Counts{}, fmt.Errorf("counting goals: %w", err)
	}

	return goals, counts, nil
}

type UpdateParams struct {
	Name                *string
	Description         *string
	TargetAmount        *decimal.Decimal
	TargetDate          *time.Time
	Status              *Status
	Priority            *int
	Strategy            *planner.Strategy
	MonthlyContribution *decimal.Decimal
}

// Update changes a goal's metadata. Money fields are owned by
// Contribute and are never written here, so a racing contribution
// cannot be lost.
func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, params UpdateParams) (*Goal, error) {
	g, err := s.repo.GetGoal(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		if *params.Name == "" {
			return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
		}

		g.Name = *params.Name
	}

	if params.Description != nil {
		g.Description = *params.Description
	}

	if params.TargetAmount != nil {
		if !params.TargetAmount.IsPositive() {
			return nil, fmt.Errorf("%w: target amount must be positive", ErrInvalidInput)
		}

		g.TargetAmount = *params.TargetAmount
	}

	if params.TargetDate != nil {
		if !params.TargetDate.After(g.StartDate) {
			return nil, fmt.Errorf("%w: target date must be after the start date", ErrInvalidInput)
		}

		g.TargetDate = *params.TargetDate
		g.Term = TermForMonths(planner.MonthsBetween(g.StartDate, g.TargetDate))
	}

	if params.Status != nil {
		if !params.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *params.Status)
		}

		// Re-opening a completed goal clears its completion stamp.
		if g.Status == StatusCompleted && *params.Status == StatusActive {
			g.CompletedAt = nil
		}

		g.Status = *params.Status
	}

	if params.Priority != nil {
		if *params.Priority < 1 || *params.Priority > 5 {
			return nil, fmt.Errorf("%w: priority must be between 1 and 5", ErrInvalidInput)
		}

		g.Priority = *params.Priority
	}

	if params.Strategy != nil {
		if !params.Strategy.Valid() {
			return nil, fmt.Errorf("%w: unknown strategy %q", ErrInvalidInput, *params.Strategy)
		}

		g.Strategy = *params.Strategy
	}

	if params.MonthlyContribution != nil {
		if params.MonthlyContribution.IsNegative() {
			return nil, fmt.Errorf("%w: monthly contribution cannot be negative", ErrInvalidInput)
		}

		g.MonthlyContribution = *params.MonthlyContribution
	}

	if err := s.repo.UpdateGoal(ctx, g); err != nil {
		return nil, err
	}

	return g, nil
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.DeleteGoal(ctx, userID, id)
}

type ContributeParams struct {
	Amount decimal.Decimal
	Note   string
}

// Contribute applies a contribution through an optimistic-concurrency
// loop: load the goal, apply in memory, commit at the loaded version.
// A version conflict means another contribution landed in between, so
// the loop starts over on fresh state.
func (s *Service) Contribute(ctx context.Context, userID, goalID uuid.UUID, params ContributeParams) (*ContributionResult, error) {
	if !params.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: contribution amount must be positive", ErrInvalidInput)
	}

	var lastErr error

	for attempt := 0; attempt < contributionAttempts; attempt++ {
		g, err := s.repo.GetGoal(ctx, userID, goalID)
		if err != nil {
			return nil, err
		}

		result, err := ApplyContribution(g, params.Amount, params.Note, time.Now().UTC())
		if err != nil {
			return nil, err
		}

		err = s.repo.CommitContribution(ctx, g, result.Milestone)
		if err == nil {
			return &result, nil
		}

		if !errors.Is(err, ErrConflict) {
			return nil, err
		}

		lastErr = err
	}

	return nil, fmt.Errorf("contribution retries exhausted: %w", lastErr)
}

// ProgressReport pairs a goal with its live tracking numbers.
type ProgressReport struct {
	Goal     *Goal
	Tracking planner.Progress
}

func (s *Service) Progress(ctx context.Context, userID, goalID uuid.UUID) (*ProgressReport, error) {
	g, err := s.repo.GetGoal(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	tracking := s.planner.TrackProgress(g.CurrentAmount, g.TargetAmount, g.StartDate, g.TargetDate, time.Now().UTC())

	return &ProgressReport{Goal: g, Tracking: tracking}, nil
}
