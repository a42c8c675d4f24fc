package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, userID, id uuid.UUID) (*Transaction, error)
	UpdateTransaction(ctx context.Context, tx *Transaction) error
	DeleteTransaction(ctx context.Context, userID, id uuid.UUID) error

	ListTransactions(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]*Transaction, int, error)
	ListWindow(ctx context.Context, userID uuid.UUID, from time.Time) ([]*Transaction, error)

	BeginImport(ctx context.Context, userID uuid.UUID, minDate, maxDate time.Time) (ImportTx, error)
}

// ImportTx is an open import session holding an exclusive lock on the
// (user, date range) being imported into.
type ImportTx interface {
	FindDuplicates(ctx context.Context, params []CreateParams) ([]*Transaction, error)
	CreateTransactions(ctx context.Context, txs []*Transaction) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Type           Type
	Category       Category
	Amount         decimal.Decimal
	Description    string
	RawDescription string
	Date           time.Time
}

func (p CreateParams) validate() error {
	if !p.Type.Valid() {
		return fmt.Errorf("%w: unknown transaction type %q", ErrInvalidInput, p.Type)
	}

	if p.Category == "" {
		return fmt.Errorf("%w: category is required", ErrInvalidInput)
	}

	if !p.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}

	if p.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	return nil
}

type ListFilter struct {
	Type      *Type
	Category  *Category
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, params CreateParams) (*Transaction, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	tx := &Transaction{
		UserID:         userID,
		Type:           params.Type,
		Category:       params.Category,
		Amount:         params.Amount,
		Description:    params.Description,
		RawDescription: params.RawDescription,
		Date:           params.Date,
	}
	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, userID, id)
}

// List returns the matching page of transactions plus the total match count.
func (s *Service) List(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]*Transaction, int, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 50
	}

	if filter.Offset < 0 {
		filter.Offset = 0
	}

	return s.repo.ListTransactions(ctx, userID, filter)
}

// Window returns every transaction of the user dated within the last
// lookback period, ordered by date. This is the bounded history the
// goal planner analyzes.
func (s *Service) Window(ctx context.Context, userID uuid.UUID, now time.Time, lookback time.Duration) ([]*Transaction, error) {
	return s.repo.ListWindow(ctx, userID, now.Add(-lookback))
}

type UpdateParams struct {
	Type        *Type
	Category    *Category
	Amount      *decimal.Decimal
	Description *string
	Date        *time.Time
}

func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, params UpdateParams) (*Transaction, error) {
	tx, err := s.repo.GetTransaction(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if params.Type != nil {
		if !params.Type.Valid() {
			return nil, fmt.Errorf("%w: unknown transaction type %q", ErrInvalidInput, *params.Type)
		}

		tx.Type = *params.Type
	}

	if params.Category != nil {
		if *params.Category == "" {
			return nil, fmt.Errorf("%w: category is required", ErrInvalidInput)
		}

		tx.Category = *params.Category
	}

	if params.Amount != nil {
		if !params.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
		}

		tx.Amount = *params.Amount
	}

	if params.Description != nil {
		tx.Description = *params.Description
	}

	if params.Date != nil {
		tx.Date = *params.Date
	}

	if err := s.repo.UpdateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.DeleteTransaction(ctx, userID, id)
}

type ImportResult struct {
	Imported  []*Transaction
	New       []CreateParams
	Conflicts []Conflict
}

type Conflict struct {
	Incoming CreateParams
	Existing *Transaction
}

// ImportBatch inserts a parsed statement atomically. Rows matching an
// existing transaction on (date, amount, type, raw description) are
// reported as conflicts instead of inserted; if any conflict is found,
// nothing is written and the caller decides what to confirm.
func (s *Service) ImportBatch(ctx context.Context, userID uuid.UUID, params []CreateParams) (*ImportResult, error) {
	if len(params) == 0 {
		return &ImportResult{}, nil
	}

	for _, p := range params {
		if err := p.validate(); err != nil {
			return nil, err
		}
	}

	minDate, maxDate := dateRange(params)

	itx, err := s.repo.BeginImport(ctx, userID, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	duplicates, err := itx.FindDuplicates(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("find duplicates: %w", err)
	}

	lookup := make(map[dupKey]*Transaction, len(duplicates))
	for _, d := range duplicates {
		lookup[dupKeyFor(d.Date, d.Amount, d.Type, d.RawDescription)] = d
	}

	var newParams []CreateParams

	var conflicts []Conflict

	for _, p := range params {
		existing, found := lookup[dupKeyFor(p.Date, p.Amount, p.Type, p.RawDescription)]
		if found {
			conflicts = append(conflicts, Conflict{Incoming: p, Existing: existing})
			continue
		}

		newParams = append(newParams, p)
	}

	if len(conflicts) > 0 {
		return &ImportResult{New: newParams, Conflicts: conflicts}, nil
	}

	txs := paramsToTransactions(userID, newParams)
	if err := itx.CreateTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("create transactions: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return &ImportResult{Imported: txs}, nil
}

// CreateBatch inserts the given rows without duplicate detection. Used
// after the caller has confirmed a conflicting import.
func (s *Service) CreateBatch(ctx context.Context, userID uuid.UUID, params []CreateParams) ([]*Transaction, error) {
	if len(params) == 0 {
		return nil, nil
	}

	for _, p := range params {
		if err := p.validate(); err != nil {
			return nil, err
		}
	}

	minDate, maxDate := dateRange(params)

	itx, err := s.repo.BeginImport(ctx, userID, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	txs := paramsToTransactions(userID, params)
	if err := itx.CreateTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("create transactions: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return txs, nil
}

type dupKey struct {
	Date           string
	Amount         string
	Type           Type
	RawDescription string
}

func dupKeyFor(date time.Time, amount decimal.Decimal, t Type, rawDesc string) dupKey {
	return dupKey{
		Date:           date.Format(time.DateOnly),
		Amount:         amount.StringFixed(2),
		Type:           t,
		RawDescription: rawDesc,
	}
}

func dateRange(params []CreateParams) (time.Time, time.Time) {
	minDate := params[0].Date
	maxDate := params[0].Date

	for _, p := range params[1:] {
		if p.Date.Before(minDate) {
			minDate = p.Date
		}

		if p.Date.After(maxDate) {
			maxDate = p.Date
		}
	}

	return minDate, maxDate
}

func paramsToTransactions(userID uuid.UUID, params []CreateParams) []*Transaction {
	txs := make([]*Transaction, len(params))
	for i, p := range params {
		txs[i] = &Transaction{
			UserID:         userID,
			Type:           p.Type,
			Category:       p.Category,
			Amount:         p.Amount,
			Description:    p.Description,
			RawDescription: p.RawDescription,
			Date:           p.Date,
		}
	}

	return txs
}
