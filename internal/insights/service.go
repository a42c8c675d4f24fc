package insights

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nestegg-dev/nestegg/internal/transaction"
)

var ErrInvalidInput = errors.New("invalid input")

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=insights
type TransactionSource interface {
	Window(ctx context.Context, userID uuid.UUID, now time.Time, lookback time.Duration) ([]*transaction.Transaction, error)
}

// Period selects how far back a spending report looks.
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

func (p Period) Valid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodYearly:
		return true
	}

	return false
}

func (p Period) Lookback() time.Duration {
	switch p {
	case PeriodDaily:
		return 24 * time.Hour
	case PeriodWeekly:
		return 7 * 24 * time.Hour
	case PeriodYearly:
		return 365 * 24 * time.Hour
	default:
		return 30 * 24 * time.Hour
	}
}

const (
	// topCategoryCount bounds how many categories a report highlights.
	topCategoryCount = 3

	// minOutlierSamples is the smallest expense count per category for
	// which quartiles are meaningful enough to flag outliers.
	minOutlierSamples = 4
)

var (
	hundred = decimal.NewFromInt(100)

	// outlierFence is the IQR multiplier above the third quartile past
	// which an expense counts as an outlier.
	outlierFence = decimal.NewFromFloat(1.5)
)

// CategoryBreakdown aggregates one category's expenses within a report
// window. Percentage is the category's share of total expenses.
type CategoryBreakdown struct {
	Amount     decimal.Decimal
	Count      int
	Percentage decimal.Decimal
}

// Outlier is a single expense sitting far above what is usual for its
// category in the window.
type Outlier struct {
	Category    transaction.Category
	Description string
	Amount      decimal.Decimal
	Date        time.Time
	UpperBound  decimal.Decimal
}

// Report summarizes a user's cash flow over one period.
type Report struct {
	Period           Period
	StartDate        time.Time
	EndDate          time.Time
	TotalIncome      decimal.Decimal
	TotalExpenses    decimal.Decimal
	NetSavings       decimal.Decimal
	SavingsRate      decimal.Decimal
	TransactionCount int
	Categories       map[transaction.Category]CategoryBreakdown
	TopCategories    []transaction.Category
	Outliers         []Outlier
}

type Service struct {
	transactions TransactionSource
}

func NewService(transactions TransactionSource) *Service {
	return &Service{transactions: transactions}
}

// Spending builds the spending report for the period ending now.
func (s *Service) Spending(ctx context.Context, userID uuid.UUID, period Period) (*Report, error) {
	if !period.Valid() {
		return nil, fmt.Errorf("%w: unknown period %q", ErrInvalidInput, period)
	}

	now := time.Now().UTC()
	lookback := period.Lookback()

	txs, err := s.transactions.Window(ctx, userID, now, lookback)
	if err != nil {
		return nil, fmt.Errorf("loading transaction window: %w", err)
	}

	var totalIncome, totalExpenses decimal.Decimal

	breakdown := make(map[transaction.Category]CategoryBreakdown)

	for _, tx := range txs {
		switch tx.Type {
		case transaction.TypeIncome:
			totalIncome = totalIncome.Add(tx.Amount)
		case transaction.TypeExpense:
			totalExpenses = totalExpenses.Add(tx.Amount)

			b := breakdown[tx.Category]
			b.Amount = b.Amount.Add(tx.Amount)
			b.Count++
			breakdown[tx.Category] = b
		}
	}

	for cat, b := range breakdown {
		if totalExpenses.IsPositive() {
			b.Percentage = b.Amount.Div(totalExpenses).Mul(hundred).Round(2)
		}

		b.Amount = b.Amount.Round(2)
		breakdown[cat] = b
	}

	net := totalIncome.Sub(totalExpenses)

	savingsRate := decimal.Zero
	if totalIncome.IsPositive() {
		savingsRate = net.Div(totalIncome).Mul(hundred).Round(2)
	}

	return &Report{
		Period:           period,
		StartDate:        now.Add(-lookback),
		EndDate:          now,
		TotalIncome:      totalIncome.Round(2),
		TotalExpenses:    totalExpenses.Round(2),
		NetSavings:       net.Round(2),
		SavingsRate:      savingsRate,
		TransactionCount: len(txs),
		Categories:       breakdown,
		TopCategories:    topCategories(breakdown),
		Outliers:         outliers(txs),
	}, nil
}

// topCategories returns up to topCategoryCount categories ordered by
// spend, largest first. Ties break on category name.
func topCategories(breakdown map[transaction.Category]CategoryBreakdown) []transaction.Category {
	cats := make([]transaction.Category, 0, len(breakdown))
	for cat := range breakdown {
		cats = append(cats, cat)
	}

	sort.Slice(cats, func(i, j int) bool {
		cmp := breakdown[cats[i]].Amount.Cmp(breakdown[cats[j]].Amount)
		if cmp != 0 {
			return cmp > 0
		}

		return cats[i] < cats[j]
	})

	if len(cats) > topCategoryCount {
		cats = cats[:topCategoryCount]
	}

	return cats
}

// outliers flags expenses above the Tukey fence of their category.
// Categories with fewer than minOutlierSamples expenses are skipped.
func outliers(txs []*transaction.Transaction) []Outlier {
	amounts := make(map[transaction.Category][]decimal.Decimal)

	for _, tx := range txs {
		if tx.Type != transaction.TypeExpense {
			continue
		}

		amounts[tx.Category] = append(amounts[tx.Category], tx.Amount)
	}

	fences := make(map[transaction.Category]decimal.Decimal)

	for cat, vals := range amounts {
		if len(vals) < minOutlierSamples {
			continue
		}

		sort.Slice(vals, func(i, j int) bool { return vals[i].LessThan(vals[j]) })

		q1 := quantile(vals, 0.25)
		q3 := quantile(vals, 0.75)

		fences[cat] = q3.Add(q3.Sub(q1).Mul(outlierFence))
	}

	var found []Outlier

	for _, tx := range txs {
		if tx.Type != transaction.TypeExpense {
			continue
		}

		fence, ok := fences[tx.Category]
		if !ok || tx.Amount.LessThanOrEqual(fence) {
			continue
		}

		found = append(found, Outlier{
			Category:    tx.Category,
			Description: tx.Description,
			Amount:      tx.Amount,
			Date:        tx.Date,
			UpperBound:  fence.Round(2),
		})
	}

	return found
}

// quantile returns the p-quantile of sorted values, interpolating
// linearly between the two closest ranks.
func quantile(sorted []decimal.Decimal, p float64) decimal.Decimal {
	pos := decimal.NewFromFloat(p).Mul(decimal.NewFromInt(int64(len(sorted) - 1)))
	lo := int(pos.IntPart())
	frac := pos.Sub(decimal.NewFromInt(int64(lo)))

	if frac.IsZero() || lo+1 >= len(sorted) {
		return sorted[lo]
	}

	return sorted[lo].Add(sorted[lo+1].Sub(sorted[lo]).Mul(frac))
}
