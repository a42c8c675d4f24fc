package planner_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/nestegg-dev/nestegg/internal/planner"
	"github.com/nestegg-dev/nestegg/internal/transaction"
)

func tx(typ transaction.Type, cat transaction.Category, amount int64, date time.Time) *transaction.Transaction {
	return &transaction.Transaction{
		Type:     typ,
		Category: cat,
		Amount:   decimal.NewFromInt(amount),
		Date:     date,
	}
}

func TestPlanner_Analyze(t *testing.T) {
	p := planner.New(planner.DefaultTuning())

	jan := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	t.Run("SingleMonth", func(t *testing.T) {
		txs := []*transaction.Transaction{
			tx(transaction.TypeIncome, transaction.CategorySalary, 60000, jan),
			tx(transaction.TypeExpense, transaction.CategoryRent, 20000, jan),
			tx(transaction.TypeExpense, transaction.CategoryFood, 10000, jan),
		}

		snapshot := p.Analyze(txs, "moderate")

		assert.Equal(t, "60000", snapshot.MonthlyIncome.String())
		assert.Equal(t, "30000", snapshot.MonthlyExpenses.String())
		assert.Equal(t, "30000", snapshot.AvailableForSavings.String())
		assert.Equal(t, "50", snapshot.SavingsRate.String())
		assert.Equal(t, "moderate", snapshot.RiskProfile)

		assert.Equal(t, "20000", snapshot.CategoryExpenses[transaction.CategoryRent].String())
		assert.Equal(t, "10000", snapshot.CategoryExpenses[transaction.CategoryFood].String())
	})

	t.Run("AveragesOverDistinctMonths", func(t *testing.T) {
		feb := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)

		txs := []*transaction.Transaction{
			tx(transaction.TypeIncome, transaction.CategorySalary, 50000, jan),
			tx(transaction.TypeIncome, transaction.CategorySalary, 50000, feb),
			tx(transaction.TypeExpense, transaction.CategoryRent, 20000, jan),
			tx(transaction.TypeExpense, transaction.CategoryRent, 20000, feb),
		}

		snapshot := p.Analyze(txs, "moderate")

		assert.Equal(t, "50000", snapshot.MonthlyIncome.String())
		assert.Equal(t, "20000", snapshot.MonthlyExpenses.String())
		assert.Equal(t, "30000", snapshot.AvailableForSavings.String())
		assert.Equal(t, "60", snapshot.SavingsRate.String())
		assert.Equal(t, "20000", snapshot.CategoryExpenses[transaction.CategoryRent].String())
	})

	t.Run("SameMonthDifferentYearCountsTwice", func(t *testing.T) {
		lastJan := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

		txs := []*transaction.Transaction{
			tx(transaction.TypeIncome, transaction.CategorySalary, 40000, lastJan),
			tx(transaction.TypeIncome, transaction.CategorySalary, 40000, jan),
		}

		snapshot := p.Analyze(txs, "moderate")

		assert.Equal(t, "40000", snapshot.MonthlyIncome.String())
	})

	t.Run("IgnoresInvestmentAndSavings", func(t *testing.T) {
		txs := []*transaction.Transaction{
			tx(transaction.TypeIncome, transaction.CategorySalary, 60000, jan),
			tx(transaction.TypeInvestment, transaction.CategoryInvestment, 15000, jan),
			tx(transaction.TypeSavings, transaction.CategorySavingsDeposit, 5000, jan),
		}

		snapshot := p.Analyze(txs, "moderate")

		assert.Equal(t, "60000", snapshot.MonthlyIncome.String())
		assert.True(t, snapshot.MonthlyExpenses.IsZero())
		assert.Empty(t, snapshot.CategoryExpenses)
	})

	t.Run("EmptyWindow", func(t *testing.T) {
		snapshot := p.Analyze(nil, "conservative")

		assert.True(t, snapshot.MonthlyIncome.IsZero())
		assert.True(t, snapshot.MonthlyExpenses.IsZero())
		assert.True(t, snapshot.AvailableForSavings.IsZero())
		assert.True(t, snapshot.SavingsRate.IsZero())
		assert.Empty(t, snapshot.CategoryExpenses)
		assert.Equal(t, "conservative", snapshot.RiskProfile)
	})

	t.Run("ZeroIncomeClampsSavingsRate", func(t *testing.T) {
		txs := []*transaction.Transaction{
			tx(transaction.TypeExpense, transaction.CategoryFood, 8000, jan),
		}

		snapshot := p.Analyze(txs, "moderate")

		assert.True(t, snapshot.SavingsRate.IsZero())
		assert.Equal(t, "-8000", snapshot.AvailableForSavings.String())
	})

	t.Run("NegativeRateWhenOverspending", func(t *testing.T) {
		txs := []*transaction.Transaction{
			tx(transaction.TypeIncome, transaction.CategorySalary, 10000, jan),
			tx(transaction.TypeExpense, transaction.CategoryRent, 15000, jan),
		}

		snapshot := p.Analyze(txs, "moderate")

		assert.Equal(t, "-5000", snapshot.AvailableForSavings.String())
		assert.Equal(t, "-50", snapshot.SavingsRate.String())
	})
}

func TestDistinctMonths(t *testing.T) {
	jan := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 1, planner.DistinctMonths(nil))
	assert.Equal(t, 1, planner.DistinctMonths([]*transaction.Transaction{
		tx(transaction.TypeIncome, transaction.CategorySalary, 100, jan),
		tx(transaction.TypeIncome, transaction.CategorySalary, 100, jan.AddDate(0, 0, 10)),
	}))
	assert.Equal(t, 2, planner.DistinctMonths([]*transaction.Transaction{
		tx(transaction.TypeIncome, transaction.CategorySalary, 100, jan),
		tx(transaction.TypeIncome, transaction.CategorySalary, 100, feb),
	}))
}

func TestMonthsBetween(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	type testCase struct {
		name string
		to   time.Time
		want int
	}

	tests := []testCase{
		{name: "TenDaysFloorsToOne", to: start.AddDate(0, 0, 10), want: 1},
		{name: "HundredDays", to: start.AddDate(0, 0, 100), want: 3},
		{name: "Year", to: start.AddDate(0, 0, 365), want: 12},
		{name: "PastDateClampsToOne", to: start.AddDate(0, 0, -40), want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, planner.MonthsBetween(start, tt.to))
		})
	}
}
