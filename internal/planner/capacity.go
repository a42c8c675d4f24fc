package planner

import (
	"github.com/shopspring/decimal"

	"github.com/nestegg-dev/nestegg/internal/transaction"
)

var hundred = decimal.NewFromInt(100)

// CapacitySnapshot summarizes what a user earns, spends and can set
// aside per month, averaged over the analyzed window.
type CapacitySnapshot struct {
	MonthlyIncome       decimal.Decimal
	MonthlyExpenses     decimal.Decimal
	AvailableForSavings decimal.Decimal
	SavingsRate         decimal.Decimal
	CategoryExpenses    map[transaction.Category]decimal.Decimal
	RiskProfile         string
}

// Analyze averages the given transactions into a monthly capacity
// snapshot. Totals are divided by the number of distinct calendar
// months present, so a partial window does not overstate capacity.
// An empty window yields a zero snapshot, not an error.
func (p *Planner) Analyze(txs []*transaction.Transaction, riskProfile string) CapacitySnapshot {
	months := decimal.NewFromInt(int64(DistinctMonths(txs)))

	var totalIncome, totalExpenses decimal.Decimal

	categoryTotals := make(map[transaction.Category]decimal.Decimal)

	for _, tx := range txs {
		switch tx.Type {
		case transaction.TypeIncome:
			totalIncome = totalIncome.Add(tx.Amount)
		case transaction.TypeExpense:
			totalExpenses = totalExpenses.Add(tx.Amount)
			categoryTotals[tx.Category] = categoryTotals[tx.Category].Add(tx.Amount)
		}
	}

	monthlyIncome := totalIncome.Div(months)
	monthlyExpenses := totalExpenses.Div(months)
	available := monthlyIncome.Sub(monthlyExpenses)

	savingsRate := decimal.Zero
	if monthlyIncome.IsPositive() {
		savingsRate = available.Div(monthlyIncome).Mul(hundred)
	}

	categoryAverages := make(map[transaction.Category]decimal.Decimal, len(categoryTotals))
	for cat, total := range categoryTotals {
		categoryAverages[cat] = total.Div(months).Round(2)
	}

	return CapacitySnapshot{
		MonthlyIncome:       monthlyIncome.Round(2),
		MonthlyExpenses:     monthlyExpenses.Round(2),
		AvailableForSavings: available.Round(2),
		SavingsRate:         savingsRate.Round(2),
		CategoryExpenses:    categoryAverages,
		RiskProfile:         riskProfile,
	}
}
