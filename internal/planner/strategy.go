package planner

import (
	"github.com/shopspring/decimal"
)

type Strategy string

const (
	StrategyEasy       Strategy = "easy"
	StrategyModerate   Strategy = "moderate"
	StrategyAggressive Strategy = "aggressive"
)

func (s Strategy) Valid() bool {
	switch s {
	case StrategyEasy, StrategyModerate, StrategyAggressive:
		return true
	}

	return false
}

// StrategyPlan is one derived savings plan. It is computed on demand
// and never persisted.
type StrategyPlan struct {
	MonthlySaving decimal.Decimal

	// TimeToGoal is the plan's duration in months. Nil means the plan
	// never reaches the goal because its monthly saving is not positive.
	TimeToGoal *decimal.Decimal

	Feasibility     string
	LifestyleImpact string

	// Breakdown itemizes where the monthly saving comes from. The
	// parts sum to MonthlySaving within rounding.
	Breakdown map[string]decimal.Decimal

	AdditionalIncomeNeeded decimal.Decimal
}

// Strategies builds the three savings plans for the amount still
// needed. monthsToGoal only affects the aggressive plan's
// additional-income figure; each plan's own timeline comes from its
// saving rate.
func (p *Planner) Strategies(amountNeeded decimal.Decimal, monthsToGoal int, capacity CapacitySnapshot) map[Strategy]StrategyPlan {
	return map[Strategy]StrategyPlan{
		StrategyEasy:       p.easyStrategy(amountNeeded, capacity),
		StrategyModerate:   p.moderateStrategy(amountNeeded, capacity),
		StrategyAggressive: p.aggressiveStrategy(amountNeeded, monthsToGoal, capacity),
	}
}

// easyStrategy sets aside 30% of available savings. The goal moves
// slowly but daily life barely changes.
func (p *Planner) easyStrategy(amountNeeded decimal.Decimal, capacity CapacitySnapshot) StrategyPlan {
	monthlySaving := capacity.AvailableForSavings.Mul(p.tuning.EasyShare)

	breakdown := map[string]decimal.Decimal{
		"reduce_dining_out":      monthlySaving.Mul(decimal.NewFromFloat(0.4)).Round(2),
		"reduce_entertainment":   monthlySaving.Mul(decimal.NewFromFloat(0.3)).Round(2),
		"optimize_subscriptions": monthlySaving.Mul(decimal.NewFromFloat(0.3)).Round(2),
	}

	return StrategyPlan{
		MonthlySaving:          monthlySaving.Round(2),
		TimeToGoal:             timeToGoal(amountNeeded, monthlySaving),
		Feasibility:            "High - Easy to achieve",
		LifestyleImpact:        "Minimal - Small adjustments only",
		Breakdown:              breakdown,
		AdditionalIncomeNeeded: decimal.Zero,
	}
}

// moderateStrategy combines 60% of available savings with a 10%
// expense reduction.
func (p *Planner) moderateStrategy(amountNeeded decimal.Decimal, capacity CapacitySnapshot) StrategyPlan {
	fromSavings := capacity.AvailableForSavings.Mul(p.tuning.ModerateShare)
	fromReduction := capacity.MonthlyExpenses.Mul(p.tuning.ModerateExpenseCut)
	monthlySaving := fromSavings.Add(fromReduction)

	expenses := capacity.MonthlyExpenses
	breakdown := map[string]decimal.Decimal{
		"from_available_savings": fromSavings.Round(2),
		"reduce_food_expenses":   expenses.Mul(decimal.NewFromFloat(0.04)).Round(2),
		"reduce_shopping":        expenses.Mul(decimal.NewFromFloat(0.03)).Round(2),
		"reduce_entertainment":   expenses.Mul(decimal.NewFromFloat(0.02)).Round(2),
		"optimize_utilities":     expenses.Mul(decimal.NewFromFloat(0.01)).Round(2),
	}

	return StrategyPlan{
		MonthlySaving:          monthlySaving.Round(2),
		TimeToGoal:             timeToGoal(amountNeeded, monthlySaving),
		Feasibility:            "Medium - Requires discipline",
		LifestyleImpact:        "Moderate - Noticeable changes",
		Breakdown:              breakdown,
		AdditionalIncomeNeeded: decimal.Zero,
	}
}

// aggressiveStrategy commits 90% of available savings plus a 20%
// expense reduction, and reports how much extra income would still be
// needed to hit the deadline exactly.
func (p *Planner) aggressiveStrategy(amountNeeded decimal.Decimal, monthsToGoal int, capacity CapacitySnapshot) StrategyPlan {
	fromSavings := capacity.AvailableForSavings.Mul(p.tuning.AggressiveShare)
	fromReduction := capacity.MonthlyExpenses.Mul(p.tuning.AggressiveExpenseCut)
	monthlySaving := fromSavings.Add(fromReduction)

	requiredMonthly := amountNeeded.Div(decimal.NewFromInt(int64(monthsToGoal)))

	additionalNeeded := requiredMonthly.Sub(monthlySaving)
	if additionalNeeded.IsNegative() {
		additionalNeeded = decimal.Zero
	}

	expenses := capacity.MonthlyExpenses
	breakdown := map[string]decimal.Decimal{
		"from_available_savings":  fromSavings.Round(2),
		"eliminate_subscriptions": expenses.Mul(decimal.NewFromFloat(0.05)).Round(2),
		"minimize_dining_out":     expenses.Mul(decimal.NewFromFloat(0.08)).Round(2),
		"reduce_transport":        expenses.Mul(decimal.NewFromFloat(0.04)).Round(2),
		"other_cuts":              expenses.Mul(decimal.NewFromFloat(0.03)).Round(2),
	}

	return StrategyPlan{
		MonthlySaving:          monthlySaving.Round(2),
		TimeToGoal:             timeToGoal(amountNeeded, monthlySaving),
		Feasibility:            "Challenging - Requires significant effort",
		LifestyleImpact:        "Significant - Major changes required",
		Breakdown:              breakdown,
		AdditionalIncomeNeeded: additionalNeeded.Round(2),
	}
}

// timeToGoal returns the months needed at the given saving rate, or
// nil when the rate is not positive and the goal is out of reach.
func timeToGoal(amountNeeded, monthlySaving decimal.Decimal) *decimal.Decimal {
	if !monthlySaving.IsPositive() {
		return nil
	}

	return new(amountNeeded.Div(monthlySaving).Round(1))
}

var (
	feasibilityRatioHigh   = decimal.NewFromFloat(0.3)
	feasibilityRatioMedium = decimal.NewFromFloat(0.6)
	feasibilityRatioLow    = decimal.NewFromFloat(0.9)
)

// FeasibilityScore grades how much of the user's spare capacity a plan
// consumes. Scores are a fixed step function, not a continuous scale.
func FeasibilityScore(plan StrategyPlan, capacity CapacitySnapshot) int {
	if !capacity.AvailableForSavings.IsPositive() {
		return 0
	}

	ratio := plan.MonthlySaving.Div(capacity.AvailableForSavings)

	switch {
	case ratio.LessThanOrEqual(feasibilityRatioHigh):
		return 95
	case ratio.LessThanOrEqual(feasibilityRatioMedium):
		return 75
	case ratio.LessThanOrEqual(feasibilityRatioLow):
		return 50
	default:
		return 25
	}
}
