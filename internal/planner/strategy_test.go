package planner_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nestegg-dev/nestegg/internal/planner"
)

func capacityWith(available, expenses int64) planner.CapacitySnapshot {
	return planner.CapacitySnapshot{
		MonthlyIncome:       decimal.NewFromInt(available + expenses),
		MonthlyExpenses:     decimal.NewFromInt(expenses),
		AvailableForSavings: decimal.NewFromInt(available),
	}
}

func TestPlanner_Strategies(t *testing.T) {
	p := planner.New(planner.DefaultTuning())

	t.Run("MonthlySavings", func(t *testing.T) {
		capacity := capacityWith(30000, 30000)

		plans := p.Strategies(decimal.NewFromInt(90000), 12, capacity)

		assert.Equal(t, "9000", plans[planner.StrategyEasy].MonthlySaving.String())
		assert.Equal(t, "21000", plans[planner.StrategyModerate].MonthlySaving.String())
		assert.Equal(t, "33000", plans[planner.StrategyAggressive].MonthlySaving.String())
	})

	t.Run("OrderingHoldsAcrossCapacities", func(t *testing.T) {
		capacities := []planner.CapacitySnapshot{
			capacityWith(30000, 30000),
			capacityWith(500, 45000),
			capacityWith(0, 20000),
			capacityWith(100000, 0),
		}

		for _, capacity := range capacities {
			plans := p.Strategies(decimal.NewFromInt(50000), 6, capacity)

			easy := plans[planner.StrategyEasy].MonthlySaving
			moderate := plans[planner.StrategyModerate].MonthlySaving
			aggressive := plans[planner.StrategyAggressive].MonthlySaving

			assert.True(t, moderate.GreaterThanOrEqual(easy), "moderate %s < easy %s", moderate, easy)
			assert.True(t, aggressive.GreaterThanOrEqual(moderate), "aggressive %s < moderate %s", aggressive, moderate)
		}
	})

	t.Run("TimeToGoal", func(t *testing.T) {
		capacity := capacityWith(30000, 30000)

		plans := p.Strategies(decimal.NewFromInt(90000), 12, capacity)

		easy := plans[planner.StrategyEasy]
		require.NotNil(t, easy.TimeToGoal)
		assert.Equal(t, "10", easy.TimeToGoal.String())

		moderate := plans[planner.StrategyModerate]
		require.NotNil(t, moderate.TimeToGoal)
		assert.Equal(t, "4.3", moderate.TimeToGoal.String())
	})

	t.Run("UnboundedWhenNothingToSave", func(t *testing.T) {
		capacity := capacityWith(0, 0)

		plans := p.Strategies(decimal.NewFromInt(90000), 12, capacity)

		for name, plan := range plans {
			assert.Nil(t, plan.TimeToGoal, "strategy %s", name)
			assert.True(t, plan.MonthlySaving.IsZero(), "strategy %s", name)
		}
	})

	t.Run("BreakdownSumsToMonthlySaving", func(t *testing.T) {
		capacity := capacityWith(30000, 30000)

		plans := p.Strategies(decimal.NewFromInt(90000), 12, capacity)

		tolerance := decimal.NewFromFloat(0.05)

		for name, plan := range plans {
			var sum decimal.Decimal
			for _, part := range plan.Breakdown {
				sum = sum.Add(part)
			}

			diff := sum.Sub(plan.MonthlySaving).Abs()
			assert.True(t, diff.LessThanOrEqual(tolerance), "strategy %s: breakdown sums to %s, monthly saving %s", name, sum, plan.MonthlySaving)
		}
	})

	t.Run("AggressiveAdditionalIncome", func(t *testing.T) {
		capacity := capacityWith(30000, 30000)

		plans := p.Strategies(decimal.NewFromInt(120000), 3, capacity)

		aggressive := plans[planner.StrategyAggressive]
		assert.Equal(t, "7000", aggressive.AdditionalIncomeNeeded.String())

		assert.True(t, plans[planner.StrategyEasy].AdditionalIncomeNeeded.IsZero())
		assert.True(t, plans[planner.StrategyModerate].AdditionalIncomeNeeded.IsZero())
	})

	t.Run("NoAdditionalIncomeWhenDeadlineMet", func(t *testing.T) {
		capacity := capacityWith(30000, 30000)

		plans := p.Strategies(decimal.NewFromInt(60000), 12, capacity)

		assert.True(t, plans[planner.StrategyAggressive].AdditionalIncomeNeeded.IsZero())
	})

	t.Run("Labels", func(t *testing.T) {
		plans := p.Strategies(decimal.NewFromInt(1000), 6, capacityWith(1000, 1000))

		assert.Equal(t, "High - Easy to achieve", plans[planner.StrategyEasy].Feasibility)
		assert.Equal(t, "Minimal - Small adjustments only", plans[planner.StrategyEasy].LifestyleImpact)
		assert.Equal(t, "Medium - Requires discipline", plans[planner.StrategyModerate].Feasibility)
		assert.Equal(t, "Moderate - Noticeable changes", plans[planner.StrategyModerate].LifestyleImpact)
		assert.Equal(t, "Challenging - Requires significant effort", plans[planner.StrategyAggressive].Feasibility)
		assert.Equal(t, "Significant - Major changes required", plans[planner.StrategyAggressive].LifestyleImpact)
	})
}

func TestFeasibilityScore(t *testing.T) {
	type testCase struct {
		name      string
		saving    int64
		available int64
		want      int
	}

	tests := []testCase{
		{name: "EasyShareScoresHighest", saving: 9000, available: 30000, want: 95},
		{name: "HalfOfCapacity", saving: 15000, available: 30000, want: 75},
		{name: "MostOfCapacity", saving: 27000, available: 30000, want: 50},
		{name: "BeyondCapacity", saving: 33000, available: 30000, want: 25},
		{name: "NoCapacity", saving: 5000, available: 0, want: 0},
		{name: "NegativeCapacity", saving: 5000, available: -2000, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := planner.StrategyPlan{MonthlySaving: decimal.NewFromInt(tt.saving)}
			capacity := planner.CapacitySnapshot{AvailableForSavings: decimal.NewFromInt(tt.available)}

			got := planner.FeasibilityScore(plan, capacity)

			assert.Equal(t, tt.want, got)
			assert.Contains(t, []int{0, 25, 50, 75, 95}, got)
		})
	}
}
