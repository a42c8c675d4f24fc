package planner

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// InvestmentSuggestion pairs an instrument class with its usual return
// range for the goal's horizon.
type InvestmentSuggestion struct {
	Type           string
	ExpectedReturn string
	Risk           string
}

// Recommendation picks one of the three strategies for the user and
// wraps it with templated talking points. All text is assembled from
// the computed numbers, nothing is generated.
type Recommendation struct {
	Strategy         Strategy
	FeasibilityScore int
	Investment       InvestmentSuggestion
	KeyInsights      []string
	Tips             []string
}

var (
	savingsRateComfortable = decimal.NewFromInt(30)
	savingsRateHealthy     = decimal.NewFromInt(15)
)

// Recommend chooses a strategy from the user's savings rate. Strong
// savers get pointed at the moderate plan, decent savers can take the
// easy one, and everyone else needs the aggressive plan to have a
// realistic shot.
func (p *Planner) Recommend(category string, monthsToGoal int, capacity CapacitySnapshot, plans map[Strategy]StrategyPlan) Recommendation {
	strategy := StrategyAggressive

	switch {
	case capacity.SavingsRate.GreaterThan(savingsRateComfortable):
		strategy = StrategyModerate
	case capacity.SavingsRate.GreaterThan(savingsRateHealthy):
		strategy = StrategyEasy
	}

	plan := plans[strategy]

	return Recommendation{
		Strategy:         strategy,
		FeasibilityScore: FeasibilityScore(plan, capacity),
		Investment:       investmentForHorizon(monthsToGoal),
		KeyInsights:      keyInsights(strategy, plan, capacity),
		Tips:             savingTips(category),
	}
}

func investmentForHorizon(monthsToGoal int) InvestmentSuggestion {
	switch {
	case monthsToGoal < 12:
		return InvestmentSuggestion{Type: "liquid_funds", ExpectedReturn: "5-6% p.a.", Risk: "low"}
	case monthsToGoal < 36:
		return InvestmentSuggestion{Type: "debt_funds", ExpectedReturn: "7-9% p.a.", Risk: "moderate"}
	default:
		return InvestmentSuggestion{Type: "balanced_funds", ExpectedReturn: "10-12% p.a.", Risk: "moderate"}
	}
}

func keyInsights(strategy Strategy, plan StrategyPlan, capacity CapacitySnapshot) []string {
	insights := []string{
		fmt.Sprintf("You need to save ₹%s per month", groupThousands(plan.MonthlySaving.Round(0).StringFixed(0))),
		fmt.Sprintf("Current savings rate: %s%%", capacity.SavingsRate.StringFixed(1)),
	}

	if plan.TimeToGoal != nil {
		insights = append(insights, fmt.Sprintf("Goal achievable in %s months with %s strategy", plan.TimeToGoal.StringFixed(1), strategy))
	} else {
		insights = append(insights, fmt.Sprintf("Goal not reachable with %s strategy at current capacity", strategy))
	}

	return insights
}

// groupThousands inserts comma separators into a plain integer string.
func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var b strings.Builder

	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
	}

	for i := pre; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}

		b.WriteString(s[i : i+3])
	}

	if neg {
		return "-" + b.String()
	}

	return b.String()
}

var tipsByCategory = map[string][]string{
	"travel": {
		"Book flights 2-3 months in advance for better deals",
		"Consider off-season travel for significant savings",
		"Use travel rewards credit cards",
	},
	"education": {
		"Look for scholarships and grants",
		"Consider online courses for skill development",
		"Compare education loan options",
	},
	"home": {
		"Improve credit score for better loan rates",
		"Save at least 20% for down payment",
		"Research government housing schemes",
	},
	"emergency": {
		"Automate monthly transfers to emergency fund",
		"Keep in high-yield savings account",
		"Aim for 6 months of expenses",
	},
	"wedding": {
		"Create detailed budget and stick to it",
		"Consider wedding loans with low interest",
		"Prioritize essential expenses",
	},
}

var defaultTips = []string{
	"Set up automatic transfers on payday",
	"Track all expenses to identify savings opportunities",
	"Review and cut unnecessary subscriptions",
}

func savingTips(category string) []string {
	if tips, ok := tipsByCategory[category]; ok {
		return tips
	}

	return defaultTips
}
