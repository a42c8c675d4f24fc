package goal

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ContributionResult summarizes the goal state right after a
// contribution was applied.
type ContributionResult struct {
	NewAmount decimal.Decimal
	Progress  decimal.Decimal
	Status    Status

	// Completed is true only for the contribution that pushed the goal
	// over its target.
	Completed bool

	Milestone Milestone
}

// ApplyContribution adds amount to the goal and appends a milestone.
// Reaching the target flips an active goal to completed exactly once;
// later adjustments never flip it back. The caller owns persisting the
// mutated goal atomically.
func ApplyContribution(g *Goal, amount decimal.Decimal, note string, now time.Time) (ContributionResult, error) {
	if !amount.IsPositive() {
		return ContributionResult{}, fmt.Errorf("%w: contribution amount must be positive", ErrInvalidInput)
	}

	g.CurrentAmount = g.CurrentAmount.Add(amount)
	g.TotalContributed = g.TotalContributed.Add(amount)
	g.LastContributionAt = new(now)

	completed := false
	if g.Status == StatusActive && g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount) {
		g.Status = StatusCompleted
		g.CompletedAt = new(now)
		completed = true
	}

	milestone := Milestone{
		Date:         now,
		Amount:       g.CurrentAmount,
		Percentage:   g.Progress(),
		Contribution: amount,
		Note:         note,
	}
	g.Milestones = append(g.Milestones, milestone)

	return ContributionResult{
		NewAmount: g.CurrentAmount,
		Progress:  milestone.Percentage,
		Status:    g.Status,
		Completed: completed,
		Milestone: milestone,
	}, nil
}
