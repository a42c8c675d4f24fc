package planner

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProgressStatus string

const (
	StatusAhead   ProgressStatus = "ahead"
	StatusBehind  ProgressStatus = "behind"
	StatusOnTrack ProgressStatus = "on_track"
)

// Progress compares how much of a goal is funded against how much of
// its runway has passed.
type Progress struct {
	CurrentAmount          decimal.Decimal
	TargetAmount           decimal.Decimal
	ProgressPercentage     decimal.Decimal
	AmountRemaining        decimal.Decimal
	TimeProgressPercentage decimal.Decimal
	DaysElapsed            int
	DaysRemaining          int
	MonthsRemaining        decimal.Decimal
	OnTrack                bool
	Status                 ProgressStatus

	// ProjectedCompletion extrapolates the contribution rate so far.
	// Nil until the goal has both money and elapsed time to
	// extrapolate from.
	ProjectedCompletion *time.Time
}

// TrackProgress classifies a goal as ahead, behind or on track as of
// now. A goal counts as on track while its funded percentage is within
// the configured tolerance of the elapsed-time percentage.
func (p *Planner) TrackProgress(current, target decimal.Decimal, start, targetDate, now time.Time) Progress {
	progressPct := decimal.Zero
	if target.IsPositive() {
		progressPct = current.Div(target).Mul(hundred)
	}

	totalDays := daysBetween(start, targetDate)
	elapsedDays := daysBetween(start, now)
	remainingDays := daysBetween(now, targetDate)

	timePct := decimal.Zero
	if totalDays > 0 {
		timePct = decimal.NewFromInt(int64(elapsedDays)).Div(decimal.NewFromInt(int64(totalDays))).Mul(hundred)
	}

	threshold := timePct.Mul(p.tuning.OnTrackTolerance)

	status := StatusOnTrack

	switch {
	case progressPct.GreaterThan(timePct):
		status = StatusAhead
	case progressPct.LessThan(threshold):
		status = StatusBehind
	}

	var projected *time.Time

	if current.IsPositive() && elapsedDays > 0 {
		dailyRate := current.Div(decimal.NewFromInt(int64(elapsedDays)))
		if dailyRate.IsPositive() {
			daysToComplete, _ := target.Sub(current).Div(dailyRate).Float64()
			projected = new(now.Add(time.Duration(daysToComplete * 24 * float64(time.Hour))))
		}
	}

	daysRemaining := remainingDays
	if daysRemaining < 0 {
		daysRemaining = 0
	}

	monthsRemaining := decimal.NewFromInt(int64(remainingDays)).Div(decimal.NewFromInt(30)).Round(2)
	if monthsRemaining.IsNegative() {
		monthsRemaining = decimal.Zero
	}

	return Progress{
		CurrentAmount:          current,
		TargetAmount:           target,
		ProgressPercentage:     progressPct.Round(2),
		AmountRemaining:        target.Sub(current),
		TimeProgressPercentage: timePct.Round(2),
		DaysElapsed:            elapsedDays,
		DaysRemaining:          daysRemaining,
		MonthsRemaining:        monthsRemaining,
		OnTrack:                progressPct.GreaterThanOrEqual(threshold),
		Status:                 status,
		ProjectedCompletion:    projected,
	}
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
