package planner

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nestegg-dev/nestegg/internal/transaction"
)

// Tuning holds the strategy rates and the on-track tolerance. The
// defaults are product-tuned values carried over from the launch
// version, not derived from anything.
type Tuning struct {
	EasyShare            decimal.Decimal
	ModerateShare        decimal.Decimal
	ModerateExpenseCut   decimal.Decimal
	AggressiveShare      decimal.Decimal
	AggressiveExpenseCut decimal.Decimal
	OnTrackTolerance     decimal.Decimal
}

func DefaultTuning() Tuning {
	return Tuning{
		EasyShare:            decimal.NewFromFloat(0.30),
		ModerateShare:        decimal.NewFromFloat(0.60),
		ModerateExpenseCut:   decimal.NewFromFloat(0.10),
		AggressiveShare:      decimal.NewFromFloat(0.90),
		AggressiveExpenseCut: decimal.NewFromFloat(0.20),
		OnTrackTolerance:     decimal.NewFromFloat(0.90),
	}
}

// Planner derives savings capacity, strategies and progress from data
// the caller already loaded. It holds no state besides its tuning and
// never talks to storage.
type Planner struct {
	tuning Tuning
}

func New(tuning Tuning) *Planner {
	return &Planner{tuning: tuning}
}

// MonthsBetween converts the span between two dates into whole months
// of 30 days, never less than one.
func MonthsBetween(from, to time.Time) int {
	days := int(to.Sub(from).Hours() / 24)

	months := days / 30
	if months < 1 {
		return 1
	}

	return months
}

// DistinctMonths counts the calendar months covered by the given
// transactions. Returns at least 1 so monthly averages never divide
// by zero.
func DistinctMonths(txs []*transaction.Transaction) int {
	type yearMonth struct {
		year  int
		month time.Month
	}

	seen := make(map[yearMonth]struct{}, len(txs))
	for _, tx := range txs {
		seen[yearMonth{tx.Date.Year(), tx.Date.Month()}] = struct{}{}
	}

	if len(seen) == 0 {
		return 1
	}

	return len(seen)
}
