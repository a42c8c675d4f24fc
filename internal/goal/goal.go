package goal

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nestegg-dev/nestegg/internal/planner"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusPaused    Status = "paused"
	StatusFailed    Status = "failed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusPaused, StatusFailed:
		return true
	}

	return false
}

// Term buckets a goal by its runway at creation time.
type Term string

const (
	TermShort  Term = "short_term"
	TermMedium Term = "medium_term"
	TermLong   Term = "long_term"
)

// TermForMonths classifies a runway of whole months: under a year is
// short, under three years is medium, anything longer is long.
func TermForMonths(months int) Term {
	switch {
	case months < 12:
		return TermShort
	case months < 36:
		return TermMedium
	default:
		return TermLong
	}
}

type Category string

const (
	CategoryEmergency  Category = "emergency"
	CategoryEducation  Category = "education"
	CategoryTravel     Category = "travel"
	CategoryHome       Category = "home"
	CategoryVehicle    Category = "vehicle"
	CategoryWedding    Category = "wedding"
	CategoryRetirement Category = "retirement"
	CategoryBusiness   Category = "business"
	CategoryInvestment Category = "investment"
	CategoryOther      Category = "other"
)

var Categories = []Category{
	CategoryEmergency, CategoryEducation, CategoryTravel, CategoryHome,
	CategoryVehicle, CategoryWedding, CategoryRetirement, CategoryBusiness,
	CategoryInvestment, CategoryOther,
}

func (c Category) Known() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}

	return false
}

// Milestone is one entry in a goal's contribution history. The
// sequence is append-only.
type Milestone struct {
	Date         time.Time
	Amount       decimal.Decimal
	Percentage   decimal.Decimal
	Contribution decimal.Decimal
	Note         string
}

type Goal struct {
	ID     uuid.UUID
	UserID uuid.UUID

	Name        string
	Description string

	TargetAmount  decimal.Decimal
	CurrentAmount decimal.Decimal
	StartDate     time.Time
	TargetDate    time.Time

	Term     Term
	Status   Status
	Category Category
	Priority int

	Strategy            planner.Strategy
	MonthlyContribution decimal.Decimal

	Milestones         []Milestone
	TotalContributed   decimal.Decimal
	LastContributionAt *time.Time

	// Version guards read-modify-write updates. The store refuses a
	// write when the stored version no longer matches.
	Version int

	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
	DeletedAt   *time.Time
}

var hundred = decimal.NewFromInt(100)

// Progress is the funded share of the target in percent. It is always
// derived from the amounts, never stored.
func (g *Goal) Progress() decimal.Decimal {
	if !g.TargetAmount.IsPositive() {
		return decimal.Zero
	}

	return g.CurrentAmount.Div(g.TargetAmount).Mul(hundred).Round(2)
}

// AmountNeeded is what is still missing to reach the target. Negative
// once the goal has been overfunded.
func (g *Goal) AmountNeeded() decimal.Decimal {
	return g.TargetAmount.Sub(g.CurrentAmount)
}
