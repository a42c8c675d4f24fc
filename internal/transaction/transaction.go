package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type represents the kind of money movement a transaction records.
type Type string

const (
	TypeIncome     Type = "income"
	TypeExpense    Type = "expense"
	TypeInvestment Type = "investment"
	TypeSavings    Type = "savings"
)

// Valid reports whether t is one of the known transaction types.
func (t Type) Valid() bool {
	switch t {
	case TypeIncome, TypeExpense, TypeInvestment, TypeSavings:
		return true
	}

	return false
}

// Category labels what a transaction was for. The set is open: stores
// accept any non-empty value, but these are the ones the rest of the
// system knows how to reason about.
type Category string

const (
	// Income categories.
	CategorySalary           Category = "salary"
	CategoryBusiness         Category = "business"
	CategoryFreelance        Category = "freelance"
	CategoryInvestmentIncome Category = "investment_income"
	CategoryOtherIncome      Category = "other_income"

	// Expense categories.
	CategoryFood           Category = "food"
	CategoryTransport      Category = "transport"
	CategoryShopping       Category = "shopping"
	CategoryUtilities      Category = "utilities"
	CategoryEntertainment  Category = "entertainment"
	CategoryHealthcare     Category = "healthcare"
	CategoryEducation      Category = "education"
	CategoryRent           Category = "rent"
	CategoryEMI            Category = "emi"
	CategoryInsurance      Category = "insurance"
	CategoryInvestment     Category = "investment"
	CategorySavingsDeposit Category = "savings_deposit"
	CategoryOther          Category = "other"
)

// Categories lists every known category.
var Categories = []Category{
	CategorySalary, CategoryBusiness, CategoryFreelance,
	CategoryInvestmentIncome, CategoryOtherIncome,
	CategoryFood, CategoryTransport, CategoryShopping, CategoryUtilities,
	CategoryEntertainment, CategoryHealthcare, CategoryEducation,
	CategoryRent, CategoryEMI, CategoryInsurance, CategoryInvestment,
	CategorySavingsDeposit, CategoryOther,
}

// Known reports whether c is one of the predefined categories.
func (c Category) Known() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}

	return false
}

// Transaction represents a single money movement recorded by a user.
// Amount is always positive; Type carries the direction.
type Transaction struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Type           Type
	Category       Category
	Amount         decimal.Decimal
	Description    string
	RawDescription string // as parsed from a statement, before any cleanup
	Date           time.Time
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
}
