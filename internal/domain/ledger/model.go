package ledger

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

type Category string

const (
	CategoryGroceries      Category = "Groceries"
	CategoryUtilities      Category = "Utilities"
	CategoryRent           Category = "Rent"
	CategoryTransportation Category = "Transportation"
	CategoryEntertainment  Category = "Entertainment"
	CategoryEatingOut      Category = "Eating Out"
	CategoryShopping       Category = "Shopping"
	CategoryHealth         Category = "Health"
	CategoryTravel         Category = "Travel"
	CategoryEducation      Category = "Education"
	CategoryPersonalCare   Category = "Personal Care"
	CategoryGifts          Category = "Gifts"
	CategoryOther          Category = "Other"

	CategorySalary     Category = "Salary"
	CategoryFreelance  Category = "Freelance"
	CategoryInvestment Category = "Investment"
)

var expenseCategories = []Category{
	CategoryGroceries,
	CategoryUtilities,
	CategoryRent,
	CategoryTransportation,
	CategoryEntertainment,
	CategoryEatingOut,
	CategoryShopping,
	CategoryHealth,
	CategoryTravel,
	CategoryEducation,
	CategoryPersonalCare,
	CategoryGifts,
	CategoryOther,
}

var incomeCategories = []Category{
	CategorySalary,
	CategoryFreelance,
	CategoryInvestment,
	CategoryGifts,
	CategoryOther,
}

func ExpenseCategories() []Category {
	return append([]Category(nil), expenseCategories...)
}

func IncomeCategories() []Category {
	return append([]Category(nil), incomeCategories...)
}

func CategoriesFor(t Type) []Category {
	switch t {
	case TypeIncome:
		return IncomeCategories()
	case TypeExpense:
		return ExpenseCategories()
	default:
		return nil
	}
}

// ParseCategory matches raw against the categories of t ignoring case and
// repeated whitespace, and returns the canonical value.
func ParseCategory(t Type, raw string) (Category, bool) {
	key := foldCategory(raw)
	if key == "" {
		return "", false
	}
	for _, category := range CategoriesFor(t) {
		if foldCategory(string(category)) == key {
			return category, true
		}
	}
	return "", false
}

func foldCategory(value string) string {
	return cases.Fold().String(strings.Join(strings.Fields(value), " "))
}

type Transaction struct {
	ID          string
	HouseholdID string
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Type        Type
	Category    Category
	CreatedBy   string
	CreatedAt   time.Time
}

type Budget struct {
	HouseholdID string
	Category    Category
	Amount      decimal.Decimal
	UpdatedAt   time.Time
}

type ListFilter struct {
	From     *time.Time
	To       *time.Time
	Type     Type
	Category Category
	Limit    int
	Offset   int
}

type CreateTransactionInput struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Type        Type
	Category    string
	CreatedBy   string
}
