package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"homebase-go/internal/domain/ledger"
)

// Period is an inclusive range of calendar days.
type Period struct {
	From time.Time
	To   time.Time
}

type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Count   int64
}

type SummaryResult struct {
	Income           decimal.Decimal `json:"income"`
	Expense          decimal.Decimal `json:"expense"`
	Balance          decimal.Decimal `json:"balance"`
	Count            int64           `json:"count"`
	AvgExpensePerDay decimal.Decimal `json:"avg_expense_per_day"`
}

type ByCategoryRow struct {
	Category ledger.Category `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int64           `json:"count"`
}

type MonthlyRow struct {
	Month   string          `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

type BudgetProgressRow struct {
	Category  ledger.Category `json:"category"`
	Budget    decimal.Decimal `json:"budget"`
	Spent     decimal.Decimal `json:"spent"`
	Remaining decimal.Decimal `json:"remaining"`
	Percent   float64         `json:"percent"`
	Over      bool            `json:"over"`
}

type Dashboard struct {
	From       string              `json:"from"`
	To         string              `json:"to"`
	Summary    SummaryResult       `json:"summary"`
	ByCategory []ByCategoryRow     `json:"by_category"`
	Monthly    []MonthlyRow        `json:"monthly"`
	Budgets    []BudgetProgressRow `json:"budgets"`
}
