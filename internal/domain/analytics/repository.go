package analytics

import (
	"context"

	"homebase-go/internal/domain/ledger"
)

type Repository interface {
	Totals(ctx context.Context, householdID string, period Period) (Totals, error)
	// ByCategory returns totals per category for one transaction type,
	// largest first.
	ByCategory(ctx context.Context, householdID string, period Period, kind ledger.Type) ([]ByCategoryRow, error)
	Monthly(ctx context.Context, householdID string, period Period) ([]MonthlyRow, error)
}

type BudgetSource interface {
	ListBudgets(ctx context.Context, householdID string) ([]ledger.Budget, error)
}
