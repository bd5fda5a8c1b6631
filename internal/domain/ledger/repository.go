package ledger

import "context"

type Repository interface {
	// ListTransactions returns one page ordered by date then creation time,
	// newest first, and the total number of matching records.
	ListTransactions(ctx context.Context, householdID string, filter ListFilter) ([]Transaction, int64, error)
	GetTransaction(ctx context.Context, householdID, transactionID string) (*Transaction, error)
	CreateTransaction(ctx context.Context, transaction *Transaction) error
	DeleteTransaction(ctx context.Context, householdID, transactionID string) (bool, error)
	ListBudgets(ctx context.Context, householdID string) ([]Budget, error)
	// UpsertBudget overwrites the amount when the category already has a cap.
	UpsertBudget(ctx context.Context, budget *Budget) error
}
