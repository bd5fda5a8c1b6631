package categorize

import (
	"context"

	"homebase-go/internal/domain/ledger"
)

//go:generate mockgen -source=suggester.go -destination=suggester_mock.go -package=categorize

// Suggester asks a model to pick one of categories for a transaction
// description.
type Suggester interface {
	Suggest(ctx context.Context, description string, categories []ledger.Category) (RawSuggestion, error)
}
