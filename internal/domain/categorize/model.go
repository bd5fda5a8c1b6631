package categorize

import "homebase-go/internal/domain/ledger"

// Suggestion is an accepted model answer: a known expense category with a
// confidence in [0,1].
type Suggestion struct {
	Category   ledger.Category `json:"category"`
	Confidence float64         `json:"confidence"`
}

// RawSuggestion is what the model returned before it is checked.
type RawSuggestion struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}
