package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"homebase-go/internal/domain/apperr"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// maxAmount is the first value a numeric(12,2) column cannot hold.
var maxAmount = decimal.New(1, 10)

// normalizeAmount rounds to cents before checking bounds, so a value that
// rounds to zero is rejected here instead of by the store.
func normalizeAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	rounded := amount.Round(2)
	if !rounded.IsPositive() {
		return decimal.Decimal{}, apperr.Validation("amount", "must be greater than 0")
	}
	if rounded.GreaterThanOrEqual(maxAmount) {
		return decimal.Decimal{}, apperr.Validation("amount", "must be less than 10000000000")
	}
	return rounded, nil
}

type Service struct {
	repo  Repository
	newID func() string
	now   func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:  repo,
		newID: uuid.NewString,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) ListTransactions(ctx context.Context, householdID string, filter ListFilter) ([]Transaction, int64, error) {
	if strings.TrimSpace(householdID) == "" {
		return nil, 0, apperr.Validation("household_id", "is required")
	}
	filter, err := normalizeFilter(filter)
	if err != nil {
		return nil, 0, err
	}

	items, total, err := s.repo.ListTransactions(ctx, householdID, filter)
	if err != nil {
		return nil, 0, err
	}
	if items == nil {
		items = []Transaction{}
	}
	return items, total, nil
}

type transactionRequest struct {
	HouseholdID string `json:"household_id" validate:"required"`
	Description string `json:"description" validate:"required,max=200"`
	Type        string `json:"type" validate:"required,oneof=income expense"`
	Category    string `json:"category" validate:"required"`
}

func (s *Service) AddTransaction(ctx context.Context, householdID string, input CreateTransactionInput) (*Transaction, error) {
	req := transactionRequest{
		HouseholdID: strings.TrimSpace(householdID),
		Description: strings.TrimSpace(input.Description),
		Type:        strings.ToLower(strings.TrimSpace(string(input.Type))),
		Category:    strings.TrimSpace(input.Category),
	}
	if err := apperr.ValidateStruct(req); err != nil {
		return nil, err
	}
	amount, err := normalizeAmount(input.Amount)
	if err != nil {
		return nil, err
	}
	if input.Date.IsZero() {
		return nil, apperr.Validation("date", "is required")
	}

	kind := Type(req.Type)
	category, ok := ParseCategory(kind, req.Category)
	if !ok {
		return nil, apperr.Validation("category", "is not a valid "+string(kind)+" category")
	}

	transaction := Transaction{
		ID:          s.newID(),
		HouseholdID: req.HouseholdID,
		Date:        truncateDay(input.Date),
		Description: req.Description,
		Amount:      amount,
		Type:        kind,
		Category:    category,
		CreatedBy:   strings.TrimSpace(input.CreatedBy),
		CreatedAt:   s.now(),
	}

	if err := s.repo.CreateTransaction(ctx, &transaction); err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (s *Service) GetTransaction(ctx context.Context, householdID, transactionID string) (*Transaction, error) {
	if strings.TrimSpace(transactionID) == "" {
		return nil, apperr.Validation("id", "is required")
	}
	return s.repo.GetTransaction(ctx, householdID, transactionID)
}

func (s *Service) DeleteTransaction(ctx context.Context, householdID, transactionID string) error {
	if strings.TrimSpace(transactionID) == "" {
		return apperr.Validation("id", "is required")
	}
	deleted, err := s.repo.DeleteTransaction(ctx, householdID, transactionID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrTransactionNotFound
	}
	return nil
}

func (s *Service) ListBudgets(ctx context.Context, householdID string) ([]Budget, error) {
	if strings.TrimSpace(householdID) == "" {
		return nil, apperr.Validation("household_id", "is required")
	}
	budgets, err := s.repo.ListBudgets(ctx, householdID)
	if err != nil {
		return nil, err
	}
	if budgets == nil {
		budgets = []Budget{}
	}
	return budgets, nil
}

// SetBudget creates or overwrites the cap for an expense category.
func (s *Service) SetBudget(ctx context.Context, householdID, category string, amount decimal.Decimal) (*Budget, error) {
	householdID = strings.TrimSpace(householdID)
	if householdID == "" {
		return nil, apperr.Validation("household_id", "is required")
	}
	parsed, ok := ParseCategory(TypeExpense, category)
	if !ok {
		return nil, apperr.Validation("category", "is not a valid expense category")
	}
	rounded, err := normalizeAmount(amount)
	if err != nil {
		return nil, err
	}

	budget := Budget{
		HouseholdID: householdID,
		Category:    parsed,
		Amount:      rounded,
		UpdatedAt:   s.now(),
	}
	if err := s.repo.UpsertBudget(ctx, &budget); err != nil {
		return nil, err
	}
	return &budget, nil
}

func normalizeFilter(filter ListFilter) (ListFilter, error) {
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return filter, apperr.Validation("to", "must not be before from")
	}
	if filter.Type != "" && !filter.Type.Valid() {
		return filter, apperr.Validation("type", "must be one of: income expense")
	}
	if filter.Category != "" {
		category, ok := parseAnyCategory(filter.Type, string(filter.Category))
		if !ok {
			return filter, apperr.Validation("category", "is not a valid category")
		}
		filter.Category = category
	}
	if filter.Limit <= 0 {
		filter.Limit = DefaultListLimit
	}
	if filter.Limit > MaxListLimit {
		filter.Limit = MaxListLimit
	}
	if filter.Offset < 0 {
		return filter, apperr.Validation("offset", "must not be negative")
	}
	return filter, nil
}

func parseAnyCategory(t Type, raw string) (Category, bool) {
	if t != "" {
		return ParseCategory(t, raw)
	}
	if category, ok := ParseCategory(TypeExpense, raw); ok {
		return category, true
	}
	return ParseCategory(TypeIncome, raw)
}

func truncateDay(value time.Time) time.Time {
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, time.UTC)
}
