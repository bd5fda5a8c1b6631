package handler

import (
	"context"

	"github.com/shopspring/decimal"

	analyticsdomain "homebase-go/internal/domain/analytics"
	categorizedomain "homebase-go/internal/domain/categorize"
	householddomain "homebase-go/internal/domain/household"
	ledgerdomain "homebase-go/internal/domain/ledger"
	"homebase-go/pkg/logger"
)

type HouseholdService interface {
	ListHouseholdsForUser(ctx context.Context, userID string) ([]householddomain.Household, error)
	GetHousehold(ctx context.Context, userID, householdID string) (*householddomain.Household, error)
	CreateHousehold(ctx context.Context, userID, name string) (string, error)
	InviteUser(ctx context.Context, email string, input householddomain.InviteInput) (*householddomain.Invite, error)
	ListPendingInvites(ctx context.Context, userID string) ([]householddomain.Invite, error)
	AcceptInvite(ctx context.Context, userID, inviteID, householdID string) error
	DeclineInvite(ctx context.Context, userID, inviteID string) error
	RequireMember(ctx context.Context, householdID, userID string) error
	ListMembers(ctx context.Context, userID, householdID string) ([]householddomain.MemberProfile, error)
}

type LedgerService interface {
	ListTransactions(ctx context.Context, householdID string, filter ledgerdomain.ListFilter) ([]ledgerdomain.Transaction, int64, error)
	AddTransaction(ctx context.Context, householdID string, input ledgerdomain.CreateTransactionInput) (*ledgerdomain.Transaction, error)
	GetTransaction(ctx context.Context, householdID, transactionID string) (*ledgerdomain.Transaction, error)
	DeleteTransaction(ctx context.Context, householdID, transactionID string) error
	ListBudgets(ctx context.Context, householdID string) ([]ledgerdomain.Budget, error)
	SetBudget(ctx context.Context, householdID, category string, amount decimal.Decimal) (*ledgerdomain.Budget, error)
}

type AnalyticsService interface {
	Dashboard(ctx context.Context, householdID string, period analyticsdomain.Period) (analyticsdomain.Dashboard, error)
}

type CategorizeService interface {
	Suggest(ctx context.Context, description string) (categorizedomain.Suggestion, bool)
}

type Handlers struct {
	Households HouseholdService
	Ledger     LedgerService
	Analytics  AnalyticsService
	Categorize CategorizeService
	log        logger.Logger
}

func New(households HouseholdService, ledger LedgerService, analytics AnalyticsService, categorize CategorizeService, log logger.Logger) *Handlers {
	if log == nil {
		log = logger.Nop()
	}
	return &Handlers{
		Households: households,
		Ledger:     ledger,
		Analytics:  analytics,
		Categorize: categorize,
		log:        log,
	}
}
