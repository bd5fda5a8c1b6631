package analytics

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"homebase-go/internal/domain/apperr"
	"homebase-go/internal/domain/ledger"
)

const dateLayout = "2006-01-02"

type Service struct {
	repo    Repository
	budgets BudgetSource
	now     func() time.Time
}

func NewService(repo Repository, budgets BudgetSource) *Service {
	return &Service{
		repo:    repo,
		budgets: budgets,
		now:     time.Now,
	}
}

// NormalizePeriod defaults an empty period to the current month up to today
// and truncates both ends to whole days.
func (s *Service) NormalizePeriod(period Period) (Period, error) {
	current := s.now().UTC()
	if period.From.IsZero() && period.To.IsZero() {
		today := truncateDay(current)
		return Period{From: today.AddDate(0, 0, 1-today.Day()), To: today}, nil
	}
	if period.From.IsZero() {
		return Period{}, apperr.Validation("from", "is required")
	}
	if period.To.IsZero() {
		period.To = current
	}

	period.From = truncateDay(period.From)
	period.To = truncateDay(period.To)
	if period.To.Before(period.From) {
		return Period{}, apperr.Validation("to", "must not be before from")
	}
	return period, nil
}

func (s *Service) Summary(ctx context.Context, householdID string, period Period) (SummaryResult, error) {
	period, err := s.NormalizePeriod(period)
	if err != nil {
		return SummaryResult{}, err
	}

	totals, err := s.repo.Totals(ctx, householdID, period)
	if err != nil {
		return SummaryResult{}, err
	}

	result := SummaryResult{
		Income:           totals.Income,
		Expense:          totals.Expense,
		Balance:          totals.Income.Sub(totals.Expense),
		Count:            totals.Count,
		AvgExpensePerDay: decimal.Zero,
	}
	if days := daysBetweenInclusive(period.From, period.To); days > 0 {
		result.AvgExpensePerDay = totals.Expense.Div(decimal.NewFromInt(int64(days))).Round(2)
	}
	return result, nil
}

func (s *Service) ByCategory(ctx context.Context, householdID string, period Period, kind ledger.Type) ([]ByCategoryRow, error) {
	if kind == "" {
		kind = ledger.TypeExpense
	}
	if !kind.Valid() {
		return nil, apperr.Validation("type", "must be one of income expense")
	}
	period, err := s.NormalizePeriod(period)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.ByCategory(ctx, householdID, period, kind)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []ByCategoryRow{}
	}
	return rows, nil
}

func (s *Service) Monthly(ctx context.Context, householdID string, period Period) ([]MonthlyRow, error) {
	period, err := s.NormalizePeriod(period)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.Monthly(ctx, householdID, period)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []MonthlyRow{}
	}
	return rows, nil
}

// BudgetProgress compares each budget cap with the expenses recorded in its
// category during the period. Budgets are returned in category order.
func (s *Service) BudgetProgress(ctx context.Context, householdID string, period Period) ([]BudgetProgressRow, error) {
	period, err := s.NormalizePeriod(period)
	if err != nil {
		return nil, err
	}

	budgets, err := s.budgets.ListBudgets(ctx, householdID)
	if err != nil {
		return nil, err
	}
	if len(budgets) == 0 {
		return []BudgetProgressRow{}, nil
	}

	spending, err := s.repo.ByCategory(ctx, householdID, period, ledger.TypeExpense)
	if err != nil {
		return nil, err
	}
	return buildBudgetProgress(budgets, spending), nil
}

// Dashboard loads every chart for the period concurrently. The first failure
// cancels the remaining loads.
func (s *Service) Dashboard(ctx context.Context, householdID string, period Period) (Dashboard, error) {
	period, err := s.NormalizePeriod(period)
	if err != nil {
		return Dashboard{}, err
	}

	var (
		summary    SummaryResult
		byCategory []ByCategoryRow
		monthly    []MonthlyRow
		budgets    []ledger.Budget
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary, err = s.Summary(gctx, householdID, period)
		return err
	})
	g.Go(func() error {
		var err error
		byCategory, err = s.ByCategory(gctx, householdID, period, ledger.TypeExpense)
		return err
	})
	g.Go(func() error {
		var err error
		monthly, err = s.Monthly(gctx, householdID, period)
		return err
	})
	g.Go(func() error {
		var err error
		budgets, err = s.budgets.ListBudgets(gctx, householdID)
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}

	return Dashboard{
		From:       period.From.Format(dateLayout),
		To:         period.To.Format(dateLayout),
		Summary:    summary,
		ByCategory: byCategory,
		Monthly:    monthly,
		Budgets:    buildBudgetProgress(budgets, byCategory),
	}, nil
}

func buildBudgetProgress(budgets []ledger.Budget, spending []ByCategoryRow) []BudgetProgressRow {
	spent := make(map[ledger.Category]decimal.Decimal, len(spending))
	for _, row := range spending {
		spent[row.Category] = row.Total
	}

	hundred := decimal.NewFromInt(100)
	rows := make([]BudgetProgressRow, 0, len(budgets))
	for _, budget := range budgets {
		used, ok := spent[budget.Category]
		if !ok {
			used = decimal.Zero
		}
		row := BudgetProgressRow{
			Category:  budget.Category,
			Budget:    budget.Amount,
			Spent:     used,
			Remaining: budget.Amount.Sub(used),
			Over:      used.GreaterThan(budget.Amount),
		}
		if budget.Amount.IsPositive() {
			row.Percent = used.Div(budget.Amount).Mul(hundred).Round(1).InexactFloat64()
		}
		rows = append(rows, row)
	}
	return rows
}

func daysBetweenInclusive(from, to time.Time) int {
	from = truncateDay(from)
	to = truncateDay(to)
	if to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Hours()/24) + 1
}

func truncateDay(value time.Time) time.Time {
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, time.UTC)
}
