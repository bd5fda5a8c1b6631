package analytics

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	analyticsdomain "homebase-go/internal/domain/analytics"
	"homebase-go/internal/domain/apperr"
	ledgerdomain "homebase-go/internal/domain/ledger"
)

const periodWhere = "t.household_id = ? AND t.date >= ? AND t.date <= ?"

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Totals(ctx context.Context, householdID string, period analyticsdomain.Period) (analyticsdomain.Totals, error) {
	query := "SELECT " +
		"COALESCE(SUM(t.amount) FILTER (WHERE t.type = 'income'), 0) AS income, " +
		"COALESCE(SUM(t.amount) FILTER (WHERE t.type = 'expense'), 0) AS expense, " +
		"COUNT(*) AS count " +
		"FROM transactions t WHERE " + periodWhere

	var row struct {
		Income  decimal.Decimal `gorm:"column:income"`
		Expense decimal.Decimal `gorm:"column:expense"`
		Count   int64           `gorm:"column:count"`
	}
	if err := r.db.WithContext(ctx).Raw(query, householdID, period.From, period.To).Scan(&row).Error; err != nil {
		return analyticsdomain.Totals{}, apperr.Unavailable("analytics.totals", err)
	}

	return analyticsdomain.Totals{Income: row.Income, Expense: row.Expense, Count: row.Count}, nil
}

func (r *PostgresRepository) ByCategory(ctx context.Context, householdID string, period analyticsdomain.Period, kind ledgerdomain.Type) ([]analyticsdomain.ByCategoryRow, error) {
	query := "SELECT t.category AS category, COALESCE(SUM(t.amount), 0) AS total, COUNT(*) AS count " +
		"FROM transactions t WHERE " + periodWhere + " AND t.type = ? " +
		"GROUP BY t.category ORDER BY total DESC, t.category ASC"

	var rows []struct {
		Category string          `gorm:"column:category"`
		Total    decimal.Decimal `gorm:"column:total"`
		Count    int64           `gorm:"column:count"`
	}
	if err := r.db.WithContext(ctx).Raw(query, householdID, period.From, period.To, string(kind)).Scan(&rows).Error; err != nil {
		return nil, apperr.Unavailable("analytics.by_category", err)
	}

	result := make([]analyticsdomain.ByCategoryRow, 0, len(rows))
	for _, row := range rows {
		category, ok := ledgerdomain.ParseCategory(kind, row.Category)
		if !ok {
			return nil, apperr.Decode("category total", row.Category, "unknown "+string(kind)+" category")
		}
		result = append(result, analyticsdomain.ByCategoryRow{Category: category, Total: row.Total, Count: row.Count})
	}
	return result, nil
}

func (r *PostgresRepository) Monthly(ctx context.Context, householdID string, period analyticsdomain.Period) ([]analyticsdomain.MonthlyRow, error) {
	periodExpr := "date_trunc('month', t.date::timestamp)"
	query := "SELECT to_char(" + periodExpr + ", 'YYYY-MM') AS month, " +
		"COALESCE(SUM(t.amount) FILTER (WHERE t.type = 'income'), 0) AS income, " +
		"COALESCE(SUM(t.amount) FILTER (WHERE t.type = 'expense'), 0) AS expense " +
		"FROM transactions t WHERE " + periodWhere + " " +
		"GROUP BY " + periodExpr + " ORDER BY " + periodExpr

	var rows []analyticsdomain.MonthlyRow
	if err := r.db.WithContext(ctx).Raw(query, householdID, period.From, period.To).Scan(&rows).Error; err != nil {
		return nil, apperr.Unavailable("analytics.monthly", err)
	}
	return rows, nil
}
