package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"homebase-go/internal/domain/apperr"
	ledgerdomain "homebase-go/internal/domain/ledger"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type transactionRow struct {
	ID          string          `gorm:"column:id;type:uuid;primaryKey"`
	HouseholdID string          `gorm:"column:household_id;type:uuid;not null"`
	Date        time.Time       `gorm:"column:date;type:date;not null"`
	Description string          `gorm:"column:description;not null"`
	Amount      decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	Type        string          `gorm:"column:type;not null"`
	Category    string          `gorm:"column:category;not null"`
	CreatedBy   *string         `gorm:"column:created_by;type:uuid"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
}

func (transactionRow) TableName() string {
	return "transactions"
}

type budgetRow struct {
	HouseholdID string          `gorm:"column:household_id;type:uuid;primaryKey"`
	Category    string          `gorm:"column:category;primaryKey"`
	Amount      decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
}

func (budgetRow) TableName() string {
	return "budgets"
}

func (r *PostgresRepository) ListTransactions(ctx context.Context, householdID string, filter ledgerdomain.ListFilter) ([]ledgerdomain.Transaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&transactionRow{}).Where("household_id = ?", householdID)
	if filter.From != nil {
		query = query.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("date <= ?", *filter.To)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", string(filter.Type))
	}
	if filter.Category != "" {
		query = query.Where("category = ?", string(filter.Category))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperr.Unavailable("transactions.count", err)
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var rows []transactionRow
	if err := query.Order("date desc, created_at desc").Find(&rows).Error; err != nil {
		return nil, 0, apperr.Unavailable("transactions.list", err)
	}

	items := make([]ledgerdomain.Transaction, 0, len(rows))
	for _, row := range rows {
		tx, err := decodeTransaction(row)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, tx)
	}
	return items, total, nil
}

func (r *PostgresRepository) GetTransaction(ctx context.Context, householdID, transactionID string) (*ledgerdomain.Transaction, error) {
	if uuid.Validate(transactionID) != nil {
		return nil, ledgerdomain.ErrTransactionNotFound
	}

	var row transactionRow
	if err := r.db.WithContext(ctx).
		Where("household_id = ? AND id = ?", householdID, transactionID).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledgerdomain.ErrTransactionNotFound
		}
		return nil, apperr.Unavailable("transactions.get", err)
	}

	tx, err := decodeTransaction(row)
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *PostgresRepository) CreateTransaction(ctx context.Context, transaction *ledgerdomain.Transaction) error {
	row := transactionRow{
		ID:          transaction.ID,
		HouseholdID: transaction.HouseholdID,
		Date:        transaction.Date,
		Description: transaction.Description,
		Amount:      transaction.Amount,
		Type:        string(transaction.Type),
		Category:    string(transaction.Category),
		CreatedAt:   transaction.CreatedAt,
	}
	if transaction.CreatedBy != "" {
		createdBy := transaction.CreatedBy
		row.CreatedBy = &createdBy
	}

	return apperr.Unavailable("transactions.create", r.db.WithContext(ctx).Create(&row).Error)
}

func (r *PostgresRepository) DeleteTransaction(ctx context.Context, householdID, transactionID string) (bool, error) {
	if uuid.Validate(transactionID) != nil {
		return false, nil
	}

	result := r.db.WithContext(ctx).
		Where("household_id = ? AND id = ?", householdID, transactionID).
		Delete(&transactionRow{})
	if result.Error != nil {
		return false, apperr.Unavailable("transactions.delete", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) ListBudgets(ctx context.Context, householdID string) ([]ledgerdomain.Budget, error) {
	var rows []budgetRow
	if err := r.db.WithContext(ctx).
		Where("household_id = ?", householdID).
		Order("category asc").
		Find(&rows).Error; err != nil {
		return nil, apperr.Unavailable("budgets.list", err)
	}

	budgets := make([]ledgerdomain.Budget, 0, len(rows))
	for _, row := range rows {
		budget, err := decodeBudget(row)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, budget)
	}
	return budgets, nil
}

func (r *PostgresRepository) UpsertBudget(ctx context.Context, budget *ledgerdomain.Budget) error {
	row := budgetRow{
		HouseholdID: budget.HouseholdID,
		Category:    string(budget.Category),
		Amount:      budget.Amount,
		UpdatedAt:   budget.UpdatedAt,
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "household_id"}, {Name: "category"}},
			DoUpdates: clause.AssignmentColumns([]string{"amount", "updated_at"}),
		}).
		Create(&row).Error
	return apperr.Unavailable("budgets.upsert", err)
}

func decodeTransaction(row transactionRow) (ledgerdomain.Transaction, error) {
	kind := ledgerdomain.Type(row.Type)
	if !kind.Valid() {
		return ledgerdomain.Transaction{}, apperr.Decode("transaction", row.ID, "unknown type "+row.Type)
	}
	category, ok := ledgerdomain.ParseCategory(kind, row.Category)
	if !ok {
		return ledgerdomain.Transaction{}, apperr.Decode("transaction", row.ID, "unknown category "+row.Category)
	}
	if !row.Amount.IsPositive() {
		return ledgerdomain.Transaction{}, apperr.Decode("transaction", row.ID, "non-positive amount")
	}

	tx := ledgerdomain.Transaction{
		ID:          row.ID,
		HouseholdID: row.HouseholdID,
		Date:        time.Date(row.Date.Year(), row.Date.Month(), row.Date.Day(), 0, 0, 0, 0, time.UTC),
		Description: row.Description,
		Amount:      row.Amount,
		Type:        kind,
		Category:    category,
		CreatedAt:   row.CreatedAt,
	}
	if row.CreatedBy != nil {
		tx.CreatedBy = *row.CreatedBy
	}
	return tx, nil
}

func decodeBudget(row budgetRow) (ledgerdomain.Budget, error) {
	category, ok := ledgerdomain.ParseCategory(ledgerdomain.TypeExpense, row.Category)
	if !ok {
		return ledgerdomain.Budget{}, apperr.Decode("budget", row.Category, "unknown category")
	}
	if !row.Amount.IsPositive() {
		return ledgerdomain.Budget{}, apperr.Decode("budget", row.Category, "non-positive amount")
	}
	return ledgerdomain.Budget{
		HouseholdID: row.HouseholdID,
		Category:    category,
		Amount:      row.Amount,
		UpdatedAt:   row.UpdatedAt,
	}, nil
}
