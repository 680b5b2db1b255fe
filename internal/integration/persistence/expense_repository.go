package persistence

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
	"github.com/expense-tracker/backend/internal/integration/persistence/model"
)

// expenseRepository implements the adapter.ExpenseRepository interface.
type expenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository creates a new expense repository instance.
func NewExpenseRepository(db *gorm.DB) adapter.ExpenseRepository {
	return &expenseRepository{
		db: db,
	}
}

// Create creates a new expense in the database.
func (r *expenseRepository) Create(ctx context.Context, expense *entity.Expense) error {
	expenseModel := model.ExpenseFromEntity(expense)
	result := r.db.WithContext(ctx).Create(expenseModel)
	if result.Error != nil {
		return result.Error
	}
	expense.ID = expenseModel.ID
	return nil
}

// FindByID retrieves an expense by its ID, scoped to the owning user.
func (r *expenseRepository) FindByID(ctx context.Context, id, userID int64) (*entity.Expense, error) {
	var expenseModel model.ExpenseModel
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&expenseModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrExpenseNotFound
		}
		return nil, result.Error
	}
	return expenseModel.ToEntity(), nil
}

// FindByIDWithCategory retrieves an expense with its category by ID.
func (r *expenseRepository) FindByIDWithCategory(ctx context.Context, id, userID int64) (*entity.ExpenseWithCategory, error) {
	var expenseModel model.ExpenseModel
	result := r.db.WithContext(ctx).
		Preload("Category").
		Where("id = ? AND user_id = ?", id, userID).
		First(&expenseModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrExpenseNotFound
		}
		return nil, result.Error
	}
	return expenseModel.ToEntityWithCategory(), nil
}

// FindByFilter retrieves one page of expenses matching the filter.
func (r *expenseRepository) FindByFilter(ctx context.Context, userID int64, filter adapter.ExpenseFilter, pagination adapter.ExpensePagination) (*entity.ExpenseListResult, error) {
	eq := NewExpenseQuery(userID).ApplyFilter(filter)
	query := eq.Scope(r.db.WithContext(ctx).Model(&model.ExpenseModel{}))

	// Get total count
	var total int64
	countQuery := query.Session(&gorm.Session{})
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, err
	}

	// Calculate pagination; an empty result has zero pages
	offset := (pagination.Page - 1) * pagination.Limit
	totalPages := int((total + int64(pagination.Limit) - 1) / int64(pagination.Limit))

	var expenseModels []model.ExpenseModel
	result := query.
		Preload("Category").
		Order("expense_date DESC, created_at DESC").
		Offset(offset).
		Limit(pagination.Limit).
		Find(&expenseModels)
	if result.Error != nil {
		return nil, result.Error
	}

	expenses := make([]*entity.ExpenseWithCategory, len(expenseModels))
	for i, em := range expenseModels {
		expenses[i] = em.ToEntityWithCategory()
	}

	return &entity.ExpenseListResult{
		Expenses:   expenses,
		Total:      total,
		Page:       pagination.Page,
		Limit:      pagination.Limit,
		TotalPages: totalPages,
	}, nil
}

// FindForAggregation retrieves all expenses matching the filter with their
// categories joined, without pagination.
func (r *expenseRepository) FindForAggregation(ctx context.Context, userID int64, filter adapter.ExpenseFilter) ([]*entity.ExpenseWithCategory, error) {
	eq := NewExpenseQuery(userID).ApplyFilter(filter)

	var expenseModels []model.ExpenseModel
	result := eq.Scope(r.db.WithContext(ctx).Model(&model.ExpenseModel{})).
		Preload("Category").
		Order("expense_date DESC, created_at DESC").
		Find(&expenseModels)
	if result.Error != nil {
		return nil, result.Error
	}

	expenses := make([]*entity.ExpenseWithCategory, len(expenseModels))
	for i, em := range expenseModels {
		expenses[i] = em.ToEntityWithCategory()
	}
	return expenses, nil
}

// GetTotals calculates the summed amount and row count for the filter.
func (r *expenseRepository) GetTotals(ctx context.Context, userID int64, filter adapter.ExpenseFilter) (*entity.ExpenseTotals, error) {
	eq := NewExpenseQuery(userID).ApplyFilter(filter)

	var row struct {
		Amount decimal.Decimal
		Count  int64
	}
	result := eq.Scope(r.db.WithContext(ctx).Model(&model.ExpenseModel{})).
		Select("COALESCE(SUM(amount), 0) as amount, COUNT(*) as count").
		Scan(&row)
	if result.Error != nil {
		return nil, result.Error
	}

	return &entity.ExpenseTotals{
		Amount: row.Amount,
		Count:  row.Count,
	}, nil
}

// Update updates an existing expense in the database.
func (r *expenseRepository) Update(ctx context.Context, expense *entity.Expense) error {
	expenseModel := model.ExpenseFromEntity(expense)
	result := r.db.WithContext(ctx).
		Model(&model.ExpenseModel{}).
		Where("id = ? AND user_id = ?", expense.ID, expense.UserID).
		Updates(map[string]any{
			"category_id":  expenseModel.CategoryID,
			"amount":       expenseModel.Amount,
			"description":  expenseModel.Description,
			"expense_date": expenseModel.ExpenseDate,
			"updated_at":   expenseModel.UpdatedAt,
		})
	return result.Error
}

// Delete removes an expense from the database.
func (r *expenseRepository) Delete(ctx context.Context, id, userID int64) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.ExpenseModel{})
	return result.Error
}

// CountByCategory counts expenses referencing the given category.
func (r *expenseRepository) CountByCategory(ctx context.Context, categoryID, userID int64) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&model.ExpenseModel{}).
		Where("category_id = ? AND user_id = ?", categoryID, userID).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}
